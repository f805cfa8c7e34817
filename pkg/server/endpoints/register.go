package endpoints

import (
	"github.com/certmint/certmint/pkg/server"
)

// RegisterAll registers all API endpoints on the server
func RegisterAll(srv *server.Server) {
	RegisterAddressesEndpoints(srv)
	RegisterAuthenticateEndpoint(srv)
	RegisterIssuersEndpoints(srv)
	RegisterCertificatesEndpoints(srv)
	RegisterEventsEndpoints(srv)
	RegisterWhoamiEndpoint(srv)
	RegisterStatusEndpoints(srv)
	RegisterMetricsEndpoint(srv)
	RegisterDocsEndpoints(srv)
}
