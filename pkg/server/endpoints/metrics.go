package endpoints

import (
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/certmint/certmint/pkg/server"
)

// RegisterMetricsEndpoint exposes the Prometheus scrape target when
// metrics are enabled in the configuration
func RegisterMetricsEndpoint(s *server.Server) {
	if s.Config != nil && !s.Config.MetricsEnabled {
		return
	}

	s.Router.Handle("/metrics", promhttp.Handler()).Methods("GET")
}
