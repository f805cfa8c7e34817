package endpoints

import (
	"encoding/json"
	"net/http"

	"github.com/certmint/certmint/pkg/identity"
	"github.com/certmint/certmint/pkg/server"
)

// WhoamiResponse represents the response from the /whoami endpoint
type WhoamiResponse struct {
	Address  string `json:"address"`
	TokenIAT int64  `json:"token_iat"`
	TokenExp int64  `json:"token_exp"`
	ClientIP string `json:"client_ip,omitempty"`
}

// RegisterWhoamiEndpoint registers the /whoami endpoint
func RegisterWhoamiEndpoint(s *server.Server) {
	// Create a subrouter for /whoami that uses JWT auth
	whoamiRouter := s.Router.PathPrefix("/whoami").Subrouter()
	whoamiRouter.Use(s.JWTMiddleware.Middleware)

	whoamiRouter.HandleFunc("", handleWhoami()).Methods("GET")
}

func handleWhoami() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := identity.Get(r.Context())
		if !ok {
			http.Error(w, "Unable to determine identity", http.StatusUnauthorized)
			return
		}

		response := WhoamiResponse{
			Address:  id.Address,
			TokenIAT: id.IssuedAt.Unix(),
			TokenExp: id.ExpiresAt.Unix(),
		}
		if id.RemoteIP != nil {
			response.ClientIP = id.RemoteIP.String()
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(response)
	}
}
