package endpoints

import (
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/certmint/certmint/pkg/audit"
	"github.com/certmint/certmint/pkg/authenticator"
	"github.com/certmint/certmint/pkg/metrics"
	"github.com/certmint/certmint/pkg/server"
	"github.com/certmint/certmint/pkg/token"
)

// RegisterAuthenticateEndpoint registers the API key authentication
// endpoint
func RegisterAuthenticateEndpoint(s *server.Server) {
	// POST /authn/{address}/authenticate - exchange an API key for an access token
	s.Router.HandleFunc(
		"/authn/{address}/authenticate",
		handleAuthenticate(s.Authenticator, s.Signer, s.Metrics),
	).Methods("POST")
}

func handleAuthenticate(auth authenticator.Authenticator, signer *token.Signer, m *metrics.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		apiKey, err := io.ReadAll(r.Body)
		defer r.Body.Close()
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "failed to read request body")
			return
		}

		vars := mux.Vars(r)
		address := vars["address"]
		ip := clientIP(r)

		subject, err := auth.Authenticate(r.Context(), authenticator.AuthenticatorInput{
			Address:     address,
			Credentials: apiKey,
			ClientIP:    ip,
		})
		if err != nil {
			m.IncrementAuthFailures()
			audit.Log(audit.AuthenticateEvent{
				Address:           address,
				ClientIP:          ip,
				AuthenticatorName: auth.Name(),
				Success:           false,
				ErrorMessage:      err.Error(),
			})
			// Uniform answer; the audit record carries the detail
			respondWithError(w, http.StatusUnauthorized, "authentication failed")
			return
		}

		audit.Log(audit.AuthenticateEvent{
			Address:           subject,
			ClientIP:          ip,
			AuthenticatorName: auth.Name(),
			Success:           true,
		})

		signed, err := signer.Issue(subject)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to sign access token")
			return
		}

		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte(signed))
	}
}
