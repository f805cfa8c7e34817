package endpoints

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/certmint/certmint/pkg/audit"
	"github.com/certmint/certmint/pkg/metrics"
	"github.com/certmint/certmint/pkg/model"
	"github.com/certmint/certmint/pkg/server"
	"github.com/certmint/certmint/pkg/server/store"
)

// RegisterIssuersEndpoints registers the issuer credential API endpoints.
// All of them authenticate with the admin capability token, not a JWT:
// possession of the token is the whole proof of authority.
func RegisterIssuersEndpoints(s *server.Server) {
	adminStore := s.AdminStore
	issuersStore := s.IssuersStore

	// POST /issuers - Grant an issuer credential
	s.Router.HandleFunc("/issuers", handleGrantIssuer(adminStore, issuersStore, s.Metrics)).Methods("POST")

	// GET /issuers - List issuer credentials
	s.Router.HandleFunc("/issuers", handleListIssuers(adminStore, issuersStore)).Methods("GET")

	// GET /issuers/{id} - Fetch one issuer credential
	s.Router.HandleFunc("/issuers/{id}", handleGetIssuer(adminStore, issuersStore)).Methods("GET")
}

// adminToken pulls the plaintext capability token out of the
// Authorization header. The expected form is `Token token="<value>"`.
func adminToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, `Token token="`) && strings.HasSuffix(authHeader, `"`) {
		return authHeader[13 : len(authHeader)-1], true
	}
	return "", false
}

// checkAdmin reports whether the request carries a token matching the
// stored admin credential
func checkAdmin(adminStore store.AdminStore, r *http.Request) (bool, error) {
	plain, ok := adminToken(r)
	if !ok || plain == "" {
		return false, nil
	}
	return adminStore.Check(plain)
}

func handleGrantIssuer(adminStore store.AdminStore, issuersStore store.IssuersStore, m *metrics.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)

		authorized, err := checkAdmin(adminStore, r)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to check admin token")
			return
		}
		if !authorized {
			m.IncrementAuthFailures()
			audit.Log(audit.GrantIssuerEvent{
				ClientIP:     ip,
				Success:      false,
				ErrorMessage: "invalid admin token",
			})
			respondWithError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		var req struct {
			Name    string `json:"name"`
			Address string `json:"address"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusUnprocessableEntity, "invalid request body")
			return
		}
		if req.Address == "" {
			respondWithError(w, http.StatusUnprocessableEntity, "address parameter required")
			return
		}

		cred, err := issuersStore.Grant(req.Name, req.Address)
		if err != nil {
			audit.Log(audit.GrantIssuerEvent{
				IssuerName:    req.Name,
				IssuerAddress: req.Address,
				ClientIP:      ip,
				Success:       false,
				ErrorMessage:  err.Error(),
			})
			respondWithError(w, http.StatusInternalServerError, "failed to grant issuer credential")
			return
		}

		m.IncrementIssuersGranted()
		audit.Log(audit.GrantIssuerEvent{
			IssuerID:      cred.ID,
			IssuerName:    cred.Name,
			IssuerAddress: cred.Address,
			ClientIP:      ip,
			Success:       true,
		})

		// The plaintext token rides along exactly once, here
		respondWithJSON(w, http.StatusCreated, cred.ToResponse())
	}
}

func handleGetIssuer(adminStore store.AdminStore, issuersStore store.IssuersStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authorized, err := checkAdmin(adminStore, r)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to check admin token")
			return
		}
		if !authorized {
			respondWithError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		vars := mux.Vars(r)
		cred, err := issuersStore.ByID(vars["id"])
		if err != nil {
			if errors.Is(err, store.ErrIssuerNotFound) {
				respondWithError(w, http.StatusNotFound, "issuer credential not found")
				return
			}
			respondWithError(w, http.StatusInternalServerError, "failed to fetch issuer credential")
			return
		}

		respondWithJSON(w, http.StatusOK, cred.ToResponse())
	}
}

func handleListIssuers(adminStore store.AdminStore, issuersStore store.IssuersStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authorized, err := checkAdmin(adminStore, r)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to check admin token")
			return
		}
		if !authorized {
			respondWithError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		creds, err := issuersStore.List()
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to list issuer credentials")
			return
		}

		responses := make([]model.IssuerResponse, 0, len(creds))
		for i := range creds {
			responses = append(responses, creds[i].ToResponse())
		}

		respondWithJSON(w, http.StatusOK, responses)
	}
}
