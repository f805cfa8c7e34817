package endpoints

import (
	"net/http"

	"github.com/certmint/certmint/pkg/audit"
	"github.com/certmint/certmint/pkg/server"
	"github.com/certmint/certmint/pkg/server/store"
)

// RegisterAddressesEndpoints registers principal registration.
// Registration is open: addresses are random, so the only thing a caller
// can obtain is a fresh identity of their own.
func RegisterAddressesEndpoints(s *server.Server) {
	// POST /addresses - Register a principal
	s.Router.HandleFunc("/addresses", handleCreateAddress(s.PrincipalsStore)).Methods("POST")
}

func handleCreateAddress(principalsStore store.PrincipalsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)

		principal, err := principalsStore.Register()
		if err != nil {
			audit.Log(audit.RegisterEvent{
				ClientIP:     ip,
				Success:      false,
				ErrorMessage: err.Error(),
			})
			respondWithError(w, http.StatusInternalServerError, "failed to register address")
			return
		}

		audit.Log(audit.RegisterEvent{
			Address:  principal.Address,
			ClientIP: ip,
			Success:  true,
		})

		// The plaintext API key is shown once; only its digest is stored
		respondWithJSON(w, http.StatusCreated, map[string]string{
			"address": principal.Address,
			"api_key": principal.PlainAPIKey,
		})
	}
}
