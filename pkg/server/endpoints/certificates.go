package endpoints

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/certmint/certmint/pkg/audit"
	"github.com/certmint/certmint/pkg/config"
	"github.com/certmint/certmint/pkg/identity"
	"github.com/certmint/certmint/pkg/metrics"
	"github.com/certmint/certmint/pkg/model"
	"github.com/certmint/certmint/pkg/server"
	"github.com/certmint/certmint/pkg/server/store"
)

// errNotAuthorized folds every issuance authorization failure into one
// answer: an unknown issuer token and a token bound to somebody else's
// address are indistinguishable to the caller.
var errNotAuthorized = errors.New("not authorized")

// RegisterCertificatesEndpoints registers the certificate API endpoints.
// Issuance and destruction require a caller identity (JWT); reads and
// verification are public. There is no transfer route: a certificate
// stays with its recipient until the recipient destroys it.
func RegisterCertificatesEndpoints(s *server.Server) {
	certsStore := s.CertificatesStore
	issuersStore := s.IssuersStore

	// POST /certificates - Issue one certificate
	s.Router.HandleFunc("/certificates",
		requireJWT(s.JWTMiddleware, handleIssueCertificate(issuersStore, certsStore, s.Metrics)),
	).Methods("POST")

	// POST /certificates/batch - Issue a batch sharing one issue date
	s.Router.HandleFunc("/certificates/batch",
		requireJWT(s.JWTMiddleware, handleBatchIssueCertificates(issuersStore, certsStore, s.Config, s.Metrics)),
	).Methods("POST")

	// DELETE /certificates/{id} - Destroy (recipient only)
	s.Router.HandleFunc("/certificates/{id}",
		requireJWT(s.JWTMiddleware, handleDestroyCertificate(certsStore, s.Metrics)),
	).Methods("DELETE")

	// GET /certificates - List, optionally filtered by recipient/issuer
	s.Router.HandleFunc("/certificates", handleListCertificates(certsStore)).Methods("GET")

	// GET /certificates/{id} - Fetch one certificate
	s.Router.HandleFunc("/certificates/{id}", handleGetCertificate(certsStore)).Methods("GET")

	// GET /certificates/{id}/verify?issuer= - Check the issuer claim
	s.Router.HandleFunc("/certificates/{id}/verify", handleVerifyCertificate(certsStore)).Methods("GET")
}

// certificateFields carries the caller-supplied fields of one
// certificate, shared by the single and batch issue bodies
type certificateFields struct {
	Name            string `json:"name"`
	Description     string `json:"description"`
	ImageURL        string `json:"image_url"`
	Recipient       string `json:"recipient"`
	CertificateType string `json:"certificate_type"`
	Metadata        string `json:"metadata"`
}

func (f certificateFields) toIssueRequest() store.IssueRequest {
	return store.IssueRequest{
		Name:            f.Name,
		Description:     f.Description,
		ImageURL:        f.ImageURL,
		Recipient:       f.Recipient,
		CertificateType: f.CertificateType,
		Metadata:        f.Metadata,
	}
}

// authorizeIssuer resolves an issuer credential from its plaintext token
// and checks that caller is the credential's bound address. Possession
// of the token alone is not enough; neither is the right address with
// somebody else's token.
func authorizeIssuer(issuersStore store.IssuersStore, plainToken string, caller string) (*model.IssuerCredential, error) {
	if plainToken == "" {
		return nil, errNotAuthorized
	}

	cred, err := issuersStore.FindByToken(plainToken)
	if err != nil {
		return nil, err
	}
	if cred == nil || cred.Address != caller {
		return nil, errNotAuthorized
	}
	return cred, nil
}

func handleIssueCertificate(issuersStore store.IssuersStore, certsStore store.CertificatesStore, m *metrics.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)
		id, _ := identity.Get(r.Context())
		caller := id.Address

		var req struct {
			IssuerToken string `json:"issuer_token"`
			certificateFields
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusUnprocessableEntity, "invalid request body")
			return
		}

		cred, err := authorizeIssuer(issuersStore, req.IssuerToken, caller)
		if err != nil {
			if errors.Is(err, errNotAuthorized) {
				m.IncrementAuthFailures()
				audit.Log(audit.IssueEvent{
					Issuer:       caller,
					Recipient:    req.Recipient,
					ClientIP:     ip,
					Success:      false,
					ErrorMessage: "not authorized",
				})
				respondWithError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}
			respondWithError(w, http.StatusInternalServerError, "failed to resolve issuer credential")
			return
		}

		if req.Recipient == "" {
			respondWithError(w, http.StatusUnprocessableEntity, "recipient parameter required")
			return
		}

		cert, err := certsStore.Issue(cred.Address, req.toIssueRequest(), time.Now().UTC())
		if err != nil {
			audit.Log(audit.IssueEvent{
				Issuer:       cred.Address,
				Recipient:    req.Recipient,
				ClientIP:     ip,
				Success:      false,
				ErrorMessage: err.Error(),
			})
			respondWithError(w, http.StatusInternalServerError, "failed to issue certificate")
			return
		}

		m.IncrementCertificatesIssued(1)
		audit.Log(audit.IssueEvent{
			Issuer:        cert.Issuer,
			Recipient:     cert.Recipient,
			CertificateID: cert.ID,
			ClientIP:      ip,
			Success:       true,
		})

		respondWithJSON(w, http.StatusCreated, cert.ToResponse())
	}
}

func handleBatchIssueCertificates(issuersStore store.IssuersStore, certsStore store.CertificatesStore, cfg *config.CertmintConfig, m *metrics.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)
		id, _ := identity.Get(r.Context())
		caller := id.Address

		var req struct {
			IssuerToken  string              `json:"issuer_token"`
			Certificates []certificateFields `json:"certificates"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusUnprocessableEntity, "invalid request body")
			return
		}

		cred, err := authorizeIssuer(issuersStore, req.IssuerToken, caller)
		if err != nil {
			if errors.Is(err, errNotAuthorized) {
				m.IncrementAuthFailures()
				audit.Log(audit.BatchIssueEvent{
					Issuer:       caller,
					Count:        len(req.Certificates),
					ClientIP:     ip,
					Success:      false,
					ErrorMessage: "not authorized",
				})
				respondWithError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}
			respondWithError(w, http.StatusInternalServerError, "failed to resolve issuer credential")
			return
		}

		if len(req.Certificates) == 0 {
			respondWithError(w, http.StatusUnprocessableEntity, "certificates must not be empty")
			return
		}
		if limit := cfg.BatchIssueLimitMax; len(req.Certificates) > limit {
			respondWithError(w, http.StatusUnprocessableEntity,
				"batch exceeds the configured maximum of "+strconv.Itoa(limit)+" certificates")
			return
		}

		reqs := make([]store.IssueRequest, 0, len(req.Certificates))
		for _, fields := range req.Certificates {
			if fields.Recipient == "" {
				respondWithError(w, http.StatusUnprocessableEntity, "every certificate needs a recipient")
				return
			}
			reqs = append(reqs, fields.toIssueRequest())
		}

		// One timestamp for the whole batch
		issueDate := time.Now().UTC()

		certs, err := certsStore.IssueBatch(cred.Address, reqs, issueDate)
		if err != nil {
			audit.Log(audit.BatchIssueEvent{
				Issuer:       cred.Address,
				Count:        len(reqs),
				ClientIP:     ip,
				Success:      false,
				ErrorMessage: err.Error(),
			})
			respondWithError(w, http.StatusInternalServerError, "failed to issue certificates")
			return
		}

		m.IncrementCertificatesIssued(len(certs))
		m.ObserveBatchSize(len(certs))
		audit.Log(audit.BatchIssueEvent{
			Issuer:   cred.Address,
			Count:    len(certs),
			ClientIP: ip,
			Success:  true,
		})

		responses := make([]model.CertificateResponse, 0, len(certs))
		for i := range certs {
			responses = append(responses, certs[i].ToResponse())
		}
		respondWithJSON(w, http.StatusCreated, responses)
	}
}

func handleGetCertificate(certsStore store.CertificatesStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)

		cert, err := certsStore.ByID(vars["id"])
		if err != nil {
			if errors.Is(err, store.ErrCertificateNotFound) {
				respondWithError(w, http.StatusNotFound, "certificate not found")
				return
			}
			respondWithError(w, http.StatusInternalServerError, "failed to fetch certificate")
			return
		}

		respondWithJSON(w, http.StatusOK, cert.ToResponse())
	}
}

func handleListCertificates(certsStore store.CertificatesStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter := store.CertificateFilter{
			Recipient: r.URL.Query().Get("recipient"),
			Issuer:    r.URL.Query().Get("issuer"),
		}

		certs, err := certsStore.List(filter)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to list certificates")
			return
		}

		responses := make([]model.CertificateResponse, 0, len(certs))
		for i := range certs {
			responses = append(responses, certs[i].ToResponse())
		}
		respondWithJSON(w, http.StatusOK, responses)
	}
}

func handleVerifyCertificate(certsStore store.CertificatesStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)

		cert, err := certsStore.ByID(vars["id"])
		if err != nil {
			if errors.Is(err, store.ErrCertificateNotFound) {
				respondWithError(w, http.StatusNotFound, "certificate not found")
				return
			}
			respondWithError(w, http.StatusInternalServerError, "failed to fetch certificate")
			return
		}

		// Plain equality against the stored issuer, nothing more
		claimed := r.URL.Query().Get("issuer")
		respondWithJSON(w, http.StatusOK, map[string]bool{
			"verified": cert.Issuer == claimed,
		})
	}
}

func handleDestroyCertificate(certsStore store.CertificatesStore, m *metrics.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)
		id, _ := identity.Get(r.Context())
		caller := id.Address

		vars := mux.Vars(r)
		certID := vars["id"]

		err := certsStore.Destroy(certID, caller)
		if err != nil {
			switch {
			case errors.Is(err, store.ErrCertificateNotFound):
				respondWithError(w, http.StatusNotFound, "certificate not found")
			case errors.Is(err, store.ErrNotRecipient):
				m.IncrementAuthFailures()
				audit.Log(audit.DestroyEvent{
					Address:       caller,
					CertificateID: certID,
					ClientIP:      ip,
					Success:       false,
					ErrorMessage:  "caller is not the recipient",
				})
				respondWithError(w, http.StatusForbidden, "Forbidden")
			default:
				audit.Log(audit.DestroyEvent{
					Address:       caller,
					CertificateID: certID,
					ClientIP:      ip,
					Success:       false,
					ErrorMessage:  err.Error(),
				})
				respondWithError(w, http.StatusInternalServerError, "failed to destroy certificate")
			}
			return
		}

		m.IncrementCertificatesDestroyed()
		audit.Log(audit.DestroyEvent{
			Address:       caller,
			CertificateID: certID,
			ClientIP:      ip,
			Success:       true,
		})

		w.WriteHeader(http.StatusNoContent)
	}
}
