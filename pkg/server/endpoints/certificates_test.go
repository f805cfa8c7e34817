package endpoints

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/certmint/certmint/pkg/config"
	"github.com/certmint/certmint/pkg/identity"
	"github.com/certmint/certmint/pkg/model"
	"github.com/certmint/certmint/pkg/server"
	"github.com/certmint/certmint/pkg/server/middleware"
	"github.com/certmint/certmint/pkg/server/store"
	"github.com/certmint/certmint/pkg/token"
)

// requestWithIdentity builds a request carrying an authenticated
// identity, the way the access token middleware would leave it
func requestWithIdentity(method, target, body string, address string) *http.Request {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}

	id := &identity.Identity{
		Address:   address,
		IssuedAt:  time.Now(),
		ExpiresAt: time.Now().Add(8 * time.Minute),
	}
	return req.WithContext(identity.Set(req.Context(), id))
}

func withMuxVars(req *http.Request, vars map[string]string) *http.Request {
	return mux.SetURLVars(req, vars)
}

func issuerCredential(address string) *model.IssuerCredential {
	return &model.IssuerCredential{
		ID:      "cred-id-1",
		Name:    "Engineering",
		Address: address,
	}
}

func TestIssueCertificate(t *testing.T) {
	issuerAddr := "cm1aabbccddeeff00112233445566778899"
	recipientAddr := "cm199887766554433221100ffeeddccbbaa"

	t.Run("issues a certificate with a credential bound to the caller", func(t *testing.T) {
		issuersStore := NewMockIssuersStore()
		certsStore := NewMockCertificatesStore()

		issuersStore.On("FindByToken", "issuer-plain-token").Return(issuerCredential(issuerAddr), nil)

		wantReq := store.IssueRequest{
			Name:            "Go Fundamentals",
			Description:     "Completed the Go course",
			ImageURL:        "https://img.example.com/go.png",
			Recipient:       recipientAddr,
			CertificateType: "course_completion",
			Metadata:        "grade=A",
		}
		certsStore.On("Issue", issuerAddr, wantReq, mock.AnythingOfType("time.Time")).Return(&model.Certificate{
			ID:              "cert-id-1",
			Name:            wantReq.Name,
			Description:     wantReq.Description,
			ImageURL:        wantReq.ImageURL,
			Recipient:       wantReq.Recipient,
			Issuer:          issuerAddr,
			IssueDate:       time.Now().UTC(),
			CertificateType: wantReq.CertificateType,
			Metadata:        wantReq.Metadata,
		}, nil)

		handler := handleIssueCertificate(issuersStore, certsStore, nil)

		body := `{
			"issuer_token": "issuer-plain-token",
			"name": "Go Fundamentals",
			"description": "Completed the Go course",
			"image_url": "https://img.example.com/go.png",
			"recipient": "` + recipientAddr + `",
			"certificate_type": "course_completion",
			"metadata": "grade=A"
		}`
		req := requestWithIdentity("POST", "/certificates", body, issuerAddr)
		w := httptest.NewRecorder()

		handler(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)

		var resp model.CertificateResponse
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, issuerAddr, resp.Issuer)
		assert.Equal(t, recipientAddr, resp.Recipient)
		certsStore.AssertExpectations(t)
	})

	t.Run("rejects an unknown issuer token", func(t *testing.T) {
		issuersStore := NewMockIssuersStore()
		certsStore := NewMockCertificatesStore()

		issuersStore.On("FindByToken", "unknown-token").Return(nil, nil)

		handler := handleIssueCertificate(issuersStore, certsStore, nil)

		body := `{"issuer_token": "unknown-token", "recipient": "` + recipientAddr + `"}`
		req := requestWithIdentity("POST", "/certificates", body, issuerAddr)
		w := httptest.NewRecorder()

		handler(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		certsStore.AssertNotCalled(t, "Issue", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("rejects a credential bound to another address", func(t *testing.T) {
		issuersStore := NewMockIssuersStore()
		certsStore := NewMockCertificatesStore()

		issuersStore.On("FindByToken", "issuer-plain-token").Return(issuerCredential(issuerAddr), nil)

		handler := handleIssueCertificate(issuersStore, certsStore, nil)

		// The caller authenticated as the recipient, not the bound address
		body := `{"issuer_token": "issuer-plain-token", "recipient": "` + recipientAddr + `"}`
		req := requestWithIdentity("POST", "/certificates", body, recipientAddr)
		w := httptest.NewRecorder()

		handler(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		certsStore.AssertNotCalled(t, "Issue", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("rejects an empty issuer token", func(t *testing.T) {
		issuersStore := NewMockIssuersStore()
		certsStore := NewMockCertificatesStore()

		handler := handleIssueCertificate(issuersStore, certsStore, nil)

		body := `{"recipient": "` + recipientAddr + `"}`
		req := requestWithIdentity("POST", "/certificates", body, issuerAddr)
		w := httptest.NewRecorder()

		handler(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		issuersStore.AssertNotCalled(t, "FindByToken", mock.Anything)
	})

	t.Run("rejects a missing recipient", func(t *testing.T) {
		issuersStore := NewMockIssuersStore()
		certsStore := NewMockCertificatesStore()

		issuersStore.On("FindByToken", "issuer-plain-token").Return(issuerCredential(issuerAddr), nil)

		handler := handleIssueCertificate(issuersStore, certsStore, nil)

		body := `{"issuer_token": "issuer-plain-token", "name": "No Recipient"}`
		req := requestWithIdentity("POST", "/certificates", body, issuerAddr)
		w := httptest.NewRecorder()

		handler(w, req)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		certsStore.AssertNotCalled(t, "Issue", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("rejects a malformed body", func(t *testing.T) {
		issuersStore := NewMockIssuersStore()
		certsStore := NewMockCertificatesStore()

		handler := handleIssueCertificate(issuersStore, certsStore, nil)

		req := requestWithIdentity("POST", "/certificates", `{not json`, issuerAddr)
		w := httptest.NewRecorder()

		handler(w, req)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}

func TestBatchIssueCertificates(t *testing.T) {
	issuerAddr := "cm1aabbccddeeff00112233445566778899"
	cfg := &config.CertmintConfig{BatchIssueLimitMax: 100}

	t.Run("issues a batch sharing one issue date", func(t *testing.T) {
		issuersStore := NewMockIssuersStore()
		certsStore := NewMockCertificatesStore()

		issuersStore.On("FindByToken", "issuer-plain-token").Return(issuerCredential(issuerAddr), nil)

		var got time.Time
		issueDate := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
		certsStore.On("IssueBatch", issuerAddr, mock.AnythingOfType("[]store.IssueRequest"), mock.AnythingOfType("time.Time")).
			Run(func(args mock.Arguments) {
				got = args.Get(2).(time.Time)
			}).
			Return([]model.Certificate{
				{ID: "c-1", Recipient: "cm1r1", Issuer: issuerAddr, IssueDate: issueDate},
				{ID: "c-2", Recipient: "cm1r2", Issuer: issuerAddr, IssueDate: issueDate},
				{ID: "c-3", Recipient: "cm1r3", Issuer: issuerAddr, IssueDate: issueDate},
			}, nil)

		handler := handleBatchIssueCertificates(issuersStore, certsStore, cfg, nil)

		body := `{
			"issuer_token": "issuer-plain-token",
			"certificates": [
				{"name": "A", "recipient": "cm1r1"},
				{"name": "B", "recipient": "cm1r2"},
				{"name": "C", "recipient": "cm1r3"}
			]
		}`
		req := requestWithIdentity("POST", "/certificates/batch", body, issuerAddr)
		w := httptest.NewRecorder()

		handler(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.False(t, got.IsZero(), "expected the store to receive the batch issue date")

		var resp []model.CertificateResponse
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Len(t, resp, 3)
		for _, cert := range resp {
			assert.Equal(t, resp[0].IssueDate, cert.IssueDate)
		}
	})

	t.Run("rejects an empty batch", func(t *testing.T) {
		issuersStore := NewMockIssuersStore()
		certsStore := NewMockCertificatesStore()

		issuersStore.On("FindByToken", "issuer-plain-token").Return(issuerCredential(issuerAddr), nil)

		handler := handleBatchIssueCertificates(issuersStore, certsStore, cfg, nil)

		body := `{"issuer_token": "issuer-plain-token", "certificates": []}`
		req := requestWithIdentity("POST", "/certificates/batch", body, issuerAddr)
		w := httptest.NewRecorder()

		handler(w, req)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		certsStore.AssertNotCalled(t, "IssueBatch", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("rejects a batch over the configured maximum", func(t *testing.T) {
		issuersStore := NewMockIssuersStore()
		certsStore := NewMockCertificatesStore()

		issuersStore.On("FindByToken", "issuer-plain-token").Return(issuerCredential(issuerAddr), nil)

		small := &config.CertmintConfig{BatchIssueLimitMax: 2}
		handler := handleBatchIssueCertificates(issuersStore, certsStore, small, nil)

		body := `{
			"issuer_token": "issuer-plain-token",
			"certificates": [
				{"recipient": "cm1r1"},
				{"recipient": "cm1r2"},
				{"recipient": "cm1r3"}
			]
		}`
		req := requestWithIdentity("POST", "/certificates/batch", body, issuerAddr)
		w := httptest.NewRecorder()

		handler(w, req)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		certsStore.AssertNotCalled(t, "IssueBatch", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("rejects a batch with a missing recipient", func(t *testing.T) {
		issuersStore := NewMockIssuersStore()
		certsStore := NewMockCertificatesStore()

		issuersStore.On("FindByToken", "issuer-plain-token").Return(issuerCredential(issuerAddr), nil)

		handler := handleBatchIssueCertificates(issuersStore, certsStore, cfg, nil)

		body := `{
			"issuer_token": "issuer-plain-token",
			"certificates": [
				{"recipient": "cm1r1"},
				{"name": "no recipient"}
			]
		}`
		req := requestWithIdentity("POST", "/certificates/batch", body, issuerAddr)
		w := httptest.NewRecorder()

		handler(w, req)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		certsStore.AssertNotCalled(t, "IssueBatch", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("rejects a credential bound to another address", func(t *testing.T) {
		issuersStore := NewMockIssuersStore()
		certsStore := NewMockCertificatesStore()

		issuersStore.On("FindByToken", "issuer-plain-token").Return(issuerCredential(issuerAddr), nil)

		handler := handleBatchIssueCertificates(issuersStore, certsStore, cfg, nil)

		body := `{"issuer_token": "issuer-plain-token", "certificates": [{"recipient": "cm1r1"}]}`
		req := requestWithIdentity("POST", "/certificates/batch", body, "cm1somebodyelse")
		w := httptest.NewRecorder()

		handler(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		certsStore.AssertNotCalled(t, "IssueBatch", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestGetCertificate(t *testing.T) {
	t.Run("fetches a certificate", func(t *testing.T) {
		certsStore := NewMockCertificatesStore()

		certsStore.On("ByID", "cert-id-1").Return(&model.Certificate{
			ID:        "cert-id-1",
			Name:      "Go Fundamentals",
			Recipient: "cm1r1",
			Issuer:    "cm1i1",
			IssueDate: time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC),
		}, nil)

		handler := handleGetCertificate(certsStore)

		req := httptest.NewRequest("GET", "/certificates/cert-id-1", nil)
		req = withMuxVars(req, map[string]string{"id": "cert-id-1"})
		w := httptest.NewRecorder()

		handler(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp model.CertificateResponse
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "cert-id-1", resp.ID)
		assert.Equal(t, "2026-08-25T12:00:00Z", resp.IssueDate)
	})

	t.Run("returns 404 for an unknown certificate", func(t *testing.T) {
		certsStore := NewMockCertificatesStore()

		certsStore.On("ByID", "missing").Return(nil, store.ErrCertificateNotFound)

		handler := handleGetCertificate(certsStore)

		req := httptest.NewRequest("GET", "/certificates/missing", nil)
		req = withMuxVars(req, map[string]string{"id": "missing"})
		w := httptest.NewRecorder()

		handler(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestListCertificates(t *testing.T) {
	t.Run("passes filters through", func(t *testing.T) {
		certsStore := NewMockCertificatesStore()

		filter := store.CertificateFilter{Recipient: "cm1r1", Issuer: "cm1i1"}
		certsStore.On("List", filter).Return([]model.Certificate{
			{ID: "c-1", Recipient: "cm1r1", Issuer: "cm1i1"},
		}, nil)

		handler := handleListCertificates(certsStore)

		req := httptest.NewRequest("GET", "/certificates?recipient=cm1r1&issuer=cm1i1", nil)
		w := httptest.NewRecorder()

		handler(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp []model.CertificateResponse
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Len(t, resp, 1)
		certsStore.AssertExpectations(t)
	})
}

func TestVerifyCertificate(t *testing.T) {
	stored := &model.Certificate{
		ID:     "cert-id-1",
		Issuer: "cm1aabbccddeeff00112233445566778899",
	}

	t.Run("verifies the minting issuer", func(t *testing.T) {
		certsStore := NewMockCertificatesStore()
		certsStore.On("ByID", "cert-id-1").Return(stored, nil)

		handler := handleVerifyCertificate(certsStore)

		req := httptest.NewRequest("GET", "/certificates/cert-id-1/verify?issuer="+stored.Issuer, nil)
		req = withMuxVars(req, map[string]string{"id": "cert-id-1"})
		w := httptest.NewRecorder()

		handler(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"verified": true}`, w.Body.String())
	})

	t.Run("rejects any other address", func(t *testing.T) {
		certsStore := NewMockCertificatesStore()
		certsStore.On("ByID", "cert-id-1").Return(stored, nil)

		handler := handleVerifyCertificate(certsStore)

		req := httptest.NewRequest("GET", "/certificates/cert-id-1/verify?issuer=cm1somebodyelse", nil)
		req = withMuxVars(req, map[string]string{"id": "cert-id-1"})
		w := httptest.NewRecorder()

		handler(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"verified": false}`, w.Body.String())
	})

	t.Run("rejects an empty issuer claim", func(t *testing.T) {
		certsStore := NewMockCertificatesStore()
		certsStore.On("ByID", "cert-id-1").Return(stored, nil)

		handler := handleVerifyCertificate(certsStore)

		req := httptest.NewRequest("GET", "/certificates/cert-id-1/verify", nil)
		req = withMuxVars(req, map[string]string{"id": "cert-id-1"})
		w := httptest.NewRecorder()

		handler(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"verified": false}`, w.Body.String())
	})

	t.Run("returns 404 for an unknown certificate", func(t *testing.T) {
		certsStore := NewMockCertificatesStore()
		certsStore.On("ByID", "missing").Return(nil, store.ErrCertificateNotFound)

		handler := handleVerifyCertificate(certsStore)

		req := httptest.NewRequest("GET", "/certificates/missing/verify?issuer=cm1i1", nil)
		req = withMuxVars(req, map[string]string{"id": "missing"})
		w := httptest.NewRecorder()

		handler(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestDestroyCertificate(t *testing.T) {
	recipientAddr := "cm199887766554433221100ffeeddccbbaa"

	t.Run("destroys as the recipient", func(t *testing.T) {
		certsStore := NewMockCertificatesStore()
		certsStore.On("Destroy", "cert-id-1", recipientAddr).Return(nil)

		handler := handleDestroyCertificate(certsStore, nil)

		req := requestWithIdentity("DELETE", "/certificates/cert-id-1", "", recipientAddr)
		req = withMuxVars(req, map[string]string{"id": "cert-id-1"})
		w := httptest.NewRecorder()

		handler(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		certsStore.AssertExpectations(t)
	})

	t.Run("forbids anyone but the recipient", func(t *testing.T) {
		certsStore := NewMockCertificatesStore()
		certsStore.On("Destroy", "cert-id-1", "cm1notrecipient").Return(store.ErrNotRecipient)

		handler := handleDestroyCertificate(certsStore, nil)

		req := requestWithIdentity("DELETE", "/certificates/cert-id-1", "", "cm1notrecipient")
		req = withMuxVars(req, map[string]string{"id": "cert-id-1"})
		w := httptest.NewRecorder()

		handler(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("returns 404 for an unknown certificate", func(t *testing.T) {
		certsStore := NewMockCertificatesStore()
		certsStore.On("Destroy", "missing", recipientAddr).Return(store.ErrCertificateNotFound)

		handler := handleDestroyCertificate(certsStore, nil)

		req := requestWithIdentity("DELETE", "/certificates/missing", "", recipientAddr)
		req = withMuxVars(req, map[string]string{"id": "missing"})
		w := httptest.NewRecorder()

		handler(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

// TestCertificatesRequireAccessToken drives the registered routes through
// the router so the access token middleware is exercised too
func TestCertificatesRequireAccessToken(t *testing.T) {
	signingKey := make([]byte, 32)
	for i := range signingKey {
		signingKey[i] = byte(i)
	}
	signer := token.NewSigner(signingKey, 8*time.Minute)

	issuersStore := NewMockIssuersStore()
	certsStore := NewMockCertificatesStore()

	s := &server.Server{
		Router:            mux.NewRouter().UseEncodedPath(),
		Config:            &config.CertmintConfig{BatchIssueLimitMax: 100},
		Signer:            signer,
		JWTMiddleware:     middleware.NewJWTAuthenticator(signer),
		IssuersStore:      issuersStore,
		CertificatesStore: certsStore,
	}
	RegisterCertificatesEndpoints(s)

	tests := []struct {
		name   string
		method string
		target string
	}{
		{"issue", "POST", "/certificates"},
		{"batch issue", "POST", "/certificates/batch"},
		{"destroy", "DELETE", "/certificates/cert-id-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name+" without a token", func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.target, strings.NewReader(`{}`))
			w := httptest.NewRecorder()

			s.Router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Equal(t, "Authorization missing", w.Body.String())
		})
	}

	t.Run("reads stay public", func(t *testing.T) {
		certsStore.On("List", store.CertificateFilter{}).Return([]model.Certificate{}, nil)

		req := httptest.NewRequest("GET", "/certificates", nil)
		w := httptest.NewRecorder()

		s.Router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("issue with a valid token round trips", func(t *testing.T) {
		issuerAddr := "cm1aabbccddeeff00112233445566778899"
		issuersStore.On("FindByToken", "issuer-plain-token").Return(issuerCredential(issuerAddr), nil)
		certsStore.On("Issue", issuerAddr, mock.AnythingOfType("store.IssueRequest"), mock.AnythingOfType("time.Time")).
			Return(&model.Certificate{ID: "cert-id-1", Issuer: issuerAddr, Recipient: "cm1r1"}, nil)

		signed, err := signer.Issue(issuerAddr)
		assert.NoError(t, err)

		body := `{"issuer_token": "issuer-plain-token", "recipient": "cm1r1"}`
		req := httptest.NewRequest("POST", "/certificates", strings.NewReader(body))
		req.Header.Set("Authorization", "Bearer "+signed)
		w := httptest.NewRecorder()

		s.Router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
	})
}

// Integration test - requires database. Walks the full lifecycle:
// register principals, authenticate, grant an issuer credential, issue,
// verify, and destroy.
func TestCertificateLifecycleEndpoint(t *testing.T) {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL not set, skipping integration test")
	}

	signingKey := make([]byte, 32)
	for i := range signingKey {
		signingKey[i] = byte(i)
	}

	testServer, err := NewTestServer(dbURL, signingKey)
	if err != nil {
		t.Fatalf("failed to create test server: %v", err)
	}

	// Cleanup before and after
	_ = CleanupTestData(testServer.DB)
	defer func() { _ = CleanupTestData(testServer.DB) }()

	admin, err := testServer.AdminStore.Init()
	if err != nil {
		t.Fatalf("failed to initialize admin credential: %v", err)
	}

	RegisterAddressesEndpoints(testServer)
	RegisterAuthenticateEndpoint(testServer)
	RegisterIssuersEndpoints(testServer)
	RegisterCertificatesEndpoints(testServer)
	RegisterEventsEndpoints(testServer)

	register := func(t *testing.T) (address, apiKey string) {
		req := httptest.NewRequest("POST", "/addresses", nil)
		w := httptest.NewRecorder()
		testServer.Router.ServeHTTP(w, req)
		if w.Code != http.StatusCreated {
			t.Fatalf("expected status 201 registering, got %d: %s", w.Code, w.Body.String())
		}
		var result map[string]string
		if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
			t.Fatalf("failed to parse registration response: %v", err)
		}
		return result["address"], result["api_key"]
	}

	authenticate := func(t *testing.T, address, apiKey string) string {
		req := httptest.NewRequest("POST", "/authn/"+address+"/authenticate", strings.NewReader(apiKey))
		w := httptest.NewRecorder()
		testServer.Router.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("expected status 200 authenticating, got %d: %s", w.Code, w.Body.String())
		}
		return w.Body.String()
	}

	issuerAddr, issuerKey := register(t)
	recipientAddr, recipientKey := register(t)
	issuerJWT := authenticate(t, issuerAddr, issuerKey)
	recipientJWT := authenticate(t, recipientAddr, recipientKey)

	var issuerToken string
	t.Run("grant issuer credential", func(t *testing.T) {
		body := `{"name": "Engineering Dept", "address": "` + issuerAddr + `"}`
		req := httptest.NewRequest("POST", "/issuers", strings.NewReader(body))
		req.Header.Set("Authorization", adminAuthHeader(admin.PlainToken))
		w := httptest.NewRecorder()

		testServer.Router.ServeHTTP(w, req)

		if w.Code != http.StatusCreated {
			t.Fatalf("expected status 201, got %d: %s", w.Code, w.Body.String())
		}
		var result model.IssuerResponse
		if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
			t.Fatalf("failed to parse response: %v", err)
		}
		issuerToken = result.Token
		if issuerToken == "" {
			t.Fatal("expected plaintext issuer token in grant response")
		}
	})

	var certID string
	t.Run("issue certificate", func(t *testing.T) {
		body := `{
			"issuer_token": "` + issuerToken + `",
			"name": "Go Fundamentals",
			"recipient": "` + recipientAddr + `",
			"certificate_type": "course_completion"
		}`
		req := httptest.NewRequest("POST", "/certificates", strings.NewReader(body))
		req.Header.Set("Authorization", "Bearer "+issuerJWT)
		w := httptest.NewRecorder()

		testServer.Router.ServeHTTP(w, req)

		if w.Code != http.StatusCreated {
			t.Fatalf("expected status 201, got %d: %s", w.Code, w.Body.String())
		}
		var result model.CertificateResponse
		if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
			t.Fatalf("failed to parse response: %v", err)
		}
		certID = result.ID
		if result.Issuer != issuerAddr {
			t.Errorf("expected issuer %q, got %q", issuerAddr, result.Issuer)
		}
	})

	t.Run("recipient cannot issue with the issuer token", func(t *testing.T) {
		body := `{
			"issuer_token": "` + issuerToken + `",
			"name": "Stolen Token",
			"recipient": "` + recipientAddr + `"
		}`
		req := httptest.NewRequest("POST", "/certificates", strings.NewReader(body))
		req.Header.Set("Authorization", "Bearer "+recipientJWT)
		w := httptest.NewRecorder()

		testServer.Router.ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Errorf("expected status 401, got %d", w.Code)
		}
	})

	t.Run("batch shares one issue date", func(t *testing.T) {
		body := `{
			"issuer_token": "` + issuerToken + `",
			"certificates": [
				{"name": "A", "recipient": "` + recipientAddr + `"},
				{"name": "B", "recipient": "` + recipientAddr + `"},
				{"name": "C", "recipient": "` + recipientAddr + `"}
			]
		}`
		req := httptest.NewRequest("POST", "/certificates/batch", strings.NewReader(body))
		req.Header.Set("Authorization", "Bearer "+issuerJWT)
		w := httptest.NewRecorder()

		testServer.Router.ServeHTTP(w, req)

		if w.Code != http.StatusCreated {
			t.Fatalf("expected status 201, got %d: %s", w.Code, w.Body.String())
		}
		var results []model.CertificateResponse
		if err := json.Unmarshal(w.Body.Bytes(), &results); err != nil {
			t.Fatalf("failed to parse response: %v", err)
		}
		if len(results) != 3 {
			t.Fatalf("expected 3 certificates, got %d", len(results))
		}
		for _, cert := range results {
			if cert.IssueDate != results[0].IssueDate {
				t.Errorf("expected shared issue date %q, got %q", results[0].IssueDate, cert.IssueDate)
			}
		}
	})

	t.Run("verify certificate", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/certificates/"+certID+"/verify?issuer="+issuerAddr, nil)
		w := httptest.NewRecorder()
		testServer.Router.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", w.Code)
		}
		if w.Body.String() != `{"verified":true}` {
			t.Errorf("expected verified true, got %s", w.Body.String())
		}

		req = httptest.NewRequest("GET", "/certificates/"+certID+"/verify?issuer="+recipientAddr, nil)
		w = httptest.NewRecorder()
		testServer.Router.ServeHTTP(w, req)
		if w.Body.String() != `{"verified":false}` {
			t.Errorf("expected verified false, got %s", w.Body.String())
		}
	})

	t.Run("issuer cannot destroy the certificate", func(t *testing.T) {
		req := httptest.NewRequest("DELETE", "/certificates/"+certID, nil)
		req.Header.Set("Authorization", "Bearer "+issuerJWT)
		w := httptest.NewRecorder()

		testServer.Router.ServeHTTP(w, req)

		if w.Code != http.StatusForbidden {
			t.Errorf("expected status 403, got %d", w.Code)
		}
	})

	t.Run("recipient destroys the certificate", func(t *testing.T) {
		req := httptest.NewRequest("DELETE", "/certificates/"+certID, nil)
		req.Header.Set("Authorization", "Bearer "+recipientJWT)
		w := httptest.NewRecorder()

		testServer.Router.ServeHTTP(w, req)

		if w.Code != http.StatusNoContent {
			t.Fatalf("expected status 204, got %d: %s", w.Code, w.Body.String())
		}

		getReq := httptest.NewRequest("GET", "/certificates/"+certID, nil)
		getW := httptest.NewRecorder()
		testServer.Router.ServeHTTP(getW, getReq)
		if getW.Code != http.StatusNotFound {
			t.Errorf("expected status 404 after destroy, got %d", getW.Code)
		}
	})

	t.Run("event log records the lifecycle", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/events", nil)
		req.Header.Set("Authorization", adminAuthHeader(admin.PlainToken))
		w := httptest.NewRecorder()

		testServer.Router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
		}

		var rows []EventResponse
		if err := json.Unmarshal(w.Body.Bytes(), &rows); err != nil {
			t.Fatalf("failed to parse response: %v", err)
		}

		kinds := make(map[string]int)
		for _, row := range rows {
			kinds[row.Kind]++
		}
		if kinds["issuer_created"] == 0 {
			t.Error("expected an issuer_created event")
		}
		if kinds["certificate_issued"] != 4 {
			t.Errorf("expected 4 certificate_issued events, got %d", kinds["certificate_issued"])
		}
		if kinds["certificate_destroyed"] != 1 {
			t.Errorf("expected 1 certificate_destroyed event, got %d", kinds["certificate_destroyed"])
		}
	})
}
