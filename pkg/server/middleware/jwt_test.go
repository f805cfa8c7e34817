package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/certmint/certmint/pkg/identity"
	"github.com/certmint/certmint/pkg/token"
)

var testKey = []byte("0123456789abcdef0123456789abcdef")

func newTestAuthenticator(ttl time.Duration) *JWTAuthenticator {
	return NewJWTAuthenticator(token.NewSigner(testKey, ttl))
}

func TestNewJWTAuthenticator(t *testing.T) {
	auth := NewJWTAuthenticator(nil)
	assert.NotNil(t, auth)
	assert.Nil(t, auth.Signer)
}

func TestMiddleware_MissingAuthorization(t *testing.T) {
	auth := newTestAuthenticator(8 * time.Minute)

	handler := auth.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be called")
	}))

	req := httptest.NewRequest("GET", "/test", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Authorization missing", rec.Body.String())
}

func TestMiddleware_MalformedAuthorizationHeader(t *testing.T) {
	auth := newTestAuthenticator(8 * time.Minute)

	handler := auth.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be called")
	}))

	tests := []struct {
		name   string
		header string
	}{
		{"token scheme", `Token token="xyz"`},
		{"basic auth", "Basic dXNlcjpwYXNz"},
		{"random string", "something random"},
		{"bearer without token", "Bearer "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/test", nil)
			req.Header.Set("Authorization", tt.header)
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, "Malformed authorization header", rec.Body.String())
		})
	}
}

func TestMiddleware_MalformedToken(t *testing.T) {
	auth := newTestAuthenticator(8 * time.Minute)

	handler := auth.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be called")
	}))

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Malformed authorization token", rec.Body.String())
}

func TestMiddleware_ExpiredToken(t *testing.T) {
	auth := newTestAuthenticator(-10 * time.Minute)

	handler := auth.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be called")
	}))

	expired, err := auth.Signer.Issue("cm1aabbccddeeff00112233445566778899")
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer "+expired)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Token expired", rec.Body.String())
}

func TestMiddleware_InvalidSignature(t *testing.T) {
	auth := newTestAuthenticator(8 * time.Minute)
	otherSigner := token.NewSigner([]byte("ffffffffffffffffffffffffffffffff"), 8*time.Minute)

	handler := auth.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be called")
	}))

	forged, err := otherSigner.Issue("cm1aabbccddeeff00112233445566778899")
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer "+forged)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid token", rec.Body.String())
}

func TestMiddleware_ValidToken(t *testing.T) {
	auth := newTestAuthenticator(8 * time.Minute)

	var got *identity.Identity
	handler := auth.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := identity.Get(r.Context())
		require.True(t, ok)
		got = id
		w.WriteHeader(http.StatusOK)
	}))

	signed, err := auth.Signer.Issue("cm1aabbccddeeff00112233445566778899")
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	req.RemoteAddr = "10.0.0.7:54321"
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, got)
	assert.Equal(t, "cm1aabbccddeeff00112233445566778899", got.Address)
	assert.Equal(t, "10.0.0.7", got.RemoteIP.String())
	assert.WithinDuration(t, time.Now().Add(8*time.Minute), got.ExpiresAt, 5*time.Second)
}

func TestMiddleware_ForwardedFor(t *testing.T) {
	auth := newTestAuthenticator(8 * time.Minute)

	var got *identity.Identity
	handler := auth.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = identity.Get(r.Context())
	}))

	signed, err := auth.Signer.Issue("cm1aabbccddeeff00112233445566778899")
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	req.Header.Set("X-Forwarded-For", "192.0.2.44")
	req.RemoteAddr = "10.0.0.7:54321"
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	require.NotNil(t, got)
	assert.Equal(t, "192.0.2.44", got.RemoteIP.String())
}
