package middleware

import (
	"net"
	"net/http"
	"regexp"

	"github.com/certmint/certmint/pkg/identity"
	"github.com/certmint/certmint/pkg/token"
)

var bearerRegex = regexp.MustCompile(`^Bearer (\S+)$`)

// JWTAuthenticator is middleware that validates access tokens
type JWTAuthenticator struct {
	Signer *token.Signer
}

// NewJWTAuthenticator creates a new JWT authenticator middleware
func NewJWTAuthenticator(signer *token.Signer) *JWTAuthenticator {
	return &JWTAuthenticator{Signer: signer}
}

// Middleware returns an HTTP middleware that validates access tokens and
// stores the resulting identity on the request context
func (j *JWTAuthenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")

		if len(authHeader) == 0 {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte("Authorization missing"))
			return
		}

		tokenMatches := bearerRegex.FindStringSubmatch(authHeader)

		if len(tokenMatches) != 2 {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte("Malformed authorization header"))
			return
		}

		authToken, err := j.Signer.Parse(tokenMatches[1])
		if err != nil {
			w.WriteHeader(http.StatusUnauthorized)
			switch err {
			case token.ErrMalformed:
				w.Write([]byte("Malformed authorization token"))
			case token.ErrExpired:
				w.Write([]byte("Token expired"))
			default:
				w.Write([]byte("Invalid token"))
			}
			return
		}

		id := identity.FromToken(authToken).WithRemoteIP(remoteIP(r))
		r = r.WithContext(identity.Set(r.Context(), id))

		next.ServeHTTP(w, r)
	})
}

// remoteIP extracts the client IP from the request, preferring
// X-Forwarded-For when a proxy set it
func remoteIP(r *http.Request) net.IP {
	addr := r.RemoteAddr
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		addr = forwarded
	}
	if host, _, err := net.SplitHostPort(addr); err == nil {
		addr = host
	}
	return net.ParseIP(addr)
}
