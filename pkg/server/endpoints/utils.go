package endpoints

import (
	"encoding/json"
	"net/http"

	"github.com/certmint/certmint/pkg/server/middleware"
)

func respondWithError(w http.ResponseWriter, code int, payload interface{}) {
	respondWithJSON(w, code, map[string]interface{}{"error": payload})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, _ := json.Marshal(payload)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

// clientIP extracts the client address for audit records, preferring
// X-Forwarded-For when a proxy set it
func clientIP(r *http.Request) string {
	ip := r.RemoteAddr
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		ip = forwarded
	}
	return ip
}

// requireJWT guards a single route with the access token middleware.
// Used where a path mixes authenticated and public methods, so a
// subrouter-wide Use() doesn't fit.
func requireJWT(j *middleware.JWTAuthenticator, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		j.Middleware(h).ServeHTTP(w, r)
	}
}
