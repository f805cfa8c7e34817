// Package identity provides authenticated identity management for CertMint requests.
//
// This package separates the concept of an authenticated identity from the
// raw token parsing. An Identity combines access token claims (principal
// address, timestamps) with request-specific context (remote IP).
//
// # Basic Usage
//
//	// Create identity from a parsed access token
//	id := identity.FromToken(parsedToken)
//
//	// Add request context
//	id.WithRemoteIP(clientIP)
//
//	// Store in request context
//	ctx = identity.Set(ctx, id)
//
//	// Retrieve from context
//	id, ok := identity.Get(ctx)
//
// # Identity vs Token
//
// The token package handles parsing and validating the raw access token.
// The identity package builds on that to provide the per-request view the
// handlers consume: who is calling (the principal address) and from where.
package identity
