package identity

import (
	"context"
	"net"
	"time"

	"github.com/certmint/certmint/pkg/token"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

const (
	// Key is the context key for Identity.
	Key ContextKey = "identity"
)

// Identity represents the authenticated identity for a request.
// It combines access token claims with request-specific context.
type Identity struct {
	// Token claims
	Address   string
	IssuedAt  time.Time
	ExpiresAt time.Time

	// Request context
	RemoteIP net.IP // Client IP address

	// The underlying parsed token
	Token *token.Parsed
}

// FromToken creates an Identity from a parsed access token.
func FromToken(tok *token.Parsed) *Identity {
	return &Identity{
		Address:   tok.Sub(),
		IssuedAt:  tok.IAT(),
		ExpiresAt: tok.Exp(),
		Token:     tok,
	}
}

// WithRemoteIP sets the remote IP address.
func (i *Identity) WithRemoteIP(ip net.IP) *Identity {
	i.RemoteIP = ip
	return i
}

// Get retrieves Identity from context.
func Get(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(Key).(*Identity)
	return id, ok
}

// Set stores Identity in context.
func Set(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, Key, id)
}
