package authenticator

import (
	"context"
)

// Authenticator defines the interface for credential authenticators
type Authenticator interface {
	// Name returns the authenticator name (e.g., "authn")
	Name() string

	// Authenticate validates credentials and returns the principal address on success
	Authenticate(ctx context.Context, input AuthenticatorInput) (string, error)

	// Status checks if the authenticator is healthy
	Status(ctx context.Context) error
}

// AuthenticatorInput contains the input for authentication
type AuthenticatorInput struct {
	Address     string
	Credentials []byte
	ClientIP    string
}
