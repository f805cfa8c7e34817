// Package authenticator defines the interface for CertMint authenticators.
//
// Principals exchange a long-lived credential for a short-lived access token.
// This package provides the common interface that authenticators implement.
//
// # Authenticator Interface
//
//	type Authenticator interface {
//	    Name() string
//	    Authenticate(ctx context.Context, input AuthenticatorInput) (string, error)
//	    Status(ctx context.Context) error
//	}
//
// Authenticate returns the principal address on success. Failures are
// reported with a uniform error so callers cannot distinguish an unknown
// address from a wrong credential.
//
// # Built-in Authenticators
//
// The authn subpackage implements API key authentication against the
// principals table - see [github.com/certmint/certmint/pkg/authenticator/authn].
package authenticator
