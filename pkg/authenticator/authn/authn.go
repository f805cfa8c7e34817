package authn

import (
	"context"
	"crypto/subtle"
	"errors"

	"gorm.io/gorm"

	"github.com/certmint/certmint/pkg/authenticator"
	"github.com/certmint/certmint/pkg/model"
)

// ErrAuthenticationFailed is returned for every authentication failure.
// The message is deliberately uniform so callers cannot tell an unknown
// address apart from a wrong API key.
var ErrAuthenticationFailed = errors.New("authentication failed")

// Authenticator implements API key authentication
type Authenticator struct {
	db *gorm.DB
}

// New creates a new API key authenticator
func New(db *gorm.DB) *Authenticator {
	return &Authenticator{db: db}
}

// Name returns the authenticator name
func (a *Authenticator) Name() string {
	return "authn"
}

// Authenticate validates an API key and returns the principal address
func (a *Authenticator) Authenticate(ctx context.Context, input authenticator.AuthenticatorInput) (string, error) {
	if input.Address == "" {
		return "", ErrAuthenticationFailed
	}

	var storedDigest string
	row := a.db.WithContext(ctx).
		Raw(`SELECT api_key_sha256 FROM principals WHERE address = ?`, input.Address).
		Row()
	if err := row.Scan(&storedDigest); err != nil {
		return "", ErrAuthenticationFailed
	}

	if storedDigest == "" {
		return "", ErrAuthenticationFailed
	}

	// Compare digests rather than plaintext; only the digest is at rest
	presentedDigest := model.HashToken(string(input.Credentials))
	if subtle.ConstantTimeCompare([]byte(storedDigest), []byte(presentedDigest)) != 1 {
		return "", ErrAuthenticationFailed
	}

	return input.Address, nil
}

// Status checks if the authenticator is healthy
func (a *Authenticator) Status(ctx context.Context) error {
	// API key authn is healthy if we can reach the database
	return a.db.WithContext(ctx).Exec("SELECT 1").Error
}
