package store

import (
	"errors"

	"github.com/certmint/certmint/pkg/model"
)

// ErrIssuerNotFound is returned when an issuer credential doesn't exist
var ErrIssuerNotFound = errors.New("issuer credential not found")

// IssuersStore abstracts issuer credential storage operations
type IssuersStore interface {
	// Grant creates an issuer credential bound to a display name and an
	// address. The returned credential carries the plain token; only its
	// digest is stored. The same address may be granted any number of
	// credentials. An issuer_created event is recorded in the same
	// transaction.
	Grant(name string, address string) (*model.IssuerCredential, error)

	// FindByToken finds an issuer credential by plain token value, returns
	// nil if not found
	FindByToken(plainToken string) (*model.IssuerCredential, error)

	// ByID retrieves an issuer credential by ID. Returns ErrIssuerNotFound
	// if it doesn't exist.
	ByID(id string) (*model.IssuerCredential, error)

	// List returns all issuer credentials, oldest first.
	List() ([]model.IssuerCredential, error)
}
