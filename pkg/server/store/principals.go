package store

import "github.com/certmint/certmint/pkg/model"

// PrincipalsStore abstracts principal registration
type PrincipalsStore interface {
	// Register mints a principal with a fresh address and API key. The
	// returned principal carries the plain API key; only its digest is
	// stored.
	Register() (*model.Principal, error)
}
