package store

import (
	"errors"

	"github.com/certmint/certmint/pkg/model"
)

// ErrAlreadyInitialized is returned when the admin credential already exists
var ErrAlreadyInitialized = errors.New("admin credential already initialized")

// ErrNotInitialized is returned when no admin credential exists yet
var ErrNotInitialized = errors.New("admin credential not initialized")

// AdminStore abstracts admin credential storage operations
type AdminStore interface {
	// Init creates the singleton admin credential. The returned credential
	// carries the plain token; only its digest is stored. Returns
	// ErrAlreadyInitialized if the credential was created before.
	Init() (*model.AdminCredential, error)

	// Rotate replaces the admin credential's token with a fresh one,
	// invalidating the old token. Returns ErrNotInitialized if Init was
	// never run.
	Rotate() (*model.AdminCredential, error)

	// Check reports whether a plain token matches the stored admin credential.
	Check(plainToken string) (bool, error)
}
