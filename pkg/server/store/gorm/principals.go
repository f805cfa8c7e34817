package gorm

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/certmint/certmint/pkg/model"
	"github.com/certmint/certmint/pkg/server/store"
)

// Ensure PrincipalsStore implements store.PrincipalsStore
var _ store.PrincipalsStore = (*PrincipalsStore)(nil)

// PrincipalsStore implements store.PrincipalsStore using GORM
type PrincipalsStore struct {
	db *gorm.DB
}

// NewPrincipalsStore creates a new PrincipalsStore
func NewPrincipalsStore(db *gorm.DB) *PrincipalsStore {
	return &PrincipalsStore{db: db}
}

// Register mints a principal and returns it with the plain API key
// populated
func (s *PrincipalsStore) Register() (*model.Principal, error) {
	address, err := model.GenerateAddress()
	if err != nil {
		return nil, fmt.Errorf("failed to generate address: %w", err)
	}
	apiKey, err := model.GenerateAPIKey()
	if err != nil {
		return nil, fmt.Errorf("failed to generate API key: %w", err)
	}

	principal := model.Principal{
		Address:      address,
		APIKeySHA256: model.HashToken(apiKey),
		PlainAPIKey:  apiKey,
	}
	if err := s.db.Create(&principal).Error; err != nil {
		return nil, fmt.Errorf("failed to create principal: %w", err)
	}
	return &principal, nil
}
