package gorm

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/certmint/certmint/pkg/model"
	"github.com/certmint/certmint/pkg/server/store"
)

// Ensure AdminStore implements store.AdminStore
var _ store.AdminStore = (*AdminStore)(nil)

// AdminStore implements store.AdminStore using GORM
type AdminStore struct {
	db *gorm.DB
}

// NewAdminStore creates a new AdminStore
func NewAdminStore(db *gorm.DB) *AdminStore {
	return &AdminStore{db: db}
}

// Init creates the singleton admin credential and returns it with the
// plain token populated
func (s *AdminStore) Init() (*model.AdminCredential, error) {
	plainToken := model.GenerateToken()

	cred := model.AdminCredential{
		ID:          uuid.NewString(),
		TokenSHA256: model.HashToken(plainToken),
		PlainToken:  plainToken,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.AdminCredential{}).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check for admin credential: %w", err)
		}
		if count > 0 {
			return store.ErrAlreadyInitialized
		}
		return tx.Create(&cred).Error
	})
	if err != nil {
		return nil, err
	}
	return &cred, nil
}

// Rotate swaps the admin credential's token digest for a fresh one
func (s *AdminStore) Rotate() (*model.AdminCredential, error) {
	plainToken := model.GenerateToken()
	tokenHash := model.HashToken(plainToken)

	var cred model.AdminCredential
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&cred).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return store.ErrNotInitialized
			}
			return fmt.Errorf("failed to fetch admin credential: %w", err)
		}
		return tx.Model(&cred).Update("token_sha256", tokenHash).Error
	})
	if err != nil {
		return nil, err
	}

	cred.TokenSHA256 = tokenHash
	cred.PlainToken = plainToken
	return &cred, nil
}

// Check reports whether plainToken matches the stored admin credential
func (s *AdminStore) Check(plainToken string) (bool, error) {
	tokenHash := model.HashToken(plainToken)

	var count int64
	err := s.db.Model(&model.AdminCredential{}).
		Where("token_sha256 = ?", tokenHash).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check admin token: %w", err)
	}
	return count > 0, nil
}
