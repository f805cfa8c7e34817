package gorm

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/certmint/certmint/pkg/events"
	"github.com/certmint/certmint/pkg/model"
	"github.com/certmint/certmint/pkg/server/store"
)

// Ensure IssuersStore implements store.IssuersStore
var _ store.IssuersStore = (*IssuersStore)(nil)

// IssuersStore implements store.IssuersStore using GORM
type IssuersStore struct {
	db *gorm.DB
}

// NewIssuersStore creates a new IssuersStore
func NewIssuersStore(db *gorm.DB) *IssuersStore {
	return &IssuersStore{db: db}
}

// Grant creates an issuer credential and returns it with the plain token
// populated. The credential row and its issuer_created event are written
// in one transaction.
func (s *IssuersStore) Grant(name string, address string) (*model.IssuerCredential, error) {
	plainToken := model.GenerateToken()
	now := time.Now().UTC()

	cred := model.IssuerCredential{
		ID:          uuid.NewString(),
		TokenSHA256: model.HashToken(plainToken),
		Name:        name,
		Address:     address,
		CreatedAt:   now,
		PlainToken:  plainToken,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&cred).Error; err != nil {
			return fmt.Errorf("failed to create issuer credential: %w", err)
		}

		record, err := events.NewRecord(events.IssuerCreated{
			IssuerID: cred.ID,
			Name:     cred.Name,
			Address:  cred.Address,
		}, now)
		if err != nil {
			return err
		}
		if err := tx.Create(record).Error; err != nil {
			return fmt.Errorf("failed to record issuer_created event: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &cred, nil
}

// FindByToken finds an issuer credential by plain token value, returns
// nil if not found
func (s *IssuersStore) FindByToken(plainToken string) (*model.IssuerCredential, error) {
	tokenHash := model.HashToken(plainToken)

	var cred model.IssuerCredential
	tx := s.db.Where("token_sha256 = ?", tokenHash).First(&cred)
	if tx.Error != nil {
		if tx.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find issuer credential: %w", tx.Error)
	}
	return &cred, nil
}

// ByID retrieves an issuer credential by ID
func (s *IssuersStore) ByID(id string) (*model.IssuerCredential, error) {
	var cred model.IssuerCredential
	tx := s.db.Where("id = ?", id).First(&cred)
	if tx.Error != nil {
		if tx.Error == gorm.ErrRecordNotFound {
			return nil, store.ErrIssuerNotFound
		}
		return nil, fmt.Errorf("failed to fetch issuer credential: %w", tx.Error)
	}
	return &cred, nil
}

// List returns all issuer credentials, oldest first
func (s *IssuersStore) List() ([]model.IssuerCredential, error) {
	var creds []model.IssuerCredential
	if err := s.db.Order("created_at, id").Find(&creds).Error; err != nil {
		return nil, fmt.Errorf("failed to list issuer credentials: %w", err)
	}
	return creds, nil
}
