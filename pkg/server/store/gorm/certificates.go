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

// Ensure CertificatesStore implements store.CertificatesStore
var _ store.CertificatesStore = (*CertificatesStore)(nil)

// CertificatesStore implements store.CertificatesStore using GORM
type CertificatesStore struct {
	db *gorm.DB
}

// NewCertificatesStore creates a new CertificatesStore
func NewCertificatesStore(db *gorm.DB) *CertificatesStore {
	return &CertificatesStore{db: db}
}

// Issue mints one certificate stamped with issueDate
func (s *CertificatesStore) Issue(issuer string, req store.IssueRequest, issueDate time.Time) (*model.Certificate, error) {
	certs, err := s.IssueBatch(issuer, []store.IssueRequest{req}, issueDate)
	if err != nil {
		return nil, err
	}
	return &certs[0], nil
}

// IssueBatch mints one certificate per request. All rows, certificates
// and their certificate_issued events alike, are written in a single
// transaction and share issueDate.
func (s *CertificatesStore) IssueBatch(issuer string, reqs []store.IssueRequest, issueDate time.Time) ([]model.Certificate, error) {
	certs := make([]model.Certificate, 0, len(reqs))

	err := s.db.Transaction(func(tx *gorm.DB) error {
		for _, req := range reqs {
			cert := model.Certificate{
				ID:              uuid.NewString(),
				Name:            req.Name,
				Description:     req.Description,
				ImageURL:        req.ImageURL,
				Recipient:       req.Recipient,
				Issuer:          issuer,
				IssueDate:       issueDate,
				CertificateType: req.CertificateType,
				Metadata:        req.Metadata,
			}
			if err := tx.Create(&cert).Error; err != nil {
				return fmt.Errorf("failed to create certificate: %w", err)
			}

			record, err := events.NewRecord(events.CertificateIssued{
				CertificateID:   cert.ID,
				Recipient:       cert.Recipient,
				Issuer:          cert.Issuer,
				CertificateType: cert.CertificateType,
				IssueDate:       cert.IssueDate,
			}, issueDate)
			if err != nil {
				return err
			}
			if err := tx.Create(record).Error; err != nil {
				return fmt.Errorf("failed to record certificate_issued event: %w", err)
			}

			certs = append(certs, cert)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return certs, nil
}

// ByID retrieves a certificate by ID
func (s *CertificatesStore) ByID(id string) (*model.Certificate, error) {
	var cert model.Certificate
	tx := s.db.Where("id = ?", id).First(&cert)
	if tx.Error != nil {
		if tx.Error == gorm.ErrRecordNotFound {
			return nil, store.ErrCertificateNotFound
		}
		return nil, fmt.Errorf("failed to fetch certificate: %w", tx.Error)
	}
	return &cert, nil
}

// List returns certificates matching the filter, newest first
func (s *CertificatesStore) List(filter store.CertificateFilter) ([]model.Certificate, error) {
	query := s.db.Order("issue_date desc, id")
	if filter.Recipient != "" {
		query = query.Where("recipient = ?", filter.Recipient)
	}
	if filter.Issuer != "" {
		query = query.Where("issuer = ?", filter.Issuer)
	}

	var certs []model.Certificate
	if err := query.Find(&certs).Error; err != nil {
		return nil, fmt.Errorf("failed to list certificates: %w", err)
	}
	return certs, nil
}

// Destroy deletes a certificate after checking that recipient holds it.
// The delete and its certificate_destroyed event are written in one
// transaction.
func (s *CertificatesStore) Destroy(id string, recipient string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var cert model.Certificate
		if err := tx.Where("id = ?", id).First(&cert).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return store.ErrCertificateNotFound
			}
			return fmt.Errorf("failed to fetch certificate: %w", err)
		}

		if cert.Recipient != recipient {
			return store.ErrNotRecipient
		}

		if err := tx.Delete(&cert).Error; err != nil {
			return fmt.Errorf("failed to delete certificate: %w", err)
		}

		record, err := events.NewRecord(events.CertificateDestroyed{
			CertificateID: cert.ID,
			Recipient:     cert.Recipient,
		}, time.Now().UTC())
		if err != nil {
			return err
		}
		if err := tx.Create(record).Error; err != nil {
			return fmt.Errorf("failed to record certificate_destroyed event: %w", err)
		}
		return nil
	})
}
