package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/certmint/certmint/pkg/model"
)

// Payload is implemented by all domain event payloads.
type Payload interface {
	Kind() Kind
}

// IssuerCreated is recorded when an issuer credential is granted.
type IssuerCreated struct {
	IssuerID string `json:"issuer_id"`
	Name     string `json:"issuer_name"`
	Address  string `json:"issuer_address"`
}

func (IssuerCreated) Kind() Kind { return KindIssuerCreated }

// CertificateIssued is recorded when a certificate is minted, once per
// certificate including each member of a batch.
type CertificateIssued struct {
	CertificateID   string    `json:"certificate_id"`
	Recipient       string    `json:"recipient"`
	Issuer          string    `json:"issuer"`
	CertificateType string    `json:"certificate_type"`
	IssueDate       time.Time `json:"issue_date"`
}

func (CertificateIssued) Kind() Kind { return KindCertificateIssued }

// CertificateDestroyed is recorded when a recipient destroys a certificate.
type CertificateDestroyed struct {
	CertificateID string `json:"certificate_id"`
	Recipient     string `json:"recipient"`
}

func (CertificateDestroyed) Kind() Kind { return KindCertificateDestroyed }

// NewRecord encodes a payload into an event row ready for insertion. The
// caller supplies the emission time so that rows written in one transaction
// share a single timestamp.
func NewRecord(p Payload, at time.Time) (*model.Event, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s event: %w", p.Kind(), err)
	}
	return &model.Event{
		ID:        uuid.NewString(),
		Kind:      p.Kind().String(),
		Payload:   raw,
		EmittedAt: at,
	}, nil
}
