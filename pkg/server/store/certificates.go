package store

import (
	"errors"
	"time"

	"github.com/certmint/certmint/pkg/model"
)

// ErrCertificateNotFound is returned when a certificate doesn't exist
var ErrCertificateNotFound = errors.New("certificate not found")

// ErrNotRecipient is returned when a caller tries to destroy a certificate
// held by somebody else
var ErrNotRecipient = errors.New("caller is not the certificate recipient")

// IssueRequest carries the caller-supplied fields of one certificate.
type IssueRequest struct {
	Name            string
	Description     string
	ImageURL        string
	Recipient       string
	CertificateType string
	Metadata        string
}

// CertificateFilter narrows List results. Zero-value fields don't filter.
type CertificateFilter struct {
	Recipient string
	Issuer    string
}

// CertificatesStore abstracts certificate storage operations
type CertificatesStore interface {
	// Issue mints one certificate from the given issuer address, stamped
	// with issueDate. A certificate_issued event is recorded in the same
	// transaction.
	Issue(issuer string, req IssueRequest, issueDate time.Time) (*model.Certificate, error)

	// IssueBatch mints one certificate per request in a single
	// transaction. Every certificate shares the same issue date; either
	// all are created or none.
	IssueBatch(issuer string, reqs []IssueRequest, issueDate time.Time) ([]model.Certificate, error)

	// ByID retrieves a certificate by ID. Returns ErrCertificateNotFound
	// if it doesn't exist.
	ByID(id string) (*model.Certificate, error)

	// List returns certificates matching the filter, newest first.
	List(filter CertificateFilter) ([]model.Certificate, error)

	// Destroy deletes a certificate on behalf of its recipient. Returns
	// ErrCertificateNotFound if the certificate doesn't exist and
	// ErrNotRecipient if recipient doesn't hold it. A
	// certificate_destroyed event is recorded in the same transaction.
	Destroy(id string, recipient string) error
}
