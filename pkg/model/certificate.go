package model

import "time"

// Certificate is an issued certificate record. Issuer always equals the
// bound address of the credential used at minting and Recipient is set
// once at mint time; neither field has an update path anywhere in the
// system. Metadata is opaque text and is never parsed or validated.
type Certificate struct {
	ID              string    `gorm:"column:id;primaryKey"`
	Name            string    `gorm:"column:name"`
	Description     string    `gorm:"column:description"`
	ImageURL        string    `gorm:"column:image_url"`
	Recipient       string    `gorm:"column:recipient"`
	Issuer          string    `gorm:"column:issuer"`
	IssueDate       time.Time `gorm:"column:issue_date"`
	CertificateType string    `gorm:"column:certificate_type"`
	Metadata        string    `gorm:"column:metadata"`
}

func (Certificate) TableName() string {
	return "certificates"
}

// CertificateResponse is the JSON response format for certificates
type CertificateResponse struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Description     string `json:"description"`
	ImageURL        string `json:"image_url"`
	Recipient       string `json:"recipient"`
	Issuer          string `json:"issuer"`
	IssueDate       string `json:"issue_date"`
	CertificateType string `json:"certificate_type"`
	Metadata        string `json:"metadata"`
}

// ToResponse converts the certificate to a JSON response
func (c *Certificate) ToResponse() CertificateResponse {
	return CertificateResponse{
		ID:              c.ID,
		Name:            c.Name,
		Description:     c.Description,
		ImageURL:        c.ImageURL,
		Recipient:       c.Recipient,
		Issuer:          c.Issuer,
		IssueDate:       c.IssueDate.UTC().Format(time.RFC3339),
		CertificateType: c.CertificateType,
		Metadata:        c.Metadata,
	}
}
