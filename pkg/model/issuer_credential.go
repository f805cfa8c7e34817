package model

import "time"

// IssuerCredential is a delegated issuing capability. The credential is
// bound to Address at grant time; issuance requires both possession of
// the plaintext token and a caller address equal to Address.
//
// No uniqueness constraint exists on Address: granting the same address
// twice yields two independent valid credentials.
type IssuerCredential struct {
	ID          string    `gorm:"column:id;primaryKey"`
	TokenSHA256 string    `gorm:"column:token_sha256"`
	Name        string    `gorm:"column:name"`
	Address     string    `gorm:"column:address"`
	CreatedAt   time.Time `gorm:"column:created_at"`

	// Transient field for the plaintext token (not stored)
	PlainToken string `gorm:"-"`
}

func (IssuerCredential) TableName() string {
	return "issuer_credentials"
}

// IssuerResponse is the JSON response format for issuer credentials.
// Token is only populated at grant time.
type IssuerResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Address   string `json:"address"`
	CreatedAt string `json:"created_at"`
	Token     string `json:"token,omitempty"`
}

// ToResponse converts the credential to a JSON response
func (c *IssuerCredential) ToResponse() IssuerResponse {
	return IssuerResponse{
		ID:        c.ID,
		Name:      c.Name,
		Address:   c.Address,
		CreatedAt: c.CreatedAt.UTC().Format(time.RFC3339),
		Token:     c.PlainToken,
	}
}
