package model

import "time"

// AdminCredential is the singleton administrative capability. Possession
// of the plaintext token is the sole proof of administrative authority.
type AdminCredential struct {
	ID          string    `gorm:"column:id;primaryKey"`
	TokenSHA256 string    `gorm:"column:token_sha256"`
	CreatedAt   time.Time `gorm:"column:created_at"`

	// Transient field for the plaintext token (not stored)
	PlainToken string `gorm:"-"`
}

func (AdminCredential) TableName() string {
	return "admin_credentials"
}
