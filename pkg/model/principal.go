package model

import "time"

// Principal is an address that can authenticate. The API key is stored
// as a SHA-256 digest; the plaintext is returned once at registration.
type Principal struct {
	Address      string    `gorm:"column:address;primaryKey"`
	APIKeySHA256 string    `gorm:"column:api_key_sha256"`
	CreatedAt    time.Time `gorm:"column:created_at"`

	// Transient field for the plaintext API key (not stored)
	PlainAPIKey string `gorm:"-"`
}

func (Principal) TableName() string {
	return "principals"
}
