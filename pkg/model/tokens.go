package model

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
)

// AddressPrefix marks CertMint principal addresses.
const AddressPrefix = "cm1"

// GenerateToken creates a new random capability token
func GenerateToken() string {
	// Generate 32 random bytes and encode as hex (64 chars)
	randomBytes := make([]byte, 32)
	rand.Read(randomBytes)
	return hex.EncodeToString(randomBytes)
}

// HashToken returns the SHA256 hash of a token
func HashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}

// GenerateAPIKey creates a new random API key for a principal
func GenerateAPIKey() (string, error) {
	randomBytes := make([]byte, 32)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(randomBytes), nil
}

// GenerateAddress creates a new principal address: the "cm1" prefix
// followed by 16 random bytes encoded as hex
func GenerateAddress() (string, error) {
	randomBytes := make([]byte, 16)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", err
	}
	return AddressPrefix + hex.EncodeToString(randomBytes), nil
}
