package token

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SigningKeyEnvVar names the environment variable holding the hex-encoded
// HMAC signing key shared by the server and the authentication endpoint.
const SigningKeyEnvVar = "CERTMINT_TOKEN_SIGNING_KEY"

// ErrMalformed indicates the token structure is invalid.
var ErrMalformed = errors.New("malformed access token")

// ErrExpired indicates the token was valid but its lifetime has passed.
var ErrExpired = errors.New("expired access token")

// ErrInvalid indicates the token failed signature or claim validation.
var ErrInvalid = errors.New("invalid access token")

// Signer issues and validates CertMint access tokens. Tokens are compact
// JWTs signed with HMAC-SHA256; the subject claim carries the principal
// address.
type Signer struct {
	key []byte
	ttl time.Duration
}

// NewSigner creates a Signer from a raw key and a token lifetime.
func NewSigner(key []byte, ttl time.Duration) *Signer {
	return &Signer{key: key, ttl: ttl}
}

// Issue signs a new access token for the given principal address.
func (s *Signer) Issue(address string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   address,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}
	return signed, nil
}

// Parse validates a raw token string and returns the parsed token.
// Structurally broken input returns ErrMalformed, tokens past their
// lifetime return ErrExpired, anything else that fails validation
// returns ErrInvalid.
func (s *Signer) Parse(tokenString string) (*Parsed, error) {
	tok, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Verify signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.key, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenMalformed) {
			return nil, ErrMalformed
		}
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpired
		}
		return nil, ErrInvalid
	}

	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalid
	}

	return &Parsed{claims: claims}, nil
}

// TTL returns the configured token lifetime.
func (s *Signer) TTL() time.Duration {
	return s.ttl
}

// Parsed represents a validated CertMint access token.
type Parsed struct {
	claims jwt.MapClaims
}

// Sub returns the subject claim (the principal address).
func (p Parsed) Sub() string {
	sub, _ := p.claims["sub"].(string)
	return sub
}

// IAT returns the issued-at time.
func (p Parsed) IAT() time.Time {
	iat, ok := p.claims["iat"].(float64)
	if !ok {
		return time.Time{}
	}
	return time.Unix(int64(iat), 0)
}

// Exp returns the expiration time.
func (p Parsed) Exp() time.Time {
	exp, ok := p.claims["exp"].(float64)
	if !ok {
		// Fall back to iat + 8 minutes if no exp claim
		return p.IAT().Add(8 * time.Minute)
	}
	return time.Unix(int64(exp), 0)
}

// GenerateKey returns a new random 256-bit signing key, hex encoded.
func GenerateKey() (string, error) {
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return "", fmt.Errorf("failed to generate signing key: %w", err)
	}
	return hex.EncodeToString(key), nil
}

// LoadKey reads and decodes the signing key from the environment.
func LoadKey() ([]byte, error) {
	raw := os.Getenv(SigningKeyEnvVar)
	if raw == "" {
		return nil, fmt.Errorf("%s environment variable is required", SigningKeyEnvVar)
	}

	key, err := hex.DecodeString(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to decode signing key: %w", err)
	}
	if len(key) < 32 {
		return nil, errors.New("signing key must be at least 32 bytes")
	}
	return key, nil
}
