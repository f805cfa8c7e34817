package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testKey = []byte("0123456789abcdef0123456789abcdef")

func TestIssueAndParse(t *testing.T) {
	signer := NewSigner(testKey, 8*time.Minute)

	signed, err := signer.Issue("cm1aabbccddeeff00112233445566778899")
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	parsed, err := signer.Parse(signed)
	require.NoError(t, err)
	require.NotNil(t, parsed)

	assert.Equal(t, "cm1aabbccddeeff00112233445566778899", parsed.Sub())
	assert.WithinDuration(t, time.Now(), parsed.IAT(), 5*time.Second)
	assert.WithinDuration(t, time.Now().Add(8*time.Minute), parsed.Exp(), 5*time.Second)
}

func TestParse_WrongKey(t *testing.T) {
	signer := NewSigner(testKey, 8*time.Minute)
	other := NewSigner([]byte("ffffffffffffffffffffffffffffffff"), 8*time.Minute)

	signed, err := signer.Issue("cm1aabbccddeeff00112233445566778899")
	require.NoError(t, err)

	_, err = other.Parse(signed)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestParse_Expired(t *testing.T) {
	signer := NewSigner(testKey, -time.Minute)

	signed, err := signer.Issue("cm1aabbccddeeff00112233445566778899")
	require.NoError(t, err)

	_, err = signer.Parse(signed)
	assert.ErrorIs(t, err, ErrExpired)
}

func TestParse_Malformed(t *testing.T) {
	signer := NewSigner(testKey, 8*time.Minute)

	_, err := signer.Parse("not-a-token")
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestParse_RejectsUnsignedToken(t *testing.T) {
	signer := NewSigner(testKey, 8*time.Minute)

	claims := jwt.RegisteredClaims{
		Subject:   "cm1aabbccddeeff00112233445566778899",
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = signer.Parse(unsigned)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestGenerateKey(t *testing.T) {
	key1, err := GenerateKey()
	require.NoError(t, err)
	assert.Len(t, key1, 64)

	key2, err := GenerateKey()
	require.NoError(t, err)
	assert.NotEqual(t, key1, key2)
}

func TestLoadKey(t *testing.T) {
	t.Run("missing", func(t *testing.T) {
		t.Setenv(SigningKeyEnvVar, "")
		_, err := LoadKey()
		assert.Error(t, err)
	})

	t.Run("not hex", func(t *testing.T) {
		t.Setenv(SigningKeyEnvVar, "zzzz")
		_, err := LoadKey()
		assert.Error(t, err)
	})

	t.Run("too short", func(t *testing.T) {
		t.Setenv(SigningKeyEnvVar, "abcd")
		_, err := LoadKey()
		assert.Error(t, err)
	})

	t.Run("valid", func(t *testing.T) {
		generated, err := GenerateKey()
		require.NoError(t, err)

		t.Setenv(SigningKeyEnvVar, generated)
		key, err := LoadKey()
		require.NoError(t, err)
		assert.Len(t, key, 32)
	})
}
