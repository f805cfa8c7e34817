package identity

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/certmint/certmint/pkg/token"
)

func TestContextGetSet(t *testing.T) {
	ctx := context.Background()

	// Initially no identity
	id, ok := Get(ctx)
	assert.False(t, ok)
	assert.Nil(t, id)

	// Set identity
	expected := &Identity{
		Address: "cm1aabbccddeeff00112233445566778899",
	}
	ctx = Set(ctx, expected)

	// Get identity
	id, ok = Get(ctx)
	assert.True(t, ok)
	require.NotNil(t, id)
	assert.Equal(t, expected.Address, id.Address)
}

func TestWithRemoteIP(t *testing.T) {
	id := &Identity{Address: "cm1aabbccddeeff00112233445566778899"}

	ip := net.ParseIP("192.168.1.100")
	id.WithRemoteIP(ip)

	assert.Equal(t, ip, id.RemoteIP)
}

func TestFromToken(t *testing.T) {
	signer := token.NewSigner([]byte("0123456789abcdef0123456789abcdef"), 8*time.Minute)

	signed, err := signer.Issue("cm1aabbccddeeff00112233445566778899")
	require.NoError(t, err)

	parsed, err := signer.Parse(signed)
	require.NoError(t, err)

	id := FromToken(parsed)
	assert.Equal(t, "cm1aabbccddeeff00112233445566778899", id.Address)
	assert.Equal(t, parsed, id.Token)
	assert.WithinDuration(t, time.Now(), id.IssuedAt, 5*time.Second)
	assert.WithinDuration(t, time.Now().Add(8*time.Minute), id.ExpiresAt, 5*time.Second)
}
