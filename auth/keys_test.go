package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveKeys(t *testing.T) {
	k1, err := DeriveKeys("0123456789abcdef0123456789abcdef")
	require.NoError(t, err)
	k2, err := DeriveKeys("0123456789abcdef0123456789abcdef")
	require.NoError(t, err)
	other, err := DeriveKeys("fedcba9876543210fedcba9876543210")
	require.NoError(t, err)

	assert.Len(t, k1.CookieHash, 64)
	assert.Len(t, k1.CookieBlock, 32)
	assert.Len(t, k1.JWT, 32)

	assert.Equal(t, k1, k2, "derivation is deterministic")
	assert.NotEqual(t, k1.JWT, k1.CookieBlock)
	assert.NotEqual(t, k1.JWT, other.JWT)
}
