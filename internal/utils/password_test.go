package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	hash, err := HashPassword("Medecin123!", 4)
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	assert.NotEqual(t, "Medecin123!", hash, "raw password must never be stored")

	assert.True(t, VerifyPassword(hash, "Medecin123!"))
	assert.False(t, VerifyPassword(hash, "medecin123!"))
	assert.False(t, VerifyPassword(hash, ""))
}

func TestHashPassword_SaltedPerCall(t *testing.T) {
	h1, err := HashPassword("secret", 4)
	require.NoError(t, err)
	h2, err := HashPassword("secret", 4)
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2, "bcrypt salts must differ between calls")
}

func TestHashPassword_InvalidCostFallsBack(t *testing.T) {
	hash, err := HashPassword("secret", 99)
	require.NoError(t, err)
	assert.True(t, VerifyPassword(hash, "secret"))
}
