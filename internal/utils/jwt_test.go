package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionToken_RoundTrip(t *testing.T) {
	tok, err := NewSessionToken("test-secret", 42, "dr_leroy", 30)
	require.NoError(t, err)
	require.NotEmpty(t, tok.Token)

	sess, exp, err := ParseSessionToken("test-secret", tok.Token)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), sess.PhysicianID)
	assert.Equal(t, "dr_leroy", sess.Username)
	assert.WithinDuration(t, tok.Exp, exp, time.Second)
}

func TestParseSessionToken_WrongSecret(t *testing.T) {
	tok, err := NewSessionToken("secret-a", 1, "dr_dupont", 30)
	require.NoError(t, err)

	_, _, err = ParseSessionToken("secret-b", tok.Token)
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestParseSessionToken_Expired(t *testing.T) {
	tok, err := NewSessionToken("test-secret", 1, "dr_dupont", -1)
	require.NoError(t, err)

	_, _, err = ParseSessionToken("test-secret", tok.Token)
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestParseSessionToken_Garbage(t *testing.T) {
	_, _, err := ParseSessionToken("test-secret", "not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestHashSessionRaw(t *testing.T) {
	h1 := HashSessionRaw("token-a")
	h2 := HashSessionRaw("token-a")
	h3 := HashSessionRaw("token-b")

	assert.Equal(t, h1, h2)
	assert.NotEqual(t, h1, h3)
	assert.Len(t, h1, 64) // sha256 hex
	assert.NotContains(t, h1, "token-a")
}
