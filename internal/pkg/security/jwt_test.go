package security

import (
	"Blogstone/internal/api/config"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupSecrets(t *testing.T) {
	t.Helper()
	Init(config.JWTConfig{Secret: "access-secret", RefreshSecret: "refresh-secret", Expire: 60, RefreshExpire: 120})
}

func TestAccessTokenRoundTrip(t *testing.T) {
	setupSecrets(t)

	token, err := GenerateToken("65f0c0ffee0000000000abcd", []string{"admin"})
	require.NoError(t, err)

	claims, err := ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "65f0c0ffee0000000000abcd", claims.UserID)
	assert.Equal(t, []string{"admin"}, claims.Roles)
	assert.InDelta(t, time.Hour.Seconds(), TTL(claims).Seconds(), 5)
}

func TestAccessAndRefreshSecretsAreSeparate(t *testing.T) {
	setupSecrets(t)

	refresh, err := GenerateRefreshToken("u1", "$2a$10$hash")
	require.NoError(t, err)

	_, err = ValidateToken(refresh)
	assert.Error(t, err)

	claims, err := ValidateRefreshToken(refresh)
	require.NoError(t, err)
	assert.Equal(t, Fingerprint("$2a$10$hash"), claims.Fingerprint)
	assert.NotEqual(t, Fingerprint("$2a$10$other"), claims.Fingerprint)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	setupSecrets(t)

	_, err := ValidateToken("not.a.token")
	assert.Error(t, err)

	_, err = ExtractSignature("abc")
	assert.Error(t, err)

	sig, err := ExtractSignature("a.b.c")
	require.NoError(t, err)
	assert.Equal(t, "c", sig)
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("secret1")
	require.NoError(t, err)

	assert.NoError(t, CheckPasswordHash("secret1", hash))
	assert.ErrorIs(t, CheckPasswordHash("secret2", hash), ErrPasswordMismatch)

	_, err = HashPassword("")
	assert.Error(t, err)
}
