package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("0123456789abcdef0123456789abcdef", time.Hour)

	token, expires, err := issuer.GenerateToken(7, "admin@studioworks.dev")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expires, 5*time.Second)

	claims, err := issuer.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "admin@studioworks.dev", claims.Email)
}

func TestValidateTokenRejectsForeignSecret(t *testing.T) {
	token, _, err := NewTokenIssuer("secret-a-secret-a-secret-a-secret", time.Hour).GenerateToken(1, "a@b.c")
	require.NoError(t, err)

	_, err = NewTokenIssuer("secret-b-secret-b-secret-b-secret", time.Hour).ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = NewTokenIssuer("x", time.Hour).ValidateToken("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateTokenExpired(t *testing.T) {
	issuer := NewTokenIssuer("0123456789abcdef0123456789abcdef", time.Minute)
	issuer.now = func() time.Time { return time.Now().Add(-time.Hour) }

	token, _, err := issuer.GenerateToken(1, "a@b.c")
	require.NoError(t, err)

	issuer.now = time.Now
	_, err = issuer.ValidateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("correct horse")
	require.NoError(t, err)

	assert.True(t, CheckPasswordHash("correct horse", hash))
	assert.False(t, CheckPasswordHash("battery staple", hash))
}
