package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	m := NewJWTManager(JWTConfig{Secret: "s3cret", Issuer: "course-hub"})

	token, jti, err := m.GenerateAccessToken(42, "ada", "professor")
	require.NoError(t, err)
	assert.NotEmpty(t, jti)

	claims, err := m.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "ada", claims.Username)
	assert.Equal(t, "professor", claims.Role)
	assert.Equal(t, jti, claims.ID)
	assert.Equal(t, "42", claims.Subject)
}

func TestExpiredToken(t *testing.T) {
	m := NewJWTManager(JWTConfig{Secret: "s3cret", Expiry: time.Minute})
	m.now = func() time.Time { return time.Now().Add(-time.Hour) }
	token, _, err := m.GenerateAccessToken(1, "ada", "student")
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.ValidateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestWrongSecret(t *testing.T) {
	token, _, err := NewJWTManager(JWTConfig{Secret: "a"}).GenerateAccessToken(1, "ada", "student")
	require.NoError(t, err)

	_, err = NewJWTManager(JWTConfig{Secret: "b"}).ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = NewJWTManager(JWTConfig{Secret: "b"}).ValidateToken("garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestHasher(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	_, err := h.HashPassword("short")
	assert.ErrorIs(t, err, ErrPasswordTooShort)

	hash, err := h.HashPassword("password123")
	require.NoError(t, err)
	assert.NoError(t, VerifyPassword(hash, "password123"))
	assert.ErrorIs(t, VerifyPassword(hash, "password124"), ErrPasswordMismatch)
}
