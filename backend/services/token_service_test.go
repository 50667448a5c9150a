package services

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestTokenService(t *testing.T) {
	svc := NewTokenService("secret", "hobbyreads")

	token, err := svc.Issue(42, true)
	require.NoError(t, err)

	session, err := svc.Verify(token)
	require.NoError(t, err)
	require.Equal(t, int64(42), session.UserID)
	require.True(t, session.IsAdmin)
	require.WithinDuration(t, time.Now().Add(DefaultTokenTTL), session.ExpiresAt, time.Minute)
}

func TestTokenServiceRejects(t *testing.T) {
	svc := NewTokenService("secret", "hobbyreads")

	t.Run("wrong secret", func(t *testing.T) {
		token, err := NewTokenService("other", "hobbyreads").Issue(1, false)
		require.NoError(t, err)
		_, err = svc.Verify(token)
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		token, err := NewTokenService("secret", "someone-else").Issue(1, false)
		require.NoError(t, err)
		_, err = svc.Verify(token)
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		expired := NewTokenService("secret", "hobbyreads")
		expired.ttl = -time.Minute
		token, err := expired.Issue(1, false)
		require.NoError(t, err)
		_, err = svc.Verify(token)
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("unsigned", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
			ID: 1,
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    "hobbyreads",
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		}).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = svc.Verify(token)
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("missing user id", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    "hobbyreads",
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		}).SignedString([]byte("secret"))
		require.NoError(t, err)
		_, err = svc.Verify(token)
		require.ErrorIs(t, err, ErrInvalidToken)
	})
}
