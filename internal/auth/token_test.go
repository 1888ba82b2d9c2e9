package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTokenService_RoundTrip(t *testing.T) {
	svc := NewTokenService("test-secret", 30*time.Minute)

	token, err := svc.Issue(42, "user@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.Validate(token)
	require.NoError(t, err)
	require.Equal(t, uint64(42), claims.UserID)
	require.Equal(t, "user@example.com", claims.Subject)
}

func TestTokenService_ExpiryBoundary(t *testing.T) {
	svc := NewTokenService("test-secret", 1800*time.Second)

	issuedAt := time.Now()
	svc.now = func() time.Time { return issuedAt }

	token, err := svc.Issue(7, "user@example.com")
	require.NoError(t, err)

	// Still inside the TTL window.
	svc.now = func() time.Time { return issuedAt.Add(1700 * time.Second) }
	claims, err := svc.Validate(token)
	require.NoError(t, err)
	require.Equal(t, uint64(7), claims.UserID)

	// Strictly after the TTL has elapsed.
	svc.now = func() time.Time { return issuedAt.Add(1900 * time.Second) }
	_, err = svc.Validate(token)
	require.ErrorIs(t, err, ErrTokenExpired)
}

func TestTokenService_BadSignature(t *testing.T) {
	issuer := NewTokenService("secret-one", 30*time.Minute)
	verifier := NewTokenService("secret-two", 30*time.Minute)

	token, err := issuer.Issue(1, "user@example.com")
	require.NoError(t, err)

	_, err = verifier.Validate(token)
	require.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenService_Malformed(t *testing.T) {
	svc := NewTokenService("test-secret", 30*time.Minute)

	_, err := svc.Validate("not.a.jwt")
	require.ErrorIs(t, err, ErrTokenMalformed)

	_, err = svc.Validate("")
	require.ErrorIs(t, err, ErrTokenMalformed)
}
