package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/amanuelmandefro3/amr-blog/pkg/errors"
)

func newTestManager() *TokenManager {
	return NewTokenManager(Options{
		AccessSecret:  "access-secret-for-tests-0123456789ab",
		RefreshSecret: "refresh-secret-for-tests-0123456789a",
		AccessExpiry:  15 * time.Minute,
		RefreshExpiry: 168 * time.Hour,
		VerifyExpiry:  24 * time.Hour,
		ResetExpiry:   15 * time.Minute,
	})
}

func TestAccessToken_RoundTrip(t *testing.T) {
	m := newTestManager()

	token, err := m.GenerateAccessToken("user-1", "amanuel@example.com")
	require.NoError(t, err)

	claims, err := m.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "amanuel@example.com", claims.Email)
	assert.Equal(t, PurposeAccess, claims.Purpose)
}

func TestRefreshToken_RejectedAsAccess(t *testing.T) {
	m := newTestManager()

	refresh, err := m.GenerateRefreshToken("user-1", "amanuel@example.com")
	require.NoError(t, err)

	// Different secret, so validation fails before the purpose check.
	_, err = m.ValidateAccessToken(refresh)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidToken))
}

func TestVerificationToken_PurposeMismatch(t *testing.T) {
	m := newTestManager()

	verify, err := m.GenerateVerificationToken("user-1", "amanuel@example.com")
	require.NoError(t, err)

	// Same signing secret as reset tokens, so only the purpose claim
	// stands between the two flows.
	_, err = m.ValidateResetToken(verify)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidToken))
}

func TestExpiredToken_ReportsExpiry(t *testing.T) {
	m := NewTokenManager(Options{
		AccessSecret:  "access-secret-for-tests-0123456789ab",
		RefreshSecret: "refresh-secret-for-tests-0123456789a",
		AccessExpiry:  -1 * time.Minute,
		RefreshExpiry: 168 * time.Hour,
		VerifyExpiry:  24 * time.Hour,
		ResetExpiry:   15 * time.Minute,
	})

	token, err := m.GenerateAccessToken("user-1", "amanuel@example.com")
	require.NoError(t, err)

	_, err = m.ValidateAccessToken(token)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrTokenExpired))
	assert.False(t, errors.Is(err, apperrors.ErrInvalidToken))
}

func TestGarbageToken_Invalid(t *testing.T) {
	m := newTestManager()

	_, err := m.ValidateAccessToken("not-a-jwt")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidToken))
}

func TestHashToken_StableAndDistinct(t *testing.T) {
	a := HashToken("token-a")
	b := HashToken("token-b")

	assert.Equal(t, a, HashToken("token-a"))
	assert.NotEqual(t, a, b)
	assert.Len(t, a, 64)
}
