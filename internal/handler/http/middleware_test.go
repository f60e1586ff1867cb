package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/amanuelmandefro3/amr-blog/internal/auth"
	"github.com/amanuelmandefro3/amr-blog/internal/domain"
	apperrors "github.com/amanuelmandefro3/amr-blog/pkg/errors"
	pkgmiddleware "github.com/amanuelmandefro3/amr-blog/pkg/middleware"
)

type mockUserRepository struct {
	mock.Mock
}

func (m *mockUserRepository) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepository) SetRefreshTokenHash(ctx context.Context, userID, hash string) error {
	args := m.Called(ctx, userID, hash)
	return args.Error(0)
}

func (m *mockUserRepository) RotateRefreshTokenHash(ctx context.Context, userID, currentHash, newHash string) error {
	args := m.Called(ctx, userID, currentHash, newHash)
	return args.Error(0)
}

func (m *mockUserRepository) SetVerificationTokenHash(ctx context.Context, userID, hash string) error {
	args := m.Called(ctx, userID, hash)
	return args.Error(0)
}

func (m *mockUserRepository) ConsumeVerificationToken(ctx context.Context, userID, tokenHash string) error {
	args := m.Called(ctx, userID, tokenHash)
	return args.Error(0)
}

func (m *mockUserRepository) SetResetTokenHash(ctx context.Context, userID, hash string) error {
	args := m.Called(ctx, userID, hash)
	return args.Error(0)
}

func (m *mockUserRepository) ConsumeResetToken(ctx context.Context, userID, tokenHash, newPasswordHash string) error {
	args := m.Called(ctx, userID, tokenHash, newPasswordHash)
	return args.Error(0)
}

func (m *mockUserRepository) UpdatePassword(ctx context.Context, userID, newPasswordHash string) error {
	args := m.Called(ctx, userID, newPasswordHash)
	return args.Error(0)
}

func newTestTokenManager() *auth.TokenManager {
	return auth.NewTokenManager(auth.Options{
		AccessSecret:  "access-secret-for-tests-0123456789ab",
		RefreshSecret: "refresh-secret-for-tests-0123456789a",
		AccessExpiry:  15 * time.Minute,
		RefreshExpiry: 168 * time.Hour,
		VerifyExpiry:  24 * time.Hour,
		ResetExpiry:   15 * time.Minute,
	})
}

func okHandler(sawUserID *string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*sawUserID = pkgmiddleware.UserIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireAuth_CookieToken(t *testing.T) {
	tm := newTestTokenManager()
	users := new(mockUserRepository)
	user := &domain.User{ID: "user-1", Email: "amanuel@example.com", Verified: true}

	token, err := tm.GenerateAccessToken(user.ID, user.Email)
	require.NoError(t, err)

	users.On("GetByID", mock.Anything, user.ID).Return(user, nil)

	var sawUserID string
	handler := RequireAuth(tm, users)(okHandler(&sawUserID))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: accessCookieName, Value: token})
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "user-1", sawUserID)
}

func TestRequireAuth_BearerFallback(t *testing.T) {
	tm := newTestTokenManager()
	users := new(mockUserRepository)
	user := &domain.User{ID: "user-1", Email: "amanuel@example.com", Verified: true}

	token, err := tm.GenerateAccessToken(user.ID, user.Email)
	require.NoError(t, err)

	users.On("GetByID", mock.Anything, user.ID).Return(user, nil)

	var sawUserID string
	handler := RequireAuth(tm, users)(okHandler(&sawUserID))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "user-1", sawUserID)
}

func TestRequireAuth_MissingToken(t *testing.T) {
	tm := newTestTokenManager()
	users := new(mockUserRepository)

	var sawUserID string
	handler := RequireAuth(tm, users)(okHandler(&sawUserID))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Contains(t, rr.Body.String(), "UNAUTHORIZED")
	users.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestRequireAuth_ExpiredToken(t *testing.T) {
	expired := auth.NewTokenManager(auth.Options{
		AccessSecret:  "access-secret-for-tests-0123456789ab",
		RefreshSecret: "refresh-secret-for-tests-0123456789a",
		AccessExpiry:  -1 * time.Minute,
		RefreshExpiry: 168 * time.Hour,
		VerifyExpiry:  24 * time.Hour,
		ResetExpiry:   15 * time.Minute,
	})
	token, err := expired.GenerateAccessToken("user-1", "amanuel@example.com")
	require.NoError(t, err)

	users := new(mockUserRepository)
	var sawUserID string
	handler := RequireAuth(newTestTokenManager(), users)(okHandler(&sawUserID))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Contains(t, rr.Body.String(), "TOKEN_EXPIRED")
}

func TestRequireAuth_UserGone(t *testing.T) {
	tm := newTestTokenManager()
	users := new(mockUserRepository)

	token, err := tm.GenerateAccessToken("ghost", "ghost@example.com")
	require.NoError(t, err)

	users.On("GetByID", mock.Anything, "ghost").Return(nil, apperrors.ErrNotFound)

	var sawUserID string
	handler := RequireAuth(tm, users)(okHandler(&sawUserID))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Empty(t, sawUserID)
}

func TestOptionalAuth_AttachesViewer(t *testing.T) {
	tm := newTestTokenManager()

	token, err := tm.GenerateAccessToken("user-1", "amanuel@example.com")
	require.NoError(t, err)

	var sawUserID string
	handler := OptionalAuth(tm)(okHandler(&sawUserID))

	req := httptest.NewRequest(http.MethodGet, "/blogs/blog-1", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "user-1", sawUserID)
}

func TestOptionalAuth_AnonymousPassesThrough(t *testing.T) {
	var sawUserID string
	handler := OptionalAuth(newTestTokenManager())(okHandler(&sawUserID))

	req := httptest.NewRequest(http.MethodGet, "/blogs/blog-1", nil)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, sawUserID)
}

func TestOptionalAuth_InvalidTokenTreatedAsAnonymous(t *testing.T) {
	var sawUserID string
	handler := OptionalAuth(newTestTokenManager())(okHandler(&sawUserID))

	req := httptest.NewRequest(http.MethodGet, "/blogs/blog-1", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, sawUserID)
}

func TestContentTypeJSON_RejectsForm(t *testing.T) {
	handler := ContentTypeJSON(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, rr.Code)
}
