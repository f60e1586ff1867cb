package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amanuelmandefro3/amr-blog/internal/domain"
	"github.com/amanuelmandefro3/amr-blog/pkg/database"
	apperrors "github.com/amanuelmandefro3/amr-blog/pkg/errors"
)

func newUserTestFixture(t *testing.T) (*UserRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	repo := NewUserRepository(mock)
	return repo, mock
}

func sampleUser() *domain.User {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	return &domain.User{
		ID:           "user-1",
		Name:         "Amanuel",
		Email:        "amanuel@example.com",
		PasswordHash: "$2a$10$hash",
		Verified:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// ---------------------------------------------------------------------------
// Create
// ---------------------------------------------------------------------------

func TestUserRepository_Create_Success(t *testing.T) {
	repo, mock := newUserTestFixture(t)
	defer mock.Close()

	u := sampleUser()
	mock.ExpectExec("INSERT INTO users").
		WithArgs(u.ID, u.Name, u.Email, u.PasswordHash, u.Verified,
			u.RefreshTokenHash, u.VerificationTokenHash, u.ResetTokenHash,
			u.CreatedAt, u.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := repo.Create(context.Background(), u)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Create_DuplicateEmail(t *testing.T) {
	repo, mock := newUserTestFixture(t)
	defer mock.Close()

	u := sampleUser()
	mock.ExpectExec("INSERT INTO users").
		WithArgs(u.ID, u.Name, u.Email, u.PasswordHash, u.Verified,
			u.RefreshTokenHash, u.VerificationTokenHash, u.ResetTokenHash,
			u.CreatedAt, u.UpdatedAt).
		WillReturnError(errors.New(`duplicate key value violates unique constraint "users_email_key" (SQLSTATE 23505)`))

	err := repo.Create(context.Background(), u)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrDuplicateEmail), "expected ErrDuplicateEmail, got: %v", err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ---------------------------------------------------------------------------
// GetByID / GetByEmail
// ---------------------------------------------------------------------------

func userRows(u *domain.User) *pgxmock.Rows {
	return pgxmock.NewRows([]string{
		"id", "name", "email", "password_hash", "verified",
		"refresh_token_hash", "verification_token_hash", "reset_token_hash",
		"created_at", "updated_at",
	}).AddRow(
		u.ID, u.Name, u.Email, u.PasswordHash, u.Verified,
		u.RefreshTokenHash, u.VerificationTokenHash, u.ResetTokenHash,
		u.CreatedAt, u.UpdatedAt,
	)
}

func TestUserRepository_GetByID_Success(t *testing.T) {
	repo, mock := newUserTestFixture(t)
	defer mock.Close()

	u := sampleUser()
	mock.ExpectQuery("SELECT (.+) FROM users").
		WithArgs(u.ID).
		WillReturnRows(userRows(u))

	got, err := repo.GetByID(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.Email, got.Email)
	assert.True(t, got.Verified)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetByEmail_NotFound(t *testing.T) {
	repo, mock := newUserTestFixture(t)
	defer mock.Close()

	mock.ExpectQuery("SELECT (.+) FROM users").
		WithArgs("missing@example.com").
		WillReturnRows(pgxmock.NewRows([]string{"id"}))

	got, err := repo.GetByEmail(context.Background(), "missing@example.com")
	require.Error(t, err)
	assert.Nil(t, got)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound), "expected ErrNotFound, got: %v", err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ---------------------------------------------------------------------------
// Refresh token rotation
// ---------------------------------------------------------------------------

func TestUserRepository_RotateRefreshTokenHash_Success(t *testing.T) {
	repo, mock := newUserTestFixture(t)
	defer mock.Close()

	mock.ExpectExec("UPDATE users SET refresh_token_hash =").
		WithArgs("new-hash", pgxmock.AnyArg(), "user-1", "old-hash").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := repo.RotateRefreshTokenHash(context.Background(), "user-1", "old-hash", "new-hash")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_RotateRefreshTokenHash_SlotMismatch(t *testing.T) {
	repo, mock := newUserTestFixture(t)
	defer mock.Close()

	// The slot holds a different hash, so the compare-and-set touches no rows.
	mock.ExpectExec("UPDATE users SET refresh_token_hash =").
		WithArgs("new-hash", pgxmock.AnyArg(), "user-1", "replayed-hash").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.RotateRefreshTokenHash(context.Background(), "user-1", "replayed-hash", "new-hash")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidToken), "expected ErrInvalidToken, got: %v", err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ---------------------------------------------------------------------------
// Verification token consumption
// ---------------------------------------------------------------------------

func TestUserRepository_ConsumeVerificationToken_Success(t *testing.T) {
	repo, mock := newUserTestFixture(t)
	defer mock.Close()

	mock.ExpectExec("UPDATE users SET verified = TRUE").
		WithArgs(pgxmock.AnyArg(), "user-1", "token-hash").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := repo.ConsumeVerificationToken(context.Background(), "user-1", "token-hash")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_ConsumeVerificationToken_AlreadyConsumed(t *testing.T) {
	repo, mock := newUserTestFixture(t)
	defer mock.Close()

	mock.ExpectExec("UPDATE users SET verified = TRUE").
		WithArgs(pgxmock.AnyArg(), "user-1", "token-hash").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.ConsumeVerificationToken(context.Background(), "user-1", "token-hash")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidToken), "expected ErrInvalidToken, got: %v", err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ---------------------------------------------------------------------------
// Reset token consumption
// ---------------------------------------------------------------------------

func TestUserRepository_ConsumeResetToken_Success(t *testing.T) {
	repo, mock := newUserTestFixture(t)
	defer mock.Close()

	mock.ExpectExec("UPDATE users SET password_hash =").
		WithArgs("new-password-hash", pgxmock.AnyArg(), "user-1", "reset-hash").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := repo.ConsumeResetToken(context.Background(), "user-1", "reset-hash", "new-password-hash")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_ConsumeResetToken_Replayed(t *testing.T) {
	repo, mock := newUserTestFixture(t)
	defer mock.Close()

	mock.ExpectExec("UPDATE users SET password_hash =").
		WithArgs("new-password-hash", pgxmock.AnyArg(), "user-1", "consumed-hash").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.ConsumeResetToken(context.Background(), "user-1", "consumed-hash", "new-password-hash")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidToken), "expected ErrInvalidToken, got: %v", err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ---------------------------------------------------------------------------
// UpdatePassword
// ---------------------------------------------------------------------------

func TestUserRepository_UpdatePassword_UserGone(t *testing.T) {
	repo, mock := newUserTestFixture(t)
	defer mock.Close()

	mock.ExpectExec("UPDATE users SET password_hash =").
		WithArgs("new-hash", pgxmock.AnyArg(), "ghost").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.UpdatePassword(context.Background(), "ghost", "new-hash")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound), "expected ErrNotFound, got: %v", err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
