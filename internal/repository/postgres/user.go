package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/amanuelmandefro3/amr-blog/internal/domain"
	"github.com/amanuelmandefro3/amr-blog/pkg/database"
	apperrors "github.com/amanuelmandefro3/amr-blog/pkg/errors"
)

// UserRepository implements repository.UserRepository using PostgreSQL.
type UserRepository struct {
	pool database.DBTX
}

// NewUserRepository creates a new PostgreSQL-backed user repository.
func NewUserRepository(pool database.DBTX) *UserRepository {
	return &UserRepository{pool: pool}
}

// Create inserts a new user into the database.
func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	query := `
		INSERT INTO users (id, name, email, password_hash, verified, refresh_token_hash, verification_token_hash, reset_token_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.pool.Exec(ctx, query,
		u.ID,
		u.Name,
		u.Email,
		u.PasswordHash,
		u.Verified,
		u.RefreshTokenHash,
		u.VerificationTokenHash,
		u.ResetTokenHash,
		u.CreatedAt,
		u.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.DuplicateEmail(u.Email)
		}
		return fmt.Errorf("insert user: %w", err)
	}

	return nil
}

// GetByID retrieves a user by their ID.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `
		SELECT id, name, email, password_hash, verified, refresh_token_hash, verification_token_hash, reset_token_hash, created_at, updated_at
		FROM users
		WHERE id = $1`

	return r.scanUser(ctx, query, id)
}

// GetByEmail retrieves a user by their email address.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `
		SELECT id, name, email, password_hash, verified, refresh_token_hash, verification_token_hash, reset_token_hash, created_at, updated_at
		FROM users
		WHERE email = $1`

	return r.scanUser(ctx, query, email)
}

// SetRefreshTokenHash overwrites the user's refresh token slot.
func (r *UserRepository) SetRefreshTokenHash(ctx context.Context, userID, hash string) error {
	query := `UPDATE users SET refresh_token_hash = $1, updated_at = $2 WHERE id = $3`

	ct, err := r.pool.Exec(ctx, query, hash, time.Now().UTC(), userID)
	if err != nil {
		return fmt.Errorf("set refresh token hash: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("user", userID)
	}

	return nil
}

// RotateRefreshTokenHash swaps currentHash for newHash in one compare-and-set
// update. A replayed token no longer matches the slot, so the update affects
// zero rows and the rotation fails.
func (r *UserRepository) RotateRefreshTokenHash(ctx context.Context, userID, currentHash, newHash string) error {
	query := `
		UPDATE users SET refresh_token_hash = $1, updated_at = $2
		WHERE id = $3 AND refresh_token_hash = $4 AND refresh_token_hash <> ''`

	ct, err := r.pool.Exec(ctx, query, newHash, time.Now().UTC(), userID, currentHash)
	if err != nil {
		return fmt.Errorf("rotate refresh token hash: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.InvalidToken("refresh token is no longer valid")
	}

	return nil
}

// SetVerificationTokenHash stores the pending email verification token digest.
func (r *UserRepository) SetVerificationTokenHash(ctx context.Context, userID, hash string) error {
	query := `UPDATE users SET verification_token_hash = $1, updated_at = $2 WHERE id = $3`

	ct, err := r.pool.Exec(ctx, query, hash, time.Now().UTC(), userID)
	if err != nil {
		return fmt.Errorf("set verification token hash: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("user", userID)
	}

	return nil
}

// ConsumeVerificationToken marks the user verified and clears the slot when
// it still holds tokenHash.
func (r *UserRepository) ConsumeVerificationToken(ctx context.Context, userID, tokenHash string) error {
	query := `
		UPDATE users SET verified = TRUE, verification_token_hash = '', updated_at = $1
		WHERE id = $2 AND verification_token_hash = $3 AND verification_token_hash <> ''`

	ct, err := r.pool.Exec(ctx, query, time.Now().UTC(), userID, tokenHash)
	if err != nil {
		return fmt.Errorf("consume verification token: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.InvalidToken("verification token is no longer valid")
	}

	return nil
}

// SetResetTokenHash stores the pending password reset token digest.
func (r *UserRepository) SetResetTokenHash(ctx context.Context, userID, hash string) error {
	query := `UPDATE users SET reset_token_hash = $1, updated_at = $2 WHERE id = $3`

	ct, err := r.pool.Exec(ctx, query, hash, time.Now().UTC(), userID)
	if err != nil {
		return fmt.Errorf("set reset token hash: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("user", userID)
	}

	return nil
}

// ConsumeResetToken installs the new password hash, clears the reset slot, and
// revokes any live refresh token in one update guarded on tokenHash.
func (r *UserRepository) ConsumeResetToken(ctx context.Context, userID, tokenHash, newPasswordHash string) error {
	query := `
		UPDATE users SET password_hash = $1, reset_token_hash = '', refresh_token_hash = '', updated_at = $2
		WHERE id = $3 AND reset_token_hash = $4 AND reset_token_hash <> ''`

	ct, err := r.pool.Exec(ctx, query, newPasswordHash, time.Now().UTC(), userID, tokenHash)
	if err != nil {
		return fmt.Errorf("consume reset token: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.InvalidToken("reset token is no longer valid")
	}

	return nil
}

// UpdatePassword sets a new password hash and revokes any live refresh token.
func (r *UserRepository) UpdatePassword(ctx context.Context, userID, newPasswordHash string) error {
	query := `UPDATE users SET password_hash = $1, refresh_token_hash = '', updated_at = $2 WHERE id = $3`

	ct, err := r.pool.Exec(ctx, query, newPasswordHash, time.Now().UTC(), userID)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("user", userID)
	}

	return nil
}

// scanUser is a helper that executes a query expected to return a single user row.
func (r *UserRepository) scanUser(ctx context.Context, query string, args ...any) (*domain.User, error) {
	var u domain.User

	err := r.pool.QueryRow(ctx, query, args...).Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.PasswordHash,
		&u.Verified,
		&u.RefreshTokenHash,
		&u.VerificationTokenHash,
		&u.ResetTokenHash,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}

	return &u, nil
}

// isUniqueViolation checks if the error is a PostgreSQL unique constraint violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "23505")
}
