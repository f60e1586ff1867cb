package repository

import (
	"context"

	"github.com/amanuelmandefro3/amr-blog/internal/domain"
)

// UserRepository defines the interface for user persistence operations.
type UserRepository interface {
	// Create inserts a new user into the store.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their unique identifier.
	GetByID(ctx context.Context, id string) (*domain.User, error)

	// GetByEmail retrieves a user by their email address.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// SetRefreshTokenHash overwrites the user's refresh token slot.
	// An empty hash clears the slot, revoking the session.
	SetRefreshTokenHash(ctx context.Context, userID, hash string) error

	// RotateRefreshTokenHash swaps currentHash for newHash in a single
	// compare-and-set update. It fails with ErrInvalidToken when the slot
	// no longer holds currentHash, so a replayed token cannot rotate.
	RotateRefreshTokenHash(ctx context.Context, userID, currentHash, newHash string) error

	// SetVerificationTokenHash stores the pending email verification token digest.
	SetVerificationTokenHash(ctx context.Context, userID, hash string) error

	// ConsumeVerificationToken marks the user verified and clears the
	// verification slot, but only if the slot still holds tokenHash.
	ConsumeVerificationToken(ctx context.Context, userID, tokenHash string) error

	// SetResetTokenHash stores the pending password reset token digest.
	SetResetTokenHash(ctx context.Context, userID, hash string) error

	// ConsumeResetToken sets the new password hash, clears the reset slot,
	// and revokes any live refresh token, but only if the reset slot still
	// holds tokenHash.
	ConsumeResetToken(ctx context.Context, userID, tokenHash, newPasswordHash string) error

	// UpdatePassword sets a new password hash and revokes any live refresh token.
	UpdatePassword(ctx context.Context, userID, newPasswordHash string) error
}

// BlogRepository defines the interface for blog persistence operations.
type BlogRepository interface {
	// Create inserts a new blog into the store.
	Create(ctx context.Context, blog *domain.Blog) error

	// GetByID retrieves a blog by its unique identifier.
	GetByID(ctx context.Context, id string) (*domain.Blog, error)

	// GetBySlug retrieves a blog by its URL slug.
	GetBySlug(ctx context.Context, slug string) (*domain.Blog, error)

	// List returns blogs ordered newest first, plus the total count.
	List(ctx context.Context, limit, offset int) ([]domain.Blog, int, error)

	// ListByAuthor returns blogs written by the given author, newest first.
	ListByAuthor(ctx context.Context, authorID string, limit, offset int) ([]domain.Blog, int, error)

	// Search returns blogs whose title, content, or tags match the query.
	Search(ctx context.Context, query string, limit, offset int) ([]domain.Blog, int, error)

	// Update modifies an existing blog in the store.
	Update(ctx context.Context, blog *domain.Blog) error

	// Delete removes a blog and its likes and comments.
	Delete(ctx context.Context, id string) error

	// IncrementReads bumps the global read counter for a blog.
	IncrementReads(ctx context.Context, id string) error

	// IncrementShares bumps the share counter and returns the new value.
	IncrementShares(ctx context.Context, id string) (int, error)

	// RecordRead remembers that the user has read the blog. Recording the
	// same read twice is a no-op.
	RecordRead(ctx context.Context, blogID, userID string) error

	// ToggleLike likes the blog for the user, or removes an existing like.
	// Returns true when the blog is liked after the call.
	ToggleLike(ctx context.Context, blogID, userID string) (bool, error)

	// ListRecommended returns blogs sharing a tag with anything the user has
	// liked or read, excluding those already liked or read, most overlapping
	// first.
	ListRecommended(ctx context.Context, userID string, limit int) ([]domain.Blog, error)
}

// CommentRepository defines the interface for comment persistence operations.
type CommentRepository interface {
	// Create inserts a new comment into the store.
	Create(ctx context.Context, comment *domain.Comment) error

	// GetByID retrieves a comment by its identifier.
	GetByID(ctx context.Context, id string) (*domain.Comment, error)

	// ListByBlog returns comments for a blog, newest first.
	ListByBlog(ctx context.Context, blogID string) ([]domain.Comment, error)

	// Update replaces the content of an existing comment.
	Update(ctx context.Context, comment *domain.Comment) error

	// Delete removes a comment by its identifier.
	Delete(ctx context.Context, id string) error
}

// RecommendationCache caches each user's computed recommendation list.
type RecommendationCache interface {
	// Get retrieves the user's cached recommendation list, or ErrNotFound on
	// a miss.
	Get(ctx context.Context, userID string) ([]domain.Blog, error)

	// Save stores the user's recommendation list with the configured TTL.
	Save(ctx context.Context, userID string, blogs []domain.Blog) error

	// Invalidate drops the cached list for a user.
	Invalidate(ctx context.Context, userID string) error
}
