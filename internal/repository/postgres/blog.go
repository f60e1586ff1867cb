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

const blogColumns = `
	b.id, b.title, b.slug, b.title_background_image_url, b.content, b.tags, b.author_id,
	(SELECT COUNT(*) FROM blog_likes l WHERE l.blog_id = b.id) AS like_count,
	b.read_count, b.shares, b.created_at, b.updated_at`

// BlogRepository implements repository.BlogRepository using PostgreSQL.
type BlogRepository struct {
	pool database.DBTX
}

// NewBlogRepository creates a new PostgreSQL-backed blog repository.
func NewBlogRepository(pool database.DBTX) *BlogRepository {
	return &BlogRepository{pool: pool}
}

// Create inserts a new blog into the database.
func (r *BlogRepository) Create(ctx context.Context, b *domain.Blog) error {
	query := `
		INSERT INTO blogs (id, title, slug, title_background_image_url, content, tags, author_id, read_count, shares, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.pool.Exec(ctx, query,
		b.ID,
		b.Title,
		b.Slug,
		b.TitleBackgroundImageURL,
		b.Content,
		b.Tags,
		b.AuthorID,
		b.ReadCount,
		b.Shares,
		b.CreatedAt,
		b.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.InvalidInput(fmt.Sprintf("a blog with slug %q already exists", b.Slug))
		}
		return fmt.Errorf("insert blog: %w", err)
	}

	return nil
}

// GetByID retrieves a blog by its ID.
func (r *BlogRepository) GetByID(ctx context.Context, id string) (*domain.Blog, error) {
	query := `SELECT ` + blogColumns + ` FROM blogs b WHERE b.id = $1`
	return r.scanBlog(ctx, query, id)
}

// GetBySlug retrieves a blog by its URL slug.
func (r *BlogRepository) GetBySlug(ctx context.Context, slug string) (*domain.Blog, error) {
	query := `SELECT ` + blogColumns + ` FROM blogs b WHERE b.slug = $1`
	return r.scanBlog(ctx, query, slug)
}

// List returns blogs ordered newest first, plus the total count.
func (r *BlogRepository) List(ctx context.Context, limit, offset int) ([]domain.Blog, int, error) {
	query := `
		SELECT ` + blogColumns + `, COUNT(*) OVER() AS total
		FROM blogs b
		ORDER BY b.created_at DESC
		LIMIT $1 OFFSET $2`

	return r.scanBlogs(ctx, query, limit, offset)
}

// ListByAuthor returns blogs written by the given author, newest first.
func (r *BlogRepository) ListByAuthor(ctx context.Context, authorID string, limit, offset int) ([]domain.Blog, int, error) {
	query := `
		SELECT ` + blogColumns + `, COUNT(*) OVER() AS total
		FROM blogs b
		WHERE b.author_id = $1
		ORDER BY b.created_at DESC
		LIMIT $2 OFFSET $3`

	return r.scanBlogs(ctx, query, authorID, limit, offset)
}

// Search returns blogs whose title, text blocks, or tags match the query.
func (r *BlogRepository) Search(ctx context.Context, search string, limit, offset int) ([]domain.Blog, int, error) {
	query := `
		SELECT ` + blogColumns + `, COUNT(*) OVER() AS total
		FROM blogs b
		WHERE b.title ILIKE '%' || $1 || '%'
		   OR EXISTS (
				SELECT 1 FROM jsonb_array_elements(b.content) e
				WHERE e->>'type' = 'text' AND e->'data'->>'text' ILIKE '%' || $1 || '%')
		   OR EXISTS (SELECT 1 FROM unnest(b.tags) t WHERE t ILIKE '%' || $1 || '%')
		ORDER BY b.created_at DESC
		LIMIT $2 OFFSET $3`

	return r.scanBlogs(ctx, query, search, limit, offset)
}

// Update modifies an existing blog in the database.
func (r *BlogRepository) Update(ctx context.Context, b *domain.Blog) error {
	b.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE blogs
		SET title = $1, slug = $2, title_background_image_url = $3, content = $4, tags = $5, updated_at = $6
		WHERE id = $7`

	ct, err := r.pool.Exec(ctx, query,
		b.Title,
		b.Slug,
		b.TitleBackgroundImageURL,
		b.Content,
		b.Tags,
		b.UpdatedAt,
		b.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.InvalidInput(fmt.Sprintf("a blog with slug %q already exists", b.Slug))
		}
		return fmt.Errorf("update blog: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("blog", b.ID)
	}

	return nil
}

// Delete removes a blog. Likes, reads, and comments go with it via ON DELETE CASCADE.
func (r *BlogRepository) Delete(ctx context.Context, id string) error {
	ct, err := r.pool.Exec(ctx, `DELETE FROM blogs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete blog: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("blog", id)
	}

	return nil
}

// IncrementReads bumps the global read counter for a blog.
func (r *BlogRepository) IncrementReads(ctx context.Context, id string) error {
	ct, err := r.pool.Exec(ctx, `UPDATE blogs SET read_count = read_count + 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("increment reads: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("blog", id)
	}

	return nil
}

// IncrementShares bumps the share counter and returns the new value.
func (r *BlogRepository) IncrementShares(ctx context.Context, id string) (int, error) {
	var shares int
	err := r.pool.QueryRow(ctx,
		`UPDATE blogs SET shares = shares + 1 WHERE id = $1 RETURNING shares`, id).Scan(&shares)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, apperrors.NotFound("blog", id)
		}
		return 0, fmt.Errorf("increment shares: %w", err)
	}

	return shares, nil
}

// RecordRead remembers that the user has read the blog. A repeated read of
// the same blog is a no-op.
func (r *BlogRepository) RecordRead(ctx context.Context, blogID, userID string) error {
	query := `
		INSERT INTO blog_reads (blog_id, user_id, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (blog_id, user_id) DO NOTHING`

	_, err := r.pool.Exec(ctx, query, blogID, userID, time.Now().UTC())
	if err != nil {
		if isForeignKeyViolation(err) {
			return apperrors.NotFound("blog", blogID)
		}
		return fmt.Errorf("record read: %w", err)
	}

	return nil
}

// ToggleLike likes the blog for the user, or removes an existing like.
func (r *BlogRepository) ToggleLike(ctx context.Context, blogID, userID string) (bool, error) {
	ct, err := r.pool.Exec(ctx,
		`DELETE FROM blog_likes WHERE blog_id = $1 AND user_id = $2`, blogID, userID)
	if err != nil {
		return false, fmt.Errorf("remove like: %w", err)
	}
	if ct.RowsAffected() > 0 {
		return false, nil
	}

	_, err = r.pool.Exec(ctx,
		`INSERT INTO blog_likes (blog_id, user_id, created_at) VALUES ($1, $2, $3)`,
		blogID, userID, time.Now().UTC())
	if err != nil {
		if isForeignKeyViolation(err) {
			return false, apperrors.NotFound("blog", blogID)
		}
		return false, fmt.Errorf("insert like: %w", err)
	}

	return true, nil
}

// ListRecommended returns blogs sharing a tag with anything the user has
// liked or read, excluding those already liked or read and the user's own
// posts, most overlapping first.
func (r *BlogRepository) ListRecommended(ctx context.Context, userID string, limit int) ([]domain.Blog, error) {
	query := `
		WITH history AS (
			SELECT blog_id FROM blog_likes WHERE user_id = $1
			UNION
			SELECT blog_id FROM blog_reads WHERE user_id = $1
		),
		interest AS (
			SELECT COALESCE(array_agg(DISTINCT tag), '{}') AS tags
			FROM history h
			JOIN blogs hb ON hb.id = h.blog_id, unnest(hb.tags) tag
		)
		SELECT ` + blogColumns + `,
			(SELECT COUNT(*) FROM unnest(b.tags) t WHERE t = ANY(i.tags)) AS overlap
		FROM blogs b, interest i
		WHERE b.tags && i.tags
		  AND b.author_id <> $1
		  AND b.id NOT IN (SELECT blog_id FROM history)
		ORDER BY overlap DESC, b.created_at DESC
		LIMIT $2`

	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("query recommended blogs: %w", err)
	}
	defer rows.Close()

	var blogs []domain.Blog
	for rows.Next() {
		var b domain.Blog
		var overlap int
		if err := rows.Scan(
			&b.ID, &b.Title, &b.Slug, &b.TitleBackgroundImageURL, &b.Content, &b.Tags, &b.AuthorID,
			&b.LikeCount, &b.ReadCount, &b.Shares, &b.CreatedAt, &b.UpdatedAt, &overlap,
		); err != nil {
			return nil, fmt.Errorf("scan recommended blog: %w", err)
		}
		blogs = append(blogs, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate recommended blogs: %w", err)
	}

	return blogs, nil
}

func (r *BlogRepository) scanBlog(ctx context.Context, query string, args ...any) (*domain.Blog, error) {
	var b domain.Blog

	err := r.pool.QueryRow(ctx, query, args...).Scan(
		&b.ID, &b.Title, &b.Slug, &b.TitleBackgroundImageURL, &b.Content, &b.Tags, &b.AuthorID,
		&b.LikeCount, &b.ReadCount, &b.Shares, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan blog: %w", err)
	}

	return &b, nil
}

func (r *BlogRepository) scanBlogs(ctx context.Context, query string, args ...any) ([]domain.Blog, int, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query blogs: %w", err)
	}
	defer rows.Close()

	var (
		blogs []domain.Blog
		total int
	)
	for rows.Next() {
		var b domain.Blog
		if err := rows.Scan(
			&b.ID, &b.Title, &b.Slug, &b.TitleBackgroundImageURL, &b.Content, &b.Tags, &b.AuthorID,
			&b.LikeCount, &b.ReadCount, &b.Shares, &b.CreatedAt, &b.UpdatedAt, &total,
		); err != nil {
			return nil, 0, fmt.Errorf("scan blog: %w", err)
		}
		blogs = append(blogs, b)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate blogs: %w", err)
	}

	return blogs, total, nil
}

// isForeignKeyViolation checks for a PostgreSQL foreign key violation (SQLSTATE 23503).
func isForeignKeyViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "23503")
}
