package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/amanuelmandefro3/amr-blog/internal/domain"
	"github.com/amanuelmandefro3/amr-blog/internal/event"
	"github.com/amanuelmandefro3/amr-blog/internal/repository"
	apperrors "github.com/amanuelmandefro3/amr-blog/pkg/errors"
	"github.com/amanuelmandefro3/amr-blog/pkg/slug"
)

// maxRecommendations caps each user's recommendation list size.
const maxRecommendations = 10

var validBlockTypes = map[string]struct{}{
	domain.BlockText:  {},
	domain.BlockImage: {},
	domain.BlockCode:  {},
	domain.BlockEmbed: {},
	domain.BlockVideo: {},
}

// BlogService implements the business logic for blogs, likes, and comments.
type BlogService struct {
	blogRepo    repository.BlogRepository
	commentRepo repository.CommentRepository
	recCache    repository.RecommendationCache
	producer    *event.Producer
	logger      *slog.Logger
}

// NewBlogService creates a new blog service.
func NewBlogService(
	blogRepo repository.BlogRepository,
	commentRepo repository.CommentRepository,
	recCache repository.RecommendationCache,
	producer *event.Producer,
	logger *slog.Logger,
) *BlogService {
	return &BlogService{
		blogRepo:    blogRepo,
		commentRepo: commentRepo,
		recCache:    recCache,
		producer:    producer,
		logger:      logger,
	}
}

// CreateBlogInput holds the parameters for publishing a blog.
type CreateBlogInput struct {
	Title                   string
	TitleBackgroundImageURL string
	Content                 []domain.ContentBlock
	Tags                    []string
}

// UpdateBlogInput holds the parameters for editing a blog. Nil fields are left
// unchanged.
type UpdateBlogInput struct {
	Title                   *string
	TitleBackgroundImageURL *string
	Content                 []domain.ContentBlock
	Tags                    []string
}

// Create publishes a new blog under the given author.
func (s *BlogService) Create(ctx context.Context, authorID string, input CreateBlogInput) (*domain.Blog, error) {
	if input.Title == "" {
		return nil, apperrors.InvalidInput("title is required")
	}
	if err := validateBlocks(input.Content); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	blog := &domain.Blog{
		ID:                      uuid.New().String(),
		Title:                   input.Title,
		Slug:                    slug.Generate(input.Title),
		TitleBackgroundImageURL: input.TitleBackgroundImageURL,
		Content:                 input.Content,
		Tags:                    normalizeTags(input.Tags),
		AuthorID:                authorID,
		CreatedAt:               now,
		UpdatedAt:               now,
	}

	err := s.blogRepo.Create(ctx, blog)
	if err != nil && errors.Is(err, apperrors.ErrInvalidInput) {
		// Slug taken by another post with the same title.
		blog.Slug = blog.Slug + "-" + blog.ID[:8]
		err = s.blogRepo.Create(ctx, blog)
	}
	if err != nil {
		return nil, fmt.Errorf("create blog: %w", err)
	}

	if err := s.producer.PublishBlogPublished(ctx, blog); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish post.published event",
			slog.String("blog_id", blog.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "blog published",
		slog.String("blog_id", blog.ID),
		slog.String("slug", blog.Slug),
		slog.String("author_id", authorID),
	)

	return blog, nil
}

// GetBySlug fetches a blog by slug and counts the read. A non-empty viewerID
// also records the read in the viewer's history.
func (s *BlogService) GetBySlug(ctx context.Context, blogSlug, viewerID string) (*domain.Blog, error) {
	blog, err := s.blogRepo.GetBySlug(ctx, blogSlug)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("blog", blogSlug)
		}
		return nil, fmt.Errorf("get blog by slug: %w", err)
	}

	s.countRead(ctx, blog, viewerID)

	return blog, nil
}

// GetByID fetches a blog by ID and counts the read. A non-empty viewerID also
// records the read in the viewer's history.
func (s *BlogService) GetByID(ctx context.Context, id, viewerID string) (*domain.Blog, error) {
	blog, err := s.fetch(ctx, id)
	if err != nil {
		return nil, err
	}

	s.countRead(ctx, blog, viewerID)

	return blog, nil
}

// countRead bumps the global read counter and, for an authenticated viewer,
// the per-user read history. Both are best effort.
func (s *BlogService) countRead(ctx context.Context, blog *domain.Blog, viewerID string) {
	if err := s.blogRepo.IncrementReads(ctx, blog.ID); err != nil {
		s.logger.WarnContext(ctx, "failed to count read",
			slog.String("blog_id", blog.ID),
			slog.String("error", err.Error()),
		)
	} else {
		blog.ReadCount++
	}

	if viewerID == "" {
		return
	}
	if err := s.blogRepo.RecordRead(ctx, blog.ID, viewerID); err != nil {
		s.logger.WarnContext(ctx, "failed to record read",
			slog.String("blog_id", blog.ID),
			slog.String("user_id", viewerID),
			slog.String("error", err.Error()),
		)
	}
}

// List returns blogs newest first, plus the total count.
func (s *BlogService) List(ctx context.Context, limit, offset int) ([]domain.Blog, int, error) {
	limit, offset = clampPage(limit, offset)

	blogs, total, err := s.blogRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list blogs: %w", err)
	}

	return blogs, total, nil
}

// ListByAuthor returns blogs written by the given author, newest first.
func (s *BlogService) ListByAuthor(ctx context.Context, authorID string, limit, offset int) ([]domain.Blog, int, error) {
	limit, offset = clampPage(limit, offset)

	blogs, total, err := s.blogRepo.ListByAuthor(ctx, authorID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list blogs by author: %w", err)
	}

	return blogs, total, nil
}

// Search returns blogs matching the query in title, text blocks, or tags.
// A query that matches nothing is a 404.
func (s *BlogService) Search(ctx context.Context, query string, limit, offset int) ([]domain.Blog, int, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, 0, apperrors.InvalidInput("search query is required")
	}
	limit, offset = clampPage(limit, offset)

	blogs, total, err := s.blogRepo.Search(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("search blogs: %w", err)
	}
	if total == 0 {
		return nil, 0, apperrors.NotFoundMessage("no blogs found")
	}

	return blogs, total, nil
}

// Update edits a blog. Only the author may edit.
func (s *BlogService) Update(ctx context.Context, userID, blogID string, input UpdateBlogInput) (*domain.Blog, error) {
	blog, err := s.fetch(ctx, blogID)
	if err != nil {
		return nil, err
	}

	if blog.AuthorID != userID {
		return nil, apperrors.Unauthorized("only the author can edit this blog")
	}

	titleChanged := false
	if input.Title != nil {
		if *input.Title == "" {
			return nil, apperrors.InvalidInput("title cannot be empty")
		}
		blog.Title = *input.Title
		blog.Slug = slug.Generate(*input.Title)
		titleChanged = true
	}
	if input.TitleBackgroundImageURL != nil {
		blog.TitleBackgroundImageURL = *input.TitleBackgroundImageURL
	}
	if input.Content != nil {
		if err := validateBlocks(input.Content); err != nil {
			return nil, err
		}
		blog.Content = input.Content
	}
	if input.Tags != nil {
		blog.Tags = normalizeTags(input.Tags)
	}

	err = s.blogRepo.Update(ctx, blog)
	if err != nil && titleChanged && errors.Is(err, apperrors.ErrInvalidInput) {
		// Regenerated slug collides with another post.
		blog.Slug = blog.Slug + "-" + blog.ID[:8]
		err = s.blogRepo.Update(ctx, blog)
	}
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) || errors.Is(err, apperrors.ErrInvalidInput) {
			return nil, err
		}
		return nil, fmt.Errorf("update blog: %w", err)
	}

	s.logger.InfoContext(ctx, "blog updated", slog.String("blog_id", blog.ID))

	return blog, nil
}

// Delete removes a blog. Only the author may delete.
func (s *BlogService) Delete(ctx context.Context, userID, blogID string) error {
	blog, err := s.fetch(ctx, blogID)
	if err != nil {
		return err
	}

	if blog.AuthorID != userID {
		return apperrors.Unauthorized("only the author can delete this blog")
	}

	if err := s.blogRepo.Delete(ctx, blogID); err != nil {
		return fmt.Errorf("delete blog: %w", err)
	}

	s.logger.InfoContext(ctx, "blog deleted", slog.String("blog_id", blogID))

	return nil
}

// ToggleLike likes or unlikes a blog for the user. The user's cached
// recommendations are invalidated since their tag history changed.
func (s *BlogService) ToggleLike(ctx context.Context, userID, blogID string) (bool, error) {
	liked, err := s.blogRepo.ToggleLike(ctx, blogID, userID)
	if err != nil {
		return false, err
	}

	if err := s.recCache.Invalidate(ctx, userID); err != nil {
		s.logger.WarnContext(ctx, "failed to invalidate recommendation cache",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
	}

	if err := s.producer.PublishBlogLiked(ctx, blogID, userID, liked); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish post.liked event",
			slog.String("blog_id", blogID),
			slog.String("error", err.Error()),
		)
	}

	return liked, nil
}

// Share counts a share of the blog and returns the new total.
func (s *BlogService) Share(ctx context.Context, blogID string) (int, error) {
	shares, err := s.blogRepo.IncrementShares(ctx, blogID)
	if err != nil {
		return 0, err
	}

	return shares, nil
}

// AddComment attaches a comment to a blog.
func (s *BlogService) AddComment(ctx context.Context, userID, blogID, content string) (*domain.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperrors.InvalidInput("comment content is required")
	}

	now := time.Now().UTC()
	comment := &domain.Comment{
		ID:        uuid.New().String(),
		BlogID:    blogID,
		AuthorID:  userID,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	if err := s.producer.PublishCommentAdded(ctx, comment); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish comment.added event",
			slog.String("comment_id", comment.ID),
			slog.String("error", err.Error()),
		)
	}

	return comment, nil
}

// UpdateComment edits a comment. Only the comment's author may edit.
func (s *BlogService) UpdateComment(ctx context.Context, userID, blogID, commentID, content string) (*domain.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperrors.InvalidInput("comment content is required")
	}

	comment, err := s.fetchComment(ctx, blogID, commentID)
	if err != nil {
		return nil, err
	}

	if comment.AuthorID != userID {
		return nil, apperrors.Unauthorized("only the author can edit this comment")
	}

	comment.Content = content
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, fmt.Errorf("update comment: %w", err)
	}

	return comment, nil
}

// DeleteComment removes a comment. Only the comment's author may delete.
func (s *BlogService) DeleteComment(ctx context.Context, userID, blogID, commentID string) error {
	comment, err := s.fetchComment(ctx, blogID, commentID)
	if err != nil {
		return err
	}

	if comment.AuthorID != userID {
		return apperrors.Unauthorized("only the author can delete this comment")
	}

	if err := s.commentRepo.Delete(ctx, commentID); err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}

	return nil
}

// ListComments returns comments for a blog, newest first.
func (s *BlogService) ListComments(ctx context.Context, blogID string) ([]domain.Comment, error) {
	if _, err := s.fetch(ctx, blogID); err != nil {
		return nil, err
	}

	comments, err := s.commentRepo.ListByBlog(ctx, blogID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}

	return comments, nil
}

// Recommend returns blogs sharing tags with the user's liked and read
// history, excluding what they have already seen. Results are cached per
// user; a cache failure falls through to the database.
func (s *BlogService) Recommend(ctx context.Context, userID string) ([]domain.Blog, error) {
	if cached, err := s.recCache.Get(ctx, userID); err == nil {
		return cached, nil
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		s.logger.WarnContext(ctx, "recommendation cache read failed",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
	}

	blogs, err := s.blogRepo.ListRecommended(ctx, userID, maxRecommendations)
	if err != nil {
		return nil, fmt.Errorf("list recommended blogs: %w", err)
	}

	if err := s.recCache.Save(ctx, userID, blogs); err != nil {
		s.logger.WarnContext(ctx, "recommendation cache write failed",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
	}

	return blogs, nil
}

// fetch loads a blog by ID, mapping a miss to a 404.
func (s *BlogService) fetch(ctx context.Context, blogID string) (*domain.Blog, error) {
	blog, err := s.blogRepo.GetByID(ctx, blogID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("blog", blogID)
		}
		return nil, fmt.Errorf("get blog: %w", err)
	}

	return blog, nil
}

// fetchComment loads a comment and checks it belongs to the blog in the
// request path.
func (s *BlogService) fetchComment(ctx context.Context, blogID, commentID string) (*domain.Comment, error) {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("comment", commentID)
		}
		return nil, fmt.Errorf("get comment: %w", err)
	}

	if comment.BlogID != blogID {
		return nil, apperrors.NotFound("comment", commentID)
	}

	return comment, nil
}

func validateBlocks(blocks []domain.ContentBlock) error {
	if len(blocks) == 0 {
		return apperrors.InvalidInput("content is required")
	}
	for _, b := range blocks {
		if _, ok := validBlockTypes[b.Type]; !ok {
			return apperrors.InvalidInput(fmt.Sprintf("unknown content block type %q", b.Type))
		}
	}
	return nil
}

func clampPage(limit, offset int) (int, int) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func normalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
