package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/amanuelmandefro3/amr-blog/internal/domain"
	pkgkafka "github.com/amanuelmandefro3/amr-blog/pkg/kafka"
)

// Kafka topic constants for blog platform domain events.
const (
	TopicUserRegistered    = "blog.user.registered"
	TopicUserVerified      = "blog.user.verified"
	TopicUserPasswordReset = "blog.user.password_reset"
	TopicBlogPublished     = "blog.post.published"
	TopicBlogLiked         = "blog.post.liked"
	TopicCommentAdded      = "blog.comment.added"
)

// Aggregate type constants.
const (
	AggregateTypeUser = "user"
	AggregateTypeBlog = "blog"
)

// Source identifier for events originating from this service.
const Source = "amr-blog"

// UserRegisteredData is the payload for a user.registered event.
type UserRegisteredData struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// UserVerifiedData is the payload for a user.verified event.
type UserVerifiedData struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// UserPasswordResetData is the payload for a user.password_reset event.
type UserPasswordResetData struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

// BlogPublishedData is the payload for a post.published event.
type BlogPublishedData struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Slug     string   `json:"slug"`
	Tags     []string `json:"tags"`
	AuthorID string   `json:"author_id"`
}

// BlogLikedData is the payload for a post.liked event.
type BlogLikedData struct {
	BlogID string `json:"blog_id"`
	UserID string `json:"user_id"`
	Liked  bool   `json:"liked"`
}

// CommentAddedData is the payload for a comment.added event.
type CommentAddedData struct {
	CommentID string `json:"comment_id"`
	BlogID    string `json:"blog_id"`
	AuthorID  string `json:"author_id"`
}

// Producer publishes blog platform domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishUserRegistered publishes a user.registered event.
func (p *Producer) PublishUserRegistered(ctx context.Context, user *domain.User) error {
	data := UserRegisteredData{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
	}

	return p.publish(ctx, TopicUserRegistered, user.ID, AggregateTypeUser, data)
}

// PublishUserVerified publishes a user.verified event.
func (p *Producer) PublishUserVerified(ctx context.Context, userID, email string) error {
	data := UserVerifiedData{
		ID:    userID,
		Email: email,
	}

	return p.publish(ctx, TopicUserVerified, userID, AggregateTypeUser, data)
}

// PublishUserPasswordReset publishes a user.password_reset event.
func (p *Producer) PublishUserPasswordReset(ctx context.Context, userID, email string) error {
	data := UserPasswordResetData{
		UserID: userID,
		Email:  email,
	}

	return p.publish(ctx, TopicUserPasswordReset, userID, AggregateTypeUser, data)
}

// PublishBlogPublished publishes a post.published event.
func (p *Producer) PublishBlogPublished(ctx context.Context, blog *domain.Blog) error {
	data := BlogPublishedData{
		ID:       blog.ID,
		Title:    blog.Title,
		Slug:     blog.Slug,
		Tags:     blog.Tags,
		AuthorID: blog.AuthorID,
	}

	return p.publish(ctx, TopicBlogPublished, blog.ID, AggregateTypeBlog, data)
}

// PublishBlogLiked publishes a post.liked event.
func (p *Producer) PublishBlogLiked(ctx context.Context, blogID, userID string, liked bool) error {
	data := BlogLikedData{
		BlogID: blogID,
		UserID: userID,
		Liked:  liked,
	}

	return p.publish(ctx, TopicBlogLiked, blogID, AggregateTypeBlog, data)
}

// PublishCommentAdded publishes a comment.added event.
func (p *Producer) PublishCommentAdded(ctx context.Context, comment *domain.Comment) error {
	data := CommentAddedData{
		CommentID: comment.ID,
		BlogID:    comment.BlogID,
		AuthorID:  comment.AuthorID,
	}

	return p.publish(ctx, TopicCommentAdded, comment.BlogID, AggregateTypeBlog, data)
}

func (p *Producer) publish(ctx context.Context, topic, aggregateID, aggregateType string, data any) error {
	event, err := pkgkafka.NewEvent(topic, aggregateID, aggregateType, Source, data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", topic, err)
	}

	if err := p.kafka.Publish(ctx, topic, event); err != nil {
		return fmt.Errorf("publish %s event: %w", topic, err)
	}

	p.logger.DebugContext(ctx, "published event",
		slog.String("topic", topic),
		slog.String("aggregate_id", aggregateID),
	)

	return nil
}
