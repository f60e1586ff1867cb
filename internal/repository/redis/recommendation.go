package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/amanuelmandefro3/amr-blog/internal/domain"
	apperrors "github.com/amanuelmandefro3/amr-blog/pkg/errors"
)

const keyPrefix = "recommend:"

// RecommendationCache implements repository.RecommendationCache using Redis.
// Each user's list is cheap to recompute, so entries simply expire; a like
// invalidates the user's entry early since it changes their tag history.
type RecommendationCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRecommendationCache creates a new Redis-backed recommendation cache.
func NewRecommendationCache(client *redis.Client, ttl time.Duration) *RecommendationCache {
	return &RecommendationCache{
		client: client,
		ttl:    ttl,
	}
}

// Get retrieves the user's cached recommendation list.
func (c *RecommendationCache) Get(ctx context.Context, userID string) ([]domain.Blog, error) {
	key := keyPrefix + userID

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, apperrors.NotFound("recommendations", userID)
		}
		return nil, fmt.Errorf("redis get recommendations: %w", err)
	}

	var blogs []domain.Blog
	if err := json.Unmarshal(data, &blogs); err != nil {
		return nil, fmt.Errorf("unmarshal recommendations: %w", err)
	}

	return blogs, nil
}

// Save persists the user's recommendation list with the configured TTL.
func (c *RecommendationCache) Save(ctx context.Context, userID string, blogs []domain.Blog) error {
	key := keyPrefix + userID

	data, err := json.Marshal(blogs)
	if err != nil {
		return fmt.Errorf("marshal recommendations: %w", err)
	}

	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set recommendations: %w", err)
	}

	return nil
}

// Invalidate drops the cached list for a user.
func (c *RecommendationCache) Invalidate(ctx context.Context, userID string) error {
	if err := c.client.Del(ctx, keyPrefix+userID).Err(); err != nil {
		return fmt.Errorf("redis del recommendations: %w", err)
	}

	return nil
}
