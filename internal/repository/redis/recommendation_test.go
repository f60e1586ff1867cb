package redis

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amanuelmandefro3/amr-blog/internal/domain"
	apperrors "github.com/amanuelmandefro3/amr-blog/pkg/errors"
)

func setupTestRedis(t *testing.T) (*RecommendationCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	cache := NewRecommendationCache(client, 10*time.Minute)
	return cache, mr
}

func sampleRecommendations() []domain.Blog {
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	return []domain.Blog{
		{
			ID:        "blog-2",
			Title:     "Channels in Depth",
			Slug:      "channels-in-depth",
			Tags:      []string{"go", "concurrency"},
			AuthorID:  "user-2",
			CreatedAt: now,
			UpdatedAt: now,
		},
		{
			ID:        "blog-3",
			Title:     "Go Modules",
			Slug:      "go-modules",
			Tags:      []string{"go"},
			AuthorID:  "user-3",
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
}

func TestRecommendationCache_SaveAndGet(t *testing.T) {
	cache, _ := setupTestRedis(t)

	blogs := sampleRecommendations()
	require.NoError(t, cache.Save(context.Background(), "user-1", blogs))

	got, err := cache.Get(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "blog-2", got[0].ID)
	assert.Equal(t, "channels-in-depth", got[0].Slug)
	assert.Equal(t, []string{"go"}, got[1].Tags)
}

func TestRecommendationCache_Get_Miss(t *testing.T) {
	cache, _ := setupTestRedis(t)

	got, err := cache.Get(context.Background(), "user-missing")
	assert.Nil(t, got)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestRecommendationCache_Get_CorruptEntry(t *testing.T) {
	cache, mr := setupTestRedis(t)

	require.NoError(t, mr.Set("recommend:user-bad", "{{not-valid-json"))

	got, err := cache.Get(context.Background(), "user-bad")
	assert.Nil(t, got)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unmarshal recommendations")
}

func TestRecommendationCache_Save_SetsTTL(t *testing.T) {
	cache, mr := setupTestRedis(t)

	require.NoError(t, cache.Save(context.Background(), "user-1", sampleRecommendations()))
	assert.Equal(t, 10*time.Minute, mr.TTL("recommend:user-1"))
}

func TestRecommendationCache_Invalidate(t *testing.T) {
	cache, mr := setupTestRedis(t)

	require.NoError(t, cache.Save(context.Background(), "user-1", sampleRecommendations()))
	require.NoError(t, cache.Invalidate(context.Background(), "user-1"))

	assert.False(t, mr.Exists("recommend:user-1"))
}

func TestRecommendationCache_Expiry(t *testing.T) {
	cache, mr := setupTestRedis(t)

	require.NoError(t, cache.Save(context.Background(), "user-1", sampleRecommendations()))
	mr.FastForward(11 * time.Minute)

	got, err := cache.Get(context.Background(), "user-1")
	assert.Nil(t, got)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestRecommendationCache_Save_RoundTripsJSON(t *testing.T) {
	cache, mr := setupTestRedis(t)

	blogs := sampleRecommendations()
	require.NoError(t, cache.Save(context.Background(), "user-1", blogs))

	raw, err := mr.Get("recommend:user-1")
	require.NoError(t, err)

	var stored []domain.Blog
	require.NoError(t, json.Unmarshal([]byte(raw), &stored))
	assert.Equal(t, blogs, stored)
}
