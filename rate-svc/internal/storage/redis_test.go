package storage

import (
	"context"
	"testing"
	"time"

	"tablebook/rate-svc/internal/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisCache(client, time.Hour), mr
}

func TestReviewMarker(t *testing.T) {
	cache, mr := setupTestRedis(t)
	ctx := context.Background()
	key := cache.ReviewMarkerKey(5, 10)
	assert.Equal(t, "review:5:10", key)

	exists, err := cache.Exists(ctx, key)
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, cache.SetMarker(ctx, key))
	assert.Equal(t, time.Hour, mr.TTL(key))
	exists, err = cache.Exists(ctx, key)
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, cache.DeleteMarker(ctx, key))
	assert.False(t, mr.Exists(key))
}

func TestGetRating(t *testing.T) {
	t.Run("miss", func(t *testing.T) {
		cache, _ := setupTestRedis(t)

		_, ok, err := cache.GetRating(context.Background(), 3)

		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("hit", func(t *testing.T) {
		cache, mr := setupTestRedis(t)
		mr.HSet(RatingKey(3), "rating", "4.33", "num_reviews", "3")

		rating, ok, err := cache.GetRating(context.Background(), 3)

		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, domain.VendorRating{VendorID: 3, Rating: 4.33, NumReviews: 3}, rating)
	})

	t.Run("corrupt hash", func(t *testing.T) {
		cache, mr := setupTestRedis(t)
		mr.HSet(RatingKey(3), "rating", "abc", "num_reviews", "3")

		_, ok, err := cache.GetRating(context.Background(), 3)

		assert.Error(t, err)
		assert.False(t, ok)
	})
}

func TestTopRated(t *testing.T) {
	t.Run("empty ranking", func(t *testing.T) {
		cache, _ := setupTestRedis(t)

		_, ok, err := cache.TopRated(context.Background(), 10)

		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("ordered by score", func(t *testing.T) {
		cache, mr := setupTestRedis(t)
		mr.ZAdd(RankingKey, 4.5, "3")
		mr.ZAdd(RankingKey, 4.9, "4")
		mr.ZAdd(RankingKey, 3.1, "5")
		mr.HSet(RatingKey(3), "rating", "4.50", "num_reviews", "2")
		mr.HSet(RatingKey(4), "rating", "4.90", "num_reviews", "12")
		mr.HSet(RatingKey(5), "rating", "3.10", "num_reviews", "7")

		ratings, ok, err := cache.TopRated(context.Background(), 2)

		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, []domain.VendorRating{
			{VendorID: 4, Rating: 4.9, NumReviews: 12},
			{VendorID: 3, Rating: 4.5, NumReviews: 2},
		}, ratings)
	})

	t.Run("expired hash is a miss", func(t *testing.T) {
		cache, mr := setupTestRedis(t)
		mr.ZAdd(RankingKey, 4.5, "3")

		_, ok, err := cache.TopRated(context.Background(), 10)

		require.NoError(t, err)
		assert.False(t, ok)
	})
}
