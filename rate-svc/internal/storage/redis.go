package storage

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"tablebook/rate-svc/internal/domain"

	"github.com/redis/go-redis/v9"
)

type RedisCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{Client: client, TTL: ttl}
}

func (c *RedisCache) ReviewMarkerKey(orderID, customerID int64) string {
	return "review:" + strconv.FormatInt(orderID, 10) + ":" + strconv.FormatInt(customerID, 10)
}

func (c *RedisCache) Exists(ctx context.Context, key string) (bool, error) {
	res, err := c.Client.Exists(ctx, key).Result()
	if err != nil {
		return false, err
	}
	return res > 0, nil
}

func (c *RedisCache) SetMarker(ctx context.Context, key string) error {
	return c.Client.Set(ctx, key, "1", c.TTL).Err()
}

func (c *RedisCache) DeleteMarker(ctx context.Context, key string) error {
	return c.Client.Del(ctx, key).Err()
}

// RankingKey is the sorted set of rated vendors maintained by the aggregator.
const RankingKey = "vendors:by_rating"

func RatingKey(vendorID int64) string {
	return fmt.Sprintf("vendor:%d:rating", vendorID)
}

func (c *RedisCache) GetRating(ctx context.Context, vendorID int64) (domain.VendorRating, bool, error) {
	fields, err := c.Client.HGetAll(ctx, RatingKey(vendorID)).Result()
	if err != nil {
		return domain.VendorRating{}, false, err
	}
	if len(fields) == 0 {
		return domain.VendorRating{}, false, nil
	}

	rating, err := strconv.ParseFloat(fields["rating"], 64)
	if err != nil {
		return domain.VendorRating{}, false, fmt.Errorf("cached rating: %w", err)
	}
	count, err := strconv.Atoi(fields["num_reviews"])
	if err != nil {
		return domain.VendorRating{}, false, fmt.Errorf("cached num_reviews: %w", err)
	}
	return domain.VendorRating{VendorID: vendorID, Rating: rating, NumReviews: count}, true, nil
}

func (c *RedisCache) TopRated(ctx context.Context, limit int) ([]domain.VendorRating, bool, error) {
	members, err := c.Client.ZRevRangeWithScores(ctx, RankingKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, false, err
	}
	if len(members) == 0 {
		return nil, false, nil
	}

	counts := make([]*redis.StringCmd, len(members))
	ids := make([]int64, len(members))
	_, err = c.Client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, m := range members {
			id, err := strconv.ParseInt(fmt.Sprint(m.Member), 10, 64)
			if err != nil {
				return fmt.Errorf("ranking member %v: %w", m.Member, err)
			}
			ids[i] = id
			counts[i] = pipe.HGet(ctx, RatingKey(id), "num_reviews")
		}
		return nil
	})
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	ratings := make([]domain.VendorRating, 0, len(members))
	for i, m := range members {
		count, err := counts[i].Int()
		if err != nil {
			return nil, false, nil
		}
		ratings = append(ratings, domain.VendorRating{VendorID: ids[i], Rating: m.Score, NumReviews: count})
	}
	return ratings, true, nil
}
