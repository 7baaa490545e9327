package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"tablebook/agg-svc/internal/domain"

	"github.com/redis/go-redis/v9"
)

type Store struct {
	db  *sql.DB
	rdb *redis.Client
	ttl time.Duration
}

func NewStore(db *sql.DB, rdb *redis.Client, ttl time.Duration) *Store {
	return &Store{
		db:  db,
		rdb: rdb,
		ttl: ttl,
	}
}

// RankingKey is a sorted set of rated vendors scored by rating.
const RankingKey = "vendors:by_rating"

func RatingKey(vendorID int64) string {
	return fmt.Sprintf("vendor:%d:rating", vendorID)
}

// RecomputeVendorRating rebuilds the vendor's rating from its approved
// reviews. The vendor row lock serialises concurrent recomputes for the same
// vendor.
func (s *Store) RecomputeVendorRating(ctx context.Context, vendorID int64) (domain.VendorRating, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.VendorRating{}, err
	}
	defer tx.Rollback()

	var locked int64
	err = tx.QueryRowContext(ctx, "SELECT id FROM vendors WHERE id = $1 FOR UPDATE", vendorID).Scan(&locked)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.VendorRating{}, domain.ErrVendorNotFound
	}
	if err != nil {
		return domain.VendorRating{}, err
	}

	rows, err := tx.QueryContext(ctx,
		"SELECT rating FROM reviews WHERE vendor_id = $1 AND status = 'approved'", vendorID)
	if err != nil {
		return domain.VendorRating{}, err
	}
	var ratings []int
	for rows.Next() {
		var r int
		if err := rows.Scan(&r); err != nil {
			rows.Close()
			return domain.VendorRating{}, err
		}
		ratings = append(ratings, r)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return domain.VendorRating{}, err
	}

	avg, count := domain.ComputeRating(ratings)
	if _, err := tx.ExecContext(ctx,
		"UPDATE vendors SET rating = $1, num_reviews = $2 WHERE id = $3", avg, count, vendorID); err != nil {
		return domain.VendorRating{}, err
	}
	if err := tx.Commit(); err != nil {
		return domain.VendorRating{}, err
	}

	rating := domain.VendorRating{VendorID: vendorID, Rating: avg, NumReviews: count}
	if err := s.cacheRating(ctx, rating); err != nil {
		return rating, fmt.Errorf("refresh rating cache: %w", err)
	}
	return rating, nil
}

func (s *Store) cacheRating(ctx context.Context, rating domain.VendorRating) error {
	key := RatingKey(rating.VendorID)
	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, map[string]interface{}{
			"rating":       strconv.FormatFloat(rating.Rating, 'f', 2, 64),
			"num_reviews":  rating.NumReviews,
			"last_updated": time.Now().Unix(),
		})
		pipe.Expire(ctx, key, s.ttl)

		member := strconv.FormatInt(rating.VendorID, 10)
		if rating.NumReviews == 0 {
			pipe.ZRem(ctx, RankingKey, member)
		} else {
			pipe.ZAdd(ctx, RankingKey, redis.Z{Score: rating.Rating, Member: member})
		}
		return nil
	})
	if err != nil {
		// A stale hash would be served as current; drop it so readers fall
		// back to Postgres.
		s.rdb.Del(ctx, key)
	}
	return err
}
