package storage

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"tablebook/agg-svc/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestStore(t *testing.T) (*Store, sqlmock.Sqlmock, *miniredis.Miniredis) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		client.Close()
		db.Close()
	})
	return NewStore(db, client, time.Hour), mock, mr
}

func expectRecompute(mock sqlmock.Sqlmock, vendorID int64, ratings ...int) {
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id FROM vendors (.+) FOR UPDATE").
		WithArgs(vendorID).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(vendorID))
	rows := sqlmock.NewRows([]string{"rating"})
	for _, r := range ratings {
		rows.AddRow(r)
	}
	mock.ExpectQuery("SELECT rating FROM reviews").WithArgs(vendorID).WillReturnRows(rows)
	avg, count := domain.ComputeRating(ratings)
	mock.ExpectExec("UPDATE vendors SET rating").
		WithArgs(avg, count, vendorID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
}

func TestRecomputeVendorRating(t *testing.T) {
	store, mock, mr := setupTestStore(t)
	expectRecompute(mock, 3, 5, 4, 4)

	rating, err := store.RecomputeVendorRating(context.Background(), 3)

	require.NoError(t, err)
	assert.Equal(t, domain.VendorRating{VendorID: 3, Rating: 4.33, NumReviews: 3}, rating)
	assert.Equal(t, "4.33", mr.HGet("vendor:3:rating", "rating"))
	assert.Equal(t, "3", mr.HGet("vendor:3:rating", "num_reviews"))
	assert.Equal(t, time.Hour, mr.TTL("vendor:3:rating"))

	score, err := mr.ZScore(RankingKey, "3")
	require.NoError(t, err)
	assert.Equal(t, 4.33, score)
}

func TestRecomputeVendorRating_Idempotent(t *testing.T) {
	store, mock, mr := setupTestStore(t)
	expectRecompute(mock, 3, 5, 4)
	expectRecompute(mock, 3, 5, 4)

	first, err := store.RecomputeVendorRating(context.Background(), 3)
	require.NoError(t, err)
	cachedFirst := mr.HGet("vendor:3:rating", "rating")

	second, err := store.RecomputeVendorRating(context.Background(), 3)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, cachedFirst, mr.HGet("vendor:3:rating", "rating"))
}

func TestRecomputeVendorRating_NoApprovedReviews(t *testing.T) {
	store, mock, mr := setupTestStore(t)
	expectRecompute(mock, 3)

	rating, err := store.RecomputeVendorRating(context.Background(), 3)

	require.NoError(t, err)
	assert.Equal(t, 0.0, rating.Rating)
	assert.Equal(t, 0, rating.NumReviews)
	assert.Equal(t, "0.00", mr.HGet("vendor:3:rating", "rating"))
}

func TestRecomputeVendorRating_LeavesRankingWhenUnrated(t *testing.T) {
	store, mock, mr := setupTestStore(t)
	_, err := mr.ZAdd(RankingKey, 2.0, "3")
	require.NoError(t, err)
	expectRecompute(mock, 3)

	_, err = store.RecomputeVendorRating(context.Background(), 3)

	require.NoError(t, err)
	members, _ := mr.ZMembers(RankingKey)
	assert.NotContains(t, members, "3")
}

func TestRecomputeVendorRating_UnknownVendor(t *testing.T) {
	store, mock, mr := setupTestStore(t)
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id FROM vendors (.+) FOR UPDATE").WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	_, err := store.RecomputeVendorRating(context.Background(), 9)

	assert.ErrorIs(t, err, domain.ErrVendorNotFound)
	assert.False(t, mr.Exists("vendor:9:rating"))
}

func TestRecomputeVendorRating_CacheFailure(t *testing.T) {
	store, mock, mr := setupTestStore(t)
	expectRecompute(mock, 3, 5)
	mr.SetError("ERR cache offline")

	rating, err := store.RecomputeVendorRating(context.Background(), 3)

	assert.Error(t, err)
	assert.Equal(t, 5.0, rating.Rating)
}
