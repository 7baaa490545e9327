package service

import (
	"context"

	"tablebook/agg-svc/internal/domain"
	"tablebook/agg-svc/internal/storage"

	"github.com/segmentio/kafka-go"
)

type RatingStore interface {
	RecomputeVendorRating(ctx context.Context, vendorID int64) (domain.VendorRating, error)
}

type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

type ConsumerInterface interface {
	Start(ctx context.Context) error
	ProcessReview(ctx context.Context, event domain.ReviewEvent) error
}

var (
	_ RatingStore       = (*storage.Store)(nil)
	_ MessageReader     = (*kafka.Reader)(nil)
	_ ConsumerInterface = (*Consumer)(nil)
)
