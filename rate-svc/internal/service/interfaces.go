package service

import (
	"context"

	"tablebook/access"
	"tablebook/rate-svc/internal/domain"
)

type ReviewServiceInterface interface {
	Create(ctx context.Context, actor access.Actor, req domain.CreateReviewRequest) (*domain.Review, error)
	Update(ctx context.Context, actor access.Actor, reviewID int64, rating int, comment string) (*domain.Review, error)
	Delete(ctx context.Context, actor access.Actor, reviewID int64) error
	SetStatus(ctx context.Context, actor access.Actor, reviewID int64, status domain.ReviewStatus) (*domain.Review, error)
	ListVendorReviews(ctx context.Context, vendorID int64, status domain.ReviewStatus) ([]domain.Review, error)
	VendorRating(ctx context.Context, vendorID int64) (domain.VendorRating, error)
	TopRated(ctx context.Context, limit int) ([]domain.VendorRating, error)
}

type ReviewRepository interface {
	// OrderReviewable reports whether the order belongs to the customer, was
	// served by the vendor and has been delivered.
	OrderReviewable(ctx context.Context, orderID, customerID, vendorID int64) (bool, error)
	InsertReview(ctx context.Context, review *domain.Review) error
	GetReview(ctx context.Context, reviewID int64) (*domain.Review, error)
	UpdateReview(ctx context.Context, review *domain.Review) error
	DeleteReview(ctx context.Context, reviewID int64) error
	SetStatus(ctx context.Context, reviewID int64, status domain.ReviewStatus) error
	ListVendorReviews(ctx context.Context, vendorID int64, status domain.ReviewStatus) ([]domain.Review, error)
	GetVendorRating(ctx context.Context, vendorID int64) (domain.VendorRating, error)
	TopRatedVendors(ctx context.Context, limit int) ([]domain.VendorRating, error)
}

type ReviewCache interface {
	ReviewMarkerKey(orderID, customerID int64) string
	Exists(ctx context.Context, key string) (bool, error)
	SetMarker(ctx context.Context, key string) error
	DeleteMarker(ctx context.Context, key string) error
	// GetRating returns false when the aggregator has not cached the vendor.
	GetRating(ctx context.Context, vendorID int64) (domain.VendorRating, bool, error)
	// TopRated returns false when the ranking is empty or incomplete.
	TopRated(ctx context.Context, limit int) ([]domain.VendorRating, bool, error)
}

type ReviewPublisher interface {
	PublishReviewEvent(ctx context.Context, event domain.ReviewEvent) error
}

var _ ReviewServiceInterface = (*ReviewService)(nil)
