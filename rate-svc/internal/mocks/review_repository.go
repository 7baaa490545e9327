package mocks

import (
	"context"

	"tablebook/rate-svc/internal/domain"

	"github.com/stretchr/testify/mock"
)

type ReviewRepository struct {
	mock.Mock
}

func NewReviewRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *ReviewRepository {
	m := &ReviewRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *ReviewRepository) OrderReviewable(ctx context.Context, orderID, customerID, vendorID int64) (bool, error) {
	ret := m.Called(ctx, orderID, customerID, vendorID)
	return ret.Bool(0), ret.Error(1)
}

func (m *ReviewRepository) InsertReview(ctx context.Context, review *domain.Review) error {
	return m.Called(ctx, review).Error(0)
}

func (m *ReviewRepository) GetReview(ctx context.Context, reviewID int64) (*domain.Review, error) {
	ret := m.Called(ctx, reviewID)
	var review *domain.Review
	if ret.Get(0) != nil {
		review = ret.Get(0).(*domain.Review)
	}
	return review, ret.Error(1)
}

func (m *ReviewRepository) UpdateReview(ctx context.Context, review *domain.Review) error {
	return m.Called(ctx, review).Error(0)
}

func (m *ReviewRepository) DeleteReview(ctx context.Context, reviewID int64) error {
	return m.Called(ctx, reviewID).Error(0)
}

func (m *ReviewRepository) SetStatus(ctx context.Context, reviewID int64, status domain.ReviewStatus) error {
	return m.Called(ctx, reviewID, status).Error(0)
}

func (m *ReviewRepository) ListVendorReviews(ctx context.Context, vendorID int64, status domain.ReviewStatus) ([]domain.Review, error) {
	ret := m.Called(ctx, vendorID, status)
	var reviews []domain.Review
	if ret.Get(0) != nil {
		reviews = ret.Get(0).([]domain.Review)
	}
	return reviews, ret.Error(1)
}

func (m *ReviewRepository) TopRatedVendors(ctx context.Context, limit int) ([]domain.VendorRating, error) {
	ret := m.Called(ctx, limit)
	var ratings []domain.VendorRating
	if ret.Get(0) != nil {
		ratings = ret.Get(0).([]domain.VendorRating)
	}
	return ratings, ret.Error(1)
}

func (m *ReviewRepository) GetVendorRating(ctx context.Context, vendorID int64) (domain.VendorRating, error) {
	ret := m.Called(ctx, vendorID)
	return ret.Get(0).(domain.VendorRating), ret.Error(1)
}
