package mocks

import (
	"context"
	"fmt"

	"tablebook/rate-svc/internal/domain"

	"github.com/stretchr/testify/mock"
)

type ReviewCache struct {
	mock.Mock
}

func NewReviewCache(t interface {
	mock.TestingT
	Cleanup(func())
}) *ReviewCache {
	m := &ReviewCache{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// ReviewMarkerKey is deterministic so tests do not need to stub it.
func (m *ReviewCache) ReviewMarkerKey(orderID, customerID int64) string {
	return fmt.Sprintf("review:%d:%d", orderID, customerID)
}

func (m *ReviewCache) Exists(ctx context.Context, key string) (bool, error) {
	ret := m.Called(ctx, key)
	return ret.Bool(0), ret.Error(1)
}

func (m *ReviewCache) SetMarker(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *ReviewCache) DeleteMarker(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *ReviewCache) GetRating(ctx context.Context, vendorID int64) (domain.VendorRating, bool, error) {
	ret := m.Called(ctx, vendorID)
	return ret.Get(0).(domain.VendorRating), ret.Bool(1), ret.Error(2)
}

func (m *ReviewCache) TopRated(ctx context.Context, limit int) ([]domain.VendorRating, bool, error) {
	ret := m.Called(ctx, limit)
	var ratings []domain.VendorRating
	if ret.Get(0) != nil {
		ratings = ret.Get(0).([]domain.VendorRating)
	}
	return ratings, ret.Bool(1), ret.Error(2)
}

type ReviewPublisher struct {
	mock.Mock
}

func NewReviewPublisher(t interface {
	mock.TestingT
	Cleanup(func())
}) *ReviewPublisher {
	m := &ReviewPublisher{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *ReviewPublisher) PublishReviewEvent(ctx context.Context, event domain.ReviewEvent) error {
	return m.Called(ctx, event).Error(0)
}
