package mocks

import (
	"context"

	"tablebook/agg-svc/internal/domain"

	"github.com/stretchr/testify/mock"
)

type RatingStore struct {
	mock.Mock
}

func NewRatingStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *RatingStore {
	m := &RatingStore{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *RatingStore) RecomputeVendorRating(ctx context.Context, vendorID int64) (domain.VendorRating, error) {
	ret := m.Called(ctx, vendorID)
	return ret.Get(0).(domain.VendorRating), ret.Error(1)
}
