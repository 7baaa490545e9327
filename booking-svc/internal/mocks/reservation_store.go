package mocks

import (
	"context"
	"time"

	"tablebook/booking-svc/internal/domain"

	"github.com/stretchr/testify/mock"
)

type ReservationStore struct {
	mock.Mock
}

func NewReservationStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *ReservationStore {
	m := &ReservationStore{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *ReservationStore) Reserve(ctx context.Context, res *domain.Reservation, capacity int) error {
	return m.Called(ctx, res, capacity).Error(0)
}

func (m *ReservationStore) Cancel(ctx context.Context, reservationID int64, at time.Time) (bool, error) {
	ret := m.Called(ctx, reservationID, at)
	return ret.Bool(0), ret.Error(1)
}

func (m *ReservationStore) GetReservation(ctx context.Context, reservationID int64) (*domain.Reservation, error) {
	ret := m.Called(ctx, reservationID)
	var res *domain.Reservation
	if ret.Get(0) != nil {
		res = ret.Get(0).(*domain.Reservation)
	}
	return res, ret.Error(1)
}

func (m *ReservationStore) ListReservations(ctx context.Context, filter domain.ReservationFilter) ([]domain.Reservation, error) {
	ret := m.Called(ctx, filter)
	var list []domain.Reservation
	if ret.Get(0) != nil {
		list = ret.Get(0).([]domain.Reservation)
	}
	return list, ret.Error(1)
}

func (m *ReservationStore) BookedCounts(ctx context.Context, vendorID int64, date string) (map[string]int, error) {
	ret := m.Called(ctx, vendorID, date)
	var counts map[string]int
	if ret.Get(0) != nil {
		counts = ret.Get(0).(map[string]int)
	}
	return counts, ret.Error(1)
}
