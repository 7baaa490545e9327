package mocks

import (
	"context"

	"tablebook/booking-svc/internal/domain"

	"github.com/stretchr/testify/mock"
)

type ScheduleRepository struct {
	mock.Mock
}

func NewScheduleRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *ScheduleRepository {
	m := &ScheduleRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *ScheduleRepository) GetWeek(ctx context.Context, vendorID int64) ([]domain.DaySchedule, error) {
	ret := m.Called(ctx, vendorID)
	var week []domain.DaySchedule
	if ret.Get(0) != nil {
		week = ret.Get(0).([]domain.DaySchedule)
	}
	return week, ret.Error(1)
}

func (m *ScheduleRepository) GetDay(ctx context.Context, vendorID int64, weekday int) (domain.DaySchedule, error) {
	ret := m.Called(ctx, vendorID, weekday)
	return ret.Get(0).(domain.DaySchedule), ret.Error(1)
}

func (m *ScheduleRepository) SaveDay(ctx context.Context, day domain.DaySchedule) error {
	return m.Called(ctx, day).Error(0)
}
