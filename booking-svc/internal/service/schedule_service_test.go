package service_test

import (
	"context"
	"testing"

	"tablebook/access"
	"tablebook/booking-svc/internal/domain"
	"tablebook/booking-svc/internal/mocks"
	"tablebook/booking-svc/internal/service"
	"tablebook/booking-svc/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestScheduleService_UpdateDay(t *testing.T) {
	tests := []struct {
		name      string
		actor     access.Actor
		day       domain.DaySchedule
		saveCalls bool
		wantErr   error
	}{
		{name: "owner", actor: vendor, day: mondaySchedule(2), saveCalls: true},
		{name: "other vendor", actor: access.Actor{ID: 8, Role: access.RoleVendor}, day: mondaySchedule(2), wantErr: access.ErrForbidden},
		{name: "admin is not the owner", actor: admin, day: mondaySchedule(2), wantErr: access.ErrForbidden},
		{
			name:    "inverted window",
			actor:   vendor,
			day:     func() domain.DaySchedule { d := mondaySchedule(1); d.OpenTime = domain.MustClock("11:00"); return d }(),
			wantErr: domain.ErrInvalidSchedule,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			schedules := mocks.NewScheduleRepository(t)
			svc := service.NewScheduleService(schedules, mocks.NewReservationStore(t))
			if testCase.saveCalls {
				schedules.On("SaveDay", mock.Anything, testCase.day).Return(nil).Once()
			}

			_, err := svc.UpdateDay(context.Background(), testCase.actor, testCase.day)

			if testCase.wantErr != nil {
				assert.ErrorIs(t, err, testCase.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestScheduleService_WeekSeedsDefaults(t *testing.T) {
	store := storage.NewMemoryStore()
	svc := service.NewScheduleService(store, store)

	week, err := svc.Week(context.Background(), 9)

	require.NoError(t, err)
	require.Len(t, week, 7)
	assert.False(t, week[0].IsOpen)
	assert.Equal(t, "09:00", week[0].OpenTime.String())
}

func TestScheduleService_SlotsWithRemainingCapacity(t *testing.T) {
	store := storage.NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.SaveDay(ctx, mondaySchedule(2)))
	reservations := service.NewReservationService(store, store, 0)
	_, err := reservations.Allocate(ctx, customer, domain.AllocateRequest{VendorID: vendor.ID, Date: monday, Slot: "09:30"})
	require.NoError(t, err)

	svc := service.NewScheduleService(store, store)
	slots, err := svc.Slots(ctx, vendor.ID, monday)

	require.NoError(t, err)
	assert.Equal(t, []domain.SlotAvailability{
		{Slot: "09:00", Capacity: 2, Booked: 0, Remaining: 2},
		{Slot: "09:30", Capacity: 2, Booked: 1, Remaining: 1},
	}, slots)
}

func TestScheduleService_SlotsClosedDay(t *testing.T) {
	store := storage.NewMemoryStore()
	svc := service.NewScheduleService(store, store)

	slots, err := svc.Slots(context.Background(), vendor.ID, "2099-01-04")

	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestScheduleService_SlotsBadDate(t *testing.T) {
	store := storage.NewMemoryStore()
	svc := service.NewScheduleService(store, store)

	_, err := svc.Slots(context.Background(), vendor.ID, "tomorrow")

	assert.ErrorAs(t, err, &domain.ValidationError{})
}
