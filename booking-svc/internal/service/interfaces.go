package service

import (
	"context"
	"time"

	"tablebook/access"
	"tablebook/booking-svc/internal/domain"
)

type ScheduleRepository interface {
	// GetWeek returns the seven day schedules of a vendor, creating the
	// default rows on first access.
	GetWeek(ctx context.Context, vendorID int64) ([]domain.DaySchedule, error)
	GetDay(ctx context.Context, vendorID int64, weekday int) (domain.DaySchedule, error)
	SaveDay(ctx context.Context, day domain.DaySchedule) error
}

type ReservationStore interface {
	// Reserve books one unit of the slot and persists res in a single atomic
	// step. It returns domain.ErrSlotFull when capacity is already taken.
	Reserve(ctx context.Context, res *domain.Reservation, capacity int) error
	// Cancel marks the reservation cancelled and frees its unit. It reports
	// false if the reservation was already cancelled.
	Cancel(ctx context.Context, reservationID int64, at time.Time) (bool, error)
	GetReservation(ctx context.Context, reservationID int64) (*domain.Reservation, error)
	ListReservations(ctx context.Context, filter domain.ReservationFilter) ([]domain.Reservation, error)
	// BookedCounts maps slot start times to their live reservation count.
	BookedCounts(ctx context.Context, vendorID int64, date string) (map[string]int, error)
}

type ScheduleServiceInterface interface {
	Week(ctx context.Context, vendorID int64) ([]domain.DaySchedule, error)
	UpdateDay(ctx context.Context, actor access.Actor, day domain.DaySchedule) (domain.DaySchedule, error)
	Slots(ctx context.Context, vendorID int64, date string) ([]domain.SlotAvailability, error)
}

type ReservationServiceInterface interface {
	Allocate(ctx context.Context, actor access.Actor, req domain.AllocateRequest) (*domain.Reservation, error)
	Cancel(ctx context.Context, actor access.Actor, reservationID int64) (*domain.Reservation, error)
	List(ctx context.Context, actor access.Actor, filter domain.ReservationFilter) ([]domain.Reservation, error)
}

var (
	_ ScheduleServiceInterface    = (*ScheduleService)(nil)
	_ ReservationServiceInterface = (*ReservationService)(nil)
)
