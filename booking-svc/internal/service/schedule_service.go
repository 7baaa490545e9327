package service

import (
	"context"
	"log"

	"tablebook/access"
	"tablebook/booking-svc/internal/domain"
)

type ScheduleService struct {
	schedules    ScheduleRepository
	reservations ReservationStore
}

func NewScheduleService(schedules ScheduleRepository, reservations ReservationStore) *ScheduleService {
	return &ScheduleService{schedules: schedules, reservations: reservations}
}

func (s *ScheduleService) Week(ctx context.Context, vendorID int64) ([]domain.DaySchedule, error) {
	if vendorID <= 0 {
		return nil, domain.ValidationError{Field: "vendor_id", Message: "must be a positive integer"}
	}
	return s.schedules.GetWeek(ctx, vendorID)
}

// UpdateDay overwrites one weekday. Only the vendor that owns the schedule may
// change it.
func (s *ScheduleService) UpdateDay(ctx context.Context, actor access.Actor, day domain.DaySchedule) (domain.DaySchedule, error) {
	if !actor.Is(access.RoleVendor) || actor.ID != day.VendorID {
		return domain.DaySchedule{}, access.ErrForbidden
	}
	if err := day.Validate(); err != nil {
		return domain.DaySchedule{}, err
	}
	if err := s.schedules.SaveDay(ctx, day); err != nil {
		return domain.DaySchedule{}, err
	}
	log.Printf("Vendor %d updated weekday %d schedule (open=%t %s-%s every %dm, cap %d)",
		day.VendorID, day.Weekday, day.IsOpen, day.OpenTime, day.CloseTime, day.SlotDurationMinutes, day.MaxOrdersPerSlot)
	return day, nil
}

func (s *ScheduleService) Slots(ctx context.Context, vendorID int64, date string) ([]domain.SlotAvailability, error) {
	parsed, err := domain.ParseDate(date)
	if err != nil {
		return nil, err
	}
	day, err := s.schedules.GetDay(ctx, vendorID, domain.WeekdayOf(parsed))
	if err != nil {
		return nil, err
	}

	slots := domain.ComputeSlots(day)
	availability := make([]domain.SlotAvailability, 0, len(slots))
	if len(slots) == 0 {
		return availability, nil
	}

	booked, err := s.reservations.BookedCounts(ctx, vendorID, parsed.Format(domain.DateLayout))
	if err != nil {
		return nil, err
	}
	for _, slot := range slots {
		remaining := day.MaxOrdersPerSlot - booked[slot]
		if remaining < 0 {
			remaining = 0
		}
		availability = append(availability, domain.SlotAvailability{
			Slot:      slot,
			Capacity:  day.MaxOrdersPerSlot,
			Booked:    booked[slot],
			Remaining: remaining,
		})
	}
	return availability, nil
}
