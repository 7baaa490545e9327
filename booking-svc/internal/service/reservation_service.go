package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"tablebook/access"
	"tablebook/booking-svc/internal/domain"
)

type ReservationService struct {
	schedules    ScheduleRepository
	reservations ReservationStore
	retries      int
	backoff      time.Duration
	now          func() time.Time
}

func NewReservationService(schedules ScheduleRepository, reservations ReservationStore, retries int) *ReservationService {
	if retries < 0 {
		retries = 0
	}
	return &ReservationService{
		schedules:    schedules,
		reservations: reservations,
		retries:      retries,
		backoff:      50 * time.Millisecond,
		now:          time.Now,
	}
}

// Allocate books a slot for the calling customer. The capacity check and the
// insert happen inside the store as one unit; transient store failures are
// retried and then reported as domain.ErrUnavailable.
func (s *ReservationService) Allocate(ctx context.Context, actor access.Actor, req domain.AllocateRequest) (*domain.Reservation, error) {
	if !actor.Is(access.RoleCustomer) {
		return nil, access.ErrForbidden
	}
	if req.VendorID <= 0 {
		return nil, domain.ValidationError{Field: "vendor_id", Message: "must be a positive integer"}
	}
	date, err := domain.ParseDate(req.Date)
	if err != nil {
		return nil, err
	}
	if date.Format(domain.DateLayout) < s.now().Format(domain.DateLayout) {
		return nil, domain.ValidationError{Field: "date", Message: "date is in the past"}
	}
	slot, err := domain.ParseClock(req.Slot)
	if err != nil {
		return nil, domain.ValidationError{Field: "slot", Message: err.Error()}
	}

	day, err := s.schedules.GetDay(ctx, req.VendorID, domain.WeekdayOf(date))
	if err != nil {
		return nil, err
	}
	if !domain.HasSlot(day, slot.String()) {
		return nil, domain.ErrVendorClosed
	}

	res := &domain.Reservation{
		VendorID:   req.VendorID,
		CustomerID: actor.ID,
		Date:       date.Format(domain.DateLayout),
		Slot:       slot.String(),
		Note:       req.Note,
		CreatedAt:  s.now(),
	}
	if err := s.reserveWithRetry(ctx, res, day.MaxOrdersPerSlot); err != nil {
		return nil, err
	}

	log.Printf("Reservation %d: customer %d booked vendor %d on %s at %s", res.ID, res.CustomerID, res.VendorID, res.Date, res.Slot)
	return res, nil
}

func (s *ReservationService) reserveWithRetry(ctx context.Context, res *domain.Reservation, capacity int) error {
	var err error
	for attempt := 0; attempt <= s.retries; attempt++ {
		err = s.reservations.Reserve(ctx, res, capacity)
		if err == nil || errors.Is(err, domain.ErrSlotFull) {
			return err
		}
		log.Printf("Reserve attempt %d for vendor %d %s %s failed: %v", attempt+1, res.VendorID, res.Date, res.Slot, err)
		if attempt == s.retries {
			break
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %v", domain.ErrUnavailable, ctx.Err())
		case <-time.After(time.Duration(attempt+1) * s.backoff):
		}
	}
	return fmt.Errorf("%w: %v", domain.ErrUnavailable, err)
}

// Cancel frees the reservation's slot unit. Cancelling an already cancelled
// reservation returns it unchanged.
func (s *ReservationService) Cancel(ctx context.Context, actor access.Actor, reservationID int64) (*domain.Reservation, error) {
	res, err := s.reservations.GetReservation(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if err := access.Authorize(actor, res.CustomerID, res.VendorID); err != nil {
		return nil, err
	}
	if res.Cancelled() {
		return res, nil
	}

	at := s.now()
	cancelled, err := s.reservations.Cancel(ctx, res.ID, at)
	if err != nil {
		return nil, err
	}
	if cancelled {
		res.CancelledAt = &at
		log.Printf("Reservation %d cancelled by %s %d", res.ID, actor.Role, actor.ID)
		return res, nil
	}
	return s.reservations.GetReservation(ctx, reservationID)
}

// List pins the filter to the caller: customers see their own reservations,
// vendors the ones made with them.
func (s *ReservationService) List(ctx context.Context, actor access.Actor, filter domain.ReservationFilter) ([]domain.Reservation, error) {
	switch actor.Role {
	case access.RoleCustomer:
		if filter.CustomerID != 0 && filter.CustomerID != actor.ID {
			return nil, access.ErrForbidden
		}
		filter.CustomerID = actor.ID
	case access.RoleVendor:
		if filter.VendorID != 0 && filter.VendorID != actor.ID {
			return nil, access.ErrForbidden
		}
		filter.VendorID = actor.ID
	case access.RoleAdmin:
		if filter.VendorID == 0 && filter.CustomerID == 0 {
			return nil, domain.ValidationError{Field: "vendor_id", Message: "vendor_id or customer_id is required"}
		}
	default:
		return nil, access.ErrForbidden
	}
	if filter.Date != "" {
		date, err := domain.ParseDate(filter.Date)
		if err != nil {
			return nil, err
		}
		filter.Date = date.Format(domain.DateLayout)
	}
	return s.reservations.ListReservations(ctx, filter)
}
