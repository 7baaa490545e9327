package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"tablebook/booking-svc/internal/domain"
)

type scheduleKey struct {
	vendorID int64
	weekday  int
}

type slotKey struct {
	vendorID int64
	date     string
	slot     string
}

// MemoryStore keeps schedules and reservations in process. One mutex guards
// the capacity count and the insert together.
type MemoryStore struct {
	mu           sync.Mutex
	schedules    map[scheduleKey]domain.DaySchedule
	reservations map[int64]domain.Reservation
	booked       map[slotKey]int
	nextID       int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		schedules:    make(map[scheduleKey]domain.DaySchedule),
		reservations: make(map[int64]domain.Reservation),
		booked:       make(map[slotKey]int),
	}
}

func (s *MemoryStore) GetWeek(ctx context.Context, vendorID int64) ([]domain.DaySchedule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	week := make([]domain.DaySchedule, 0, 7)
	for wd := 1; wd <= 7; wd++ {
		week = append(week, s.dayLocked(vendorID, wd))
	}
	return week, nil
}

func (s *MemoryStore) dayLocked(vendorID int64, weekday int) domain.DaySchedule {
	key := scheduleKey{vendorID, weekday}
	day, ok := s.schedules[key]
	if !ok {
		day = domain.DefaultDaySchedule(vendorID, weekday)
		s.schedules[key] = day
	}
	return day
}

func (s *MemoryStore) GetDay(ctx context.Context, vendorID int64, weekday int) (domain.DaySchedule, error) {
	if weekday < 1 || weekday > 7 {
		return domain.DaySchedule{}, domain.ErrNotFound
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dayLocked(vendorID, weekday), nil
}

func (s *MemoryStore) SaveDay(ctx context.Context, day domain.DaySchedule) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.schedules[scheduleKey{day.VendorID, day.Weekday}] = day
	return nil
}

func (s *MemoryStore) Reserve(ctx context.Context, res *domain.Reservation, capacity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := slotKey{res.VendorID, res.Date, res.Slot}
	if s.booked[key] >= capacity {
		return domain.ErrSlotFull
	}
	s.booked[key]++
	s.nextID++
	res.ID = s.nextID
	if res.CreatedAt.IsZero() {
		res.CreatedAt = time.Now()
	}
	s.reservations[res.ID] = *res
	return nil
}

func (s *MemoryStore) Cancel(ctx context.Context, reservationID int64, at time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, ok := s.reservations[reservationID]
	if !ok {
		return false, domain.ErrNotFound
	}
	if res.Cancelled() {
		return false, nil
	}
	res.CancelledAt = &at
	s.reservations[reservationID] = res

	key := slotKey{res.VendorID, res.Date, res.Slot}
	if s.booked[key] > 0 {
		s.booked[key]--
	}
	return true, nil
}

func (s *MemoryStore) GetReservation(ctx context.Context, reservationID int64) (*domain.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, ok := s.reservations[reservationID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &res, nil
}

func (s *MemoryStore) ListReservations(ctx context.Context, filter domain.ReservationFilter) ([]domain.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := []domain.Reservation{}
	for _, res := range s.reservations {
		if filter.VendorID != 0 && res.VendorID != filter.VendorID {
			continue
		}
		if filter.CustomerID != 0 && res.CustomerID != filter.CustomerID {
			continue
		}
		if filter.Date != "" && res.Date != filter.Date {
			continue
		}
		if res.Cancelled() && !filter.IncludeCancelled {
			continue
		}
		list = append(list, res)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Date != list[j].Date {
			return list[i].Date < list[j].Date
		}
		if list[i].Slot != list[j].Slot {
			return list[i].Slot < list[j].Slot
		}
		return list[i].ID < list[j].ID
	})
	return list, nil
}

func (s *MemoryStore) BookedCounts(ctx context.Context, vendorID int64, date string) (map[string]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	counts := make(map[string]int)
	for key, n := range s.booked {
		if key.vendorID == vendorID && key.date == date && n > 0 {
			counts[key.slot] = n
		}
	}
	return counts, nil
}
