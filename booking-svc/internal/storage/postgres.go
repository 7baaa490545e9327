package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"tablebook/booking-svc/internal/domain"
)

type PostgresRepository struct {
	DB *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{DB: db}
}

// ensureWeek creates the default rows for any weekday the vendor is missing.
// Column defaults in the schema match domain.DefaultDaySchedule.
func (r *PostgresRepository) ensureWeek(ctx context.Context, vendorID int64) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO day_schedules (vendor_id, weekday)
		SELECT $1, wd FROM generate_series(1, 7) AS wd
		ON CONFLICT (vendor_id, weekday) DO NOTHING`, vendorID)
	return err
}

func scanDay(row interface{ Scan(...any) error }) (domain.DaySchedule, error) {
	var (
		day         domain.DaySchedule
		open, close string
	)
	if err := row.Scan(&day.VendorID, &day.Weekday, &day.IsOpen, &open, &close, &day.SlotDurationMinutes, &day.MaxOrdersPerSlot); err != nil {
		return day, err
	}
	var err error
	if day.OpenTime, err = domain.ParseClock(open); err != nil {
		return day, fmt.Errorf("stored open_time: %w", err)
	}
	if day.CloseTime, err = domain.ParseClock(close); err != nil {
		return day, fmt.Errorf("stored close_time: %w", err)
	}
	return day, nil
}

const dayColumns = "vendor_id, weekday, is_open, open_time, close_time, slot_duration_minutes, max_orders_per_slot"

func (r *PostgresRepository) GetWeek(ctx context.Context, vendorID int64) ([]domain.DaySchedule, error) {
	if err := r.ensureWeek(ctx, vendorID); err != nil {
		return nil, err
	}

	rows, err := r.DB.QueryContext(ctx, `SELECT `+dayColumns+` FROM day_schedules WHERE vendor_id = $1 ORDER BY weekday`, vendorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	week := make([]domain.DaySchedule, 0, 7)
	for rows.Next() {
		day, err := scanDay(rows)
		if err != nil {
			return nil, err
		}
		week = append(week, day)
	}
	return week, rows.Err()
}

func (r *PostgresRepository) GetDay(ctx context.Context, vendorID int64, weekday int) (domain.DaySchedule, error) {
	if weekday < 1 || weekday > 7 {
		return domain.DaySchedule{}, domain.ErrNotFound
	}
	day, err := scanDay(r.DB.QueryRowContext(ctx,
		`SELECT `+dayColumns+` FROM day_schedules WHERE vendor_id = $1 AND weekday = $2`, vendorID, weekday))
	if errors.Is(err, sql.ErrNoRows) {
		if err := r.ensureWeek(ctx, vendorID); err != nil {
			return domain.DaySchedule{}, err
		}
		return domain.DefaultDaySchedule(vendorID, weekday), nil
	}
	return day, err
}

func (r *PostgresRepository) SaveDay(ctx context.Context, day domain.DaySchedule) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO day_schedules (vendor_id, weekday, is_open, open_time, close_time, slot_duration_minutes, max_orders_per_slot)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (vendor_id, weekday) DO UPDATE
		SET is_open = EXCLUDED.is_open,
		    open_time = EXCLUDED.open_time,
		    close_time = EXCLUDED.close_time,
		    slot_duration_minutes = EXCLUDED.slot_duration_minutes,
		    max_orders_per_slot = EXCLUDED.max_orders_per_slot`,
		day.VendorID, day.Weekday, day.IsOpen, day.OpenTime.String(), day.CloseTime.String(),
		day.SlotDurationMinutes, day.MaxOrdersPerSlot)
	return err
}

// Reserve takes one unit of the slot counter only while it is below capacity
// and inserts the reservation in the same transaction.
func (r *PostgresRepository) Reserve(ctx context.Context, res *domain.Reservation, capacity int) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var booked int
	err = tx.QueryRowContext(ctx, `
		INSERT INTO slot_counters (vendor_id, slot_date, slot_time, booked)
		VALUES ($1, $2, $3, 1)
		ON CONFLICT (vendor_id, slot_date, slot_time) DO UPDATE
		SET booked = slot_counters.booked + 1
		WHERE slot_counters.booked < $4
		RETURNING booked`,
		res.VendorID, res.Date, res.Slot, capacity).Scan(&booked)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrSlotFull
	}
	if err != nil {
		return err
	}
	if booked > capacity {
		return domain.ErrSlotFull
	}

	if err := tx.QueryRowContext(ctx, `
		INSERT INTO reservations (vendor_id, customer_id, slot_date, slot_time, note)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`,
		res.VendorID, res.CustomerID, res.Date, res.Slot, res.Note).Scan(&res.ID, &res.CreatedAt); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *PostgresRepository) Cancel(ctx context.Context, reservationID int64, at time.Time) (bool, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	var (
		vendorID int64
		date     time.Time
		slot     string
	)
	err = tx.QueryRowContext(ctx, `
		UPDATE reservations SET cancelled_at = $1
		WHERE id = $2 AND cancelled_at IS NULL
		RETURNING vendor_id, slot_date, slot_time`, at, reservationID).Scan(&vendorID, &date, &slot)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE slot_counters SET booked = booked - 1
		WHERE vendor_id = $1 AND slot_date = $2 AND slot_time = $3 AND booked > 0`,
		vendorID, date.Format(domain.DateLayout), slot); err != nil {
		return false, err
	}

	if err := tx.Commit(); err != nil {
		return false, err
	}
	return true, nil
}

const reservationColumns = "id, vendor_id, customer_id, slot_date, slot_time, COALESCE(note, ''), created_at, cancelled_at"

func scanReservation(row interface{ Scan(...any) error }) (domain.Reservation, error) {
	var (
		res       domain.Reservation
		date      time.Time
		cancelled sql.NullTime
	)
	if err := row.Scan(&res.ID, &res.VendorID, &res.CustomerID, &date, &res.Slot, &res.Note, &res.CreatedAt, &cancelled); err != nil {
		return res, err
	}
	res.Date = date.Format(domain.DateLayout)
	if cancelled.Valid {
		at := cancelled.Time
		res.CancelledAt = &at
	}
	return res, nil
}

func (r *PostgresRepository) GetReservation(ctx context.Context, reservationID int64) (*domain.Reservation, error) {
	res, err := scanReservation(r.DB.QueryRowContext(ctx, `SELECT `+reservationColumns+` FROM reservations WHERE id = $1`, reservationID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *PostgresRepository) ListReservations(ctx context.Context, filter domain.ReservationFilter) ([]domain.Reservation, error) {
	var (
		conditions []string
		args       []any
	)
	if filter.VendorID != 0 {
		args = append(args, filter.VendorID)
		conditions = append(conditions, fmt.Sprintf("vendor_id = $%d", len(args)))
	}
	if filter.CustomerID != 0 {
		args = append(args, filter.CustomerID)
		conditions = append(conditions, fmt.Sprintf("customer_id = $%d", len(args)))
	}
	if filter.Date != "" {
		args = append(args, filter.Date)
		conditions = append(conditions, fmt.Sprintf("slot_date = $%d", len(args)))
	}
	if !filter.IncludeCancelled {
		conditions = append(conditions, "cancelled_at IS NULL")
	}

	query := `SELECT ` + reservationColumns + ` FROM reservations`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY slot_date, slot_time, id"

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []domain.Reservation{}
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, res)
	}
	return list, rows.Err()
}

func (r *PostgresRepository) BookedCounts(ctx context.Context, vendorID int64, date string) (map[string]int, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT slot_time, booked FROM slot_counters
		WHERE vendor_id = $1 AND slot_date = $2 AND booked > 0`, vendorID, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var (
			slot   string
			booked int
		)
		if err := rows.Scan(&slot, &booked); err != nil {
			return nil, err
		}
		counts[slot] = booked
	}
	return counts, rows.Err()
}
