package storage

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"tablebook/booking-svc/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return NewPostgresRepository(db), mock
}

var dayRowColumns = []string{"vendor_id", "weekday", "is_open", "open_time", "close_time", "slot_duration_minutes", "max_orders_per_slot"}

func TestGetWeek_SeedsThenReads(t *testing.T) {
	repo, mock := setupTestDB(t)

	mock.ExpectExec("INSERT INTO day_schedules").WithArgs(4).WillReturnResult(sqlmock.NewResult(0, 7))
	rows := sqlmock.NewRows(dayRowColumns)
	for wd := 1; wd <= 7; wd++ {
		rows.AddRow(4, wd, wd == 1, "09:00", "17:00", 30, 1)
	}
	mock.ExpectQuery("SELECT (.+) FROM day_schedules WHERE vendor_id").WithArgs(4).WillReturnRows(rows)

	week, err := repo.GetWeek(context.Background(), 4)

	require.NoError(t, err)
	require.Len(t, week, 7)
	assert.True(t, week[0].IsOpen)
	assert.Equal(t, domain.MustClock("17:00"), week[6].CloseTime)
}

func TestGetDay_MissingRowReturnsDefault(t *testing.T) {
	repo, mock := setupTestDB(t)

	mock.ExpectQuery("SELECT (.+) FROM day_schedules").WithArgs(4, 3).WillReturnError(sql.ErrNoRows)
	mock.ExpectExec("INSERT INTO day_schedules").WithArgs(4).WillReturnResult(sqlmock.NewResult(0, 7))

	day, err := repo.GetDay(context.Background(), 4, 3)

	require.NoError(t, err)
	assert.Equal(t, domain.DefaultDaySchedule(4, 3), day)
}

func TestSaveDay_StoresClockText(t *testing.T) {
	repo, mock := setupTestDB(t)
	day := domain.DaySchedule{VendorID: 4, Weekday: 2, IsOpen: true, OpenTime: domain.MustClock("08:30"), CloseTime: domain.MustClock("12:00"), SlotDurationMinutes: 15, MaxOrdersPerSlot: 3}

	mock.ExpectExec("INSERT INTO day_schedules").
		WithArgs(4, 2, true, "08:30", "12:00", 15, 3).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.SaveDay(context.Background(), day))
}

func TestReserve_Success(t *testing.T) {
	repo, mock := setupTestDB(t)
	res := &domain.Reservation{VendorID: 4, CustomerID: 20, Date: "2099-01-05", Slot: "09:00"}

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO slot_counters").WithArgs(4, "2099-01-05", "09:00", 2).
		WillReturnRows(sqlmock.NewRows([]string{"booked"}).AddRow(2))
	mock.ExpectQuery("INSERT INTO reservations").WithArgs(4, 20, "2099-01-05", "09:00", "").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(11, time.Now()))
	mock.ExpectCommit()

	require.NoError(t, repo.Reserve(context.Background(), res, 2))
	assert.Equal(t, int64(11), res.ID)
}

func TestReserve_FullCounterRollsBack(t *testing.T) {
	repo, mock := setupTestDB(t)
	res := &domain.Reservation{VendorID: 4, CustomerID: 20, Date: "2099-01-05", Slot: "09:00"}

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO slot_counters").WithArgs(4, "2099-01-05", "09:00", 1).
		WillReturnRows(sqlmock.NewRows([]string{"booked"}))
	mock.ExpectRollback()

	err := repo.Reserve(context.Background(), res, 1)

	assert.ErrorIs(t, err, domain.ErrSlotFull)
	assert.Zero(t, res.ID)
}

func TestReserve_InsertFailureRollsBackCounter(t *testing.T) {
	repo, mock := setupTestDB(t)
	res := &domain.Reservation{VendorID: 4, CustomerID: 20, Date: "2099-01-05", Slot: "09:00"}

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO slot_counters").
		WillReturnRows(sqlmock.NewRows([]string{"booked"}).AddRow(1))
	mock.ExpectQuery("INSERT INTO reservations").WillReturnError(assert.AnError)
	mock.ExpectRollback()

	err := repo.Reserve(context.Background(), res, 1)

	assert.ErrorIs(t, err, assert.AnError)
}

func TestCancel_DecrementsCounter(t *testing.T) {
	repo, mock := setupTestDB(t)
	at := time.Now()
	date := time.Date(2099, 1, 5, 0, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE reservations SET cancelled_at").WithArgs(at, 11).
		WillReturnRows(sqlmock.NewRows([]string{"vendor_id", "slot_date", "slot_time"}).AddRow(4, date, "09:00"))
	mock.ExpectExec("UPDATE slot_counters SET booked = booked - 1").WithArgs(4, "2099-01-05", "09:00").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	cancelled, err := repo.Cancel(context.Background(), 11, at)

	require.NoError(t, err)
	assert.True(t, cancelled)
}

func TestCancel_AlreadyCancelled(t *testing.T) {
	repo, mock := setupTestDB(t)
	at := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE reservations SET cancelled_at").WithArgs(at, 11).
		WillReturnRows(sqlmock.NewRows([]string{"vendor_id", "slot_date", "slot_time"}))
	mock.ExpectRollback()

	cancelled, err := repo.Cancel(context.Background(), 11, at)

	require.NoError(t, err)
	assert.False(t, cancelled)
}

func TestGetReservation_NotFound(t *testing.T) {
	repo, mock := setupTestDB(t)
	mock.ExpectQuery("SELECT (.+) FROM reservations WHERE id").WithArgs(5).WillReturnError(sql.ErrNoRows)

	_, err := repo.GetReservation(context.Background(), 5)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListReservations_ExcludesCancelledByDefault(t *testing.T) {
	repo, mock := setupTestDB(t)
	date := time.Date(2099, 1, 5, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`FROM reservations WHERE vendor_id = \$1 AND slot_date = \$2 AND cancelled_at IS NULL`).
		WithArgs(4, "2099-01-05").
		WillReturnRows(sqlmock.NewRows([]string{"id", "vendor_id", "customer_id", "slot_date", "slot_time", "note", "created_at", "cancelled_at"}).
			AddRow(11, 4, 20, date, "09:00", "window seat", time.Now(), nil))

	list, err := repo.ListReservations(context.Background(), domain.ReservationFilter{VendorID: 4, Date: "2099-01-05"})

	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "2099-01-05", list[0].Date)
	assert.False(t, list[0].Cancelled())
}

func TestBookedCounts(t *testing.T) {
	repo, mock := setupTestDB(t)
	mock.ExpectQuery("SELECT slot_time, booked FROM slot_counters").WithArgs(4, "2099-01-05").
		WillReturnRows(sqlmock.NewRows([]string{"slot_time", "booked"}).AddRow("09:00", 2))

	counts, err := repo.BookedCounts(context.Background(), 4, "2099-01-05")

	require.NoError(t, err)
	assert.Equal(t, map[string]int{"09:00": 2}, counts)
}
