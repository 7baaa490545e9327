package domain

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openDay(open, close string, duration, capacity int) DaySchedule {
	return DaySchedule{
		VendorID:            1,
		Weekday:             1,
		IsOpen:              true,
		OpenTime:            MustClock(open),
		CloseTime:           MustClock(close),
		SlotDurationMinutes: duration,
		MaxOrdersPerSlot:    capacity,
	}
}

func TestComputeSlots_HalfHourHour(t *testing.T) {
	assert.Equal(t, []string{"09:00", "09:30"}, ComputeSlots(openDay("09:00", "10:00", 30, 1)))
}

func TestComputeSlots(t *testing.T) {
	tests := []struct {
		name string
		day  DaySchedule
		want []string
	}{
		{
			name: "closed day",
			day:  func() DaySchedule { d := openDay("09:00", "17:00", 30, 1); d.IsOpen = false; return d }(),
			want: []string{},
		},
		{
			name: "uneven window stops before close",
			day:  openDay("09:00", "10:00", 45, 1),
			want: []string{"09:00", "09:45"},
		},
		{
			name: "minutes roll into hours",
			day:  openDay("11:50", "12:30", 20, 1),
			want: []string{"11:50", "12:10"},
		},
		{
			name: "closes at midnight",
			day:  openDay("22:00", "24:00", 60, 1),
			want: []string{"22:00", "23:00"},
		},
		{
			name: "duration longer than window",
			day:  openDay("09:00", "09:20", 30, 1),
			want: []string{"09:00"},
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			assert.Equal(t, testCase.want, ComputeSlots(testCase.day))
		})
	}
}

func TestComputeSlots_Deterministic(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 500; i++ {
		open := Clock(rng.Intn(20 * 60))
		day := DaySchedule{
			IsOpen:              rng.Intn(4) > 0,
			OpenTime:            open,
			CloseTime:           open + Clock(1+rng.Intn(240)),
			SlotDurationMinutes: 5 + rng.Intn(120),
			MaxOrdersPerSlot:    1,
		}

		first := ComputeSlots(day)
		assert.Equal(t, first, ComputeSlots(day))
		if !day.IsOpen {
			assert.Empty(t, first)
			continue
		}
		for _, slot := range first {
			c := MustClock(slot)
			assert.True(t, c >= day.OpenTime && c < day.CloseTime, "slot %s outside window", slot)
		}
	}
}

func TestDaySchedule_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*DaySchedule)
		valid  bool
	}{
		{name: "valid", mutate: func(*DaySchedule) {}, valid: true},
		{name: "open equals close", mutate: func(d *DaySchedule) { d.CloseTime = d.OpenTime }},
		{name: "open after close", mutate: func(d *DaySchedule) { d.OpenTime = MustClock("18:00") }},
		{name: "closed day ignores window", mutate: func(d *DaySchedule) { d.IsOpen = false; d.OpenTime = MustClock("18:00") }, valid: true},
		{name: "zero duration", mutate: func(d *DaySchedule) { d.SlotDurationMinutes = 0 }},
		{name: "zero capacity", mutate: func(d *DaySchedule) { d.MaxOrdersPerSlot = 0 }},
		{name: "weekday out of range", mutate: func(d *DaySchedule) { d.Weekday = 8 }},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			day := openDay("09:00", "17:00", 30, 2)
			testCase.mutate(&day)

			err := day.Validate()

			if testCase.valid {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, ErrInvalidSchedule), "got %v", err)
		})
	}
}

func TestParseClock(t *testing.T) {
	c, err := ParseClock("09:05")
	require.NoError(t, err)
	assert.Equal(t, Clock(545), c)
	assert.Equal(t, "09:05", c.String())

	for _, bad := range []string{"9:05", "09:60", "24:01", "ab:cd", "", "09-05"} {
		_, err := ParseClock(bad)
		assert.Error(t, err, bad)
	}
}

func TestWeekdayOf(t *testing.T) {
	assert.Equal(t, 1, WeekdayOf(time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 7, WeekdayOf(time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC)))
}

func TestDefaultWeek(t *testing.T) {
	week := DefaultWeek(4)
	require.Len(t, week, 7)
	for i, day := range week {
		assert.Equal(t, i+1, day.Weekday)
		assert.False(t, day.IsOpen)
		assert.NoError(t, day.Validate())
		assert.Empty(t, ComputeSlots(day))
	}
}
