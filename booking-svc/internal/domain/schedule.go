package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Clock is a time of day in minutes since midnight.
type Clock int

const endOfDay = Clock(24 * 60)

// ParseClock accepts HH:MM. 24:00 is allowed so a day can close at midnight.
func ParseClock(s string) (Clock, error) {
	if len(s) != 5 || s[2] != ':' || !isDigits(s[:2]) || !isDigits(s[3:]) {
		return 0, fmt.Errorf("time %q must be HH:MM", s)
	}
	h, _ := strconv.Atoi(s[:2])
	m, _ := strconv.Atoi(s[3:])
	c := Clock(h*60 + m)
	if m > 59 || c > endOfDay {
		return 0, fmt.Errorf("time %q is out of range", s)
	}
	return c, nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func MustClock(s string) Clock {
	c, err := ParseClock(s)
	if err != nil {
		panic(err)
	}
	return c
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}

func (c Clock) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func (c *Clock) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseClock(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// DaySchedule is one vendor's opening window for one ISO weekday
// (1 = Monday ... 7 = Sunday).
type DaySchedule struct {
	VendorID            int64 `json:"vendor_id"`
	Weekday             int   `json:"weekday"`
	IsOpen              bool  `json:"is_open"`
	OpenTime            Clock `json:"open_time"`
	CloseTime           Clock `json:"close_time"`
	SlotDurationMinutes int   `json:"slot_duration_minutes"`
	MaxOrdersPerSlot    int   `json:"max_orders_per_slot"`
}

func DefaultDaySchedule(vendorID int64, weekday int) DaySchedule {
	return DaySchedule{
		VendorID:            vendorID,
		Weekday:             weekday,
		IsOpen:              false,
		OpenTime:            MustClock("09:00"),
		CloseTime:           MustClock("17:00"),
		SlotDurationMinutes: 30,
		MaxOrdersPerSlot:    1,
	}
}

func DefaultWeek(vendorID int64) []DaySchedule {
	week := make([]DaySchedule, 0, 7)
	for wd := 1; wd <= 7; wd++ {
		week = append(week, DefaultDaySchedule(vendorID, wd))
	}
	return week
}

func (d DaySchedule) Validate() error {
	switch {
	case d.Weekday < 1 || d.Weekday > 7:
		return fmt.Errorf("%w: weekday must be between 1 and 7", ErrInvalidSchedule)
	case d.SlotDurationMinutes <= 0:
		return fmt.Errorf("%w: slot duration must be positive", ErrInvalidSchedule)
	case d.MaxOrdersPerSlot <= 0:
		return fmt.Errorf("%w: max orders per slot must be positive", ErrInvalidSchedule)
	case d.IsOpen && d.OpenTime >= d.CloseTime:
		return fmt.Errorf("%w: open time must be before close time", ErrInvalidSchedule)
	}
	return nil
}

// ComputeSlots lists the slot start times in [OpenTime, CloseTime), stepping by
// the slot duration. Closed days have no slots.
func ComputeSlots(d DaySchedule) []string {
	slots := []string{}
	if !d.IsOpen || d.SlotDurationMinutes <= 0 {
		return slots
	}
	step := Clock(d.SlotDurationMinutes)
	for t := d.OpenTime; t < d.CloseTime; t += step {
		slots = append(slots, t.String())
	}
	return slots
}

func HasSlot(d DaySchedule, slot string) bool {
	for _, s := range ComputeSlots(d) {
		if s == slot {
			return true
		}
	}
	return false
}

// WeekdayOf maps a date to its ISO weekday.
func WeekdayOf(date time.Time) int {
	wd := int(date.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

const DateLayout = "2006-01-02"

func ParseDate(s string) (time.Time, error) {
	date, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, ValidationError{Field: "date", Message: "date must be YYYY-MM-DD"}
	}
	return date, nil
}

// SlotAvailability is one slot of a day with its remaining capacity.
type SlotAvailability struct {
	Slot      string `json:"slot"`
	Capacity  int    `json:"capacity"`
	Booked    int    `json:"booked"`
	Remaining int    `json:"remaining"`
}
