package domain

import "errors"

var (
	ErrInvalidSchedule = errors.New("invalid schedule")
	ErrVendorClosed    = errors.New("vendor is closed at the requested slot")
	ErrSlotFull        = errors.New("slot is fully booked")
	ErrNotFound        = errors.New("not found")
	ErrUnavailable     = errors.New("reservation storage is unavailable")
)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return e.Field + ": " + e.Message
}
