package domain

import "time"

type Reservation struct {
	ID          int64      `json:"id"`
	VendorID    int64      `json:"vendor_id"`
	CustomerID  int64      `json:"customer_id"`
	Date        string     `json:"date"`
	Slot        string     `json:"slot"`
	Note        string     `json:"note,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
}

func (r Reservation) Cancelled() bool {
	return r.CancelledAt != nil
}

type AllocateRequest struct {
	VendorID int64  `json:"vendor_id"`
	Date     string `json:"date"`
	Slot     string `json:"slot"`
	Note     string `json:"note"`
}

// ReservationFilter selects reservations. Zero fields are ignored; cancelled
// reservations are included only when IncludeCancelled is set.
type ReservationFilter struct {
	VendorID         int64
	CustomerID       int64
	Date             string
	IncludeCancelled bool
}
