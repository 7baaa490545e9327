package domain

import (
	"errors"
	"time"
)

type ReviewStatus string

const (
	StatusPending  ReviewStatus = "pending"
	StatusApproved ReviewStatus = "approved"
	StatusRejected ReviewStatus = "rejected"
)

func ParseReviewStatus(s string) (ReviewStatus, bool) {
	switch ReviewStatus(s) {
	case StatusPending, StatusApproved, StatusRejected:
		return ReviewStatus(s), true
	}
	return "", false
}

type Review struct {
	ID         int64        `json:"id"`
	VendorID   int64        `json:"vendor_id"`
	CustomerID int64        `json:"customer_id"`
	OrderID    int64        `json:"order_id"`
	Rating     int          `json:"rating"`
	Comment    string       `json:"comment"`
	Status     ReviewStatus `json:"status"`
	CreatedAt  time.Time    `json:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at"`
}

type CreateReviewRequest struct {
	VendorID int64  `json:"vendor_id"`
	OrderID  int64  `json:"order_id"`
	Rating   int    `json:"rating"`
	Comment  string `json:"comment"`
}

const EventReviewChanged = "review_changed"

// ReviewEvent tells the aggregator that a vendor's approved review set may
// have changed.
type ReviewEvent struct {
	Type      string    `json:"type"`
	VendorID  int64     `json:"vendor_id"`
	ReviewID  int64     `json:"review_id"`
	Timestamp time.Time `json:"timestamp"`
}

type VendorRating struct {
	VendorID   int64   `json:"vendor_id"`
	Rating     float64 `json:"rating"`
	NumReviews int     `json:"num_reviews"`
}

var (
	ErrNotFound           = errors.New("not found")
	ErrDuplicateReview    = errors.New("review already exists for this order")
	ErrOrderNotReviewable = errors.New("order was not delivered to this customer by this vendor")
)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return e.Field + ": " + e.Message
}
