package domain

import (
	"errors"
	"math"
	"time"
)

const EventReviewChanged = "review_changed"

// ReviewEvent is published by the review service after every write that may
// change a vendor's approved reviews.
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

var ErrVendorNotFound = errors.New("vendor not found")

// ComputeRating returns the mean of ratings rounded to two decimals and the
// number of ratings. An empty set rates 0.
func ComputeRating(ratings []int) (float64, int) {
	if len(ratings) == 0 {
		return 0, 0
	}
	sum := 0
	for _, r := range ratings {
		sum += r
	}
	avg := float64(sum) / float64(len(ratings))
	return math.Round(avg*100) / 100, len(ratings)
}
