package domain

import "time"

// Vendor is a registered restaurant. Rating and NumReviews are maintained by
// the rating aggregator and are read-only here.
type Vendor struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Address     string    `json:"address"`
	Description string    `json:"description"`
	ImageURL    string    `json:"image_url"`
	Rating      float64   `json:"rating"`
	NumReviews  int       `json:"num_reviews"`
	CreatedAt   time.Time `json:"created_at"`
}
