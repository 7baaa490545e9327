package service

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"tablebook/agg-svc/internal/domain"
)

const defaultReadBackoff = time.Second

type Consumer struct {
	Reader MessageReader
	Store  RatingStore
	// ReadBackoff is the pause after a failed read before polling the broker again.
	ReadBackoff time.Duration
}

func NewConsumer(reader MessageReader, store RatingStore) *Consumer {
	return &Consumer{
		Reader:      reader,
		Store:       store,
		ReadBackoff: defaultReadBackoff,
	}
}

// Start reads review events until ctx is cancelled. Bad messages and failed
// recomputes are logged and skipped; the next event for the vendor repairs
// the aggregate.
func (c *Consumer) Start(ctx context.Context) error {
	log.Println("Starting Aggregation Service consumer...")
	for {
		message, err := c.Reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Println("Aggregation Service consumer stopped")
				return nil
			}
			log.Printf("Error reading message: %v", err)
			select {
			case <-ctx.Done():
				log.Println("Aggregation Service consumer stopped")
				return nil
			case <-time.After(c.ReadBackoff):
			}
			continue
		}

		var event domain.ReviewEvent
		if err := json.Unmarshal(message.Value, &event); err != nil {
			log.Printf("Error unmarshaling message: %v", err)
			continue
		}

		if err := c.ProcessReview(ctx, event); err != nil {
			log.Printf("Error recomputing rating for vendor %d: %v", event.VendorID, err)
		}
	}
}

func (c *Consumer) ProcessReview(ctx context.Context, event domain.ReviewEvent) error {
	if event.Type != domain.EventReviewChanged {
		return nil
	}
	if event.VendorID <= 0 {
		return errors.New("event without vendor id")
	}

	rating, err := c.Store.RecomputeVendorRating(ctx, event.VendorID)
	if err != nil {
		return err
	}

	log.Printf("Vendor %d rating recomputed: %.2f from %d reviews", rating.VendorID, rating.Rating, rating.NumReviews)
	return nil
}
