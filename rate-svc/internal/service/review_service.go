package service

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"tablebook/access"
	"tablebook/rate-svc/internal/domain"

	"golang.org/x/sync/singleflight"
)

const (
	maxCommentLength = 2000
	defaultTopLimit  = 10
	maxTopLimit      = 50
)

type ReviewService struct {
	repository ReviewRepository
	cache      ReviewCache
	publisher  ReviewPublisher
	ratings    singleflight.Group
	now        func() time.Time
}

func NewReviewService(repository ReviewRepository, cache ReviewCache, publisher ReviewPublisher) *ReviewService {
	return &ReviewService{
		repository: repository,
		cache:      cache,
		publisher:  publisher,
		now:        time.Now,
	}
}

func validateReview(rating int, comment string) error {
	if rating < 1 || rating > 5 {
		return domain.ValidationError{Field: "rating", Message: "rating must be between 1 and 5"}
	}
	if len(comment) > maxCommentLength {
		return domain.ValidationError{Field: "comment", Message: "comment is too long"}
	}
	return nil
}

func (s *ReviewService) Create(ctx context.Context, actor access.Actor, req domain.CreateReviewRequest) (*domain.Review, error) {
	if !actor.Is(access.RoleCustomer) {
		return nil, access.ErrForbidden
	}
	if err := validateReview(req.Rating, req.Comment); err != nil {
		return nil, err
	}

	ok, err := s.repository.OrderReviewable(ctx, req.OrderID, actor.ID, req.VendorID)
	if err != nil {
		return nil, fmt.Errorf("failed to validate order: %w", err)
	}
	if !ok {
		return nil, domain.ErrOrderNotReviewable
	}

	cacheKey := s.cache.ReviewMarkerKey(req.OrderID, actor.ID)
	if exists, _ := s.cache.Exists(ctx, cacheKey); exists {
		return nil, domain.ErrDuplicateReview
	}

	review := &domain.Review{
		VendorID:   req.VendorID,
		CustomerID: actor.ID,
		OrderID:    req.OrderID,
		Rating:     req.Rating,
		Comment:    strings.TrimSpace(req.Comment),
		Status:     domain.StatusPending,
	}
	if err := s.repository.InsertReview(ctx, review); err != nil {
		return nil, err
	}

	_ = s.cache.SetMarker(ctx, cacheKey)
	s.publish(ctx, review)
	return review, nil
}

// Update lets the author change rating or comment. The review goes back to
// moderation.
func (s *ReviewService) Update(ctx context.Context, actor access.Actor, reviewID int64, rating int, comment string) (*domain.Review, error) {
	if err := validateReview(rating, comment); err != nil {
		return nil, err
	}
	review, err := s.repository.GetReview(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if !actor.Is(access.RoleCustomer) || actor.ID != review.CustomerID {
		return nil, access.ErrForbidden
	}

	review.Rating = rating
	review.Comment = strings.TrimSpace(comment)
	review.Status = domain.StatusPending
	if err := s.repository.UpdateReview(ctx, review); err != nil {
		return nil, err
	}

	s.publish(ctx, review)
	return review, nil
}

func (s *ReviewService) Delete(ctx context.Context, actor access.Actor, reviewID int64) error {
	review, err := s.repository.GetReview(ctx, reviewID)
	if err != nil {
		return err
	}
	isAuthor := actor.Is(access.RoleCustomer) && actor.ID == review.CustomerID
	if !isAuthor && !actor.Is(access.RoleAdmin) {
		return access.ErrForbidden
	}

	if err := s.repository.DeleteReview(ctx, reviewID); err != nil {
		return err
	}

	_ = s.cache.DeleteMarker(ctx, s.cache.ReviewMarkerKey(review.OrderID, review.CustomerID))
	s.publish(ctx, review)
	return nil
}

func (s *ReviewService) SetStatus(ctx context.Context, actor access.Actor, reviewID int64, status domain.ReviewStatus) (*domain.Review, error) {
	if !actor.Is(access.RoleAdmin) {
		return nil, access.ErrForbidden
	}
	if _, ok := domain.ParseReviewStatus(string(status)); !ok {
		return nil, domain.ValidationError{Field: "status", Message: "status must be pending, approved or rejected"}
	}
	review, err := s.repository.GetReview(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if review.Status == status {
		return review, nil
	}

	if err := s.repository.SetStatus(ctx, reviewID, status); err != nil {
		return nil, err
	}
	review.Status = status

	log.Printf("Review %d for vendor %d moderated: %s", review.ID, review.VendorID, status)
	s.publish(ctx, review)
	return review, nil
}

// ListVendorReviews returns approved reviews unless another status is asked
// for.
func (s *ReviewService) ListVendorReviews(ctx context.Context, vendorID int64, status domain.ReviewStatus) ([]domain.Review, error) {
	if status == "" {
		status = domain.StatusApproved
	}
	if _, ok := domain.ParseReviewStatus(string(status)); !ok {
		return nil, domain.ValidationError{Field: "status", Message: "status must be pending, approved or rejected"}
	}
	return s.repository.ListVendorReviews(ctx, vendorID, status)
}

// VendorRating serves the aggregate from the Redis hash kept by the
// aggregator. Concurrent misses for one vendor share a single database read.
func (s *ReviewService) VendorRating(ctx context.Context, vendorID int64) (domain.VendorRating, error) {
	if rating, ok, err := s.cache.GetRating(ctx, vendorID); err == nil && ok {
		return rating, nil
	} else if err != nil {
		log.Printf("rating cache read for vendor %d failed: %v", vendorID, err)
	}

	v, err, _ := s.ratings.Do(strconv.FormatInt(vendorID, 10), func() (interface{}, error) {
		return s.repository.GetVendorRating(ctx, vendorID)
	})
	if err != nil {
		return domain.VendorRating{}, err
	}
	return v.(domain.VendorRating), nil
}

// TopRated lists the best rated vendors with at least one approved review.
func (s *ReviewService) TopRated(ctx context.Context, limit int) ([]domain.VendorRating, error) {
	if limit <= 0 {
		limit = defaultTopLimit
	}
	if limit > maxTopLimit {
		limit = maxTopLimit
	}

	ratings, ok, err := s.cache.TopRated(ctx, limit)
	if err != nil {
		log.Printf("ranking cache read failed: %v", err)
	}
	if err == nil && ok {
		return ratings, nil
	}
	return s.repository.TopRatedVendors(ctx, limit)
}

func (s *ReviewService) publish(ctx context.Context, review *domain.Review) {
	if s.publisher == nil {
		return
	}
	event := domain.ReviewEvent{
		Type:      domain.EventReviewChanged,
		VendorID:  review.VendorID,
		ReviewID:  review.ID,
		Timestamp: s.now(),
	}
	if err := s.publisher.PublishReviewEvent(ctx, event); err != nil {
		log.Printf("failed to publish review event for vendor %d: %v", review.VendorID, err)
	}
}
