package storage

import (
	"context"
	"database/sql"
	"errors"

	"tablebook/rate-svc/internal/domain"

	"github.com/lib/pq"
)

type PostgresRepository struct {
	DB *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{DB: db}
}

func (r *PostgresRepository) OrderReviewable(ctx context.Context, orderID, customerID, vendorID int64) (bool, error) {
	var exists bool
	err := r.DB.QueryRowContext(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM orders
			WHERE id = $1 AND customer_id = $2 AND vendor_id = $3
			  AND status IN ('delivered', 'completed')
		)
	`, orderID, customerID, vendorID).Scan(&exists)
	return exists, err
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

func (r *PostgresRepository) InsertReview(ctx context.Context, review *domain.Review) error {
	err := r.DB.QueryRowContext(ctx, `
		INSERT INTO reviews (vendor_id, customer_id, order_id, rating, comment, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`, review.VendorID, review.CustomerID, review.OrderID, review.Rating, review.Comment, review.Status).
		Scan(&review.ID, &review.CreatedAt, &review.UpdatedAt)
	if isUniqueViolation(err) {
		return domain.ErrDuplicateReview
	}
	return err
}

const reviewColumns = "id, vendor_id, customer_id, order_id, rating, COALESCE(comment, ''), status, created_at, updated_at"

func scanReview(row interface{ Scan(...any) error }) (domain.Review, error) {
	var rev domain.Review
	err := row.Scan(&rev.ID, &rev.VendorID, &rev.CustomerID, &rev.OrderID, &rev.Rating, &rev.Comment, &rev.Status, &rev.CreatedAt, &rev.UpdatedAt)
	return rev, err
}

func (r *PostgresRepository) GetReview(ctx context.Context, reviewID int64) (*domain.Review, error) {
	rev, err := scanReview(r.DB.QueryRowContext(ctx, `SELECT `+reviewColumns+` FROM reviews WHERE id = $1`, reviewID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rev, nil
}

func (r *PostgresRepository) UpdateReview(ctx context.Context, review *domain.Review) error {
	err := r.DB.QueryRowContext(ctx, `
		UPDATE reviews
		SET rating = $1, comment = $2, status = $3, updated_at = CURRENT_TIMESTAMP
		WHERE id = $4
		RETURNING updated_at
	`, review.Rating, review.Comment, review.Status, review.ID).Scan(&review.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	return err
}

func (r *PostgresRepository) DeleteReview(ctx context.Context, reviewID int64) error {
	result, err := r.DB.ExecContext(ctx, "DELETE FROM reviews WHERE id = $1", reviewID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) SetStatus(ctx context.Context, reviewID int64, status domain.ReviewStatus) error {
	result, err := r.DB.ExecContext(ctx,
		"UPDATE reviews SET status = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2", status, reviewID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) ListVendorReviews(ctx context.Context, vendorID int64, status domain.ReviewStatus) ([]domain.Review, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT `+reviewColumns+`
		FROM reviews
		WHERE vendor_id = $1 AND status = $2
		ORDER BY created_at DESC
	`, vendorID, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reviews := []domain.Review{}
	for rows.Next() {
		rev, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, rev)
	}
	return reviews, rows.Err()
}

func (r *PostgresRepository) TopRatedVendors(ctx context.Context, limit int) ([]domain.VendorRating, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, rating, num_reviews
		FROM vendors
		WHERE num_reviews > 0
		ORDER BY rating DESC, num_reviews DESC, id
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ratings := []domain.VendorRating{}
	for rows.Next() {
		var v domain.VendorRating
		if err := rows.Scan(&v.VendorID, &v.Rating, &v.NumReviews); err != nil {
			return nil, err
		}
		ratings = append(ratings, v)
	}
	return ratings, rows.Err()
}

// GetVendorRating reads the aggregate stored on the vendor row by the
// aggregator.
func (r *PostgresRepository) GetVendorRating(ctx context.Context, vendorID int64) (domain.VendorRating, error) {
	rating := domain.VendorRating{VendorID: vendorID}
	err := r.DB.QueryRowContext(ctx, "SELECT rating, num_reviews FROM vendors WHERE id = $1", vendorID).
		Scan(&rating.Rating, &rating.NumReviews)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.VendorRating{}, domain.ErrNotFound
	}
	return rating, err
}
