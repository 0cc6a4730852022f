package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"pinguinamart/internal/models"
)

type reviewRepo struct {
	db *pgxpool.Pool
}

func NewReviewRepository(db *pgxpool.Pool) ReviewRepository {
	return &reviewRepo{db: db}
}

func (r *reviewRepo) Create(ctx context.Context, review *models.Review) error {
	if review.UserID <= 0 {
		return fmt.Errorf("%w: user ID cannot be empty", ErrInvalidInput)
	}
	if review.ProductID <= 0 {
		return fmt.Errorf("%w: product ID cannot be empty", ErrInvalidInput)
	}
	if review.Rating < 1 || review.Rating > 5 {
		return fmt.Errorf("%w: rating must be between 1 and 5", ErrInvalidInput)
	}

	sql := `
		INSERT INTO reviews (
			user_id,
			product_id,
			rating,
			comment,
			image,
			created_at
	) VALUES ($1, $2, $3, $4, $5, $6)
	RETURNING review_id
	`

	if review.CreatedAt.IsZero() {
		review.CreatedAt = time.Now()
	}

	err := r.db.QueryRow(ctx, sql,
		review.UserID,
		review.ProductID,
		review.Rating,
		review.Comment,
		review.Image,
		review.CreatedAt,
	).Scan(&review.ReviewID)
	if err != nil {
		return fmt.Errorf("failed to create review: %w", err)
	}

	return nil
}

func (r *reviewRepo) ListByProduct(ctx context.Context, productID int) ([]models.ReviewWithAuthor, error) {
	if productID <= 0 {
		return nil, fmt.Errorf("%w: product ID cannot be empty", ErrInvalidInput)
	}

	sql := `
		SELECT
			r.review_id,
			r.rating,
			r.comment,
			r.created_at,
			u.name
		FROM reviews r
		JOIN users u ON u.user_id = r.user_id
		WHERE r.product_id = $1
		ORDER BY r.created_at DESC
	`

	rows, err := r.db.Query(ctx, sql, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews for product %d: %w", productID, err)
	}
	defer rows.Close()

	var reviews []models.ReviewWithAuthor

	for rows.Next() {
		var rv models.ReviewWithAuthor

		err := rows.Scan(
			&rv.ReviewID,
			&rv.Rating,
			&rv.Comment,
			&rv.CreatedAt,
			&rv.UserName,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		reviews = append(reviews, rv)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to complete row iteration: %w", err)
	}

	return reviews, nil
}

func (r *reviewRepo) Aggregate(ctx context.Context, productID int) (models.ReviewAggregate, error) {
	if productID <= 0 {
		return models.ReviewAggregate{}, fmt.Errorf("%w: product ID cannot be empty", ErrInvalidInput)
	}

	// AVG over zero rows is NULL, which is exactly the contract.
	sql := `
		SELECT COUNT(*), AVG(rating)
		FROM reviews
		WHERE product_id = $1
	`

	var agg models.ReviewAggregate

	err := r.db.QueryRow(ctx, sql, productID).Scan(&agg.Count, &agg.AverageRating)
	if err != nil {
		return models.ReviewAggregate{}, fmt.Errorf("failed to aggregate reviews for product %d: %w", productID, err)
	}

	return agg, nil
}
