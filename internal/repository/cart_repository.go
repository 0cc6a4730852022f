package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"pinguinamart/internal/models"
)

type cartRepo struct {
	db *pgxpool.Pool
}

func NewCartRepository(db *pgxpool.Pool) CartRepository {
	return &cartRepo{db: db}
}

func (r *cartRepo) AddItem(ctx context.Context, item *models.CartItem) error {
	if item.UserID <= 0 {
		return fmt.Errorf("%w: user ID cannot be empty", ErrInvalidInput)
	}
	if item.ProductID <= 0 {
		return fmt.Errorf("%w: product ID cannot be empty", ErrInvalidInput)
	}
	if item.Quantity <= 0 {
		return fmt.Errorf("%w: quantity must be positive", ErrInvalidInput)
	}

	// Adding the same product again accumulates quantity.
	sql := `
		INSERT INTO carts (user_id, product_id, quantity, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, product_id)
		DO UPDATE SET quantity = carts.quantity + EXCLUDED.quantity
		RETURNING cart_item_id, quantity
	`

	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now()
	}

	err := r.db.QueryRow(ctx, sql,
		item.UserID,
		item.ProductID,
		item.Quantity,
		item.CreatedAt,
	).Scan(&item.CartItemID, &item.Quantity)
	if err != nil {
		return fmt.Errorf("failed to add cart item: %w", err)
	}

	return nil
}

func (r *cartRepo) ListByUser(ctx context.Context, userID int) ([]CartLine, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("%w: user ID cannot be empty", ErrInvalidInput)
	}

	sql := `
		SELECT
			c.cart_item_id,
			c.user_id,
			c.product_id,
			c.quantity,
			p.name,
			p.price,
			p.quantity
		FROM carts c
		JOIN products p ON p.product_id = c.product_id
		WHERE c.user_id = $1
		ORDER BY c.cart_item_id
	`

	rows, err := r.db.Query(ctx, sql, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cart for user %d: %w", userID, err)
	}
	defer rows.Close()

	var lines []CartLine

	for rows.Next() {
		var l CartLine

		err := rows.Scan(
			&l.CartItemID,
			&l.UserID,
			&l.ProductID,
			&l.Quantity,
			&l.ProductName,
			&l.UnitPrice,
			&l.InStock,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cart line: %w", err)
		}
		lines = append(lines, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to complete row iteration: %w", err)
	}

	return lines, nil
}

func (r *cartRepo) RemoveItem(ctx context.Context, userID, productID int) error {
	if userID <= 0 || productID <= 0 {
		return fmt.Errorf("%w: ID cannot be empty", ErrInvalidInput)
	}

	result, err := r.db.Exec(ctx,
		`DELETE FROM carts WHERE user_id = $1 AND product_id = $2`,
		userID, productID)
	if err != nil {
		return fmt.Errorf("failed to remove cart item: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *cartRepo) Clear(ctx context.Context, userID int) error {
	if userID <= 0 {
		return fmt.Errorf("%w: user ID cannot be empty", ErrInvalidInput)
	}

	_, err := r.db.Exec(ctx, `DELETE FROM carts WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("failed to clear cart for user %d: %w", userID, err)
	}

	return nil
}
