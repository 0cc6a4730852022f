package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"pinguinamart/internal/models"
)

type productRepo struct {
	db *pgxpool.Pool
}

func NewProductRepository(db *pgxpool.Pool) ProductRepository {
	return &productRepo{db: db}
}

func (r *productRepo) Create(ctx context.Context, p *models.Product) error {
	if p.Name == "" {
		return fmt.Errorf("%w: product name required", ErrInvalidInput)
	}
	if !p.Price.IsPositive() {
		return fmt.Errorf("%w: product price should be positive", ErrInvalidInput)
	}
	if p.Quantity < 0 {
		return fmt.Errorf("%w: product quantity cannot be negative", ErrInvalidInput)
	}
	if !p.Category.IsValid() {
		return fmt.Errorf("%w: unknown category %q", ErrInvalidInput, p.Category)
	}

	sql := `
		INSERT INTO products (
			name,
			price,
			description,
			image,
			quantity,
			category,
			created_at,
			updated_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	RETURNING product_id
	`

	now := time.Now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	err := r.db.QueryRow(ctx, sql,
		p.Name,
		p.Price,
		p.Description,
		p.Image,
		p.Quantity,
		p.Category,
		p.CreatedAt,
		p.UpdatedAt,
	).Scan(&p.ProductID)
	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}

	return nil
}

func (r *productRepo) GetByID(ctx context.Context, id int) (*models.Product, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: ID cannot be empty", ErrInvalidInput)
	}

	sql := `
		SELECT
			product_id,
			name,
			price,
			description,
			image,
			quantity,
			category,
			created_at,
			updated_at
		FROM products WHERE product_id = $1
		`

	var product models.Product

	err := r.db.QueryRow(ctx, sql, id).Scan(
		&product.ProductID,
		&product.Name,
		&product.Price,
		&product.Description,
		&product.Image,
		&product.Quantity,
		&product.Category,
		&product.CreatedAt,
		&product.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get product by id %d: %w", id, err)
	}

	return &product, nil
}

func (r *productRepo) ListFiltered(ctx context.Context, filter ProductFilter) ([]models.ProductSummary, error) {
	if filter.Category != "" && !filter.Category.IsValid() {
		return nil, fmt.Errorf("%w: unknown category %q", ErrInvalidInput, filter.Category)
	}

	// Only in-stock products are ever listed.
	sql := `
	SELECT
		product_id,
		name,
		price,
		image,
		category
	FROM products
	WHERE quantity > 0`

	var args []interface{}

	if filter.Search != "" {
		args = append(args, filter.Search)
		sql += `
	AND name ILIKE '%' || $` + strconv.Itoa(len(args)) + ` || '%'`
	}
	if filter.Category != "" {
		args = append(args, filter.Category)
		sql += `
	AND category = $` + strconv.Itoa(len(args))
	}

	switch filter.PriceSort {
	case PriceSortAsc:
		sql += `
	ORDER BY price ASC`
	case PriceSortDesc:
		sql += `
	ORDER BY price DESC`
	case PriceSortNone:
		sql += `
	ORDER BY created_at DESC`
	default:
		return nil, fmt.Errorf("%w: unknown price sort %q", ErrInvalidInput, filter.PriceSort)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	var products []models.ProductSummary

	for rows.Next() {
		var p models.ProductSummary

		err := rows.Scan(
			&p.ProductID,
			&p.Name,
			&p.Price,
			&p.Image,
			&p.Category,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan products: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to complete row iteration: %w", err)
	}

	return products, nil
}

func (r *productRepo) Update(ctx context.Context, p *models.Product) error {
	if p.ProductID <= 0 {
		return fmt.Errorf("%w: ID cannot be empty", ErrInvalidInput)
	}
	if p.Name == "" {
		return fmt.Errorf("%w: product name required", ErrInvalidInput)
	}
	if !p.Price.IsPositive() {
		return fmt.Errorf("%w: product price should be positive", ErrInvalidInput)
	}
	if p.Quantity < 0 {
		return fmt.Errorf("%w: product quantity cannot be negative", ErrInvalidInput)
	}
	if !p.Category.IsValid() {
		return fmt.Errorf("%w: unknown category %q", ErrInvalidInput, p.Category)
	}

	sql := `
	UPDATE products
	SET
		name = $1,
		price = $2,
		description = $3,
		image = $4,
		quantity = $5,
		category = $6,
		updated_at = $7
	WHERE product_id = $8
	RETURNING updated_at
	`

	err := r.db.QueryRow(ctx, sql,
		p.Name,
		p.Price,
		p.Description,
		p.Image,
		p.Quantity,
		p.Category,
		time.Now(),
		p.ProductID,
	).Scan(&p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to update product %d: %w", p.ProductID, err)
	}

	return nil
}

func (r *productRepo) Delete(ctx context.Context, id int) error {
	if id <= 0 {
		return fmt.Errorf("%w: ID cannot be empty", ErrInvalidInput)
	}

	result, err := r.db.Exec(ctx, `DELETE FROM products WHERE product_id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete product %d: %w", id, err)
	}

	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}
