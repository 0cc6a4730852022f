package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"pinguinamart/internal/models"
	"pinguinamart/internal/repository"
)

// ErrUnavailable wraps store failures so callers can show a fallback
// instead of leaking query internals. Absence of a product is ErrNotFound,
// never ErrUnavailable.
var ErrUnavailable = errors.New("catalog unavailable")

type AddProductInput struct {
	Name        string
	Category    models.ProductCategory
	Price       decimal.Decimal
	Quantity    int
	Description string
	Image       string
}

// ProductReviews bundles the review listing with its independently
// computed aggregate.
type ProductReviews struct {
	Reviews   []models.ReviewWithAuthor `json:"reviews"`
	Aggregate models.ReviewAggregate    `json:"aggregate"`
}

type Service interface {
	ListProducts(ctx context.Context, filter repository.ProductFilter) ([]models.ProductSummary, error)
	GetProductDetail(ctx context.Context, productID int) (*models.Product, error)
	GetProductReviews(ctx context.Context, productID int) (*ProductReviews, error)
	AddProduct(ctx context.Context, input AddProductInput) (*models.Product, error)
	AddReview(ctx context.Context, review *models.Review) error
}

func NewService(products repository.ProductRepository, reviews repository.ReviewRepository) Service {
	return &service{products: products, reviews: reviews}
}

type service struct {
	products repository.ProductRepository
	reviews  repository.ReviewRepository
}

func (s *service) ListProducts(ctx context.Context, filter repository.ProductFilter) ([]models.ProductSummary, error) {
	products, err := s.products.ListFiltered(ctx, filter)
	if err != nil {
		if errors.Is(err, repository.ErrInvalidInput) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return products, nil
}

func (s *service) GetProductDetail(ctx context.Context, productID int) (*models.Product, error) {
	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) || errors.Is(err, repository.ErrInvalidInput) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return product, nil
}

func (s *service) GetProductReviews(ctx context.Context, productID int) (*ProductReviews, error) {
	reviews, err := s.reviews.ListByProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, repository.ErrInvalidInput) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	// The aggregate comes from its own query so paging the listing can
	// never skew it.
	aggregate, err := s.reviews.Aggregate(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if reviews == nil {
		reviews = []models.ReviewWithAuthor{}
	}

	return &ProductReviews{Reviews: reviews, Aggregate: aggregate}, nil
}

func (s *service) AddProduct(ctx context.Context, input AddProductInput) (*models.Product, error) {
	if input.Name == "" || input.Description == "" || input.Image == "" {
		return nil, fmt.Errorf("%w: all fields are required", repository.ErrInvalidInput)
	}
	if !input.Price.IsPositive() {
		return nil, fmt.Errorf("%w: price cannot be less than 0", repository.ErrInvalidInput)
	}
	if input.Quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity cannot be less than 0", repository.ErrInvalidInput)
	}
	if !input.Category.IsValid() {
		return nil, fmt.Errorf("%w: unknown category %q", repository.ErrInvalidInput, input.Category)
	}

	product := &models.Product{
		Name:        input.Name,
		Category:    input.Category,
		Price:       input.Price,
		Quantity:    input.Quantity,
		Description: input.Description,
		Image:       input.Image,
	}

	if err := s.products.Create(ctx, product); err != nil {
		if errors.Is(err, repository.ErrInvalidInput) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return product, nil
}

func (s *service) AddReview(ctx context.Context, review *models.Review) error {
	if err := s.reviews.Create(ctx, review); err != nil {
		if errors.Is(err, repository.ErrInvalidInput) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}
