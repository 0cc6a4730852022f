package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pinguinamart/internal/models"
	"pinguinamart/internal/repository"
)

var errBoom = errors.New("connection refused")

type fakeProductRepo struct {
	products map[int]*models.Product
	nextID   int

	listErr error
	getErr  error
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: make(map[int]*models.Product)}
}

func (f *fakeProductRepo) Create(ctx context.Context, product *models.Product) error {
	f.nextID++
	product.ProductID = f.nextID
	f.products[product.ProductID] = product
	return nil
}

func (f *fakeProductRepo) GetByID(ctx context.Context, id int) (*models.Product, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	product, ok := f.products[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return product, nil
}

func (f *fakeProductRepo) ListFiltered(ctx context.Context, filter repository.ProductFilter) ([]models.ProductSummary, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]models.ProductSummary, 0, len(f.products))
	for _, p := range f.products {
		if filter.Category != "" && p.Category != filter.Category {
			continue
		}
		out = append(out, models.ProductSummary{
			ProductID: p.ProductID,
			Name:      p.Name,
			Price:     p.Price,
			Image:     p.Image,
			Category:  p.Category,
		})
	}
	return out, nil
}

func (f *fakeProductRepo) Update(ctx context.Context, product *models.Product) error { return nil }
func (f *fakeProductRepo) Delete(ctx context.Context, id int) error                  { return nil }

type fakeReviewRepo struct {
	reviews   []models.ReviewWithAuthor
	aggregate models.ReviewAggregate

	listErr      error
	aggregateErr error
}

func (f *fakeReviewRepo) Create(ctx context.Context, review *models.Review) error { return nil }

func (f *fakeReviewRepo) ListByProduct(ctx context.Context, productID int) ([]models.ReviewWithAuthor, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.reviews, nil
}

func (f *fakeReviewRepo) Aggregate(ctx context.Context, productID int) (models.ReviewAggregate, error) {
	if f.aggregateErr != nil {
		return models.ReviewAggregate{}, f.aggregateErr
	}
	return f.aggregate, nil
}

func validProductInput() AddProductInput {
	return AddProductInput{
		Name:        "Wireless Headphones",
		Category:    models.CategoryElectronics,
		Price:       decimal.NewFromInt(3500),
		Quantity:    30,
		Description: "Noise cancelling wireless headphones",
		Image:       "headphones.jpg",
	}
}

func TestListProducts_WrapsStoreFailure(t *testing.T) {
	products := newFakeProductRepo()
	products.listErr = errBoom
	svc := NewService(products, &fakeReviewRepo{})

	_, err := svc.ListProducts(context.Background(), repository.ProductFilter{})
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.NotErrorIs(t, err, errBoom, "the raw store error must not leak")
}

func TestGetProductDetail_NotFoundPassesThrough(t *testing.T) {
	svc := NewService(newFakeProductRepo(), &fakeReviewRepo{})

	_, err := svc.GetProductDetail(context.Background(), 42)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.NotErrorIs(t, err, ErrUnavailable)
}

func TestGetProductDetail_StoreFailureIsUnavailable(t *testing.T) {
	products := newFakeProductRepo()
	products.getErr = errBoom
	svc := NewService(products, &fakeReviewRepo{})

	_, err := svc.GetProductDetail(context.Background(), 42)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestGetProductReviews(t *testing.T) {
	avg := 4.5
	reviews := &fakeReviewRepo{
		reviews: []models.ReviewWithAuthor{
			{ReviewID: 1, Rating: 5, UserName: "Asha"},
			{ReviewID: 2, Rating: 4, UserName: "Bibek"},
		},
		// The aggregate is computed by its own query, not from the rows
		// returned to the page, so it can disagree with len(reviews).
		aggregate: models.ReviewAggregate{Count: 12, AverageRating: &avg},
	}
	svc := NewService(newFakeProductRepo(), reviews)

	got, err := svc.GetProductReviews(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, got.Reviews, 2)
	assert.Equal(t, 12, got.Aggregate.Count)
	require.NotNil(t, got.Aggregate.AverageRating)
	assert.InDelta(t, 4.5, *got.Aggregate.AverageRating, 0.001)
}

func TestGetProductReviews_NoReviews(t *testing.T) {
	svc := NewService(newFakeProductRepo(), &fakeReviewRepo{})

	got, err := svc.GetProductReviews(context.Background(), 1)
	require.NoError(t, err)
	assert.NotNil(t, got.Reviews)
	assert.Empty(t, got.Reviews)
	assert.Zero(t, got.Aggregate.Count)
	assert.Nil(t, got.Aggregate.AverageRating, "no reviews means no average, not zero")
}

func TestGetProductReviews_AggregateFailure(t *testing.T) {
	reviews := &fakeReviewRepo{aggregateErr: errBoom}
	svc := NewService(newFakeProductRepo(), reviews)

	_, err := svc.GetProductReviews(context.Background(), 1)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestAddProduct(t *testing.T) {
	products := newFakeProductRepo()
	svc := NewService(products, &fakeReviewRepo{})

	product, err := svc.AddProduct(context.Background(), validProductInput())
	require.NoError(t, err)
	assert.NotZero(t, product.ProductID)
	assert.Equal(t, models.CategoryElectronics, product.Category)
}

func TestAddProduct_Validation(t *testing.T) {
	svc := NewService(newFakeProductRepo(), &fakeReviewRepo{})

	cases := map[string]func(*AddProductInput){
		"missing name":        func(in *AddProductInput) { in.Name = "" },
		"missing description": func(in *AddProductInput) { in.Description = "" },
		"missing image":       func(in *AddProductInput) { in.Image = "" },
		"zero price":          func(in *AddProductInput) { in.Price = decimal.Zero },
		"negative price":      func(in *AddProductInput) { in.Price = decimal.NewFromInt(-10) },
		"zero quantity":       func(in *AddProductInput) { in.Quantity = 0 },
		"unknown category":    func(in *AddProductInput) { in.Category = "TOYS" },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			input := validProductInput()
			mutate(&input)
			_, err := svc.AddProduct(context.Background(), input)
			assert.ErrorIs(t, err, repository.ErrInvalidInput)
		})
	}
}
