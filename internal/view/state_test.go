package view

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pinguinamart/internal/catalog"
	"pinguinamart/internal/models"
	"pinguinamart/internal/repository"
)

type fakeCatalogService struct {
	products    []models.ProductSummary
	listErr     error
	lastFilter  repository.ProductFilter
	listCalls   int
	product     *models.Product
	detailErr   error
	reviews     *catalog.ProductReviews
	reviewsErr  error
	reviewCalls int
}

func (f *fakeCatalogService) ListProducts(ctx context.Context, filter repository.ProductFilter) ([]models.ProductSummary, error) {
	f.listCalls++
	f.lastFilter = filter
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.products, nil
}

func (f *fakeCatalogService) GetProductDetail(ctx context.Context, productID int) (*models.Product, error) {
	if f.detailErr != nil {
		return nil, f.detailErr
	}
	return f.product, nil
}

func (f *fakeCatalogService) GetProductReviews(ctx context.Context, productID int) (*catalog.ProductReviews, error) {
	f.reviewCalls++
	if f.reviewsErr != nil {
		return nil, f.reviewsErr
	}
	return f.reviews, nil
}

func (f *fakeCatalogService) AddProduct(ctx context.Context, input catalog.AddProductInput) (*models.Product, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeCatalogService) AddReview(ctx context.Context, review *models.Review) error {
	return errors.New("not implemented")
}

func TestCatalogState_CriterionChangeRefetches(t *testing.T) {
	svc := &fakeCatalogService{
		products: []models.ProductSummary{{ProductID: 1, Name: "Running Shoes"}},
	}
	state := NewCatalogState(svc)
	ctx := context.Background()

	state.SetSearch(ctx, "shoe")
	assert.Equal(t, 1, svc.listCalls)
	assert.Equal(t, "shoe", svc.lastFilter.Search)

	state.SetCategory(ctx, models.CategoryShoes)
	assert.Equal(t, 2, svc.listCalls)
	assert.Equal(t, models.CategoryShoes, svc.lastFilter.Category)
	// Earlier criteria carry over; criteria compose rather than replace.
	assert.Equal(t, "shoe", svc.lastFilter.Search)

	state.SetPriceSort(ctx, repository.PriceSortAsc)
	assert.Equal(t, 3, svc.listCalls)
	assert.Equal(t, repository.PriceSortAsc, svc.lastFilter.PriceSort)

	require.Len(t, state.Products(), 1)
	assert.False(t, state.Loading())
}

func TestCatalogState_FailedFetchKeepsStaleBuffer(t *testing.T) {
	svc := &fakeCatalogService{
		products: []models.ProductSummary{{ProductID: 1, Name: "Running Shoes"}},
	}
	state := NewCatalogState(svc)
	ctx := context.Background()

	state.FetchProducts(ctx)
	require.Len(t, state.Products(), 1)

	svc.listErr = catalog.ErrUnavailable
	state.SetSearch(ctx, "headphones")

	// The previous listing stays visible and loading is cleared.
	assert.Len(t, state.Products(), 1)
	assert.False(t, state.Loading())
}

func TestCatalogState_FetchIndividualProduct(t *testing.T) {
	svc := &fakeCatalogService{product: &models.Product{ProductID: 3, Name: "Coffee Table"}}
	state := NewCatalogState(svc)

	state.FetchIndividualProduct(context.Background(), 3)
	require.NotNil(t, state.IndividualProduct())
	assert.Equal(t, 3, state.IndividualProduct().ProductID)

	svc.detailErr = repository.ErrNotFound
	state.FetchIndividualProduct(context.Background(), 99)
	// Failed detail fetch keeps the previously selected product.
	assert.Equal(t, 3, state.IndividualProduct().ProductID)
}

func TestCatalogState_ReviewsLifecycle(t *testing.T) {
	avg := 4.0
	svc := &fakeCatalogService{
		reviews: &catalog.ProductReviews{
			Reviews:   []models.ReviewWithAuthor{{ReviewID: 1, Rating: 4, UserName: "Asha"}},
			Aggregate: models.ReviewAggregate{Count: 1, AverageRating: &avg},
		},
	}
	state := NewCatalogState(svc)

	state.FetchReviews(context.Background(), 1)
	reviews, aggregate := state.Reviews()
	require.Len(t, reviews, 1)
	require.NotNil(t, aggregate)
	assert.Equal(t, 1, aggregate.Count)

	state.ResetReviews()
	reviews, aggregate = state.Reviews()
	assert.Nil(t, reviews)
	assert.Nil(t, aggregate)
}

type fakeConfirmer struct {
	calls     int
	lastToken string
	err       error
}

func (f *fakeConfirmer) ConfirmPayment(ctx context.Context, encodedToken string) (*models.Order, error) {
	f.calls++
	f.lastToken = encodedToken
	if f.err != nil {
		return nil, f.err
	}
	return &models.Order{OrderID: 1, Status: models.OrderProcessing}, nil
}

func TestCheckoutState_HandleGatewayReturn(t *testing.T) {
	confirmer := &fakeConfirmer{}
	state := NewCheckoutState(confirmer, "/", "/esewa/failure")

	route := state.HandleGatewayReturn(context.Background(), "token")
	assert.Equal(t, "/", route)
	assert.Equal(t, 1, confirmer.calls, "exactly one confirmation per return")
	assert.Equal(t, "token", confirmer.lastToken)
}

func TestCheckoutState_FailedConfirmation(t *testing.T) {
	confirmer := &fakeConfirmer{err: errors.New("gateway status \"PENDING\"")}
	state := NewCheckoutState(confirmer, "/", "/esewa/failure")

	route := state.HandleGatewayReturn(context.Background(), "token")
	assert.Equal(t, "/esewa/failure", route)
	assert.Equal(t, 1, confirmer.calls)
}

func TestCheckoutState_AbsentToken(t *testing.T) {
	confirmer := &fakeConfirmer{err: repository.ErrInvalidInput}
	state := NewCheckoutState(confirmer, "/", "/esewa/failure")

	route := state.HandleGatewayReturn(context.Background(), "")
	assert.Equal(t, "/esewa/failure", route)
}
