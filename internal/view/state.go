// Package view holds explicit view-state containers: the criteria, result
// buffers and loading flags a storefront page binds to. Containers are
// passed by reference to whatever renders them, never kept as package
// globals, so they stay testable without a rendering environment.
package view

import (
	"context"
	"log"
	"sync"

	"pinguinamart/internal/catalog"
	"pinguinamart/internal/models"
	"pinguinamart/internal/repository"
)

// CatalogState is the product-listing slice: filter criteria, the listing
// buffer, the selected product and its reviews. Changing a criterion
// stores it immediately and re-issues the fetch; a failed fetch logs,
// clears the loading flag and leaves the previous buffer visible.
type CatalogState struct {
	mu  sync.Mutex
	svc catalog.Service

	search    string
	category  models.ProductCategory
	priceSort repository.PriceSort

	products []models.ProductSummary
	loading  bool

	individualProduct *models.Product
	loadingProduct    bool

	reviews       []models.ReviewWithAuthor
	averageRating *models.ReviewAggregate
	loadingReview bool
}

func NewCatalogState(svc catalog.Service) *CatalogState {
	return &CatalogState{svc: svc}
}

func (s *CatalogState) SetSearch(ctx context.Context, val string) {
	s.mu.Lock()
	s.search = val
	s.mu.Unlock()
	s.FetchProducts(ctx)
}

func (s *CatalogState) SetCategory(ctx context.Context, val models.ProductCategory) {
	s.mu.Lock()
	s.category = val
	s.mu.Unlock()
	s.FetchProducts(ctx)
}

func (s *CatalogState) SetPriceSort(ctx context.Context, val repository.PriceSort) {
	s.mu.Lock()
	s.priceSort = val
	s.mu.Unlock()
	s.FetchProducts(ctx)
}

func (s *CatalogState) FetchProducts(ctx context.Context) {
	s.mu.Lock()
	s.loading = true
	filter := repository.ProductFilter{
		Search:    s.search,
		Category:  s.category,
		PriceSort: s.priceSort,
	}
	s.mu.Unlock()

	products, err := s.svc.ListProducts(ctx, filter)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		// Stale-but-visible: the old buffer stays.
		log.Printf("failed to fetch products: %v", err)
		return
	}
	s.products = products
}

func (s *CatalogState) FetchIndividualProduct(ctx context.Context, productID int) {
	s.mu.Lock()
	s.loadingProduct = true
	s.mu.Unlock()

	product, err := s.svc.GetProductDetail(ctx, productID)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadingProduct = false
	if err != nil {
		log.Printf("failed to fetch product %d: %v", productID, err)
		return
	}
	s.individualProduct = product
}

func (s *CatalogState) FetchReviews(ctx context.Context, productID int) {
	s.mu.Lock()
	s.loadingReview = true
	s.mu.Unlock()

	res, err := s.svc.GetProductReviews(ctx, productID)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadingReview = false
	if err != nil {
		log.Printf("failed to fetch reviews for product %d: %v", productID, err)
		return
	}
	s.reviews = res.Reviews
	s.averageRating = &res.Aggregate
}

func (s *CatalogState) ResetReviews() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reviews = nil
	s.averageRating = nil
}

func (s *CatalogState) Products() []models.ProductSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.products
}

func (s *CatalogState) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

func (s *CatalogState) IndividualProduct() *models.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.individualProduct
}

func (s *CatalogState) Reviews() ([]models.ReviewWithAuthor, *models.ReviewAggregate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reviews, s.averageRating
}

// PaymentConfirmer is the slice of the order service the checkout state
// needs.
type PaymentConfirmer interface {
	ConfirmPayment(ctx context.Context, encodedToken string) (*models.Order, error)
}

// CheckoutState handles the return leg of the gateway redirect: one
// confirmation call per return, then a route to land on. No retry loop.
type CheckoutState struct {
	confirmer    PaymentConfirmer
	homeRoute    string
	failureRoute string
}

func NewCheckoutState(confirmer PaymentConfirmer, homeRoute, failureRoute string) *CheckoutState {
	return &CheckoutState{
		confirmer:    confirmer,
		homeRoute:    homeRoute,
		failureRoute: failureRoute,
	}
}

// HandleGatewayReturn issues exactly one confirmation call for the encoded
// token and returns the route to navigate to. An absent token counts as a
// failed return.
func (s *CheckoutState) HandleGatewayReturn(ctx context.Context, encodedToken string) string {
	if _, err := s.confirmer.ConfirmPayment(ctx, encodedToken); err != nil {
		log.Printf("payment confirmation failed: %v", err)
		return s.failureRoute
	}
	return s.homeRoute
}
