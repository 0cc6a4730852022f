package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"pinguinamart/internal/api/handlers"
	"pinguinamart/internal/catalog"
	"pinguinamart/internal/order"
	"pinguinamart/internal/repository"
	"pinguinamart/internal/view"
)

// NewRouter wires every storefront route. The eSewa endpoints are the
// redirect targets registered with the payment gateway.
func NewRouter(
	catalogSvc catalog.Service,
	orderSvc order.Service,
	carts repository.CartRepository,
	redirects handlers.GatewayRedirects,
) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	checkoutState := view.NewCheckoutState(orderSvc, "/", "/esewa/failure")

	catalogHandler := handlers.NewCatalogHandler(catalogSvc)
	reviewHandler := handlers.NewReviewHandler(catalogSvc)
	cartHandler := handlers.NewCartHandler(carts)
	orderHandler := handlers.NewOrderHandler(orderSvc, checkoutState, redirects)

	r.Route("/products", func(r chi.Router) {
		r.Get("/", catalogHandler.List)
		r.Post("/", catalogHandler.Create)
		r.Get("/{id}", catalogHandler.GetByID)
		r.Get("/{id}/reviews", catalogHandler.Reviews)
	})

	r.Post("/reviews", reviewHandler.Create)

	r.Route("/cart", func(r chi.Router) {
		r.Post("/", cartHandler.Add)
		r.Delete("/", cartHandler.Remove)
		r.Get("/{userID}", cartHandler.List)
	})

	r.Post("/checkout", orderHandler.Checkout)
	r.Route("/orders", func(r chi.Router) {
		r.Get("/{id}", orderHandler.GetByID)
		r.Patch("/{id}/status", orderHandler.UpdateStatus)
	})

	r.Get("/esewa/success", orderHandler.EsewaSuccess)
	r.Get("/esewa/failure", orderHandler.EsewaFailure)

	return r
}
