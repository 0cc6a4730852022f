package handlers

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pinguinamart/internal/models"
	"pinguinamart/internal/order"
	"pinguinamart/internal/repository"
	"pinguinamart/internal/view"
)

type stubOrderService struct {
	order   *models.Order
	payment *models.Payment

	checkoutErr error
	updateErr   error
	confirmErr  error

	confirmedToken string
}

func (s *stubOrderService) Checkout(ctx context.Context, input order.CheckoutInput) (*models.Order, *models.Payment, error) {
	if s.checkoutErr != nil {
		return nil, nil, s.checkoutErr
	}
	return s.order, s.payment, nil
}

func (s *stubOrderService) GetOrder(ctx context.Context, orderID int) (*models.Order, []models.OrderItem, *models.Payment, error) {
	if s.order == nil {
		return nil, nil, nil, repository.ErrNotFound
	}
	return s.order, nil, s.payment, nil
}

func (s *stubOrderService) UpdateStatus(ctx context.Context, orderID int, next models.OrderStatus) error {
	return s.updateErr
}

func (s *stubOrderService) ConfirmPayment(ctx context.Context, encodedToken string) (*models.Order, error) {
	s.confirmedToken = encodedToken
	if s.confirmErr != nil {
		return nil, s.confirmErr
	}
	return s.order, nil
}

func orderRouter(svc order.Service) http.Handler {
	checkout := view.NewCheckoutState(svc, "/", "/esewa/failure")
	h := NewOrderHandler(svc, checkout, GatewayRedirects{
		SuccessURL: "http://localhost:8080/esewa/success",
		FailureURL: "http://localhost:8080/esewa/failure",
	})
	r := chi.NewRouter()
	r.Post("/checkout", h.Checkout)
	r.Get("/orders/{id}", h.GetByID)
	r.Patch("/orders/{id}/status", h.UpdateStatus)
	r.Get("/esewa/success", h.EsewaSuccess)
	r.Get("/esewa/failure", h.EsewaFailure)
	return r
}

func checkoutBody() string {
	return `{"user_id": 7, "location": "Thamel, Kathmandu", "phone": "9801234567"}`
}

func TestCheckoutHandler(t *testing.T) {
	svc := &stubOrderService{
		order: &models.Order{
			OrderID:     1,
			Status:      models.OrderPending,
			TotalAmount: decimal.NewFromInt(6480),
		},
		payment: &models.Payment{PaymentID: 1, Status: models.PaymentPending},
	}
	router := orderRouter(svc)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/checkout", strings.NewReader(checkoutBody())))
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"PENDING"`)
	// The response carries the gateway form the client posts to eSewa.
	assert.Contains(t, rec.Body.String(), `"success_url":"http://localhost:8080/esewa/success"`)
	assert.Contains(t, rec.Body.String(), `"product_code":"EPAYTEST"`)
}

func TestCheckoutHandler_OutOfStock(t *testing.T) {
	svc := &stubOrderService{
		checkoutErr: fmt.Errorf("%w: product 3", repository.ErrNotEnough),
	}
	router := orderRouter(svc)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/checkout", strings.NewReader(checkoutBody())))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestCheckoutHandler_MissingFields(t *testing.T) {
	router := orderRouter(&stubOrderService{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/checkout", strings.NewReader(`{"user_id": 7}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateStatusHandler_InvalidTransition(t *testing.T) {
	svc := &stubOrderService{
		updateErr: fmt.Errorf("%w: cannot go there", repository.ErrInvalidInput),
	}
	router := orderRouter(svc)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/orders/1/status", strings.NewReader(`{"status": "DELIVERED"}`))
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEsewaSuccess_RedirectsHome(t *testing.T) {
	svc := &stubOrderService{order: &models.Order{OrderID: 1, Status: models.OrderProcessing}}
	router := orderRouter(svc)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/esewa/success?data=dG9rZW4", nil))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
	assert.Equal(t, "dG9rZW4", svc.confirmedToken)
}

func TestEsewaSuccess_FailedConfirmationRedirectsToFailure(t *testing.T) {
	svc := &stubOrderService{confirmErr: order.ErrPaymentNotConfirmed}
	router := orderRouter(svc)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/esewa/success?data=dG9rZW4", nil))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/esewa/failure", rec.Header().Get("Location"))
}

func TestEsewaFailure(t *testing.T) {
	router := orderRouter(&stubOrderService{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/esewa/failure", nil))
	assert.Equal(t, http.StatusPaymentRequired, rec.Code)
}
