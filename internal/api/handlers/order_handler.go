package handlers

import (
	"errors"
	"log"
	"net/http"

	"pinguinamart/internal/models"
	"pinguinamart/internal/order"
	"pinguinamart/internal/repository"
	"pinguinamart/internal/view"
)

// gatewayProductCode identifies the merchant to eSewa; EPAYTEST is the
// sandbox merchant.
const gatewayProductCode = "EPAYTEST"

// GatewayRedirects are the URLs eSewa sends the customer back to.
type GatewayRedirects struct {
	SuccessURL string
	FailureURL string
}

type OrderHandler struct {
	orders    order.Service
	checkout  *view.CheckoutState
	redirects GatewayRedirects
}

func NewOrderHandler(orders order.Service, checkout *view.CheckoutState, redirects GatewayRedirects) *OrderHandler {
	return &OrderHandler{orders: orders, checkout: checkout, redirects: redirects}
}

type CheckoutRequest struct {
	UserID   int    `json:"user_id" validate:"required,gt=0"`
	Location string `json:"location" validate:"required"`
	Phone    string `json:"phone" validate:"required"`
}

type OrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type orderResponse struct {
	Order   *models.Order      `json:"order"`
	Items   []models.OrderItem `json:"items"`
	Payment *models.Payment    `json:"payment,omitempty"`
	Gateway *gatewayRequest    `json:"gateway,omitempty"`
}

// gatewayRequest is everything the client needs to build the eSewa payment
// form for a freshly placed order.
type gatewayRequest struct {
	TransactionUUID string `json:"transaction_uuid"`
	TotalAmount     string `json:"total_amount"`
	ProductCode     string `json:"product_code"`
	SuccessURL      string `json:"success_url"`
	FailureURL      string `json:"failure_url"`
}

// Checkout handles POST /checkout.
func (h *OrderHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req CheckoutRequest
	if ok := decodeJSON(w, r, &req); !ok {
		return
	}

	o, payment, err := h.orders.Checkout(r.Context(), order.CheckoutInput{
		UserID:   req.UserID,
		Location: req.Location,
		Phone:    req.Phone,
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotEnough):
			writeError(w, http.StatusConflict, "not_enough_stock", err.Error(), nil)
		case errors.Is(err, repository.ErrNotFound):
			writeError(w, http.StatusNotFound, "not_found", err.Error(), nil)
		case errors.Is(err, repository.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, "invalid_input", err.Error(), nil)
		default:
			log.Printf("checkout failed for user %d: %v", req.UserID, err)
			writeError(w, http.StatusInternalServerError, "internal_error", "failed to place order", nil)
		}
		return
	}

	resp := orderResponse{Order: o, Payment: payment}
	if payment != nil {
		resp.Gateway = &gatewayRequest{
			TransactionUUID: payment.TransactionID,
			TotalAmount:     o.TotalAmount.String(),
			ProductCode:     gatewayProductCode,
			SuccessURL:      h.redirects.SuccessURL,
			FailureURL:      h.redirects.FailureURL,
		}
	}
	writeJSON(w, http.StatusCreated, resp)
}

// GetByID handles GET /orders/{id}.
func (h *OrderHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	o, items, payment, err := h.orders.GetOrder(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			writeError(w, http.StatusNotFound, "not_found", "order not found", nil)
		case errors.Is(err, repository.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, "invalid_input", err.Error(), nil)
		default:
			log.Printf("failed to get order %d: %v", id, err)
			writeError(w, http.StatusInternalServerError, "internal_error", "failed to get order", nil)
		}
		return
	}

	writeJSON(w, http.StatusOK, orderResponse{Order: o, Items: items, Payment: payment})
}

// UpdateStatus handles PATCH /orders/{id}/status.
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req OrderStatusRequest
	if ok := decodeJSON(w, r, &req); !ok {
		return
	}

	err := h.orders.UpdateStatus(r.Context(), id, models.OrderStatus(req.Status))
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			writeError(w, http.StatusNotFound, "not_found", "order not found", nil)
		case errors.Is(err, repository.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, "invalid_input", err.Error(), nil)
		default:
			log.Printf("failed to update order %d status: %v", id, err)
			writeError(w, http.StatusInternalServerError, "internal_error", "failed to update order", nil)
		}
		return
	}

	writeJSON(w, http.StatusNoContent, nil)
}

// EsewaSuccess handles the gateway's success redirect. The encoded token
// arrives as the "data" query parameter; the checkout view state issues
// exactly one confirmation call and picks the route to land on.
func (h *OrderHandler) EsewaSuccess(w http.ResponseWriter, r *http.Request) {
	route := h.checkout.HandleGatewayReturn(r.Context(), r.URL.Query().Get("data"))
	http.Redirect(w, r, route, http.StatusSeeOther)
}

// EsewaFailure handles the gateway's failure redirect.
func (h *OrderHandler) EsewaFailure(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusPaymentRequired, "payment_failed", "payment was not completed", nil)
}
