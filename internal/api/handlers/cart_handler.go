package handlers

import (
	"errors"
	"log"
	"net/http"

	"pinguinamart/internal/models"
	"pinguinamart/internal/repository"
)

type CartHandler struct {
	carts repository.CartRepository
}

func NewCartHandler(carts repository.CartRepository) *CartHandler {
	return &CartHandler{carts: carts}
}

type CartAddRequest struct {
	UserID    int `json:"user_id" validate:"required,gt=0"`
	ProductID int `json:"product_id" validate:"required,gt=0"`
	Quantity  int `json:"quantity" validate:"required,gt=0"`
}

type CartRemoveRequest struct {
	UserID    int `json:"user_id" validate:"required,gt=0"`
	ProductID int `json:"product_id" validate:"required,gt=0"`
}

// Add handles POST /cart.
func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req CartAddRequest
	if ok := decodeJSON(w, r, &req); !ok {
		return
	}

	item := models.CartItem{
		UserID:    req.UserID,
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
	}

	if err := h.carts.AddItem(r.Context(), &item); err != nil {
		switch {
		case errors.Is(err, repository.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, "invalid_input", err.Error(), nil)
		default:
			log.Printf("failed to add cart item: %v", err)
			writeError(w, http.StatusInternalServerError, "internal_error", "failed to add cart item", nil)
		}
		return
	}

	writeJSON(w, http.StatusCreated, item)
}

// List handles GET /cart/{userID}.
func (h *CartHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r, "userID")
	if !ok {
		return
	}

	lines, err := h.carts.ListByUser(r.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, "invalid_input", err.Error(), nil)
		default:
			log.Printf("failed to list cart for user %d: %v", userID, err)
			writeError(w, http.StatusInternalServerError, "internal_error", "failed to get cart", nil)
		}
		return
	}

	if lines == nil {
		lines = []repository.CartLine{}
	}
	writeJSON(w, http.StatusOK, lines)
}

// Remove handles DELETE /cart.
func (h *CartHandler) Remove(w http.ResponseWriter, r *http.Request) {
	var req CartRemoveRequest
	if ok := decodeJSON(w, r, &req); !ok {
		return
	}

	if err := h.carts.RemoveItem(r.Context(), req.UserID, req.ProductID); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			writeError(w, http.StatusNotFound, "not_found", "cart item not found", nil)
		case errors.Is(err, repository.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, "invalid_input", err.Error(), nil)
		default:
			log.Printf("failed to remove cart item: %v", err)
			writeError(w, http.StatusInternalServerError, "internal_error", "failed to remove cart item", nil)
		}
		return
	}

	writeJSON(w, http.StatusNoContent, nil)
}
