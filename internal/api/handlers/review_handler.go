package handlers

import (
	"errors"
	"log"
	"net/http"

	"pinguinamart/internal/catalog"
	"pinguinamart/internal/models"
	"pinguinamart/internal/repository"
)

type ReviewHandler struct {
	catalog catalog.Service
}

func NewReviewHandler(svc catalog.Service) *ReviewHandler {
	return &ReviewHandler{catalog: svc}
}

type ReviewCreateRequest struct {
	UserID    int     `json:"user_id" validate:"required,gt=0"`
	ProductID int     `json:"product_id" validate:"required,gt=0"`
	Rating    int     `json:"rating" validate:"required,min=1,max=5"`
	Comment   string  `json:"comment" validate:"required"`
	Image     *string `json:"image,omitempty"`
}

// Create handles POST /reviews.
func (h *ReviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req ReviewCreateRequest
	if ok := decodeJSON(w, r, &req); !ok {
		return
	}

	review := models.Review{
		UserID:    req.UserID,
		ProductID: req.ProductID,
		Rating:    req.Rating,
		Comment:   req.Comment,
		Image:     req.Image,
	}

	if err := h.catalog.AddReview(r.Context(), &review); err != nil {
		switch {
		case errors.Is(err, repository.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, "invalid_input", err.Error(), nil)
		default:
			log.Printf("failed to create review: %v", err)
			writeError(w, http.StatusInternalServerError, "internal_error", "failed to create review", nil)
		}
		return
	}

	writeJSON(w, http.StatusCreated, review)
}
