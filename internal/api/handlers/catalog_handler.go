package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"pinguinamart/internal/catalog"
	"pinguinamart/internal/models"
	"pinguinamart/internal/repository"
)

type CatalogHandler struct {
	catalog catalog.Service
}

func NewCatalogHandler(svc catalog.Service) *CatalogHandler {
	return &CatalogHandler{catalog: svc}
}

type ProductCreateRequest struct {
	Name        string `json:"name" validate:"required"`
	Category    string `json:"category" validate:"required"`
	Price       string `json:"price" validate:"required"`
	Quantity    int    `json:"quantity" validate:"required,gt=0"`
	Description string `json:"description" validate:"required"`
	Image       string `json:"image" validate:"required"`
}

// List handles GET /products?search=&category=&sort=.
func (h *CatalogHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := repository.ProductFilter{
		Search:   r.URL.Query().Get("search"),
		Category: models.ProductCategory(r.URL.Query().Get("category")),
	}

	switch r.URL.Query().Get("sort") {
	case "low-to-high", "asc":
		filter.PriceSort = repository.PriceSortAsc
	case "high-to-low", "desc":
		filter.PriceSort = repository.PriceSortDesc
	case "":
		filter.PriceSort = repository.PriceSortNone
	default:
		writeError(w, http.StatusBadRequest, "invalid_input", "unknown sort order", nil)
		return
	}

	products, err := h.catalog.ListProducts(r.Context(), filter)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, "invalid_input", err.Error(), nil)
		default:
			log.Printf("failed to list products: %v", err)
			writeError(w, http.StatusInternalServerError, "internal_error", "failed to get products", nil)
		}
		return
	}

	if products == nil {
		products = []models.ProductSummary{}
	}
	writeJSON(w, http.StatusOK, products)
}

// GetByID handles GET /products/{id}.
func (h *CatalogHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	product, err := h.catalog.GetProductDetail(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			writeError(w, http.StatusNotFound, "not_found", "product not found", nil)
		case errors.Is(err, repository.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, "invalid_input", err.Error(), nil)
		default:
			log.Printf("failed to get product %d: %v", id, err)
			writeError(w, http.StatusInternalServerError, "internal_error", "failed to get product", nil)
		}
		return
	}

	writeJSON(w, http.StatusOK, product)
}

// Reviews handles GET /products/{id}/reviews.
func (h *CatalogHandler) Reviews(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	reviews, err := h.catalog.GetProductReviews(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, "invalid_input", err.Error(), nil)
		default:
			log.Printf("failed to get reviews for product %d: %v", id, err)
			writeError(w, http.StatusInternalServerError, "internal_error", "failed to get reviews", nil)
		}
		return
	}

	writeJSON(w, http.StatusOK, reviews)
}

// Create handles POST /products.
func (h *CatalogHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req ProductCreateRequest
	if ok := decodeJSON(w, r, &req); !ok {
		return
	}

	price, err := decimal.NewFromString(req.Price)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_input", "invalid price", nil)
		return
	}

	product, err := h.catalog.AddProduct(r.Context(), catalog.AddProductInput{
		Name:        req.Name,
		Category:    models.ProductCategory(req.Category),
		Price:       price,
		Quantity:    req.Quantity,
		Description: req.Description,
		Image:       req.Image,
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, "invalid_input", err.Error(), nil)
		default:
			log.Printf("failed to create product: %v", err)
			writeError(w, http.StatusInternalServerError, "internal_error", "failed to create product", nil)
		}
		return
	}

	w.Header().Set("Location", "/products/"+strconv.Itoa(product.ProductID))
	writeJSON(w, http.StatusCreated, product)
}

func pathID(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	idStr := chi.URLParam(r, name)

	id, err := strconv.Atoi(idStr)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid_id", "invalid "+name, nil)
		return 0, false
	}
	return id, true
}
