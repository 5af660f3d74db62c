package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"shopcrawl/internal/products"
	"shopcrawl/internal/shops"
)

// ProductHandler exposes HTTP endpoints for product management.
type ProductHandler struct {
	svc    *products.Service
	logger *slog.Logger
}

// NewProductHandler constructs a ProductHandler.
func NewProductHandler(svc *products.Service, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{svc: svc, logger: logger}
}

func (h *ProductHandler) handleProductError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, products.ErrNotFound):
		writeError(w, http.StatusNotFound, "Product not found")
	case errors.Is(err, shops.ErrNotFound):
		writeError(w, http.StatusNotFound, "Shop not found")
	case errors.Is(err, products.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error("product operation failed", "error", err)
		writeError(w, http.StatusInternalServerError, "unexpected error")
	}
}

// List handles GET /products.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.List(r.Context())
	if err != nil {
		h.handleProductError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// Get handles GET /products/{id}.
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	product, err := h.svc.Get(r.Context(), id)
	if err != nil {
		h.handleProductError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

// Create handles POST /products.
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Name   string    `json:"product_name"`
		Price  float64   `json:"product_price"`
		ShopID uuid.UUID `json:"shop_id"`
	}
	if err := decodeJSONBody(w, r, &input); err != nil {
		writeJSONError(w, err)
		return
	}

	product, err := h.svc.Create(r.Context(), products.CreateProductInput{
		Name:   input.Name,
		Price:  input.Price,
		ShopID: input.ShopID,
	})
	if err != nil {
		h.handleProductError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Product created successfully",
		"product": product,
	})
}

// Update handles PUT /products/{id}.
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	var input struct {
		Name   *string    `json:"product_name"`
		Price  *float64   `json:"product_price"`
		ShopID *uuid.UUID `json:"shop_id"`
	}
	if err := decodeJSONBody(w, r, &input); err != nil {
		writeJSONError(w, err)
		return
	}

	product, err := h.svc.Update(r.Context(), id, products.UpdateProductInput{
		Name:   input.Name,
		Price:  input.Price,
		ShopID: input.ShopID,
	})
	if err != nil {
		h.handleProductError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Product updated successfully",
		"product": product,
	})
}

// Delete handles DELETE /products/{id}.
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		h.handleProductError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Product deleted successfully"})
}
