package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"shopcrawl/internal/shops"
)

// ShopHandler exposes HTTP endpoints for shop management. Reads are public;
// writes are restricted to admins.
type ShopHandler struct {
	svc    *shops.Service
	logger *slog.Logger
}

// NewShopHandler constructs a ShopHandler.
func NewShopHandler(svc *shops.Service, logger *slog.Logger) *ShopHandler {
	return &ShopHandler{svc: svc, logger: logger}
}

func (h *ShopHandler) handleShopError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, shops.ErrNotFound):
		writeError(w, http.StatusNotFound, "Shop not found")
	case errors.Is(err, shops.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error("shop operation failed", "error", err)
		writeError(w, http.StatusInternalServerError, "unexpected error")
	}
}

// requireAdmin rejects non-admin callers with the action-specific message.
func (h *ShopHandler) requireAdmin(w http.ResponseWriter, r *http.Request, action string) bool {
	user, ok := UserFromContext(r.Context())
	if !ok {
		unauthorized(w, "missing bearer token")
		return false
	}
	if !user.IsAdmin {
		writeError(w, http.StatusForbidden, "Only admins can "+action+" shops")
		return false
	}
	return true
}

// List handles GET /shops.
func (h *ShopHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.List(r.Context())
	if err != nil {
		h.handleShopError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// Get handles GET /shops/{id}.
func (h *ShopHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid shop id")
		return
	}

	shop, err := h.svc.Get(r.Context(), id)
	if err != nil {
		h.handleShopError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, shop)
}

// Create handles POST /shops.
func (h *ShopHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r, "create") {
		return
	}

	var input struct {
		Name string `json:"name"`
		URL  string `json:"url"`
	}
	if err := decodeJSONBody(w, r, &input); err != nil {
		writeJSONError(w, err)
		return
	}

	shop, err := h.svc.Create(r.Context(), shops.CreateShopInput{
		Name: input.Name,
		URL:  input.URL,
	})
	if err != nil {
		h.handleShopError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Shop created successfully",
		"shop":    shop,
	})
}

// Update handles PUT /shops/{id}.
func (h *ShopHandler) Update(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r, "update") {
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid shop id")
		return
	}

	var input struct {
		Name *string `json:"name"`
		URL  *string `json:"url"`
	}
	if err := decodeJSONBody(w, r, &input); err != nil {
		writeJSONError(w, err)
		return
	}

	shop, err := h.svc.Update(r.Context(), id, shops.UpdateShopInput{
		Name: input.Name,
		URL:  input.URL,
	})
	if err != nil {
		h.handleShopError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Shop updated successfully",
		"shop":    shop,
	})
}

// Delete handles DELETE /shops/{id}.
func (h *ShopHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r, "delete") {
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid shop id")
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		h.handleShopError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Shop deleted successfully"})
}
