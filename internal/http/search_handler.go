package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"shopcrawl/internal/products"
	"shopcrawl/internal/search"
)

// SearchHandler exposes product search and per-user search history.
type SearchHandler struct {
	svc    *search.Service
	logger *slog.Logger
}

// NewSearchHandler constructs a SearchHandler.
func NewSearchHandler(svc *search.Service, logger *slog.Logger) *SearchHandler {
	return &SearchHandler{svc: svc, logger: logger}
}

func (h *SearchHandler) handleSearchError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, search.ErrNotFound):
		writeError(w, http.StatusNotFound, "Search history not found")
	case errors.Is(err, search.ErrValidation), errors.Is(err, products.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error("search operation failed", "error", err)
		writeError(w, http.StatusInternalServerError, "unexpected error")
	}
}

// Search handles GET /search?q=. The match is recorded in the caller's
// search history.
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		unauthorized(w, "missing bearer token")
		return
	}

	results, _, err := h.svc.Search(r.Context(), user.ID, r.URL.Query().Get("q"))
	if err != nil {
		h.handleSearchError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, results)
}

// SaveSearch handles POST /save-search. The owner is always the caller; a
// user_id in the body is not accepted.
func (h *SearchHandler) SaveSearch(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		unauthorized(w, "missing bearer token")
		return
	}

	var input struct {
		Query string `json:"search_query"`
	}
	if err := decodeJSONBody(w, r, &input); err != nil {
		writeJSONError(w, err)
		return
	}

	entry, err := h.svc.Save(r.Context(), user.ID, input.Query)
	if err != nil {
		h.handleSearchError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, entry)
}

// ListByUser handles GET /searches/{user_id}. The caller must be the listed
// user or an admin.
func (h *SearchHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	caller, ok := UserFromContext(r.Context())
	if !ok {
		unauthorized(w, "missing bearer token")
		return
	}

	userID, err := uuid.Parse(chi.URLParam(r, "user_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	if caller.ID != userID && !caller.IsAdmin {
		writeError(w, http.StatusForbidden, "You can only view your own search history")
		return
	}

	entries, err := h.svc.ListByUser(r.Context(), userID)
	if err != nil {
		h.handleSearchError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, entries)
}

// Delete handles DELETE /delete-search/{search_id}. The caller must own the
// entry or be an admin.
func (h *SearchHandler) Delete(w http.ResponseWriter, r *http.Request) {
	caller, ok := UserFromContext(r.Context())
	if !ok {
		unauthorized(w, "missing bearer token")
		return
	}

	searchID, err := uuid.Parse(chi.URLParam(r, "search_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid search id")
		return
	}

	entry, err := h.svc.Get(r.Context(), searchID)
	if err != nil {
		h.handleSearchError(w, err)
		return
	}

	if entry.UserID != caller.ID && !caller.IsAdmin {
		writeError(w, http.StatusForbidden, "You can only delete your own search history")
		return
	}

	if err := h.svc.Delete(r.Context(), searchID); err != nil {
		h.handleSearchError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Search history deleted successfully"})
}
