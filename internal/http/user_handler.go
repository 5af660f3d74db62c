package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"shopcrawl/internal/auth"
	"shopcrawl/internal/users"
)

// UserHandler exposes registration, password-based login, password reset and
// user management endpoints.
type UserHandler struct {
	svc     *users.Service
	authSvc *auth.Service
	logger  *slog.Logger
}

// NewUserHandler constructs a UserHandler.
func NewUserHandler(svc *users.Service, authSvc *auth.Service, logger *slog.Logger) *UserHandler {
	return &UserHandler{svc: svc, authSvc: authSvc, logger: logger}
}

func (h *UserHandler) handleUserError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, users.ErrNotFound):
		writeError(w, http.StatusNotFound, "User not found")
	case errors.Is(err, users.ErrEmailTaken):
		writeError(w, http.StatusConflict, "Email already registered")
	case errors.Is(err, users.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error("user operation failed", "error", err)
		writeError(w, http.StatusInternalServerError, "unexpected error")
	}
}

// Register handles POST /register.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Username       string `json:"username"`
		Email          string `json:"email"`
		PhoneNumber    string `json:"phone_number"`
		Password       string `json:"password"`
		ProfilePicture string `json:"profile_picture"`
		IsAdmin        bool   `json:"is_admin"`
	}
	if err := decodeJSONBody(w, r, &input); err != nil {
		writeJSONError(w, err)
		return
	}

	user, err := h.svc.Register(r.Context(), users.RegisterInput{
		Username:       input.Username,
		Email:          input.Email,
		PhoneNumber:    input.PhoneNumber,
		Password:       input.Password,
		ProfilePicture: input.ProfilePicture,
		IsAdmin:        input.IsAdmin,
	})
	if err != nil {
		h.handleUserError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "User registered successfully",
		"user":    user,
	})
}

// Login handles POST /login with email/password credentials.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSONBody(w, r, &input); err != nil {
		writeJSONError(w, err)
		return
	}

	user, err := h.svc.Authenticate(r.Context(), input.Email, input.Password)
	if err != nil {
		if errors.Is(err, users.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		h.handleUserError(w, err)
		return
	}

	token, err := h.authSvc.IssueAccessToken(user.ID)
	if err != nil {
		h.logger.Error("issue access token", "error", err)
		writeError(w, http.StatusInternalServerError, "unexpected error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"access_token": token,
		"user":         user,
	})
}

// ForgotPassword handles POST /forgot-password. It always answers 200 so the
// endpoint cannot be used to probe which emails have accounts.
func (h *UserHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email string `json:"email"`
	}
	if err := decodeJSONBody(w, r, &input); err != nil {
		writeJSONError(w, err)
		return
	}

	if err := h.authSvc.RequestPasswordReset(r.Context(), input.Email); err != nil {
		h.logger.Error("request password reset", "error", err)
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "If the email exists, a reset link has been sent",
	})
}

// ResetPassword handles POST /reset-password/{token}.
func (h *UserHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var input struct {
		NewPassword string `json:"new_password"`
	}
	if err := decodeJSONBody(w, r, &input); err != nil {
		writeJSONError(w, err)
		return
	}

	err := h.authSvc.ResetPassword(r.Context(), chi.URLParam(r, "token"), input.NewPassword)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, map[string]string{"message": "Password reset successfully"})
	case errors.Is(err, auth.ErrTokenExpired):
		writeError(w, http.StatusBadRequest, "Token expired")
	case errors.Is(err, auth.ErrTokenMalformed):
		writeError(w, http.StatusBadRequest, "Invalid token")
	case errors.Is(err, users.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error("reset password", "error", err)
		writeError(w, http.StatusInternalServerError, "unexpected error")
	}
}

// Me handles GET /me and returns the user carried by the bearer token.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		unauthorized(w, "missing bearer token")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// Get handles GET /users/{id}. Users can read themselves; admins anyone.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	_, targetID, ok := h.authorizeSelfOrAdmin(w, r)
	if !ok {
		return
	}

	user, err := h.svc.Get(r.Context(), targetID)
	if err != nil {
		h.handleUserError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// Update handles PUT /users/{id}.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	caller, targetID, ok := h.authorizeSelfOrAdmin(w, r)
	if !ok {
		return
	}

	var input struct {
		Username       *string `json:"username"`
		Email          *string `json:"email"`
		PhoneNumber    *string `json:"phone_number"`
		Password       *string `json:"password"`
		ProfilePicture *string `json:"profile_picture"`
		IsAdmin        *bool   `json:"is_admin"`
	}
	if err := decodeJSONBody(w, r, &input); err != nil {
		writeJSONError(w, err)
		return
	}

	update := users.UpdateInput{
		Username:       input.Username,
		Email:          input.Email,
		PhoneNumber:    input.PhoneNumber,
		Password:       input.Password,
		ProfilePicture: input.ProfilePicture,
	}
	// Only admins may grant or revoke the admin flag.
	if caller.IsAdmin {
		update.IsAdmin = input.IsAdmin
	}

	user, err := h.svc.Update(r.Context(), targetID, update)
	if err != nil {
		h.handleUserError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "User updated successfully",
		"user":    user,
	})
}

// Delete handles DELETE /users/{id}.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	_, targetID, ok := h.authorizeSelfOrAdmin(w, r)
	if !ok {
		return
	}

	if err := h.svc.Delete(r.Context(), targetID); err != nil {
		h.handleUserError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "User deleted successfully"})
}

// authorizeSelfOrAdmin parses {id} and verifies the caller is either that
// user or an admin. It writes the error response itself when ok is false.
func (h *UserHandler) authorizeSelfOrAdmin(w http.ResponseWriter, r *http.Request) (*users.User, uuid.UUID, bool) {
	caller, ok := UserFromContext(r.Context())
	if !ok {
		unauthorized(w, "missing bearer token")
		return nil, uuid.Nil, false
	}

	targetID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return nil, uuid.Nil, false
	}

	if caller.ID != targetID && !caller.IsAdmin {
		writeError(w, http.StatusForbidden, "You can only manage your own account")
		return nil, uuid.Nil, false
	}

	return caller, targetID, true
}
