package http

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"shopcrawl/internal/auth"
)

const (
	oauthStateCookieName = "shopcrawl_oauth_state"
	oauthStateCookieTTL  = 10 * time.Minute
)

type googleAuthenticator interface {
	AuthURL(state string) string
	Exchange(ctx context.Context, code string) (*auth.GoogleClaims, error)
	VerifyIDToken(ctx context.Context, rawIDToken string) (*auth.GoogleClaims, error)
}

// OAuthHandler handles the Google login endpoints: the redirect flow
// (AuthorizeGoogle + GoogleCallback) and the direct-token flow
// (GoogleTokenLogin).
type OAuthHandler struct {
	google       googleAuthenticator
	authService  *auth.Service
	logger       *slog.Logger
	secureCookie bool
	frontendURL  string
}

// NewOAuthHandler creates a new OAuthHandler.
func NewOAuthHandler(google googleAuthenticator, authService *auth.Service, frontendURL, env string, logger *slog.Logger) *OAuthHandler {
	return &OAuthHandler{
		google:       google,
		authService:  authService,
		logger:       logger,
		secureCookie: !strings.EqualFold(env, "development"),
		frontendURL:  strings.TrimSuffix(frontendURL, "/"),
	}
}

// AuthorizeGoogle handles GET /authorize_google.
// Stores a CSRF state cookie and redirects to Google's consent screen.
func (h *OAuthHandler) AuthorizeGoogle(w http.ResponseWriter, r *http.Request) {
	state, err := auth.GenerateState()
	if err != nil {
		h.logger.Error("failed to generate state", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookieName,
		Value:    state,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(oauthStateCookieTTL.Seconds()),
	})

	http.Redirect(w, r, h.google.AuthURL(state), http.StatusFound)
}

// GoogleCallback handles GET /google_login/callback.
// Verifies the CSRF state strictly before the code exchange, exchanges the
// authorization code, resolves or provisions the user and redirects to the
// frontend with a freshly issued access token.
func (h *OAuthHandler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	stateCookie, err := r.Cookie(oauthStateCookieName)
	if err != nil {
		h.logger.Warn("oauth callback: missing state cookie")
		writeError(w, http.StatusBadRequest, "Invalid state parameter")
		return
	}

	stateParam := r.URL.Query().Get("state")
	if subtle.ConstantTimeCompare([]byte(stateParam), []byte(stateCookie.Value)) != 1 {
		h.logger.Warn("oauth callback: state mismatch")
		writeError(w, http.StatusBadRequest, "Invalid state parameter")
		return
	}

	// State is consumed whether or not the exchange succeeds.
	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookie,
	})

	if errParam := r.URL.Query().Get("error"); errParam != "" {
		h.logger.Warn("oauth callback: provider error", "error", errParam)
		writeError(w, http.StatusBadRequest, "Invalid authorization code")
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		writeError(w, http.StatusBadRequest, "Invalid authorization code")
		return
	}

	claims, err := h.google.Exchange(r.Context(), code)
	if err != nil {
		h.logger.Error("oauth callback: exchange failed", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid authorization code")
		return
	}

	user, token, err := h.authService.LoginWithClaims(r.Context(), claims)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidIDToken) {
			h.logger.Warn("oauth callback: unusable claims", "error", err)
			writeError(w, http.StatusBadRequest, "Invalid authorization code")
			return
		}
		h.logger.Error("oauth callback: login failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to complete authentication")
		return
	}

	h.logger.Info("oauth login successful", "user_id", user.ID, "email", user.Email)

	http.Redirect(w, r, h.frontendURL+"/login?token="+url.QueryEscape(token), http.StatusFound)
}

// GoogleTokenLogin handles POST /google_login/callback.
// Accepts a Google-issued ID token directly from a client-side widget,
// verifies it against Google's published keys and logs the user in.
func (h *OAuthHandler) GoogleTokenLogin(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Token string `json:"token"`
	}
	if err := decodeJSONBody(w, r, &payload); err != nil {
		writeJSONError(w, err)
		return
	}
	if strings.TrimSpace(payload.Token) == "" {
		writeError(w, http.StatusBadRequest, "Invalid token")
		return
	}

	claims, err := h.google.VerifyIDToken(r.Context(), payload.Token)
	if err != nil {
		h.logger.Warn("token login: verification failed", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid token")
		return
	}

	user, token, err := h.authService.LoginWithClaims(r.Context(), claims)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidIDToken) {
			writeError(w, http.StatusBadRequest, "Invalid token")
			return
		}
		h.logger.Error("token login: login failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to complete authentication")
		return
	}

	h.logger.Info("token login successful", "user_id", user.ID, "email", user.Email)

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Login successful",
		"token":   token,
	})
}
