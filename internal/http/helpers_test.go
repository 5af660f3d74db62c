package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"shopcrawl/internal/auth"
	"shopcrawl/internal/config"
	"shopcrawl/internal/platform/mail"
	"shopcrawl/internal/products"
	"shopcrawl/internal/search"
	"shopcrawl/internal/shops"
	"shopcrawl/internal/users"
)

type fakeGoogleAuthenticator struct {
	lastState     string
	exchangeCalls int
	claims        *auth.GoogleClaims
	exchangeErr   error
	verifyErr     error
}

func (f *fakeGoogleAuthenticator) AuthURL(state string) string {
	f.lastState = state
	return "https://accounts.google.com/auth?state=" + state
}

func (f *fakeGoogleAuthenticator) Exchange(ctx context.Context, code string) (*auth.GoogleClaims, error) {
	f.exchangeCalls++
	if f.exchangeErr != nil {
		return nil, f.exchangeErr
	}
	return f.claims, nil
}

func (f *fakeGoogleAuthenticator) VerifyIDToken(ctx context.Context, rawIDToken string) (*auth.GoogleClaims, error) {
	if f.verifyErr != nil {
		return nil, f.verifyErr
	}
	return f.claims, nil
}

// testEnv carries a fully wired router backed by in-memory repositories.
type testEnv struct {
	router   http.Handler
	userRepo *users.InMemoryRepository
	users    *users.Service
	issuer   *auth.TokenIssuer
	google   *fakeGoogleAuthenticator
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	userRepo := users.NewInMemoryRepository()
	shopRepo := shops.NewInMemoryRepository()
	productRepo := products.NewInMemoryRepository()
	searchRepo := search.NewInMemoryRepository()

	userSvc := users.NewService(userRepo)
	issuer := auth.NewTokenIssuer([]byte("test-secret"))
	authSvc := auth.NewService(userRepo, issuer, mail.NewLogSender(logger), "http://frontend.test")
	shopSvc := shops.NewService(shopRepo)
	productSvc := products.NewService(productRepo, shopRepo)
	searchSvc := search.NewService(searchRepo, productSvc, logger)

	google := &fakeGoogleAuthenticator{}

	cfg := config.Config{
		Environment:    "development",
		AllowedOrigins: []string{"*"},
		FrontendURL:    "http://frontend.test",
	}

	router := NewRouter(cfg, Services{
		Users:    userSvc,
		Auth:     authSvc,
		Issuer:   issuer,
		Shops:    shopSvc,
		Products: productSvc,
		Search:   searchSvc,
		Google:   google,
	}, logger)

	return &testEnv{
		router:   router,
		userRepo: userRepo,
		users:    userSvc,
		issuer:   issuer,
		google:   google,
	}
}

func (e *testEnv) registerUser(t *testing.T, username, email string, admin bool) users.User {
	t.Helper()
	user, err := e.users.Register(context.Background(), users.RegisterInput{
		Username: username,
		Email:    email,
		Password: "password123",
		IsAdmin:  admin,
	})
	if err != nil {
		t.Fatalf("register %s: %v", email, err)
	}
	return user
}

func (e *testEnv) tokenFor(t *testing.T, userID uuid.UUID) string {
	t.Helper()
	token, err := e.issuer.Issue(userID)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return token
}

// do performs a request against the router. A non-empty token is sent as a
// bearer Authorization header; a non-nil body is JSON-encoded.
func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var payload map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return payload
}

func wantMessage(t *testing.T, rec *httptest.ResponseRecorder, status int, message string) {
	t.Helper()
	if rec.Code != status {
		t.Fatalf("expected status %d, got %d (%s)", status, rec.Code, rec.Body.String())
	}
	payload := decodeBody(t, rec)
	if payload["message"] != message {
		t.Fatalf("expected message %q, got %q", message, payload["message"])
	}
}
