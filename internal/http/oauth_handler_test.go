package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"shopcrawl/internal/auth"
)

func newCallbackRequest(query, cookieState string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/google_login/callback?"+query, nil)
	req.AddCookie(&http.Cookie{Name: oauthStateCookieName, Value: cookieState})
	return req
}

func serve(env *testEnv, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	return rec
}

func TestAuthorizeGoogleSetsStateCookieAndRedirects(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/authorize_google", "", nil)

	if rec.Code != http.StatusFound {
		t.Fatalf("expected status 302, got %d", rec.Code)
	}

	var stateCookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == oauthStateCookieName {
			stateCookie = c
			break
		}
	}
	if stateCookie == nil || stateCookie.Value == "" {
		t.Fatal("expected state cookie to be set")
	}
	if !stateCookie.HttpOnly {
		t.Fatal("expected state cookie to be HttpOnly")
	}
	if env.google.lastState != stateCookie.Value {
		t.Fatalf("state sent to provider %q does not match cookie %q", env.google.lastState, stateCookie.Value)
	}

	location := rec.Header().Get("Location")
	if !strings.Contains(location, "state="+stateCookie.Value) {
		t.Fatalf("expected consent URL carrying the state, got %q", location)
	}
}

func TestGoogleCallbackRejectsMissingStateCookie(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/google_login/callback?state=abc&code=123", "", nil)

	wantMessage(t, rec, http.StatusBadRequest, "Invalid state parameter")
	if env.google.exchangeCalls != 0 {
		t.Fatal("exchange must not run without a verified state")
	}
}

func TestGoogleCallbackRejectsStateMismatchBeforeExchange(t *testing.T) {
	env := newTestEnv(t)
	env.google.claims = &auth.GoogleClaims{Email: "user@example.com", EmailVerified: true}

	req := newCallbackRequest("state=other&code=123", "expected")
	rec := serve(env, req)

	wantMessage(t, rec, http.StatusBadRequest, "Invalid state parameter")
	if env.google.exchangeCalls != 0 {
		t.Fatal("exchange must not run on state mismatch")
	}
}

func TestGoogleCallbackRequiresCode(t *testing.T) {
	env := newTestEnv(t)

	req := newCallbackRequest("state=abc", "abc")
	rec := serve(env, req)

	wantMessage(t, rec, http.StatusBadRequest, "Invalid authorization code")
}

func TestGoogleCallbackRejectsProviderError(t *testing.T) {
	env := newTestEnv(t)

	req := newCallbackRequest("state=abc&error=access_denied", "abc")
	rec := serve(env, req)

	wantMessage(t, rec, http.StatusBadRequest, "Invalid authorization code")
	if env.google.exchangeCalls != 0 {
		t.Fatal("exchange must not run when the provider reports an error")
	}
}

func TestGoogleCallbackRejectsExchangeFailure(t *testing.T) {
	env := newTestEnv(t)
	env.google.exchangeErr = errors.New("code already consumed")

	req := newCallbackRequest("state=abc&code=123", "abc")
	rec := serve(env, req)

	wantMessage(t, rec, http.StatusBadRequest, "Invalid authorization code")

	// No user row may exist after a failed verification.
	if user, _ := env.userRepo.FindByEmail(context.Background(), "user@example.com"); user != nil {
		t.Fatal("no user must be provisioned on exchange failure")
	}
}

func TestGoogleCallbackProvisionsUserAndRedirectsWithToken(t *testing.T) {
	env := newTestEnv(t)
	env.google.claims = &auth.GoogleClaims{
		Sub:           "google-sub",
		Email:         "NewUser@Example.com",
		EmailVerified: true,
		Name:          "New User",
		Picture:       "https://example.com/p.png",
	}

	req := newCallbackRequest("state=abc&code=123", "abc")
	rec := serve(env, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("expected status 302, got %d (%s)", rec.Code, rec.Body.String())
	}

	location, err := url.Parse(rec.Header().Get("Location"))
	if err != nil {
		t.Fatalf("parse redirect location: %v", err)
	}
	if location.Host != "frontend.test" || location.Path != "/login" {
		t.Fatalf("expected redirect to frontend login, got %q", location.String())
	}

	token := location.Query().Get("token")
	if token == "" {
		t.Fatal("expected redirect to carry a token")
	}

	userID, err := env.issuer.Verify(token)
	if err != nil {
		t.Fatalf("redirect token does not verify: %v", err)
	}

	user, err := env.userRepo.FindByEmail(context.Background(), "newuser@example.com")
	if err != nil || user == nil {
		t.Fatalf("expected provisioned user, got %v, %v", user, err)
	}
	if user.ID != userID {
		t.Fatalf("token subject %s does not match provisioned user %s", userID, user.ID)
	}
}

func TestGoogleCallbackReusesExistingUser(t *testing.T) {
	env := newTestEnv(t)
	existing := env.registerUser(t, "existing", "user@example.com", false)
	env.google.claims = &auth.GoogleClaims{Email: "user@example.com", EmailVerified: true}

	req := newCallbackRequest("state=abc&code=123", "abc")
	rec := serve(env, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("expected status 302, got %d", rec.Code)
	}

	location, _ := url.Parse(rec.Header().Get("Location"))
	userID, err := env.issuer.Verify(location.Query().Get("token"))
	if err != nil {
		t.Fatalf("redirect token does not verify: %v", err)
	}
	if userID != existing.ID {
		t.Fatalf("expected token for existing user %s, got %s", existing.ID, userID)
	}
}

func TestGoogleTokenLoginSucceeds(t *testing.T) {
	env := newTestEnv(t)
	env.google.claims = &auth.GoogleClaims{Email: "widget@example.com", EmailVerified: true, Name: "Widget"}

	rec := env.do(t, http.MethodPost, "/google_login/callback", "", map[string]string{"token": "raw-google-id-token"})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	payload := decodeBody(t, rec)
	if payload["message"] != "Login successful" {
		t.Fatalf("expected login message, got %q", payload["message"])
	}

	token, _ := payload["token"].(string)
	userID, err := env.issuer.Verify(token)
	if err != nil {
		t.Fatalf("issued token does not verify: %v", err)
	}

	user, _ := env.userRepo.FindByEmail(context.Background(), "widget@example.com")
	if user == nil || user.ID != userID {
		t.Fatal("expected token subject to match the provisioned user")
	}
}

func TestGoogleCallbackRejectsUnverifiedEmail(t *testing.T) {
	env := newTestEnv(t)
	env.google.claims = &auth.GoogleClaims{Email: "victim@example.com", EmailVerified: false}

	req := newCallbackRequest("state=abc&code=123", "abc")
	rec := serve(env, req)

	wantMessage(t, rec, http.StatusBadRequest, "Invalid authorization code")
	if user, _ := env.userRepo.FindByEmail(context.Background(), "victim@example.com"); user != nil {
		t.Fatal("no user must be provisioned for an unverified email")
	}
}

func TestGoogleTokenLoginRejectsUnverifiedEmail(t *testing.T) {
	env := newTestEnv(t)
	env.google.claims = &auth.GoogleClaims{Email: "victim@example.com", EmailVerified: false}

	rec := env.do(t, http.MethodPost, "/google_login/callback", "", map[string]string{"token": "raw-google-id-token"})

	wantMessage(t, rec, http.StatusBadRequest, "Invalid token")
	if user, _ := env.userRepo.FindByEmail(context.Background(), "victim@example.com"); user != nil {
		t.Fatal("no user must be provisioned for an unverified email")
	}
}

func TestGoogleTokenLoginRejectsInvalidToken(t *testing.T) {
	env := newTestEnv(t)
	env.google.verifyErr = errors.New("signature mismatch")

	rec := env.do(t, http.MethodPost, "/google_login/callback", "", map[string]string{"token": "garbage"})

	wantMessage(t, rec, http.StatusBadRequest, "Invalid token")
}

func TestGoogleTokenLoginRequiresTokenField(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/google_login/callback", "", map[string]string{"token": ""})
	wantMessage(t, rec, http.StatusBadRequest, "Invalid token")

	rec = env.do(t, http.MethodPost, "/google_login/callback", "", map[string]string{"unexpected": "field"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 for unknown fields, got %d", rec.Code)
	}
}
