package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// ErrExchange is wrapped by all failures while exchanging an authorization
// code with the provider (invalid, expired or already-consumed codes).
var ErrExchange = errors.New("authorization code exchange failed")

// ErrInvalidIDToken is wrapped by all failures while verifying a
// provider-issued ID token submitted directly by a client.
var ErrInvalidIDToken = errors.New("invalid id token")

// GoogleClaims contains the relevant claims from a Google ID token.
type GoogleClaims struct {
	Sub           string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

// GoogleAuthenticator handles Google OAuth 2.0 / OIDC authentication. It
// supports both the redirect flow (AuthURL + Exchange) and the direct-token
// flow (VerifyIDToken), converging on the same verified GoogleClaims.
type GoogleAuthenticator struct {
	config   *oauth2.Config
	verifier *oidc.IDTokenVerifier
}

// NewGoogleAuthenticator creates a new GoogleAuthenticator. It performs OIDC
// discovery against Google, so it needs network access at construction time.
func NewGoogleAuthenticator(ctx context.Context, clientID, clientSecret, redirectURL string) (*GoogleAuthenticator, error) {
	provider, err := oidc.NewProvider(ctx, "https://accounts.google.com")
	if err != nil {
		return nil, fmt.Errorf("oidc provider: %w", err)
	}

	config := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Endpoint:     google.Endpoint,
		Scopes:       []string{oidc.ScopeOpenID, "email", "profile"},
	}

	verifier := provider.Verifier(&oidc.Config{ClientID: clientID})

	return &GoogleAuthenticator{
		config:   config,
		verifier: verifier,
	}, nil
}

// AuthURL generates the Google OAuth consent URL with the given state.
func (g *GoogleAuthenticator) AuthURL(state string) string {
	return g.config.AuthCodeURL(
		state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "select_account"),
	)
}

// Exchange trades the authorization code for provider tokens and returns the
// verified user claims.
func (g *GoogleAuthenticator) Exchange(ctx context.Context, code string) (*GoogleClaims, error) {
	token, err := g.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExchange, err)
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok {
		return nil, fmt.Errorf("%w: no id_token in response", ErrExchange)
	}

	return g.verifyRaw(ctx, rawIDToken, ErrExchange)
}

// VerifyIDToken validates a provider-issued ID token handed over directly by
// a client-side login widget. Signature, audience (this application's client
// id) and expiry are checked against Google's published keys.
func (g *GoogleAuthenticator) VerifyIDToken(ctx context.Context, rawIDToken string) (*GoogleClaims, error) {
	return g.verifyRaw(ctx, rawIDToken, ErrInvalidIDToken)
}

func (g *GoogleAuthenticator) verifyRaw(ctx context.Context, rawIDToken string, sentinel error) (*GoogleClaims, error) {
	idToken, err := g.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", sentinel, err)
	}

	var claims GoogleClaims
	if err := idToken.Claims(&claims); err != nil {
		return nil, fmt.Errorf("%w: parse claims: %v", sentinel, err)
	}

	return &claims, nil
}

// GenerateState generates a cryptographically secure random state string.
func GenerateState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}
