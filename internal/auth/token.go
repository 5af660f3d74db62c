package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrTokenExpired is returned when a token's expiry has passed.
var ErrTokenExpired = errors.New("token expired")

// ErrTokenMalformed is returned when a token fails structural or signature
// verification, or when it is not valid for the requested purpose.
var ErrTokenMalformed = errors.New("malformed token")

const (
	// AccessTokenTTL bounds the lifetime of issued access tokens. Tokens are
	// stateless; there is no revocation before expiry.
	AccessTokenTTL = 2 * time.Hour

	// resetTokenTTL bounds the lifetime of password-reset tokens.
	resetTokenTTL = 30 * time.Minute

	// resetAudience scopes reset tokens so they are never accepted as
	// access tokens and vice versa.
	resetAudience = "password_reset"
)

// TokenIssuer mints and verifies the application's own signed credentials.
type TokenIssuer struct {
	secret []byte
}

// NewTokenIssuer creates an issuer signing with the given server-held secret.
func NewTokenIssuer(secret []byte) *TokenIssuer {
	return &TokenIssuer{secret: secret}
}

// Issue mints an access token whose subject is the given user id.
func (i *TokenIssuer) Issue(userID uuid.UUID) (string, error) {
	return i.sign(userID, AccessTokenTTL, nil)
}

// Verify checks the access token's signature and expiry and returns the
// subject user id.
func (i *TokenIssuer) Verify(tokenString string) (uuid.UUID, error) {
	return i.parse(tokenString, "")
}

// IssuePasswordReset mints a short-lived token that is only valid for the
// password-reset endpoint.
func (i *TokenIssuer) IssuePasswordReset(userID uuid.UUID) (string, error) {
	return i.sign(userID, resetTokenTTL, jwt.ClaimStrings{resetAudience})
}

// VerifyPasswordReset checks a reset token and returns the subject user id.
func (i *TokenIssuer) VerifyPasswordReset(tokenString string) (uuid.UUID, error) {
	return i.parse(tokenString, resetAudience)
}

func (i *TokenIssuer) sign(userID uuid.UUID, ttl time.Duration, audience jwt.ClaimStrings) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		Audience:  audience,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (i *TokenIssuer) parse(tokenString, audience string) (uuid.UUID, error) {
	claims := &jwt.RegisteredClaims{}

	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if audience != "" {
		opts = append(opts, jwt.WithAudience(audience))
	}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return i.secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return uuid.Nil, ErrTokenExpired
		}
		return uuid.Nil, ErrTokenMalformed
	}
	if !token.Valid {
		return uuid.Nil, ErrTokenMalformed
	}

	// Reject access tokens presented as reset tokens and the reverse.
	if audience == "" && len(claims.Audience) > 0 {
		return uuid.Nil, ErrTokenMalformed
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, ErrTokenMalformed
	}

	return userID, nil
}
