package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"shopcrawl/internal/platform/mail"
	"shopcrawl/internal/users"
)

// Service turns verified identity claims into local sessions and hosts the
// password-reset orchestration.
type Service struct {
	repo        users.Repository
	users       *users.Service
	issuer      *TokenIssuer
	mailer      mail.Sender
	frontendURL string
}

// NewService wires a Service.
func NewService(repo users.Repository, issuer *TokenIssuer, mailer mail.Sender, frontendURL string) *Service {
	return &Service{
		repo:        repo,
		users:       users.NewService(repo),
		issuer:      issuer,
		mailer:      mailer,
		frontendURL: strings.TrimSuffix(frontendURL, "/"),
	}
}

// LoginWithClaims resolves verified provider claims to a local user,
// provisioning one on first login, and issues an access token for it.
// Provisioning happens strictly after verification: callers must only pass
// claims that already passed signature/exchange checks.
func (s *Service) LoginWithClaims(ctx context.Context, claims *GoogleClaims) (*users.User, string, error) {
	user, err := s.resolveUser(ctx, claims)
	if err != nil {
		return nil, "", err
	}

	token, err := s.issuer.Issue(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("issue access token: %w", err)
	}

	return user, token, nil
}

// IssueAccessToken mints an access token for an already-authenticated user.
func (s *Service) IssueAccessToken(userID uuid.UUID) (string, error) {
	return s.issuer.Issue(userID)
}

func (s *Service) resolveUser(ctx context.Context, claims *GoogleClaims) (*users.User, error) {
	email := strings.ToLower(strings.TrimSpace(claims.Email))
	if email == "" {
		return nil, fmt.Errorf("%w: claims carry no email", ErrInvalidIDToken)
	}
	// An unverified email may belong to someone else; accepting it would let
	// the token holder log into that person's local account.
	if !claims.EmailVerified {
		return nil, fmt.Errorf("%w: email not verified", ErrInvalidIDToken)
	}

	existing, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if existing != nil {
		return existing, nil
	}

	// First login: auto-provision with an unguessable password so the row
	// satisfies the "has a password hash" invariant without enabling
	// password login.
	randomPassword, err := users.RandomPassword()
	if err != nil {
		return nil, fmt.Errorf("generate provisioning password: %w", err)
	}
	hash, err := users.HashPassword(randomPassword)
	if err != nil {
		return nil, fmt.Errorf("hash provisioning password: %w", err)
	}

	now := time.Now().UTC()
	created, err := s.repo.Create(ctx, users.User{
		ID:             uuid.New(),
		Username:       strings.TrimSpace(claims.Name),
		Email:          email,
		PasswordHash:   hash,
		ProfilePicture: claims.Picture,
		CreatedAt:      now,
		UpdatedAt:      now,
	})
	if err != nil {
		// A concurrent first login for the same email won the insert race.
		// The unique index guarantees a single row; retry as a lookup.
		if errors.Is(err, users.ErrEmailTaken) {
			winner, lookupErr := s.repo.FindByEmail(ctx, email)
			if lookupErr != nil {
				return nil, fmt.Errorf("find user after conflict: %w", lookupErr)
			}
			if winner == nil {
				return nil, fmt.Errorf("user vanished after provisioning conflict")
			}
			return winner, nil
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return &created, nil
}

// RequestPasswordReset issues a reset token and mails a reset link. Unknown
// emails are ignored so the endpoint cannot be used to enumerate accounts.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.repo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		return nil
	}

	token, err := s.issuer.IssuePasswordReset(user.ID)
	if err != nil {
		return fmt.Errorf("issue reset token: %w", err)
	}

	msg := mail.Message{
		To:      user.Email,
		Subject: "Reset your Shopcrawl password",
		Body: fmt.Sprintf("Hello %s,\n\nFollow this link to reset your password:\n\n%s/reset-password?token=%s\n\nThe link expires in 30 minutes. If you did not request a reset, ignore this mail.",
			user.Username, s.frontendURL, token),
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		return fmt.Errorf("send reset mail: %w", err)
	}

	return nil
}

// ResetPassword verifies the reset token and replaces the user's password hash.
func (s *Service) ResetPassword(ctx context.Context, token, newPassword string) error {
	userID, err := s.issuer.VerifyPasswordReset(token)
	if err != nil {
		return err
	}

	if err := s.users.SetPassword(ctx, userID, newPassword); err != nil {
		// A token for a since-deleted user is no longer redeemable.
		if errors.Is(err, users.ErrNotFound) {
			return ErrTokenMalformed
		}
		return err
	}

	return nil
}
