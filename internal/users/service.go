package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidCredentials is returned when email/password authentication fails.
// It deliberately does not distinguish an unknown email from a wrong password.
var ErrInvalidCredentials = errors.New("invalid email or password")

// Service orchestrates validation and persistence for users.
type Service struct {
	repo Repository
}

// NewService wires a Service with the provided repository.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// RegisterInput captures the data needed to register a new user.
type RegisterInput struct {
	Username       string
	Email          string
	PhoneNumber    string
	Password       string
	ProfilePicture string
	IsAdmin        bool
}

// UpdateInput captures the editable fields for an existing user. Nil fields
// are left untouched.
type UpdateInput struct {
	Username       *string
	Email          *string
	PhoneNumber    *string
	Password       *string
	ProfilePicture *string
	IsAdmin        *bool
}

// Register validates input, hashes the password and stores the user.
func (s *Service) Register(ctx context.Context, input RegisterInput) (User, error) {
	username := strings.TrimSpace(input.Username)
	email := normalizeEmail(input.Email)

	if username == "" {
		return User{}, validationErr("username is required")
	}
	if err := validateEmail(email); err != nil {
		return User{}, err
	}
	if len(input.Password) < 8 {
		return User{}, validationErr("password must be at least 8 characters")
	}

	hash, err := HashPassword(input.Password)
	if err != nil {
		return User{}, err
	}

	now := time.Now().UTC()
	user := User{
		ID:             uuid.New(),
		Username:       username,
		Email:          email,
		PhoneNumber:    strings.TrimSpace(input.PhoneNumber),
		PasswordHash:   hash,
		ProfilePicture: strings.TrimSpace(input.ProfilePicture),
		IsAdmin:        input.IsAdmin,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	return s.repo.Create(ctx, user)
}

// Authenticate verifies the email/password pair and returns the user.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	user, err := s.repo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil || !CheckPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// Get retrieves a user by ID.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return User{}, err
	}
	if user == nil {
		return User{}, ErrNotFound
	}
	return *user, nil
}

// Update applies modifications to an existing user, re-hashing the password
// when one is supplied.
func (s *Service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (User, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return User{}, err
	}

	if input.Username != nil {
		username := strings.TrimSpace(*input.Username)
		if username == "" {
			return User{}, validationErr("username is required")
		}
		existing.Username = username
	}

	if input.Email != nil {
		email := normalizeEmail(*input.Email)
		if err := validateEmail(email); err != nil {
			return User{}, err
		}
		existing.Email = email
	}

	if input.PhoneNumber != nil {
		existing.PhoneNumber = strings.TrimSpace(*input.PhoneNumber)
	}

	if input.Password != nil {
		if len(*input.Password) < 8 {
			return User{}, validationErr("password must be at least 8 characters")
		}
		hash, err := HashPassword(*input.Password)
		if err != nil {
			return User{}, err
		}
		existing.PasswordHash = hash
	}

	if input.ProfilePicture != nil {
		existing.ProfilePicture = strings.TrimSpace(*input.ProfilePicture)
	}

	if input.IsAdmin != nil {
		existing.IsAdmin = *input.IsAdmin
	}

	existing.UpdatedAt = time.Now().UTC()
	return s.repo.Update(ctx, existing)
}

// SetPassword replaces the stored password hash. Used by the reset flow.
func (s *Service) SetPassword(ctx context.Context, id uuid.UUID, password string) error {
	if len(password) < 8 {
		return validationErr("password must be at least 8 characters")
	}

	existing, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	hash, err := HashPassword(password)
	if err != nil {
		return err
	}

	existing.PasswordHash = hash
	existing.UpdatedAt = time.Now().UTC()
	_, err = s.repo.Update(ctx, existing)
	return err
}

// Delete removes a user.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// FindByEmail exposes email lookup for the auth flows.
func (s *Service) FindByEmail(ctx context.Context, email string) (*User, error) {
	return s.repo.FindByEmail(ctx, normalizeEmail(email))
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateEmail(email string) error {
	if email == "" {
		return validationErr("email is required")
	}
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return validationErr("email is invalid")
	}
	return nil
}

func validationErr(message string) error {
	return &ValidationError{Message: message}
}
