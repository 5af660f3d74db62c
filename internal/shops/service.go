package shops

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Service orchestrates validation and persistence for shops.
type Service struct {
	repo Repository
}

// NewService wires a Service with the provided repository.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateShopInput captures the data needed to create a new shop.
type CreateShopInput struct {
	Name string
	URL  string
}

// UpdateShopInput captures the editable fields for an existing shop. Nil
// fields are left untouched.
type UpdateShopInput struct {
	Name *string
	URL  *string
}

// Create validates and persists a new shop.
func (s *Service) Create(ctx context.Context, input CreateShopInput) (Shop, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return Shop{}, validationErr("name is required")
	}
	shopURL, err := normalizeURL(input.URL)
	if err != nil {
		return Shop{}, err
	}

	now := time.Now().UTC()
	shop := Shop{
		ID:        uuid.New(),
		Name:      name,
		URL:       shopURL,
		CreatedAt: now,
		UpdatedAt: now,
	}

	return s.repo.Create(ctx, shop)
}

// Get retrieves a shop by ID.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (Shop, error) {
	return s.repo.Get(ctx, id)
}

// List returns all shops ordered by name.
func (s *Service) List(ctx context.Context) ([]Shop, error) {
	return s.repo.List(ctx)
}

// Update applies modifications to an existing shop.
func (s *Service) Update(ctx context.Context, id uuid.UUID, input UpdateShopInput) (Shop, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return Shop{}, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return Shop{}, validationErr("name is required")
		}
		existing.Name = name
	}

	if input.URL != nil {
		shopURL, err := normalizeURL(*input.URL)
		if err != nil {
			return Shop{}, err
		}
		existing.URL = shopURL
	}

	existing.UpdatedAt = time.Now().UTC()
	return s.repo.Update(ctx, existing)
}

// Delete removes a shop.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func normalizeURL(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", validationErr("url is required")
	}
	parsed, err := url.Parse(trimmed)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return "", validationErr("url must be absolute")
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", validationErr("url scheme must be http or https")
	}
	return trimmed, nil
}

func validationErr(message string) error {
	return &ValidationError{Message: message}
}
