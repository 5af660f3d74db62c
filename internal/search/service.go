package search

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"shopcrawl/internal/products"
)

// Service records and serves per-user search history and runs product
// searches on behalf of users.
type Service struct {
	repo       Repository
	productSvc *products.Service
	logger     *slog.Logger
}

// NewService wires a Service with the provided repository and product service.
func NewService(repo Repository, productSvc *products.Service, logger *slog.Logger) *Service {
	return &Service{repo: repo, productSvc: productSvc, logger: logger}
}

// Search runs a product search for the user and records it in their history.
// The search result is returned even if recording the history entry fails;
// history is best-effort bookkeeping, not part of the search contract.
func (s *Service) Search(ctx context.Context, userID uuid.UUID, query string) ([]products.Product, *Entry, error) {
	results, err := s.productSvc.Search(ctx, query)
	if err != nil {
		return nil, nil, err
	}

	entry, err := s.Save(ctx, userID, query)
	if err != nil {
		s.logger.Warn("failed to record search history", "error", err, "user_id", userID)
		return results, nil, nil
	}

	return results, &entry, nil
}

// Save stores a history entry for the user.
func (s *Service) Save(ctx context.Context, userID uuid.UUID, query string) (Entry, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Entry{}, validationErr("search_query is required")
	}
	if userID == uuid.Nil {
		return Entry{}, validationErr("user_id is required")
	}

	entry := Entry{
		ID:         uuid.New(),
		UserID:     userID,
		Query:      query,
		SearchedAt: time.Now().UTC(),
	}

	created, err := s.repo.Create(ctx, entry)
	if err != nil {
		return Entry{}, fmt.Errorf("save search: %w", err)
	}
	return created, nil
}

// Get retrieves a single history entry.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (Entry, error) {
	return s.repo.Get(ctx, id)
}

// ListByUser returns a user's history, most recent first.
func (s *Service) ListByUser(ctx context.Context, userID uuid.UUID) ([]Entry, error) {
	return s.repo.ListByUser(ctx, userID)
}

// Delete removes a history entry.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func validationErr(message string) error {
	return &ValidationError{Message: message}
}
