package search

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a history entry cannot be located.
var ErrNotFound = errors.New("search history not found")

// ErrValidation is returned when input validation fails.
var ErrValidation = errors.New("validation error")

// ValidationError wraps a validation message so callers can distinguish
// client errors from internal failures.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// Entry records one product search a user performed.
type Entry struct {
	ID         uuid.UUID `db:"id" json:"id"`
	UserID     uuid.UUID `db:"user_id" json:"user_id"`
	Query      string    `db:"query" json:"search_query"`
	SearchedAt time.Time `db:"searched_at" json:"search_date"`
}

// Repository defines the persistence contract for search history.
type Repository interface {
	Create(ctx context.Context, entry Entry) (Entry, error)
	Get(ctx context.Context, id uuid.UUID) (Entry, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Entry, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
