package shops

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a shop cannot be located.
var ErrNotFound = errors.New("shop not found")

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

// Shop is an online store whose products can be crawled and compared.
type Shop struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	URL       string    `db:"url" json:"url"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Repository defines the persistence contract for shops.
type Repository interface {
	Create(ctx context.Context, shop Shop) (Shop, error)
	Get(ctx context.Context, id uuid.UUID) (Shop, error)
	List(ctx context.Context) ([]Shop, error)
	Update(ctx context.Context, shop Shop) (Shop, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
