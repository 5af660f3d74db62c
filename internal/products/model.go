package products

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a product cannot be located.
var ErrNotFound = errors.New("product not found")

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

// Product is a crawled listing that belongs to a shop.
type Product struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"product_name"`
	Price     float64   `db:"price" json:"product_price"`
	ShopID    uuid.UUID `db:"shop_id" json:"shop_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Repository defines the persistence contract for products.
type Repository interface {
	Create(ctx context.Context, product Product) (Product, error)
	Get(ctx context.Context, id uuid.UUID) (Product, error)
	List(ctx context.Context) ([]Product, error)
	// Search returns products whose name contains the query,
	// case-insensitively.
	Search(ctx context.Context, query string) ([]Product, error)
	Update(ctx context.Context, product Product) (Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
