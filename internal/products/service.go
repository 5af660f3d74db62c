package products

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"shopcrawl/internal/shops"
)

// Service orchestrates validation and persistence for products.
type Service struct {
	repo     Repository
	shopRepo shops.Repository
}

// NewService wires a Service with the provided repositories. The shop
// repository backs the shop-must-exist check on create and update.
func NewService(repo Repository, shopRepo shops.Repository) *Service {
	return &Service{repo: repo, shopRepo: shopRepo}
}

// CreateProductInput captures the data needed to create a new product.
type CreateProductInput struct {
	Name   string
	Price  float64
	ShopID uuid.UUID
}

// UpdateProductInput captures the editable fields for an existing product.
// Nil fields are left untouched.
type UpdateProductInput struct {
	Name   *string
	Price  *float64
	ShopID *uuid.UUID
}

// Create validates and persists a new product.
func (s *Service) Create(ctx context.Context, input CreateProductInput) (Product, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return Product{}, validationErr("product_name is required")
	}
	if input.Price < 0 {
		return Product{}, validationErr("product_price must not be negative")
	}
	if err := s.checkShop(ctx, input.ShopID); err != nil {
		return Product{}, err
	}

	now := time.Now().UTC()
	product := Product{
		ID:        uuid.New(),
		Name:      name,
		Price:     input.Price,
		ShopID:    input.ShopID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	return s.repo.Create(ctx, product)
}

// Get retrieves a product by ID.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (Product, error) {
	return s.repo.Get(ctx, id)
}

// List returns all products.
func (s *Service) List(ctx context.Context) ([]Product, error) {
	return s.repo.List(ctx)
}

// Search returns products whose name matches the query, case-insensitively.
func (s *Service) Search(ctx context.Context, query string) ([]Product, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, validationErr("query is required")
	}
	return s.repo.Search(ctx, query)
}

// Update applies modifications to an existing product.
func (s *Service) Update(ctx context.Context, id uuid.UUID, input UpdateProductInput) (Product, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return Product{}, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return Product{}, validationErr("product_name is required")
		}
		existing.Name = name
	}

	if input.Price != nil {
		if *input.Price < 0 {
			return Product{}, validationErr("product_price must not be negative")
		}
		existing.Price = *input.Price
	}

	if input.ShopID != nil {
		if err := s.checkShop(ctx, *input.ShopID); err != nil {
			return Product{}, err
		}
		existing.ShopID = *input.ShopID
	}

	existing.UpdatedAt = time.Now().UTC()
	return s.repo.Update(ctx, existing)
}

// Delete removes a product.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) checkShop(ctx context.Context, shopID uuid.UUID) error {
	if shopID == uuid.Nil {
		return validationErr("shop_id is required")
	}
	if _, err := s.shopRepo.Get(ctx, shopID); err != nil {
		if errors.Is(err, shops.ErrNotFound) {
			return validationErr("shop does not exist")
		}
		return fmt.Errorf("check shop: %w", err)
	}
	return nil
}

func validationErr(message string) error {
	return &ValidationError{Message: message}
}
