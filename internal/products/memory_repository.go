package products

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// InMemoryRepository is a map-backed Repository used for local development
// and tests.
type InMemoryRepository struct {
	mu       sync.RWMutex
	products map[uuid.UUID]Product
}

// NewInMemoryRepository creates an empty in-memory repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{products: make(map[uuid.UUID]Product)}
}

// Create stores a new product.
func (r *InMemoryRepository) Create(_ context.Context, product Product) (Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.products[product.ID] = product
	return product, nil
}

// Get returns the product with the given id.
func (r *InMemoryRepository) Get(_ context.Context, id uuid.UUID) (Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if product, ok := r.products[id]; ok {
		return product, nil
	}
	return Product{}, ErrNotFound
}

// List returns all products ordered by name.
func (r *InMemoryRepository) List(_ context.Context) ([]Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Product, 0, len(r.products))
	for _, product := range r.products {
		out = append(out, product)
	}
	sortByName(out)
	return out, nil
}

// Search returns products whose name contains the query, case-insensitively.
func (r *InMemoryRepository) Search(_ context.Context, query string) ([]Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	needle := strings.ToLower(query)
	out := []Product{}
	for _, product := range r.products {
		if strings.Contains(strings.ToLower(product.Name), needle) {
			out = append(out, product)
		}
	}
	sortByName(out)
	return out, nil
}

// Update rewrites an existing product.
func (r *InMemoryRepository) Update(_ context.Context, product Product) (Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[product.ID]; !ok {
		return Product{}, ErrNotFound
	}
	r.products[product.ID] = product
	return product, nil
}

// Delete removes a product.
func (r *InMemoryRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return ErrNotFound
	}
	delete(r.products, id)
	return nil
}

func sortByName(products []Product) {
	sort.Slice(products, func(i, j int) bool {
		return strings.ToLower(products[i].Name) < strings.ToLower(products[j].Name)
	})
}
