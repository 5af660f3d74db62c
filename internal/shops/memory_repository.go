package shops

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
	mu    sync.RWMutex
	shops map[uuid.UUID]Shop
}

// NewInMemoryRepository creates an empty in-memory repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{shops: make(map[uuid.UUID]Shop)}
}

// Create stores a new shop.
func (r *InMemoryRepository) Create(_ context.Context, shop Shop) (Shop, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.shops[shop.ID] = shop
	return shop, nil
}

// Get returns the shop with the given id.
func (r *InMemoryRepository) Get(_ context.Context, id uuid.UUID) (Shop, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if shop, ok := r.shops[id]; ok {
		return shop, nil
	}
	return Shop{}, ErrNotFound
}

// List returns all shops ordered by name.
func (r *InMemoryRepository) List(_ context.Context) ([]Shop, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Shop, 0, len(r.shops))
	for _, shop := range r.shops {
		out = append(out, shop)
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out, nil
}

// Update rewrites an existing shop.
func (r *InMemoryRepository) Update(_ context.Context, shop Shop) (Shop, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.shops[shop.ID]; !ok {
		return Shop{}, ErrNotFound
	}
	r.shops[shop.ID] = shop
	return shop, nil
}

// Delete removes a shop.
func (r *InMemoryRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.shops[id]; !ok {
		return ErrNotFound
	}
	delete(r.shops, id)
	return nil
}
