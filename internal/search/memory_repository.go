package search

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// InMemoryRepository is a map-backed Repository used for local development
// and tests.
type InMemoryRepository struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]Entry
}

// NewInMemoryRepository creates an empty in-memory repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{entries: make(map[uuid.UUID]Entry)}
}

// Create stores a new entry.
func (r *InMemoryRepository) Create(_ context.Context, entry Entry) (Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries[entry.ID] = entry
	return entry, nil
}

// Get returns the entry with the given id.
func (r *InMemoryRepository) Get(_ context.Context, id uuid.UUID) (Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if entry, ok := r.entries[id]; ok {
		return entry, nil
	}
	return Entry{}, ErrNotFound
}

// ListByUser returns a user's entries, most recent first.
func (r *InMemoryRepository) ListByUser(_ context.Context, userID uuid.UUID) ([]Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []Entry{}
	for _, entry := range r.entries {
		if entry.UserID == userID {
			out = append(out, entry)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].SearchedAt.After(out[j].SearchedAt)
	})
	return out, nil
}

// Delete removes an entry.
func (r *InMemoryRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.entries[id]; !ok {
		return ErrNotFound
	}
	delete(r.entries, id)
	return nil
}
