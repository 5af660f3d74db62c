package users

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// InMemoryRepository is a map-backed Repository used for local development
// and tests. It enforces the same email uniqueness as the Postgres schema.
type InMemoryRepository struct {
	mu    sync.RWMutex
	users map[uuid.UUID]User
}

// NewInMemoryRepository creates an empty in-memory repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{users: make(map[uuid.UUID]User)}
}

// Create stores a new user, rejecting duplicate emails.
func (r *InMemoryRepository) Create(_ context.Context, user User) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if strings.EqualFold(existing.Email, user.Email) {
			return User{}, ErrEmailTaken
		}
	}

	r.users[user.ID] = user
	return user, nil
}

// FindByID returns the user with the given id, or nil.
func (r *InMemoryRepository) FindByID(_ context.Context, id uuid.UUID) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if user, ok := r.users[id]; ok {
		copied := user
		return &copied, nil
	}
	return nil, nil
}

// FindByEmail returns the user with the given email, or nil.
func (r *InMemoryRepository) FindByEmail(_ context.Context, email string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.users {
		if strings.EqualFold(user.Email, email) {
			copied := user
			return &copied, nil
		}
	}
	return nil, nil
}

// Update rewrites an existing user.
func (r *InMemoryRepository) Update(_ context.Context, user User) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.ID]; !ok {
		return User{}, ErrNotFound
	}

	for id, existing := range r.users {
		if id != user.ID && strings.EqualFold(existing.Email, user.Email) {
			return User{}, ErrEmailTaken
		}
	}

	r.users[user.ID] = user
	return user, nil
}

// Delete removes a user.
func (r *InMemoryRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[id]; !ok {
		return ErrNotFound
	}
	delete(r.users, id)
	return nil
}
