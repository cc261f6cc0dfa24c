package mocks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/custodia-labs/credentials-core/internal/core/domain"
	"github.com/custodia-labs/credentials-core/internal/core/ports/driven"
)

// Ensure MockUserStore implements UserStore
var _ driven.UserStore = (*MockUserStore)(nil)

// MockUserStore is an in-memory UserStore for testing.
// FindErr and CreateErr, when set, are returned instead of touching the map.
type MockUserStore struct {
	mu     sync.RWMutex
	users  map[string]*domain.User
	nextID int

	FindErr   error
	CreateErr error
	PingErr   error
}

// NewMockUserStore creates a new MockUserStore
func NewMockUserStore() *MockUserStore {
	return &MockUserStore{
		users: make(map[string]*domain.User),
	}
}

func (m *MockUserStore) FindActiveByEmail(ctx context.Context, email string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.FindErr != nil {
		return nil, m.FindErr
	}
	for _, user := range m.users {
		if user.Email == email && user.IsActive() {
			u := *user
			return &u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MockUserStore) Create(ctx context.Context, nu domain.NewUser) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateErr != nil {
		return nil, m.CreateErr
	}
	for _, user := range m.users {
		if user.Email == nu.Email && user.IsActive() {
			return nil, fmt.Errorf("email %s: %w", nu.Email, domain.ErrAlreadyExists)
		}
	}

	m.nextID++
	now := time.Now()
	user := &domain.User{
		ID:        fmt.Sprintf("user-%d", m.nextID),
		Email:     nu.Email,
		Password:  nu.Password,
		Name:      nu.Name,
		BirthDate: nu.BirthDate,
		CreatedAt: now,
		UpdatedAt: now,
	}
	m.users[user.ID] = user

	u := *user
	return &u, nil
}

func (m *MockUserStore) Ping(ctx context.Context) error {
	return m.PingErr
}

// Helper methods for testing

// Put stores a user as-is, bypassing uniqueness checks
func (m *MockUserStore) Put(user *domain.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.ID] = user
}

// Get returns the stored user by ID
func (m *MockUserStore) Get(id string) (*domain.User, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	user, ok := m.users[id]
	return user, ok
}

func (m *MockUserStore) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.users)
}
