package store

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/remindful/todo-api/internal/clock"
	"github.com/remindful/todo-api/internal/models"
)

// UserStore keeps user records in process memory. The todo core only consumes
// existence checks; the full record is kept for the user API surface.
type UserStore struct {
	mu      sync.RWMutex
	users   map[uuid.UUID]*models.User
	byEmail map[string]uuid.UUID
	clock   clock.Clock
}

// NewUserStore creates an empty user store.
func NewUserStore(clk clock.Clock) *UserStore {
	return &UserStore{
		users:   make(map[uuid.UUID]*models.User),
		byEmail: make(map[string]uuid.UUID),
		clock:   clk,
	}
}

// Create stores a new user and returns a copy of the stored record.
func (s *UserStore) Create(ctx context.Context, user *models.User) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	email := strings.ToLower(strings.TrimSpace(user.Email))
	if id, exists := s.byEmail[email]; exists {
		existing := *s.users[id]
		return &existing, nil
	}

	now := s.clock.Now()
	stored := *user
	stored.ID = uuid.New()
	stored.Email = email
	stored.CreatedAt = now
	stored.UpdatedAt = now

	s.users[stored.ID] = &stored
	s.byEmail[email] = stored.ID

	copied := stored
	return &copied, nil
}

// GetByID retrieves a user by ID.
func (s *UserStore) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *user
	return &copied, nil
}

// GetByEmail retrieves a user by email.
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *s.users[id]
	return &copied, nil
}
