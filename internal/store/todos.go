package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/remindful/todo-api/internal/clock"
	"github.com/remindful/todo-api/internal/models"
	"go.uber.org/zap"
)

// ErrNotFound is returned when a record does not exist or is soft-deleted.
// Callers translate it into their own not-found signalling.
var ErrNotFound = errors.New("record not found")

const (
	// DefaultPage is used when the requested page is below 1
	DefaultPage = 1
	// MinPageSize is the smallest allowed page size
	MinPageSize = 1
	// MaxPageSize is the largest allowed page size
	MaxPageSize = 100
)

// NormalizePage floors page to >= 1 and clamps limit into [1, 100]. Invalid
// values are corrected rather than rejected.
func NormalizePage(page, limit int) (int, int) {
	if page < DefaultPage {
		page = DefaultPage
	}
	if limit < MinPageSize {
		limit = MinPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	return page, limit
}

// TodoPatch carries the fields Update may merge. Nil fields are left
// untouched. Owner and creation timestamp are deliberately absent: they are
// immutable after creation.
type TodoPatch struct {
	Title       *string
	Description *string
	Status      *models.TodoStatus
	RemindAt    **time.Time
	SharedWith  *[]uuid.UUID
}

// TodoStore keeps todo records in process memory. It exclusively owns the
// canonical records: every value crossing its boundary, in or out, is a deep
// copy, so callers can never reach store-internal state.
type TodoStore struct {
	mu     sync.RWMutex
	todos  map[uuid.UUID]*models.Todo
	order  []uuid.UUID
	clock  clock.Clock
	logger *zap.Logger
}

// NewTodoStore creates an empty todo store. clk must not be nil.
func NewTodoStore(clk clock.Clock, logger *zap.Logger) *TodoStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TodoStore{
		todos:  make(map[uuid.UUID]*models.Todo),
		clock:  clk,
		logger: logger,
	}
}

// Create stores a new todo and returns a copy of the stored record. The id is
// freshly generated; status, timestamps and the share set are forced to their
// initial values regardless of what the input carries.
func (s *TodoStore) Create(ctx context.Context, todo *models.Todo) (*models.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	stored := todo.Clone()
	stored.ID = uuid.New()
	stored.Status = models.TodoStatusPending
	stored.SharedWith = []uuid.UUID{}
	stored.CreatedAt = now
	stored.UpdatedAt = now
	stored.DeletedAt = nil

	s.todos[stored.ID] = stored
	s.order = append(s.order, stored.ID)

	s.logger.Debug("todo_created",
		zap.String("todo_id", stored.ID.String()),
		zap.String("owner_id", stored.OwnerID.String()),
	)

	return stored.Clone(), nil
}

// GetByID retrieves a todo by ID, excluding soft-deleted records.
func (s *TodoStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Todo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	todo, ok := s.todos[id]
	if !ok || todo.Deleted() {
		return nil, ErrNotFound
	}
	return todo.Clone(), nil
}

// Update merges the set fields of patch into the record and refreshes
// UpdatedAt. It returns ErrNotFound for unknown or soft-deleted ids and never
// creates a record. Status changes go through the lifecycle rules; an
// invalid transition rejects the whole patch.
func (s *TodoStore) Update(ctx context.Context, id uuid.UUID, patch TodoPatch) (*models.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	todo, ok := s.todos[id]
	if !ok || todo.Deleted() {
		return nil, ErrNotFound
	}

	// The lifecycle check runs here, under the lock, against the canonical
	// record: a caller deciding from a stale read cannot move a record
	// through an illegal transition. A same-status patch is a no-op. The
	// check comes first so a rejected patch leaves the record untouched.
	if patch.Status != nil && *patch.Status != todo.Status {
		if err := todo.Transition(*patch.Status); err != nil {
			return nil, err
		}
	}
	if patch.Title != nil {
		todo.Title = *patch.Title
	}
	if patch.Description != nil {
		todo.Description = *patch.Description
	}
	if patch.RemindAt != nil {
		if *patch.RemindAt == nil {
			todo.RemindAt = nil
		} else {
			remindAt := **patch.RemindAt
			todo.RemindAt = &remindAt
		}
	}
	if patch.SharedWith != nil {
		shared := make([]uuid.UUID, len(*patch.SharedWith))
		copy(shared, *patch.SharedWith)
		todo.SharedWith = shared
	}
	todo.UpdatedAt = s.clock.Now()

	return todo.Clone(), nil
}

// ListForUser returns non-deleted todos the user owns or is shared on, in
// insertion order, paginated after filtering. The second return value is the
// total number of matching records before pagination.
func (s *TodoStore) ListForUser(ctx context.Context, userID uuid.UUID, page, limit int) ([]*models.Todo, int, error) {
	page, limit = NormalizePage(page, limit)

	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []*models.Todo
	for _, id := range s.order {
		todo := s.todos[id]
		if todo.Deleted() || !todo.VisibleTo(userID) {
			continue
		}
		matched = append(matched, todo)
	}

	total := len(matched)
	start := (page - 1) * limit
	if start >= total {
		return []*models.Todo{}, total, nil
	}
	end := start + limit
	if end > total {
		end = total
	}

	result := make([]*models.Todo, 0, end-start)
	for _, todo := range matched[start:end] {
		result = append(result, todo.Clone())
	}
	return result, total, nil
}

// Delete soft-deletes a todo by setting its tombstone timestamp and returns
// the tombstoned copy. Already-deleted and unknown ids yield ErrNotFound.
func (s *TodoStore) Delete(ctx context.Context, id uuid.UUID) (*models.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	todo, ok := s.todos[id]
	if !ok || todo.Deleted() {
		return nil, ErrNotFound
	}

	now := s.clock.Now()
	todo.DeletedAt = &now
	todo.UpdatedAt = now

	s.logger.Debug("todo_soft_deleted", zap.String("todo_id", id.String()))

	return todo.Clone(), nil
}

// Share adds targetUserID to the todo's share set. Sharing with an existing
// sharee is a no-op that returns the current state.
func (s *TodoStore) Share(ctx context.Context, id, targetUserID uuid.UUID) (*models.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	todo, ok := s.todos[id]
	if !ok || todo.Deleted() {
		return nil, ErrNotFound
	}

	if todo.SharedWithUser(targetUserID) {
		return todo.Clone(), nil
	}

	todo.SharedWith = append(todo.SharedWith, targetUserID)
	todo.UpdatedAt = s.clock.Now()

	return todo.Clone(), nil
}

// Unshare removes targetUserID from the todo's share set. Removing an absent
// user is a no-op that returns the current state.
func (s *TodoStore) Unshare(ctx context.Context, id, targetUserID uuid.UUID) (*models.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	todo, ok := s.todos[id]
	if !ok || todo.Deleted() {
		return nil, ErrNotFound
	}

	if !todo.SharedWithUser(targetUserID) {
		return todo.Clone(), nil
	}

	shared := make([]uuid.UUID, 0, len(todo.SharedWith)-1)
	for _, uid := range todo.SharedWith {
		if uid != targetUserID {
			shared = append(shared, uid)
		}
	}
	todo.SharedWith = shared
	todo.UpdatedAt = s.clock.Now()

	return todo.Clone(), nil
}

// DueReminders returns non-deleted pending todos whose remind_at is at or
// before now. Done and already reminder_due records are excluded; that filter
// is what keeps reminder processing from running twice over the same record.
func (s *TodoStore) DueReminders(ctx context.Context, now time.Time) ([]*models.Todo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var due []*models.Todo
	for _, id := range s.order {
		todo := s.todos[id]
		if todo.Deleted() || todo.Status != models.TodoStatusPending {
			continue
		}
		if todo.RemindAt == nil || todo.RemindAt.After(now) {
			continue
		}
		due = append(due, todo.Clone())
	}
	return due, nil
}
