package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/remindful/todo-api/internal/models"
)

// TodoRepository defines the interface for todo store operations. The service
// layer depends on this interface so tests can substitute implementations.
type TodoRepository interface {
	Create(ctx context.Context, todo *models.Todo) (*models.Todo, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Todo, error)
	Update(ctx context.Context, id uuid.UUID, patch TodoPatch) (*models.Todo, error)
	ListForUser(ctx context.Context, userID uuid.UUID, page, limit int) ([]*models.Todo, int, error)
	Delete(ctx context.Context, id uuid.UUID) (*models.Todo, error)
	Share(ctx context.Context, id, targetUserID uuid.UUID) (*models.Todo, error)
	Unshare(ctx context.Context, id, targetUserID uuid.UUID) (*models.Todo, error)
	DueReminders(ctx context.Context, now time.Time) ([]*models.Todo, error)
}

// UserLookup is the slice of the user store the todo core consumes: existence
// by identifier.
type UserLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// Ensure concrete types implement the interfaces
var (
	_ TodoRepository = (*TodoStore)(nil)
	_ UserLookup     = (*UserStore)(nil)
)
