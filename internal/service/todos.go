package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/remindful/todo-api/internal/clock"
	"github.com/remindful/todo-api/internal/metrics"
	"github.com/remindful/todo-api/internal/models"
	"github.com/remindful/todo-api/internal/store"
	"github.com/remindful/todo-api/internal/validation"
	"go.uber.org/zap"
)

// TodoService enforces validation and lifecycle rules on top of the todo
// store. It holds no state of its own and is safe for concurrent use.
type TodoService struct {
	todos   store.TodoRepository
	users   store.UserLookup
	clock   clock.Clock
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// NewTodoService creates a new todo service. metrics may be nil.
func NewTodoService(todos store.TodoRepository, users store.UserLookup, clk clock.Clock, logger *zap.Logger, m *metrics.Metrics) *TodoService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TodoService{
		todos:   todos,
		users:   users,
		clock:   clk,
		logger:  logger,
		metrics: m,
	}
}

// CreateTodoInput carries the fields for Create. RemindAt, when set, must be
// an RFC 3339 timestamp.
type CreateTodoInput struct {
	OwnerID     uuid.UUID
	Title       string
	Description string
	RemindAt    *string
}

// UpdateTodoInput carries the fields Update may change. Nil fields are left
// untouched; an empty RemindAt string clears the reminder.
type UpdateTodoInput struct {
	Title       *string
	Description *string
	RemindAt    *string
}

// Create validates input, checks the owner exists and stores a new todo.
func (s *TodoService) Create(ctx context.Context, in CreateTodoInput) (*models.Todo, error) {
	title := validation.SanitizeText(in.Title)
	if title == "" {
		return nil, &ValidationError{Field: "title", Message: "title must not be empty"}
	}

	if _, err := s.users.GetByID(ctx, in.OwnerID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, &NotFoundError{Resource: "user", ID: in.OwnerID.String()}
		}
		return nil, fmt.Errorf("failed to look up owner %s: %w", in.OwnerID, err)
	}

	remindAt, err := parseRemindAt(in.RemindAt)
	if err != nil {
		return nil, err
	}

	todo, err := s.todos.Create(ctx, &models.Todo{
		OwnerID:     in.OwnerID,
		Title:       title,
		Description: in.Description,
		RemindAt:    remindAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create todo: %w", err)
	}

	if s.metrics != nil {
		s.metrics.TodosCreated.Inc()
	}
	s.logger.Info("todo_created",
		zap.String("todo_id", todo.ID.String()),
		zap.String("owner_id", todo.OwnerID.String()),
		zap.Bool("has_reminder", todo.RemindAt != nil),
	)

	return todo, nil
}

// Get retrieves a todo by ID.
func (s *TodoService) Get(ctx context.Context, id uuid.UUID) (*models.Todo, error) {
	todo, err := s.todos.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, &NotFoundError{Resource: "todo", ID: id.String()}
		}
		return nil, fmt.Errorf("failed to get todo %s: %w", id, err)
	}
	return todo, nil
}

// ListForUser returns the todos a user owns or is shared on. page and limit
// are corrected to valid values rather than rejected.
func (s *TodoService) ListForUser(ctx context.Context, userID uuid.UUID, page, limit int) ([]*models.Todo, int, error) {
	todos, total, err := s.todos.ListForUser(ctx, userID, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list todos for user %s: %w", userID, err)
	}
	return todos, total, nil
}

// Update changes title, description or reminder time of a todo. Owner,
// creation timestamp and status are not reachable through this path.
func (s *TodoService) Update(ctx context.Context, id uuid.UUID, in UpdateTodoInput) (*models.Todo, error) {
	patch := store.TodoPatch{}

	if in.Title != nil {
		title := validation.SanitizeText(*in.Title)
		if title == "" {
			return nil, &ValidationError{Field: "title", Message: "title must not be empty"}
		}
		patch.Title = &title
	}
	if in.Description != nil {
		patch.Description = in.Description
	}
	if in.RemindAt != nil {
		remindAt, err := parseRemindAt(in.RemindAt)
		if err != nil {
			return nil, err
		}
		patch.RemindAt = &remindAt
	}

	todo, err := s.todos.Update(ctx, id, patch)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, &NotFoundError{Resource: "todo", ID: id.String()}
		}
		return nil, fmt.Errorf("failed to update todo %s: %w", id, err)
	}
	return todo, nil
}

// Complete transitions a todo to done. Completing an already-done todo
// returns the current state unchanged, without refreshing its timestamp.
func (s *TodoService) Complete(ctx context.Context, id uuid.UUID) (*models.Todo, error) {
	todo, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if todo.Status == models.TodoStatusDone {
		return todo, nil
	}

	if err := todo.Transition(models.TodoStatusDone); err != nil {
		return nil, fmt.Errorf("failed to complete todo %s: %w", id, err)
	}

	done := models.TodoStatusDone
	updated, err := s.todos.Update(ctx, id, store.TodoPatch{Status: &done})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, &NotFoundError{Resource: "todo", ID: id.String()}
		}
		return nil, fmt.Errorf("failed to complete todo %s: %w", id, err)
	}

	s.logger.Info("todo_completed", zap.String("todo_id", id.String()))
	return updated, nil
}

// Delete soft-deletes a todo.
func (s *TodoService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.todos.Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return &NotFoundError{Resource: "todo", ID: id.String()}
		}
		return fmt.Errorf("failed to delete todo %s: %w", id, err)
	}
	s.logger.Info("todo_deleted", zap.String("todo_id", id.String()))
	return nil
}

// Share grants targetUserID read access to a todo. Sharing with an existing
// sharee succeeds as a no-op; sharing with the owner is rejected.
func (s *TodoService) Share(ctx context.Context, id, targetUserID uuid.UUID) (*models.Todo, error) {
	todo, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if targetUserID == todo.OwnerID {
		return nil, &ValidationError{
			Field:   "target_user_id",
			Message: fmt.Sprintf("cannot share todo %s with its owner %s", id, targetUserID),
		}
	}

	if _, err := s.users.GetByID(ctx, targetUserID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, &NotFoundError{Resource: "user", ID: targetUserID.String()}
		}
		return nil, fmt.Errorf("failed to look up user %s: %w", targetUserID, err)
	}

	shared, err := s.todos.Share(ctx, id, targetUserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, &NotFoundError{Resource: "todo", ID: id.String()}
		}
		return nil, fmt.Errorf("failed to share todo %s: %w", id, err)
	}

	s.logger.Info("todo_shared",
		zap.String("todo_id", id.String()),
		zap.String("target_user_id", targetUserID.String()),
	)
	return shared, nil
}

// Unshare revokes targetUserID's access to a todo. Removing an absent sharee
// succeeds as a no-op.
func (s *TodoService) Unshare(ctx context.Context, id, targetUserID uuid.UUID) (*models.Todo, error) {
	todo, err := s.todos.Unshare(ctx, id, targetUserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, &NotFoundError{Resource: "todo", ID: id.String()}
		}
		return nil, fmt.Errorf("failed to unshare todo %s: %w", id, err)
	}
	return todo, nil
}

// ProcessReminders promotes every due pending reminder to reminder_due and
// returns the number of successful promotions. A failure on one record is
// logged and does not abort the rest. Re-running immediately after a
// successful sweep processes nothing: promoted records are no longer pending.
func (s *TodoService) ProcessReminders(ctx context.Context, now time.Time) (int, error) {
	if s.metrics != nil {
		s.metrics.SweepRuns.Inc()
	}

	due, err := s.todos.DueReminders(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("failed to scan due reminders: %w", err)
	}

	processed := 0
	for _, todo := range due {
		if err := todo.Transition(models.TodoStatusReminderDue); err != nil {
			s.logger.Warn("reminder_transition_rejected",
				zap.String("todo_id", todo.ID.String()),
				zap.String("status", string(todo.Status)),
				zap.Error(err),
			)
			if s.metrics != nil {
				s.metrics.SweepFailures.Inc()
			}
			continue
		}

		reminderDue := models.TodoStatusReminderDue
		if _, err := s.todos.Update(ctx, todo.ID, store.TodoPatch{Status: &reminderDue}); err != nil {
			s.logger.Warn("reminder_promotion_failed",
				zap.String("todo_id", todo.ID.String()),
				zap.Error(err),
			)
			if s.metrics != nil {
				s.metrics.SweepFailures.Inc()
			}
			continue
		}

		processed++
		if s.metrics != nil {
			s.metrics.RemindersProcessed.Inc()
		}
	}

	if processed > 0 {
		s.logger.Info("reminders_processed",
			zap.Int("count", processed),
			zap.Time("now", now),
		)
	}
	return processed, nil
}

func parseRemindAt(value *string) (*time.Time, error) {
	if value == nil || *value == "" {
		return nil, nil
	}
	parsed, err := time.Parse(time.RFC3339, *value)
	if err != nil {
		return nil, &ValidationError{
			Field:   "remind_at",
			Message: fmt.Sprintf("%q is not a valid RFC 3339 timestamp", *value),
		}
	}
	utc := parsed.UTC()
	return &utc, nil
}
