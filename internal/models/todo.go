package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// TodoStatus represents the status of a todo
type TodoStatus string

const (
	TodoStatusPending     TodoStatus = "pending"
	TodoStatusDone        TodoStatus = "done"
	TodoStatusReminderDue TodoStatus = "reminder_due"
)

// Todo represents a todo item
type Todo struct {
	ID          uuid.UUID   `json:"id"`
	OwnerID     uuid.UUID   `json:"owner_id"`
	Title       string      `json:"title"`
	Description string      `json:"description,omitempty"`
	Status      TodoStatus  `json:"status"`
	RemindAt    *time.Time  `json:"remind_at,omitempty"`
	SharedWith  []uuid.UUID `json:"shared_with"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
	DeletedAt   *time.Time  `json:"deleted_at,omitempty"`
}

// Transition moves the todo to a new status, rejecting moves the lifecycle
// does not allow. Valid transitions: pending->done, pending->reminder_due,
// reminder_due->done. Done is terminal.
func (t *Todo) Transition(to TodoStatus) error {
	var allowed []TodoStatus
	switch t.Status {
	case TodoStatusPending:
		allowed = []TodoStatus{TodoStatusDone, TodoStatusReminderDue}
	case TodoStatusReminderDue:
		allowed = []TodoStatus{TodoStatusDone}
	case TodoStatusDone:
		// terminal
	}
	for _, next := range allowed {
		if next == to {
			t.Status = to
			return nil
		}
	}
	return fmt.Errorf("invalid status transition %s -> %s for todo %s", t.Status, to, t.ID)
}

// Deleted reports whether the todo carries a soft-delete tombstone.
func (t *Todo) Deleted() bool {
	return t.DeletedAt != nil
}

// SharedWithUser reports whether userID is in the shared-with set.
func (t *Todo) SharedWithUser(userID uuid.UUID) bool {
	for _, id := range t.SharedWith {
		if id == userID {
			return true
		}
	}
	return false
}

// VisibleTo reports whether userID may read this todo (owner or sharee).
func (t *Todo) VisibleTo(userID uuid.UUID) bool {
	return t.OwnerID == userID || t.SharedWithUser(userID)
}

// Clone returns a deep copy of the todo. Callers may mutate the copy freely
// without affecting the original.
func (t *Todo) Clone() *Todo {
	c := *t
	if t.SharedWith != nil {
		c.SharedWith = make([]uuid.UUID, len(t.SharedWith))
		copy(c.SharedWith, t.SharedWith)
	}
	if t.RemindAt != nil {
		remindAt := *t.RemindAt
		c.RemindAt = &remindAt
	}
	if t.DeletedAt != nil {
		deletedAt := *t.DeletedAt
		c.DeletedAt = &deletedAt
	}
	return &c
}
