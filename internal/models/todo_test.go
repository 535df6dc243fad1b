package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestTodoTransition(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		from    TodoStatus
		to      TodoStatus
		wantErr bool
	}{
		{name: "pending to done", from: TodoStatusPending, to: TodoStatusDone, wantErr: false},
		{name: "pending to reminder_due", from: TodoStatusPending, to: TodoStatusReminderDue, wantErr: false},
		{name: "reminder_due to done", from: TodoStatusReminderDue, to: TodoStatusDone, wantErr: false},
		{name: "done to reminder_due rejected", from: TodoStatusDone, to: TodoStatusReminderDue, wantErr: true},
		{name: "done to pending rejected", from: TodoStatusDone, to: TodoStatusPending, wantErr: true},
		{name: "reminder_due to pending rejected", from: TodoStatusReminderDue, to: TodoStatusPending, wantErr: true},
		{name: "done to done rejected", from: TodoStatusDone, to: TodoStatusDone, wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			todo := &Todo{ID: uuid.New(), Status: tt.from}
			err := todo.Transition(tt.to)

			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %s -> %s, got nil", tt.from, tt.to)
				}
				if todo.Status != tt.from {
					t.Errorf("status changed on rejected transition: got %s, want %s", todo.Status, tt.from)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error for %s -> %s: %v", tt.from, tt.to, err)
			}
			if todo.Status != tt.to {
				t.Errorf("status = %s, want %s", todo.Status, tt.to)
			}
		})
	}
}

func TestTodoClone(t *testing.T) {
	t.Parallel()

	remindAt := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	sharee := uuid.New()
	original := &Todo{
		ID:         uuid.New(),
		OwnerID:    uuid.New(),
		Title:      "water the plants",
		Status:     TodoStatusPending,
		RemindAt:   &remindAt,
		SharedWith: []uuid.UUID{sharee},
	}

	clone := original.Clone()

	clone.Title = "mutated"
	clone.SharedWith[0] = uuid.New()
	*clone.RemindAt = clone.RemindAt.Add(time.Hour)

	if original.Title != "water the plants" {
		t.Errorf("clone mutation leaked into original title: %s", original.Title)
	}
	if original.SharedWith[0] != sharee {
		t.Errorf("clone mutation leaked into original shared_with: %v", original.SharedWith)
	}
	if !original.RemindAt.Equal(remindAt) {
		t.Errorf("clone mutation leaked into original remind_at: %v", original.RemindAt)
	}
}

func TestTodoVisibleTo(t *testing.T) {
	t.Parallel()

	owner := uuid.New()
	sharee := uuid.New()
	stranger := uuid.New()
	todo := &Todo{OwnerID: owner, SharedWith: []uuid.UUID{sharee}}

	if !todo.VisibleTo(owner) {
		t.Error("owner should see the todo")
	}
	if !todo.VisibleTo(sharee) {
		t.Error("sharee should see the todo")
	}
	if todo.VisibleTo(stranger) {
		t.Error("stranger should not see the todo")
	}
}
