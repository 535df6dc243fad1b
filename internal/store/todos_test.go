package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/remindful/todo-api/internal/clock"
	"github.com/remindful/todo-api/internal/models"
)

func newTestStore(t *testing.T) (*TodoStore, *clock.Manual) {
	t.Helper()
	clk := clock.NewManual(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))
	return NewTodoStore(clk, nil), clk
}

func mustCreate(t *testing.T, s *TodoStore, owner uuid.UUID, title string, remindAt *time.Time) *models.Todo {
	t.Helper()
	todo, err := s.Create(context.Background(), &models.Todo{
		OwnerID:  owner,
		Title:    title,
		RemindAt: remindAt,
	})
	if err != nil {
		t.Fatalf("create todo: %v", err)
	}
	return todo
}

func TestTodoStoreCreate(t *testing.T) {
	t.Parallel()

	s, clk := newTestStore(t)
	owner := uuid.New()

	todo := mustCreate(t, s, owner, "buy milk", nil)

	if todo.ID == uuid.Nil {
		t.Error("expected a generated id")
	}
	if todo.Status != models.TodoStatusPending {
		t.Errorf("status = %s, want pending", todo.Status)
	}
	if len(todo.SharedWith) != 0 {
		t.Errorf("shared_with should start empty, got %v", todo.SharedWith)
	}
	if !todo.CreatedAt.Equal(clk.Now()) || !todo.UpdatedAt.Equal(clk.Now()) {
		t.Errorf("timestamps not set from clock: created=%v updated=%v", todo.CreatedAt, todo.UpdatedAt)
	}

	other := mustCreate(t, s, owner, "buy bread", nil)
	if other.ID == todo.ID {
		t.Error("ids must be unique")
	}
}

func TestTodoStoreUpdateNotFound(t *testing.T) {
	t.Parallel()

	s, _ := newTestStore(t)
	ctx := context.Background()

	title := "ghost"
	_, err := s.Update(ctx, uuid.New(), TodoPatch{Title: &title})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("update of unknown id: err = %v, want ErrNotFound", err)
	}

	// No phantom record may appear.
	owner := uuid.New()
	todos, total, err := s.ListForUser(ctx, owner, 1, 100)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 0 || len(todos) != 0 {
		t.Errorf("update of unknown id created a record: total=%d", total)
	}
}

func TestTodoStoreUpdateMergesAndBumpsUpdatedAt(t *testing.T) {
	t.Parallel()

	s, clk := newTestStore(t)
	ctx := context.Background()
	todo := mustCreate(t, s, uuid.New(), "original", nil)

	clk.Advance(time.Minute)
	title := "renamed"
	updated, err := s.Update(ctx, todo.ID, TodoPatch{Title: &title})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	if updated.Title != "renamed" {
		t.Errorf("title = %q, want renamed", updated.Title)
	}
	if updated.OwnerID != todo.OwnerID {
		t.Errorf("owner changed on update")
	}
	if !updated.CreatedAt.Equal(todo.CreatedAt) {
		t.Errorf("created_at changed on update")
	}
	if !updated.UpdatedAt.After(todo.UpdatedAt) {
		t.Errorf("updated_at not refreshed: %v <= %v", updated.UpdatedAt, todo.UpdatedAt)
	}
}

func TestTodoStoreSoftDelete(t *testing.T) {
	t.Parallel()

	s, _ := newTestStore(t)
	ctx := context.Background()
	owner := uuid.New()
	todo := mustCreate(t, s, owner, "to be deleted", nil)

	deleted, err := s.Delete(ctx, todo.ID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if deleted.DeletedAt == nil {
		t.Fatal("tombstone timestamp not set")
	}

	// Tombstoned records are invisible on every read path.
	if _, err := s.GetByID(ctx, todo.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("get after delete: err = %v, want ErrNotFound", err)
	}
	_, total, err := s.ListForUser(ctx, owner, 1, 100)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 0 {
		t.Errorf("tombstoned record visible in list, total=%d", total)
	}

	// Double delete and update of a tombstone both signal not-found.
	if _, err := s.Delete(ctx, todo.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete: err = %v, want ErrNotFound", err)
	}
	title := "x"
	if _, err := s.Update(ctx, todo.ID, TodoPatch{Title: &title}); !errors.Is(err, ErrNotFound) {
		t.Errorf("update of tombstone: err = %v, want ErrNotFound", err)
	}
	if _, err := s.Delete(ctx, uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Errorf("delete of unknown id: err = %v, want ErrNotFound", err)
	}
}

func TestTodoStoreShareIdempotent(t *testing.T) {
	t.Parallel()

	s, _ := newTestStore(t)
	ctx := context.Background()
	todo := mustCreate(t, s, uuid.New(), "shared", nil)
	sharee := uuid.New()

	first, err := s.Share(ctx, todo.ID, sharee)
	if err != nil {
		t.Fatalf("share: %v", err)
	}
	second, err := s.Share(ctx, todo.ID, sharee)
	if err != nil {
		t.Fatalf("second share: %v", err)
	}

	if len(first.SharedWith) != 1 || len(second.SharedWith) != 1 {
		t.Errorf("sharee must appear exactly once, got %v then %v", first.SharedWith, second.SharedWith)
	}
	if second.SharedWith[0] != sharee {
		t.Errorf("shared_with = %v, want [%s]", second.SharedWith, sharee)
	}
}

func TestTodoStoreUnshareIdempotent(t *testing.T) {
	t.Parallel()

	s, _ := newTestStore(t)
	ctx := context.Background()
	todo := mustCreate(t, s, uuid.New(), "shared", nil)
	sharee := uuid.New()

	if _, err := s.Share(ctx, todo.ID, sharee); err != nil {
		t.Fatalf("share: %v", err)
	}
	removed, err := s.Unshare(ctx, todo.ID, sharee)
	if err != nil {
		t.Fatalf("unshare: %v", err)
	}
	if len(removed.SharedWith) != 0 {
		t.Errorf("shared_with = %v, want empty", removed.SharedWith)
	}

	// Removing an absent sharee is a no-op, not an error.
	again, err := s.Unshare(ctx, todo.ID, sharee)
	if err != nil {
		t.Fatalf("second unshare: %v", err)
	}
	if len(again.SharedWith) != 0 {
		t.Errorf("shared_with = %v, want empty", again.SharedWith)
	}
}

func TestTodoStoreListForUser(t *testing.T) {
	t.Parallel()

	s, _ := newTestStore(t)
	ctx := context.Background()
	owner := uuid.New()
	sharee := uuid.New()

	var created []*models.Todo
	for i := 0; i < 25; i++ {
		created = append(created, mustCreate(t, s, owner, "task", nil))
	}
	// A foreign todo shared with the owner also shows up in their list.
	foreign := mustCreate(t, s, sharee, "their task", nil)
	if _, err := s.Share(ctx, foreign.ID, owner); err != nil {
		t.Fatalf("share: %v", err)
	}

	tests := []struct {
		name      string
		page      int
		limit     int
		wantCount int
		wantFirst uuid.UUID
	}{
		{name: "first page", page: 1, limit: 10, wantCount: 10, wantFirst: created[0].ID},
		{name: "second page", page: 2, limit: 10, wantCount: 10, wantFirst: created[10].ID},
		{name: "last partial page", page: 3, limit: 10, wantCount: 6, wantFirst: created[20].ID},
		{name: "page past the end", page: 9, limit: 10, wantCount: 0},
		{name: "page zero floored to one", page: 0, limit: 10, wantCount: 10, wantFirst: created[0].ID},
		{name: "oversized limit clamped to max", page: 1, limit: 500, wantCount: 26, wantFirst: created[0].ID},
		{name: "zero limit clamped to one record", page: 1, limit: 0, wantCount: 1, wantFirst: created[0].ID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			todos, total, err := s.ListForUser(ctx, owner, tt.page, tt.limit)
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if total != 26 {
				t.Errorf("total = %d, want 26", total)
			}
			if len(todos) != tt.wantCount {
				t.Fatalf("len = %d, want %d", len(todos), tt.wantCount)
			}
			if tt.wantCount > 0 && todos[0].ID != tt.wantFirst {
				t.Errorf("first id = %s, want %s", todos[0].ID, tt.wantFirst)
			}
		})
	}

	// A stranger sees nothing.
	todos, total, err := s.ListForUser(ctx, uuid.New(), 1, 100)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 0 || len(todos) != 0 {
		t.Errorf("stranger can see todos: total=%d", total)
	}
}

func TestTodoStoreDueReminders(t *testing.T) {
	t.Parallel()

	s, clk := newTestStore(t)
	ctx := context.Background()
	owner := uuid.New()
	now := clk.Now()

	past := now.Add(-time.Second)
	future := now.Add(time.Hour)

	due := mustCreate(t, s, owner, "due", &past)
	onTime := mustCreate(t, s, owner, "exactly now", &now)
	mustCreate(t, s, owner, "not yet", &future)
	mustCreate(t, s, owner, "no reminder", nil)

	// A done todo with a past reminder must never be flagged.
	doneTodo := mustCreate(t, s, owner, "done already", &past)
	done := models.TodoStatusDone
	if _, err := s.Update(ctx, doneTodo.ID, TodoPatch{Status: &done}); err != nil {
		t.Fatalf("mark done: %v", err)
	}

	// A deleted todo with a past reminder is invisible to the scan.
	deletedTodo := mustCreate(t, s, owner, "deleted", &past)
	if _, err := s.Delete(ctx, deletedTodo.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	reminders, err := s.DueReminders(ctx, now)
	if err != nil {
		t.Fatalf("due reminders: %v", err)
	}

	got := map[uuid.UUID]bool{}
	for _, r := range reminders {
		if r.Status != models.TodoStatusPending {
			t.Errorf("non-pending record in due scan: %s status=%s", r.ID, r.Status)
		}
		got[r.ID] = true
	}
	if len(reminders) != 2 || !got[due.ID] || !got[onTime.ID] {
		t.Errorf("due scan returned %d records, want exactly the past and at-now pending ones", len(reminders))
	}

	// After promotion, the same scan finds nothing.
	reminderDue := models.TodoStatusReminderDue
	for id := range got {
		if _, err := s.Update(ctx, id, TodoPatch{Status: &reminderDue}); err != nil {
			t.Fatalf("promote: %v", err)
		}
	}
	reminders, err = s.DueReminders(ctx, now.Add(time.Hour/2))
	if err != nil {
		t.Fatalf("second due scan: %v", err)
	}
	if len(reminders) != 0 {
		t.Errorf("second scan returned %d records, want 0", len(reminders))
	}
}

func TestTodoStoreMutationIsolation(t *testing.T) {
	t.Parallel()

	s, _ := newTestStore(t)
	ctx := context.Background()
	todo := mustCreate(t, s, uuid.New(), "isolated", nil)
	if _, err := s.Share(ctx, todo.ID, uuid.New()); err != nil {
		t.Fatalf("share: %v", err)
	}

	read, err := s.GetByID(ctx, todo.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	read.Title = "mutated"
	read.SharedWith[0] = uuid.Nil
	read.Status = models.TodoStatusDone

	fresh, err := s.GetByID(ctx, todo.ID)
	if err != nil {
		t.Fatalf("second get: %v", err)
	}
	if fresh.Title != "isolated" || fresh.Status != models.TodoStatusPending {
		t.Errorf("caller mutation leaked into store: %+v", fresh)
	}
	if fresh.SharedWith[0] == uuid.Nil {
		t.Error("caller mutation of shared_with leaked into store")
	}

	// The store must not retain the caller's input either.
	input := &models.Todo{OwnerID: uuid.New(), Title: "input", SharedWith: []uuid.UUID{uuid.New()}}
	createdFromInput, err := s.Create(ctx, input)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	input.Title = "changed after create"
	fresh, err = s.GetByID(ctx, createdFromInput.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if fresh.Title != "input" {
		t.Errorf("store retained caller reference: title=%q", fresh.Title)
	}
}

func TestUpdateEnforcesStatusLifecycle(t *testing.T) {
	t.Parallel()

	s, _ := newTestStore(t)
	ctx := context.Background()
	todo := mustCreate(t, s, uuid.New(), "finish taxes", nil)

	done := models.TodoStatusDone
	if _, err := s.Update(ctx, todo.ID, TodoPatch{Status: &done}); err != nil {
		t.Fatalf("pending -> done: %v", err)
	}

	// Done is terminal: a caller acting on a stale read cannot drag the
	// record back to reminder_due, and the rejected patch must not apply
	// its other fields either.
	reminderDue := models.TodoStatusReminderDue
	title := "renamed"
	if _, err := s.Update(ctx, todo.ID, TodoPatch{Status: &reminderDue, Title: &title}); err == nil {
		t.Fatal("done -> reminder_due: expected error, got nil")
	}

	got, err := s.GetByID(ctx, todo.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != models.TodoStatusDone {
		t.Errorf("status = %s, want done", got.Status)
	}
	if got.Title != "finish taxes" {
		t.Errorf("rejected patch leaked title change: %q", got.Title)
	}

	// A same-status patch is a no-op, not a transition.
	if _, err := s.Update(ctx, todo.ID, TodoPatch{Status: &done}); err != nil {
		t.Errorf("same-status patch: %v", err)
	}
}

func TestNormalizePage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		page      int
		limit     int
		wantPage  int
		wantLimit int
	}{
		{name: "valid values pass through", page: 2, limit: 10, wantPage: 2, wantLimit: 10},
		{name: "zero page floored", page: 0, limit: 10, wantPage: 1, wantLimit: 10},
		{name: "negative page floored", page: -3, limit: 10, wantPage: 1, wantLimit: 10},
		{name: "oversized limit clamped", page: 1, limit: 500, wantPage: 1, wantLimit: 100},
		{name: "zero limit clamped to min", page: 1, limit: 0, wantPage: 1, wantLimit: 1},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			page, limit := NormalizePage(tt.page, tt.limit)
			if page != tt.wantPage || limit != tt.wantLimit {
				t.Errorf("NormalizePage(%d, %d) = (%d, %d), want (%d, %d)",
					tt.page, tt.limit, page, limit, tt.wantPage, tt.wantLimit)
			}
		})
	}
}
