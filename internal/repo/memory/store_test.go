package memory

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/geocoder89/taskhub/internal/domain/task"
	"github.com/geocoder89/taskhub/internal/domain/user"
)

func TestUsers_CreateAndDuplicate(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	u, err := s.Create(ctx, "Alice", "alice@example.com", "hash")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if u.ID == "" {
		t.Fatalf("expected generated id")
	}

	if _, err := s.Create(ctx, "Other", "alice@example.com", "hash"); !errors.Is(err, user.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}

	got, err := s.GetByEmail(ctx, "alice@example.com")
	if err != nil || got.ID != u.ID {
		t.Fatalf("GetByEmail got %+v, %v", got, err)
	}

	// lookups are exact
	if _, err := s.GetByEmail(ctx, "ALICE@example.com"); !errors.Is(err, user.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestTasks_ScopedByOwner(t *testing.T) {
	ts := NewStore().Tasks()
	ctx := context.Background()

	created, _ := ts.Create(ctx, task.Task{UserID: "a", Title: "mine", Status: task.StatusPending})

	if _, err := ts.GetForUser(ctx, created.ID, "b"); !errors.Is(err, task.ErrNotFound) {
		t.Fatalf("other user must not see the task, got %v", err)
	}

	title := "hijack"
	if _, err := ts.Update(ctx, created.ID, "b", task.Patch{Title: &title}); !errors.Is(err, task.ErrNotFound) {
		t.Fatalf("other user must not update the task, got %v", err)
	}
	if err := ts.Delete(ctx, created.ID, "b"); !errors.Is(err, task.ErrNotFound) {
		t.Fatalf("other user must not delete the task, got %v", err)
	}

	got, err := ts.GetForUser(ctx, created.ID, "a")
	if err != nil || got.Title != "mine" {
		t.Fatalf("owner lookup got %+v, %v", got, err)
	}
}

func TestTasks_ListOrderingAndWindow(t *testing.T) {
	ts := NewStore().Tasks()
	ctx := context.Background()
	base := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, title := range []string{"c", "a", "b"} {
		_, _ = ts.Create(ctx, task.Task{
			UserID:    "a",
			Title:     title,
			Status:    task.StatusPending,
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		})
	}
	_, _ = ts.Create(ctx, task.Task{UserID: "b", Title: "z", Status: task.StatusPending})

	got, err := ts.List(ctx, task.ListFilter{UserID: "a", OrderBy: task.SortTitle, Limit: 2})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 || got[0].Title != "a" || got[1].Title != "b" {
		t.Fatalf("unexpected page %+v", got)
	}

	got, _ = ts.List(ctx, task.ListFilter{UserID: "a", OrderBy: task.SortCreatedAt, Desc: true, Limit: 10})
	if len(got) != 3 || got[0].Title != "b" {
		t.Fatalf("expected newest first, got %+v", got)
	}

	got, _ = ts.List(ctx, task.ListFilter{UserID: "a", Limit: 10, Offset: 10})
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil page, got %#v", got)
	}

	for _, off := range []int{-10, math.MaxInt} {
		got, err := ts.List(ctx, task.ListFilter{UserID: "a", Limit: 10, Offset: off})
		if err != nil || got == nil || len(got) != 0 {
			t.Fatalf("offset %d: expected empty page, got %#v, %v", off, got, err)
		}
	}

	n, _ := ts.Count(ctx, "a", nil)
	if n != 3 {
		t.Fatalf("Count got %d want 3", n)
	}
}
