package tasks

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/geocoder89/taskhub/internal/apperr"
	"github.com/geocoder89/taskhub/internal/domain/task"
	"github.com/geocoder89/taskhub/internal/repo/memory"
)

var fixedNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestService() *Service {
	s := NewService(memory.NewStore().Tasks())
	s.now = func() time.Time { return fixedNow }
	return s
}

func validInput() CreateInput {
	return CreateInput{
		Title:          "Write report",
		Description:    "quarterly",
		ExpirationDate: "2025-12-31T23:59:59.000Z",
	}
}

func TestCreate_DefaultsToPending(t *testing.T) {
	s := newTestService()

	got, err := s.Create(context.Background(), "u1", validInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if got.ID == 0 || got.UserID != "u1" || got.Status != task.StatusPending {
		t.Fatalf("unexpected task %+v", got)
	}
}

func TestCreate_Validation(t *testing.T) {
	s := newTestService()

	tests := []struct {
		name    string
		mutate  func(*CreateInput)
		wantMsg string
	}{
		{"missing title", func(in *CreateInput) { in.Title = "" }, msgMissingField},
		{"missing description", func(in *CreateInput) { in.Description = "" }, msgMissingField},
		{"missing date", func(in *CreateInput) { in.ExpirationDate = "" }, msgMissingField},
		{"bad status", func(in *CreateInput) { in.Status = "DONE" }, msgStatus},
		{"bad date", func(in *CreateInput) { in.ExpirationDate = "31/12/2025" }, msgDateFormat},
		{"past date", func(in *CreateInput) { in.ExpirationDate = "2020-01-01T00:00:00Z" }, msgDateInPast},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)

			_, err := s.Create(context.Background(), "u1", in)
			if apperr.KindOf(err) != apperr.KindValidation || apperr.MessageOf(err) != tt.wantMsg {
				t.Fatalf("got %v", err)
			}
		})
	}
}

func TestUpdate_PartialAndScoped(t *testing.T) {
	s := newTestService()
	ctx := context.Background()

	created, _ := s.Create(ctx, "u1", validInput())
	id := strconv.FormatInt(created.ID, 10)

	status := "COMPLETED"
	got, err := s.Update(ctx, "u1", id, UpdateInput{Status: &status})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.Status != task.StatusCompleted || got.Title != created.Title || !got.ExpirationDate.Equal(created.ExpirationDate) {
		t.Fatalf("only status should change, got %+v", got)
	}

	if _, err := s.Update(ctx, "u2", id, UpdateInput{Status: &status}); !errors.Is(err, apperr.ErrTaskNotFound) {
		t.Fatalf("other user should get not found, got %v", err)
	}

	empty := ""
	got, err = s.Update(ctx, "u1", id, UpdateInput{ExpirationDate: &empty})
	if err != nil || !got.ExpirationDate.Equal(created.ExpirationDate) {
		t.Fatalf("empty date should leave it alone, got %+v, %v", got, err)
	}

	past := "2020-01-01T00:00:00Z"
	if _, err := s.Update(ctx, "u1", id, UpdateInput{ExpirationDate: &past}); apperr.MessageOf(err) != msgDateInPast {
		t.Fatalf("got %v", err)
	}

	if _, err := s.Update(ctx, "u1", id, UpdateInput{Title: &empty}); apperr.KindOf(err) != apperr.KindValidation {
		t.Fatalf("empty title should be rejected, got %v", err)
	}

	if _, err := s.Update(ctx, "u1", "nope", UpdateInput{}); apperr.MessageOf(err) != msgTaskID {
		t.Fatalf("got %v", err)
	}
}

func TestUpdate_NotFoundBeforeValidation(t *testing.T) {
	s := newTestService()
	bad := "DONE"

	_, err := s.Update(context.Background(), "u1", "999", UpdateInput{Status: &bad})
	if !errors.Is(err, apperr.ErrTaskNotFound) {
		t.Fatalf("expected not found first, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	s := newTestService()
	ctx := context.Background()

	created, _ := s.Create(ctx, "u1", validInput())
	id := strconv.FormatInt(created.ID, 10)

	if _, err := s.Delete(ctx, "u2", id); !errors.Is(err, apperr.ErrTaskNotFound) {
		t.Fatalf("other user delete got %v", err)
	}

	res, err := s.Delete(ctx, "u1", id)
	if err != nil || res.Message != "Task deleted successfully" {
		t.Fatalf("got %+v, %v", res, err)
	}

	if _, err := s.Delete(ctx, "u1", id); !errors.Is(err, apperr.ErrTaskNotFound) {
		t.Fatalf("second delete got %v", err)
	}
}
