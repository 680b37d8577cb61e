// Package tasks holds the task CRUD core and the list query engine. Every
// operation takes the owner's id explicitly and never touches another user's rows.
package tasks

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/geocoder89/taskhub/internal/apperr"
	"github.com/geocoder89/taskhub/internal/domain/task"
)

type Store interface {
	Create(ctx context.Context, t task.Task) (task.Task, error)
	// GetForUser and the mutations below match on (id, userID) together.
	GetForUser(ctx context.Context, id int64, userID string) (task.Task, error)
	Update(ctx context.Context, id int64, userID string, patch task.Patch) (task.Task, error)
	Delete(ctx context.Context, id int64, userID string) error
	List(ctx context.Context, filter task.ListFilter) ([]task.Task, error)
	Count(ctx context.Context, userID string, status *task.Status) (int, error)
}

type Service struct {
	store Store
	now   func() time.Time
}

func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

type CreateInput struct {
	Title          string `json:"title"`
	Description    string `json:"description"`
	Status         string `json:"status"`
	ExpirationDate string `json:"expiration_date"`
}

// UpdateInput fields are nil when the client did not send them.
type UpdateInput struct {
	Title          *string `json:"title"`
	Description    *string `json:"description"`
	Status         *string `json:"status"`
	ExpirationDate *string `json:"expiration_date"`
}

type DeleteResult struct {
	Message string `json:"message"`
}

func (s *Service) Create(ctx context.Context, userID string, in CreateInput) (task.Task, error) {
	if strings.TrimSpace(in.Title) == "" || in.Description == "" || in.ExpirationDate == "" {
		return task.Task{}, apperr.Validation(msgMissingField)
	}

	status := task.StatusPending
	if in.Status != "" {
		parsed, err := ParseStatus(in.Status)
		if err != nil {
			return task.Task{}, err
		}
		status = parsed
	}

	expires, err := ParseExpirationDate(in.ExpirationDate, s.now())
	if err != nil {
		return task.Task{}, err
	}

	created, err := s.store.Create(ctx, task.Task{
		UserID:         userID,
		Title:          in.Title,
		Description:    in.Description,
		Status:         status,
		ExpirationDate: expires,
		CreatedAt:      s.now().UTC(),
	})
	if err != nil {
		return task.Task{}, fmt.Errorf("create task: %w", err)
	}

	return created, nil
}

// Update applies only the supplied fields. A supplied expiration date must
// still be in the future, even if the stored one has already passed.
func (s *Service) Update(ctx context.Context, userID, rawID string, in UpdateInput) (task.Task, error) {
	id, err := ParseTaskID(rawID)
	if err != nil {
		return task.Task{}, err
	}

	existing, err := s.ownedTask(ctx, id, userID)
	if err != nil {
		return task.Task{}, err
	}

	var patch task.Patch

	if in.Title != nil {
		if strings.TrimSpace(*in.Title) == "" {
			return task.Task{}, apperr.Validation(msgEmptyTitle)
		}
		patch.Title = in.Title
	}

	if in.Description != nil {
		patch.Description = in.Description
	}

	if in.Status != nil {
		st, err := ParseStatus(*in.Status)
		if err != nil {
			return task.Task{}, err
		}
		patch.Status = &st
	}

	// an empty expiration_date leaves the stored date alone
	if in.ExpirationDate != nil && *in.ExpirationDate != "" {
		expires, err := ParseExpirationDate(*in.ExpirationDate, s.now())
		if err != nil {
			return task.Task{}, err
		}
		patch.ExpirationDate = &expires
	}

	if patch.Empty() {
		return existing, nil
	}

	updated, err := s.store.Update(ctx, id, userID, patch)
	if err != nil {
		if errors.Is(err, task.ErrNotFound) {
			return task.Task{}, apperr.ErrTaskNotFound
		}
		return task.Task{}, fmt.Errorf("update task: %w", err)
	}

	return updated, nil
}

func (s *Service) Delete(ctx context.Context, userID, rawID string) (DeleteResult, error) {
	id, err := ParseTaskID(rawID)
	if err != nil {
		return DeleteResult{}, err
	}

	if _, err := s.ownedTask(ctx, id, userID); err != nil {
		return DeleteResult{}, err
	}

	if err := s.store.Delete(ctx, id, userID); err != nil {
		if errors.Is(err, task.ErrNotFound) {
			return DeleteResult{}, apperr.ErrTaskNotFound
		}
		return DeleteResult{}, fmt.Errorf("delete task: %w", err)
	}

	return DeleteResult{Message: "Task deleted successfully"}, nil
}

func (s *Service) ownedTask(ctx context.Context, id int64, userID string) (task.Task, error) {
	t, err := s.store.GetForUser(ctx, id, userID)
	if err != nil {
		if errors.Is(err, task.ErrNotFound) {
			return task.Task{}, apperr.ErrTaskNotFound
		}
		return task.Task{}, fmt.Errorf("get task: %w", err)
	}
	return t, nil
}
