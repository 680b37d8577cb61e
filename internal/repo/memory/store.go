// Package memory is an in-process store used for local runs and tests.
package memory

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/geocoder89/taskhub/internal/domain/task"
	"github.com/geocoder89/taskhub/internal/domain/user"
	"github.com/google/uuid"
)

type Store struct {
	mu     sync.RWMutex
	users  map[string]user.User // keyed by email
	tasks  map[int64]task.Task
	nextID int64
}

func NewStore() *Store {
	return &Store{
		users: make(map[string]user.User),
		tasks: make(map[int64]task.Task),
	}
}

func (s *Store) GetByEmail(_ context.Context, email string) (user.User, error) {
	s.mu.RLock()
	u, ok := s.users[email]
	s.mu.RUnlock()

	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return u, nil
}

func (s *Store) Create(_ context.Context, name, email, passwordHash string) (user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[email]; ok {
		return user.User{}, user.ErrEmailTaken
	}

	u := user.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	s.users[email] = u

	return u, nil
}

// Tasks returns a view of the store that satisfies the task store contract.
func (s *Store) Tasks() *TaskStore {
	return &TaskStore{s: s}
}

type TaskStore struct {
	s *Store
}

func (t *TaskStore) Create(_ context.Context, in task.Task) (task.Task, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()

	t.s.nextID++
	in.ID = t.s.nextID
	if in.CreatedAt.IsZero() {
		in.CreatedAt = time.Now().UTC()
	}
	t.s.tasks[in.ID] = in

	return in, nil
}

func (t *TaskStore) GetForUser(_ context.Context, id int64, userID string) (task.Task, error) {
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()

	found, ok := t.s.tasks[id]
	if !ok || found.UserID != userID {
		return task.Task{}, task.ErrNotFound
	}
	return found, nil
}

func (t *TaskStore) Update(_ context.Context, id int64, userID string, patch task.Patch) (task.Task, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()

	found, ok := t.s.tasks[id]
	if !ok || found.UserID != userID {
		return task.Task{}, task.ErrNotFound
	}

	updated := patch.Apply(found)
	t.s.tasks[id] = updated

	return updated, nil
}

func (t *TaskStore) Delete(_ context.Context, id int64, userID string) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()

	found, ok := t.s.tasks[id]
	if !ok || found.UserID != userID {
		return task.ErrNotFound
	}
	delete(t.s.tasks, id)

	return nil
}

func (t *TaskStore) List(_ context.Context, f task.ListFilter) ([]task.Task, error) {
	out := t.matching(f.UserID, f.Status)

	slices.SortFunc(out, func(a, b task.Task) int {
		c := compareBy(f.OrderBy, a, b)
		if c == 0 {
			c = cmp.Compare(a.ID, b.ID)
		}
		if f.Desc {
			return -c
		}
		return c
	})

	if f.Offset < 0 || f.Offset >= len(out) {
		return []task.Task{}, nil
	}
	end := f.Offset + min(f.Limit, len(out)-f.Offset)

	return out[f.Offset:end], nil
}

func (t *TaskStore) Count(_ context.Context, userID string, status *task.Status) (int, error) {
	return len(t.matching(userID, status)), nil
}

func (t *TaskStore) matching(userID string, status *task.Status) []task.Task {
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()

	out := make([]task.Task, 0)
	for _, tk := range t.s.tasks {
		if tk.UserID != userID {
			continue
		}
		if status != nil && tk.Status != *status {
			continue
		}
		out = append(out, tk)
	}
	return out
}

func compareBy(field task.SortField, a, b task.Task) int {
	switch field {
	case task.SortTitle:
		return strings.Compare(a.Title, b.Title)
	case task.SortStatus:
		return strings.Compare(string(a.Status), string(b.Status))
	case task.SortExpirationDate:
		return a.ExpirationDate.Compare(b.ExpirationDate)
	default:
		return a.CreatedAt.Compare(b.CreatedAt)
	}
}
