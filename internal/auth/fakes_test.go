package auth

import (
	"context"
	"sync"

	"github.com/geocoder89/taskhub/internal/domain/user"
	"github.com/google/uuid"
)

type fakeUserStore struct {
	mu        sync.Mutex
	byEmail   map[string]user.User
	getErr    error
	createErr error
	creates   int
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{byEmail: map[string]user.User{}}
}

func (f *fakeUserStore) GetByEmail(ctx context.Context, email string) (user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.getErr != nil {
		return user.User{}, f.getErr
	}
	u, ok := f.byEmail[email]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return u, nil
}

func (f *fakeUserStore) Create(ctx context.Context, name, email, hash string) (user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.creates++
	if f.createErr != nil {
		return user.User{}, f.createErr
	}
	u := user.User{ID: uuid.NewString(), Name: name, Email: email, PasswordHash: hash}
	f.byEmail[email] = u
	return u, nil
}

func (f *fakeUserStore) remove(email string) {
	f.mu.Lock()
	delete(f.byEmail, email)
	f.mu.Unlock()
}

// plainHasher keeps tests fast; it records which digests were compared.
type plainHasher struct {
	mu       sync.Mutex
	compared []string
}

func (h *plainHasher) Hash(plain string) (string, error) { return "hashed:" + plain, nil }

func (h *plainHasher) Verify(plain, hash string) bool {
	h.mu.Lock()
	h.compared = append(h.compared, hash)
	h.mu.Unlock()
	return hash == "hashed:"+plain
}

func (h *plainHasher) DummyHash() string { return "dummy" }
