package auth

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/geocoder89/taskhub/internal/apperr"
	"github.com/geocoder89/taskhub/internal/domain/user"
)

const maxFailureDelay = 100 * time.Millisecond

type UserStore interface {
	GetByEmail(ctx context.Context, email string) (user.User, error)
	Create(ctx context.Context, name, email, passwordHash string) (user.User, error)
}

type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, hash string) bool
	DummyHash() string
}

type TokenIssuer interface {
	Issue(id Identity) (Token, error)
}

// Service is the registration/login core. It holds no per-request state.
type Service struct {
	users         UserStore
	hasher        PasswordHasher
	tokens        TokenIssuer
	secureCookies bool

	// jitter picks the extra delay on a failed login
	jitter func() time.Duration
}

func NewService(users UserStore, hasher PasswordHasher, tokens TokenIssuer, secureCookies bool) *Service {
	return &Service{
		users:         users,
		hasher:        hasher,
		tokens:        tokens,
		secureCookies: secureCookies,
		jitter: func() time.Duration {
			return rand.N(maxFailureDelay)
		},
	}
}

func (s *Service) Register(ctx context.Context, name, email, password string) (user.Public, error) {
	if err := ValidateRegistration(name, email, password); err != nil {
		return user.Public{}, err
	}

	_, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		return user.Public{}, apperr.ErrDuplicateUser
	}
	if !errors.Is(err, user.ErrNotFound) {
		return user.Public{}, fmt.Errorf("lookup user: %w", err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return user.Public{}, fmt.Errorf("hash password: %w", err)
	}

	u, err := s.users.Create(ctx, name, email, hash)
	if err != nil {
		// lost a race with a concurrent sign-up for the same email
		if errors.Is(err, user.ErrEmailTaken) {
			return user.Public{}, apperr.ErrDuplicateUser
		}
		return user.Public{}, fmt.Errorf("create user: %w", err)
	}

	return u.Public(), nil
}

// Login pays the bcrypt cost whether or not the account exists and answers
// every failure with the same error after a small random delay.
func (s *Service) Login(ctx context.Context, email, password string) (Token, error) {
	if err := ValidateLogin(email, password); err != nil {
		return Token{}, err
	}

	u, err := s.users.GetByEmail(ctx, email)
	found := err == nil
	if err != nil && !errors.Is(err, user.ErrNotFound) {
		return Token{}, fmt.Errorf("lookup user: %w", err)
	}

	hash := s.hasher.DummyHash()
	if found {
		hash = u.PasswordHash
	}
	valid := s.hasher.Verify(password, hash)

	if !found || !valid {
		s.failureDelay(ctx)
		return Token{}, apperr.ErrInvalidCredentials
	}

	tok, err := s.tokens.Issue(Identity{UserID: u.ID, Name: u.Name, Email: u.Email})
	if err != nil {
		return Token{}, fmt.Errorf("issue token: %w", err)
	}

	return tok, nil
}

// Logout is stateless; it only yields the options needed to clear the cookie.
func (s *Service) Logout() (CookieOptions, error) {
	opts, err := s.CookieOptions(nil)
	if err != nil {
		return CookieOptions{}, apperr.ErrLogoutFailure
	}
	return opts, nil
}

func (s *Service) failureDelay(ctx context.Context) {
	d := s.jitter()
	if d <= 0 {
		return
	}

	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-t.C:
	case <-ctx.Done():
	}
}
