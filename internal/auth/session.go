package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/geocoder89/taskhub/internal/apperr"
	"github.com/geocoder89/taskhub/internal/domain/user"
)

type TokenVerifier interface {
	Verify(token string) (*Claims, error)
}

type UserLookup interface {
	GetByEmail(ctx context.Context, email string) (user.User, error)
}

// Sessions validates a presented session token and re-confirms its user.
type Sessions struct {
	tokens TokenVerifier
	users  UserLookup
}

func NewSessions(tokens TokenVerifier, users UserLookup) *Sessions {
	return &Sessions{tokens: tokens, users: users}
}

// Authenticate returns apperr.ErrUnauthenticated when no token is presented and
// apperr.ErrForbidden for a bad token or a token whose user is gone; callers
// cannot tell those two apart. A store failure is also forbidden, but the
// returned error wraps the cause for logging.
func (s *Sessions) Authenticate(ctx context.Context, raw string) (Identity, error) {
	if raw == "" {
		return Identity{}, apperr.ErrUnauthenticated
	}

	claims, err := s.tokens.Verify(raw)
	if err != nil {
		return Identity{}, apperr.ErrForbidden
	}

	if _, err := s.users.GetByEmail(ctx, claims.Email); err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return Identity{}, apperr.ErrForbidden
		}
		return Identity{}, fmt.Errorf("%w: %w", apperr.ErrForbidden, err)
	}

	return claims.Identity(), nil
}
