package middlewares

import (
	"context"
	"errors"
	"log/slog"

	"github.com/geocoder89/taskhub/internal/actorctx"
	"github.com/geocoder89/taskhub/internal/apperr"
	"github.com/geocoder89/taskhub/internal/auth"
	"github.com/geocoder89/taskhub/internal/http/handlers"
	"github.com/gin-gonic/gin"
)

// Keep these small so tests can fake them easily.
type Authenticator interface {
	Authenticate(ctx context.Context, raw string) (auth.Identity, error)
}

type CookieClearer interface {
	CookieOptions(expiresInMinutes *int) (auth.CookieOptions, error)
}

type AuthMiddleware struct {
	sessions Authenticator
	cookies  CookieClearer
}

func NewAuthMiddleware(sessions Authenticator, cookies CookieClearer) *AuthMiddleware {
	return &AuthMiddleware{sessions: sessions, cookies: cookies}
}

// RequireAuth reads the session cookie. No cookie is 401; a bad token or a
// vanished user is 403 and the cookie is cleared.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, _ := c.Cookie(auth.CookieName)

		id, err := m.sessions.Authenticate(c.Request.Context(), raw)
		if err != nil {
			if errors.Is(err, apperr.ErrForbidden) {
				// a bare sentinel is a bad token; anything wrapped is a store failure
				if err != apperr.ErrForbidden { //nolint:errorlint
					slog.Default().ErrorContext(c.Request.Context(), "session_lookup_failed", "err", err)
				}
				m.clearCookie(c)
			}
			handlers.RespondAppError(c, err)
			return
		}

		c.Request = c.Request.WithContext(actorctx.WithIdentity(c.Request.Context(), id))

		c.Next()
	}
}

func (m *AuthMiddleware) clearCookie(c *gin.Context) {
	opts, err := m.cookies.CookieOptions(nil)
	if err != nil {
		return
	}
	handlers.WriteSessionCookie(c, "", opts)
}
