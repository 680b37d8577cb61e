package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/geocoder89/taskhub/internal/actorctx"
	"github.com/geocoder89/taskhub/internal/apperr"
	"github.com/geocoder89/taskhub/internal/auth"
	"github.com/geocoder89/taskhub/internal/config"
	"github.com/geocoder89/taskhub/internal/domain/user"
	"github.com/geocoder89/taskhub/internal/observability"
	"github.com/gin-gonic/gin"
)

type AuthService interface {
	Register(ctx context.Context, name, email, password string) (user.Public, error)
	Login(ctx context.Context, email, password string) (auth.Token, error)
	Logout() (auth.CookieOptions, error)
	CookieOptions(expiresInMinutes *int) (auth.CookieOptions, error)
}

type AuthHandler struct {
	svc  AuthService
	prom *observability.Prom
}

func NewAuthHandler(svc AuthService, prom *observability.Prom) *AuthHandler {
	return &AuthHandler{svc: svc, prom: prom}
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Register(ctx *gin.Context) {
	var req RegisterRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	u, err := h.svc.Register(cctx, req.Name, req.Email, req.Password)
	if err != nil {
		h.prom.ObserveAuth("register", outcome(err))
		RespondAppError(ctx, err)
		return
	}

	h.prom.ObserveAuth("register", "ok")
	ctx.JSON(http.StatusOK, gin.H{"user": u})
}

func (h *AuthHandler) Login(ctx *gin.Context) {
	var req LoginRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	tok, err := h.svc.Login(cctx, req.Email, req.Password)
	if err != nil {
		h.prom.ObserveAuth("login", outcome(err))
		if apperr.KindOf(err) == apperr.KindInvalidCredentials {
			slog.Default().WarnContext(ctx.Request.Context(), "login_rejected",
				"request_id", requestIDFrom(ctx),
				"client_ip", ctx.ClientIP(),
			)
		}
		RespondAppError(ctx, err)
		return
	}

	opts, err := h.svc.CookieOptions(&tok.ExpiresInMinutes)
	if err != nil {
		h.prom.ObserveAuth("login", "error")
		RespondAppError(ctx, err)
		return
	}

	WriteSessionCookie(ctx, tok.Value, opts)

	h.prom.ObserveAuth("login", "ok")
	ctx.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *AuthHandler) Logout(ctx *gin.Context) {
	opts, err := h.svc.Logout()
	if err != nil {
		h.prom.ObserveAuth("logout", "error")
		RespondAppError(ctx, err)
		return
	}

	WriteSessionCookie(ctx, "", opts)

	h.prom.ObserveAuth("logout", "ok")
	ctx.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// Me returns the identity the session middleware attached.
func (h *AuthHandler) Me(ctx *gin.Context) {
	id, ok := actorctx.IdentityFrom(ctx.Request.Context())
	if !ok {
		RespondAppError(ctx, apperr.ErrUnauthenticated)
		return
	}

	ctx.JSON(http.StatusOK, id)
}

func outcome(err error) string {
	if apperr.KindOf(err) == apperr.KindInternal {
		return "error"
	}
	return "rejected"
}
