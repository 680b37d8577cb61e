package handlers

import (
	"log/slog"
	"net/http"

	"github.com/geocoder89/taskhub/internal/apperr"
	"github.com/gin-gonic/gin"
)

func requestIDFrom(ctx *gin.Context) string {
	v, ok := ctx.Get("request_id")

	if ok {
		s, ok := v.(string)
		if ok && s != "" {
			return s
		}
	}

	// fallback header
	return ctx.GetHeader("X-Request-Id")
}

// RespondError writes the error envelope. "error" is always the plain message
// so browser clients can show it as is.
func RespondError(ctx *gin.Context, status int, code, message string, details any) {
	body := gin.H{
		"error":     message,
		"code":      code,
		"requestId": requestIDFrom(ctx),
	}
	if details != nil {
		body["details"] = details
	}

	ctx.AbortWithStatusJSON(status, body)
}

func RespondBadRequest(ctx *gin.Context, message string, details any) {
	RespondError(ctx, http.StatusBadRequest, "invalid_request", message, details)
}

func statusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.KindValidation, apperr.KindDuplicateUser, apperr.KindInvalidCredentials:
		return http.StatusBadRequest
	case apperr.KindUnauthenticated:
		return http.StatusUnauthorized
	case apperr.KindForbidden:
		return http.StatusForbidden
	case apperr.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// RespondAppError maps a core error to its status. Unclassified errors are
// logged and reported with a generic message.
func RespondAppError(ctx *gin.Context, err error) {
	kind := apperr.KindOf(err)
	status := statusFor(kind)

	if status >= http.StatusInternalServerError {
		slog.Default().ErrorContext(ctx.Request.Context(), "request_failed",
			"route", ctx.FullPath(),
			"request_id", requestIDFrom(ctx),
			"err", err,
		)
	}

	RespondError(ctx, status, string(kind), apperr.MessageOf(err), nil)
}
