package handlers

import (
	"github.com/geocoder89/taskhub/internal/auth"
	"github.com/gin-gonic/gin"
)

// WriteSessionCookie sets (or, with an empty value and no max age, clears)
// the session cookie using the attributes the auth core computed.
func WriteSessionCookie(ctx *gin.Context, value string, opts auth.CookieOptions) {
	ctx.SetSameSite(opts.SameSite)
	ctx.SetCookie(
		auth.CookieName,
		value,
		opts.MaxAgeSeconds(),
		opts.Path,
		"",
		opts.Secure,
		opts.HTTPOnly,
	)
}
