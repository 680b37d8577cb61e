package middlewares

import (
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/geocoder89/taskhub/internal/http/handlers"
	"github.com/geocoder89/taskhub/internal/observability"
	"github.com/geocoder89/taskhub/internal/ratelimit"
	"github.com/gin-gonic/gin"
)

// RateLimit enforces limiter for a derived key. A limiter backend error lets
// the request through.
func RateLimit(limiter ratelimit.Limiter, keyFn func(*gin.Context) string, prom *observability.Prom) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := keyFn(c)

		if key == "" {
			// fallback to IP if key cannot be derived
			key = clientIP(c)
		}

		res, err := limiter.Allow(c.Request.Context(), key)
		if err != nil {
			slog.Default().WarnContext(c.Request.Context(), "rate_limiter_unavailable", "err", err)
			c.Next()
			return
		}

		c.Header("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))

		if !res.Allowed {
			prom.ObserveRateLimited(c.FullPath())
			c.Header("Retry-After", strconv.Itoa(res.RetryAfter(time.Now())))
			handlers.RespondError(c, http.StatusTooManyRequests, "rate_limited",
				"Too many requests. Please try again shortly.", nil)
			return
		}

		c.Next()
	}
}

// KeyByRouteAndIP limits each credential route per client address.
func KeyByRouteAndIP(c *gin.Context) string {
	return c.FullPath() + ":" + clientIP(c)
}

func clientIP(c *gin.Context) string {
	// Gin's ClientIP respects X-Forwarded-For / X-Real-IP if configured.
	ip := c.ClientIP()

	host, _, err := net.SplitHostPort(ip)

	if err == nil && host != "" {
		return host
	}

	return ip
}
