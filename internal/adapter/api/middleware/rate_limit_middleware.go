package middleware

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"tradevault/internal/infrastructure/ratelimit"
	"tradevault/pkg/logger"
)

// RateLimitMiddleware throttles a specific marketplace action per user.
// It must run after authentication so the uid is available.
type RateLimitMiddleware struct {
	limiter *ratelimit.RateLimiter
}

func NewRateLimitMiddleware(limiter *ratelimit.RateLimiter) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		limiter: limiter,
	}
}

func (m *RateLimitMiddleware) Limit(action string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			uid, ok := c.Get("uid").(string)
			if !ok || uid == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Authentication required")
			}

			allowed, wait := m.limiter.Allow(uid, action)
			if !allowed {
				logger.Warn("Rate limit hit: user=%s action=%s retry in %s", uid, action, wait)
				return c.JSON(http.StatusTooManyRequests, map[string]interface{}{
					"error":       "Rate limit exceeded",
					"retry_after": int(wait / time.Second),
				})
			}

			return next(c)
		}
	}
}
