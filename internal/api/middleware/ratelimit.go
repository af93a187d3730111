package middleware

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/forumhub/forum-api/internal/api/metrics"
	"github.com/forumhub/forum-api/internal/core/domain"
	"github.com/forumhub/forum-api/internal/core/ports"
)

// RateLimit rejects clients that exceed their request ceiling before any
// other processing. It is keyed by client address, never by principal, and
// must be registered ahead of Authenticate. A failing limiter backend lets the
// request through.
func RateLimit(limiter ports.RateLimiter, window time.Duration, log zerolog.Logger) echo.MiddlewareFunc {
	retryAfter := strconv.Itoa(int(window.Round(time.Second) / time.Second))

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			addr := c.RealIP()

			allowed, err := limiter.Allow(c.Request().Context(), addr)
			if err != nil {
				metrics.RateLimitDecisionsTotal.WithLabelValues("error").Inc()
				log.Error().Err(err).Str("address", addr).Msg("rate limiter unavailable, allowing request")
				return next(c)
			}
			if !allowed {
				metrics.RateLimitDecisionsTotal.WithLabelValues("rejected").Inc()
				c.Response().Header().Set("Retry-After", retryAfter)
				return domain.ErrTooManyRequests
			}

			metrics.RateLimitDecisionsTotal.WithLabelValues("allowed").Inc()
			return next(c)
		}
	}
}
