package middleware

import (
	"errors"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/forumhub/forum-api/internal/api/metrics"
	"github.com/forumhub/forum-api/internal/core/domain"
	"github.com/forumhub/forum-api/internal/core/ports"
)

// Authenticate reads the session cookie and, when its token verifies, stores
// the principal in the request context. A missing, expired or invalid token
// never fails the request: it continues anonymously and RequireAuth decides
// per route.
//
// An absent cookie is silent. Expired tokens log at info and invalid ones at
// warn; both are audited as token_rejected with the reason.
func Authenticate(tokens ports.TokenService, cookieName string, audit ports.AuditSink, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			if _, ok := domain.PrincipalFromContext(req.Context()); ok {
				return next(c)
			}

			cookie, err := req.Cookie(cookieName)
			if err != nil || cookie.Value == "" {
				metrics.AuthOutcomesTotal.WithLabelValues("anonymous").Inc()
				return next(c)
			}

			addr := c.RealIP()
			principal, err := tokens.Verify(cookie.Value)
			if err != nil {
				reason := domain.ReasonTokenInvalid
				event := log.Warn()
				if errors.Is(err, domain.ErrExpiredToken) {
					reason = domain.ReasonTokenExpired
					event = log.Info()
				}
				event.Err(err).Str("address", addr).Str("path", req.URL.Path).Msg("session token rejected")
				metrics.AuthOutcomesTotal.WithLabelValues(reason).Inc()
				if audit != nil {
					audit.Enqueue(domain.AuditEvent{
						Action:     domain.AuditTokenRejected,
						Address:    addr,
						Reason:     reason,
						OccurredAt: time.Now().UTC(),
					})
				}
				return next(c)
			}

			metrics.AuthOutcomesTotal.WithLabelValues("authenticated").Inc()
			ctx := domain.ContextWithPrincipal(req.Context(), domain.Principal{
				ID:              principal,
				Address:         addr,
				AuthenticatedAt: time.Now().UTC(),
			})
			c.SetRequest(req.WithContext(ctx))
			return next(c)
		}
	}
}
