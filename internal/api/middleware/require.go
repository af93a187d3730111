package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/forumhub/forum-api/internal/core/domain"
)

// RequireAuth rejects anonymous requests with 401. Route groups that mutate
// state use it after Authenticate.
func RequireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, ok := domain.PrincipalFromContext(c.Request().Context()); !ok {
				return domain.ErrUnauthenticated
			}
			return next(c)
		}
	}
}
