package handler

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/forumhub/forum-api/internal/core/domain"
)

// principal returns the authenticated actor placed in the request context by
// the Authenticate middleware. Routes behind RequireAuth can rely on it; the
// error only fires when a route was registered without that guard.
func principal(c echo.Context) (domain.Principal, error) {
	p, ok := domain.PrincipalFromContext(c.Request().Context())
	if !ok {
		return domain.Principal{}, domain.ErrUnauthenticated
	}
	return p, nil
}

// actorOrNil is principal for routes open to anonymous callers.
func actorOrNil(c echo.Context) uuid.UUID {
	p, ok := domain.PrincipalFromContext(c.Request().Context())
	if !ok {
		return uuid.Nil
	}
	return p.ID
}

// pathID parses the :id path parameter. A malformed id cannot name an
// existing resource, so it is reported as not found.
func pathID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, domain.ErrResourceNotFound
	}
	return id, nil
}
