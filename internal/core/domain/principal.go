package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Principal is the authenticated actor of a single request, plus the request
// metadata recorded when the token was accepted.
type Principal struct {
	ID              uuid.UUID
	Address         string
	AuthenticatedAt time.Time
}

// TokenType distinguishes access tokens from refresh tokens.
type TokenType string

const (
	TokenAccess  TokenType = ""
	TokenRefresh TokenType = "refresh"
)

// IssuedToken is a signed session token and its lifetime.
type IssuedToken struct {
	Value     string
	ExpiresAt time.Time
	MaxAge    time.Duration
}

type principalKey struct{}

// ContextWithPrincipal returns a copy of ctx carrying p. An existing
// principal is never replaced.
func ContextWithPrincipal(ctx context.Context, p Principal) context.Context {
	if _, ok := PrincipalFromContext(ctx); ok {
		return ctx
	}
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromContext returns the principal stored in ctx, if any.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}
