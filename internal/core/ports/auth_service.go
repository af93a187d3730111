package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/forumhub/forum-api/internal/core/domain"
)

// RegisterInput carries the fields needed to open an account.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// Session is what a successful login or refresh hands back to the client.
// Refresh is empty after a refresh call.
type Session struct {
	User    *domain.User
	Access  domain.IssuedToken
	Refresh domain.IssuedToken
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password, address string) (*Session, error)
	Refresh(ctx context.Context, refreshToken, address string) (*Session, error)
	Logout(ctx context.Context, principal uuid.UUID, address string)
	Me(ctx context.Context, principal uuid.UUID) (*domain.User, error)
}
