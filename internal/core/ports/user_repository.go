package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/forumhub/forum-api/internal/core/domain"
)

// UserRepository defines persistence for user accounts. Users are also a
// likeable resource, so the repository carries the counter operations.
type UserRepository interface {
	LikeableRepository

	// Create returns domain.ErrUserExists when the email or username is taken.
	Create(ctx context.Context, user *domain.User) error
	// FindByEmail and FindByID return domain.ErrUserNotFound when absent.
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}
