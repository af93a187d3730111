package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/forumhub/forum-api/internal/core/domain"
)

// ForumRepository, TopicRepository and CommentRepository persist the likeable
// content kinds. FindByID returns domain.ErrResourceNotFound when absent.

type ForumRepository interface {
	LikeableRepository
	Create(ctx context.Context, f *domain.Forum) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Forum, error)
}

type TopicRepository interface {
	LikeableRepository
	Create(ctx context.Context, t *domain.Topic) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Topic, error)
}

type CommentRepository interface {
	LikeableRepository
	Create(ctx context.Context, c *domain.Comment) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Comment, error)
}
