package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/forumhub/forum-api/internal/core/domain"
)

// ContentService is the thin create/read surface over forums, topics,
// comments and public user profiles.
type ContentService interface {
	CreateForum(ctx context.Context, authorID uuid.UUID, title, description string) (*domain.Forum, error)
	GetForum(ctx context.Context, id uuid.UUID) (*domain.Forum, error)
	CreateTopic(ctx context.Context, forumID, authorID uuid.UUID, title, body string) (*domain.Topic, error)
	GetTopic(ctx context.Context, id uuid.UUID) (*domain.Topic, error)
	CreateComment(ctx context.Context, topicID, authorID uuid.UUID, body string) (*domain.Comment, error)
	GetComment(ctx context.Context, id uuid.UUID) (*domain.Comment, error)
	GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error)
}
