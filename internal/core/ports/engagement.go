package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/forumhub/forum-api/internal/core/domain"
)

// TxManager runs fn as one atomic unit against storage. Repository calls made
// with the ctx passed to fn join the unit; if fn returns an error every write
// made through that ctx is rolled back.
type TxManager interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// LikeableRepository is the counter surface of a likeable resource.
// Every method returns domain.ErrResourceNotFound when id does not exist.
type LikeableRepository interface {
	Likes(ctx context.Context, id uuid.UUID) (int64, error)
	// AddLikes applies delta to the counter and returns the new value.
	AddLikes(ctx context.Context, id uuid.UUID, delta int64) (int64, error)
	SetLikes(ctx context.Context, id uuid.UUID, likes int64) error
}

// EngagementRepository stores one record per (kind, resource, actor).
type EngagementRepository interface {
	Exists(ctx context.Context, kind domain.ResourceKind, resourceID, actorID uuid.UUID) (bool, error)
	// Insert returns domain.ErrAlreadyEngaged when the unique constraint on
	// (kind, resource, actor) rejects the record.
	Insert(ctx context.Context, e *domain.Engagement) error
	// Delete returns domain.ErrNotEngaged when no record matched.
	Delete(ctx context.Context, kind domain.ResourceKind, resourceID, actorID uuid.UUID) error
	Count(ctx context.Context, kind domain.ResourceKind, resourceID uuid.UUID) (int64, error)
}

// EngagementService applies likes across resource kinds.
type EngagementService interface {
	Like(ctx context.Context, kind domain.ResourceKind, resourceID, actorID uuid.UUID) (*domain.EngagementResult, error)
	Unlike(ctx context.Context, kind domain.ResourceKind, resourceID, actorID uuid.UUID) (*domain.EngagementResult, error)
	// Status reports the counter; actorID may be uuid.Nil for anonymous callers.
	Status(ctx context.Context, kind domain.ResourceKind, resourceID, actorID uuid.UUID) (*domain.EngagementStatus, error)
	// Reconcile recounts live records and rewrites the counter.
	Reconcile(ctx context.Context, kind domain.ResourceKind, resourceID uuid.UUID) (*domain.EngagementStatus, error)
}
