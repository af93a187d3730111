package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/forumhub/forum-api/internal/core/domain"
	"github.com/forumhub/forum-api/internal/core/ports"
)

// EngagementRepository implements ports.EngagementRepository. Uniqueness is
// enforced by the engagement_unique index created in EnsureIndexes.
type EngagementRepository struct {
	col *mongo.Collection
}

var _ ports.EngagementRepository = (*EngagementRepository)(nil)

func NewEngagementRepository(db *mongo.Database) *EngagementRepository {
	return &EngagementRepository{col: db.Collection(engagementsCollection)}
}

type engagementDoc struct {
	ID         string    `bson:"_id"`
	Kind       string    `bson:"kind"`
	ResourceID string    `bson:"resource_id"`
	ActorID    string    `bson:"actor_id"`
	CreatedAt  time.Time `bson:"created_at"`
}

func engagementFilter(kind domain.ResourceKind, resourceID, actorID uuid.UUID) bson.M {
	return bson.M{
		"kind":        string(kind),
		"resource_id": resourceID.String(),
		"actor_id":    actorID.String(),
	}
}

func (r *EngagementRepository) Exists(ctx context.Context, kind domain.ResourceKind, resourceID, actorID uuid.UUID) (bool, error) {
	n, err := r.col.CountDocuments(ctx, engagementFilter(kind, resourceID, actorID))
	if err != nil {
		return false, fmt.Errorf("count engagement: %w", err)
	}
	return n > 0, nil
}

func (r *EngagementRepository) Insert(ctx context.Context, e *domain.Engagement) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	_, err := r.col.InsertOne(ctx, engagementDoc{
		ID:         e.ID.String(),
		Kind:       string(e.Kind),
		ResourceID: e.ResourceID.String(),
		ActorID:    e.ActorID.String(),
		CreatedAt:  e.CreatedAt,
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrAlreadyEngaged
		}
		return fmt.Errorf("insert engagement: %w", err)
	}
	return nil
}

func (r *EngagementRepository) Delete(ctx context.Context, kind domain.ResourceKind, resourceID, actorID uuid.UUID) error {
	res, err := r.col.DeleteOne(ctx, engagementFilter(kind, resourceID, actorID))
	if err != nil {
		return fmt.Errorf("delete engagement: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotEngaged
	}
	return nil
}

func (r *EngagementRepository) Count(ctx context.Context, kind domain.ResourceKind, resourceID uuid.UUID) (int64, error) {
	n, err := r.col.CountDocuments(ctx, bson.M{"kind": string(kind), "resource_id": resourceID.String()})
	if err != nil {
		return 0, fmt.Errorf("count engagements: %w", err)
	}
	return n, nil
}
