package memory

import (
	"context"

	"github.com/google/uuid"

	"github.com/forumhub/forum-api/internal/core/domain"
	"github.com/forumhub/forum-api/internal/core/ports"
)

// EngagementRepository keys records by (kind, resource, actor), so the map
// itself is the uniqueness constraint.
type EngagementRepository struct{ s *Store }

var _ ports.EngagementRepository = (*EngagementRepository)(nil)

func (r *EngagementRepository) Exists(ctx context.Context, kind domain.ResourceKind, resourceID, actorID uuid.UUID) (bool, error) {
	var found bool
	err := r.s.run(ctx, func(*tx) error {
		_, found = r.s.engagements[engagementKey{kind, resourceID, actorID}]
		return nil
	})
	return found, err
}

func (r *EngagementRepository) Insert(ctx context.Context, e *domain.Engagement) error {
	key := engagementKey{e.Kind, e.ResourceID, e.ActorID}
	return r.s.run(ctx, func(t *tx) error {
		if _, taken := r.s.engagements[key]; taken {
			return domain.ErrAlreadyEngaged
		}
		if e.ID == uuid.Nil {
			e.ID = uuid.New()
		}
		clone := *e
		r.s.engagements[key] = &clone
		t.onRollback(func() { delete(r.s.engagements, key) })
		return nil
	})
}

func (r *EngagementRepository) Delete(ctx context.Context, kind domain.ResourceKind, resourceID, actorID uuid.UUID) error {
	key := engagementKey{kind, resourceID, actorID}
	return r.s.run(ctx, func(t *tx) error {
		prev, ok := r.s.engagements[key]
		if !ok {
			return domain.ErrNotEngaged
		}
		delete(r.s.engagements, key)
		t.onRollback(func() { r.s.engagements[key] = prev })
		return nil
	})
}

func (r *EngagementRepository) Count(ctx context.Context, kind domain.ResourceKind, resourceID uuid.UUID) (int64, error) {
	var n int64
	err := r.s.run(ctx, func(*tx) error {
		for k := range r.s.engagements {
			if k.kind == kind && k.resource == resourceID {
				n++
			}
		}
		return nil
	})
	return n, err
}
