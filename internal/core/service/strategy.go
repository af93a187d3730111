package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/forumhub/forum-api/internal/core/domain"
	"github.com/forumhub/forum-api/internal/core/ports"
)

// counterStrategy applies likes to the counter of one resource kind.
type counterStrategy struct {
	repo ports.LikeableRepository
	// selfGuard rejects an actor engaging with itself. Only users can be
	// both the resource and the actor.
	selfGuard bool
}

// LikeResource increments the counter and returns its new value.
func (s counterStrategy) LikeResource(ctx context.Context, id uuid.UUID) (int64, error) {
	return s.repo.AddLikes(ctx, id, 1)
}

// DislikeResource decrements the counter and returns its new value.
func (s counterStrategy) DislikeResource(ctx context.Context, id uuid.UUID) (int64, error) {
	return s.repo.AddLikes(ctx, id, -1)
}

func (s counterStrategy) check(resourceID, actorID uuid.UUID) error {
	if s.selfGuard && resourceID == actorID {
		return domain.ErrSelfEngagement
	}
	return nil
}

// strategyFor resolves the strategy for kind. The set of kinds is closed, so
// every case of domain.ResourceKinds must be listed here.
func (s *engagementService) strategyFor(kind domain.ResourceKind) (counterStrategy, error) {
	switch kind {
	case domain.KindUser:
		return counterStrategy{repo: s.users, selfGuard: true}, nil
	case domain.KindForum:
		return counterStrategy{repo: s.forums}, nil
	case domain.KindTopic:
		return counterStrategy{repo: s.topics}, nil
	case domain.KindComment:
		return counterStrategy{repo: s.comments}, nil
	default:
		return counterStrategy{}, fmt.Errorf("%w: %q", domain.ErrUnknownResourceKind, string(kind))
	}
}
