package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/forumhub/forum-api/internal/core/domain"
	"github.com/forumhub/forum-api/internal/core/ports"
)

// EngagementRepos bundles the repositories the engagement service mutates.
type EngagementRepos struct {
	Tx          ports.TxManager
	Engagements ports.EngagementRepository
	Users       ports.UserRepository
	Forums      ports.ForumRepository
	Topics      ports.TopicRepository
	Comments    ports.CommentRepository
}

type engagementService struct {
	tx          ports.TxManager
	engagements ports.EngagementRepository
	users       ports.UserRepository
	forums      ports.ForumRepository
	topics      ports.TopicRepository
	comments    ports.CommentRepository
	audit       ports.AuditSink
	log         zerolog.Logger
	now         func() time.Time
}

// NewEngagementService returns an EngagementService implementation. audit may
// be nil.
func NewEngagementService(repos EngagementRepos, audit ports.AuditSink, log zerolog.Logger) ports.EngagementService {
	if audit == nil {
		audit = nopSink{}
	}
	return &engagementService{
		tx:          repos.Tx,
		engagements: repos.Engagements,
		users:       repos.Users,
		forums:      repos.Forums,
		topics:      repos.Topics,
		comments:    repos.Comments,
		audit:       audit,
		log:         log,
		now:         time.Now,
	}
}

// Like records actorID's like on the resource and increments its counter.
// The record and the counter change in one transaction.
func (s *engagementService) Like(ctx context.Context, kind domain.ResourceKind, resourceID, actorID uuid.UUID) (*domain.EngagementResult, error) {
	strategy, err := s.strategyFor(kind)
	if err != nil {
		return nil, err
	}
	if err := strategy.check(resourceID, actorID); err != nil {
		return nil, err
	}

	var likes int64
	err = s.tx.WithTx(ctx, func(ctx context.Context) error {
		engaged, err := s.engagements.Exists(ctx, kind, resourceID, actorID)
		if err != nil {
			return fmt.Errorf("lookup engagement: %w", err)
		}
		if engaged {
			return domain.ErrAlreadyEngaged
		}

		if _, err := strategy.repo.Likes(ctx, resourceID); err != nil {
			return err
		}
		if err := s.requireActor(ctx, actorID); err != nil {
			return err
		}

		likes, err = strategy.LikeResource(ctx, resourceID)
		if err != nil {
			return err
		}

		// The unique index on (kind, resource, actor) rejects a concurrent
		// like that passed the Exists check; the counter change rolls back.
		return s.engagements.Insert(ctx, &domain.Engagement{
			ID:         uuid.New(),
			Kind:       kind,
			ResourceID: resourceID,
			ActorID:    actorID,
			CreatedAt:  s.now().UTC(),
		})
	})
	if err != nil {
		return nil, s.classify(err, "like", kind, resourceID)
	}

	s.record(ctx, domain.AuditEngaged, kind, resourceID, actorID)
	return &domain.EngagementResult{Kind: kind, ResourceID: resourceID, Likes: likes, Engaged: true}, nil
}

// Unlike removes actorID's like and decrements the counter.
func (s *engagementService) Unlike(ctx context.Context, kind domain.ResourceKind, resourceID, actorID uuid.UUID) (*domain.EngagementResult, error) {
	strategy, err := s.strategyFor(kind)
	if err != nil {
		return nil, err
	}
	if err := strategy.check(resourceID, actorID); err != nil {
		return nil, err
	}

	var likes int64
	err = s.tx.WithTx(ctx, func(ctx context.Context) error {
		if err := s.engagements.Delete(ctx, kind, resourceID, actorID); err != nil {
			return err
		}
		likes, err = strategy.DislikeResource(ctx, resourceID)
		return err
	})
	if err != nil {
		return nil, s.classify(err, "unlike", kind, resourceID)
	}

	s.record(ctx, domain.AuditDisengaged, kind, resourceID, actorID)
	return &domain.EngagementResult{Kind: kind, ResourceID: resourceID, Likes: likes, Engaged: false}, nil
}

// Status returns the counter of a resource and, when actorID is set, whether
// that actor currently likes it.
func (s *engagementService) Status(ctx context.Context, kind domain.ResourceKind, resourceID, actorID uuid.UUID) (*domain.EngagementStatus, error) {
	strategy, err := s.strategyFor(kind)
	if err != nil {
		return nil, err
	}

	likes, err := strategy.repo.Likes(ctx, resourceID)
	if err != nil {
		return nil, err
	}

	status := &domain.EngagementStatus{Kind: kind, ResourceID: resourceID, Likes: likes}
	if actorID != uuid.Nil {
		status.Engaged, err = s.engagements.Exists(ctx, kind, resourceID, actorID)
		if err != nil {
			return nil, fmt.Errorf("lookup engagement: %w", err)
		}
	}
	return status, nil
}

// Reconcile rewrites the counter from the number of live records.
func (s *engagementService) Reconcile(ctx context.Context, kind domain.ResourceKind, resourceID uuid.UUID) (*domain.EngagementStatus, error) {
	strategy, err := s.strategyFor(kind)
	if err != nil {
		return nil, err
	}

	var before, after int64
	err = s.tx.WithTx(ctx, func(ctx context.Context) error {
		if before, err = strategy.repo.Likes(ctx, resourceID); err != nil {
			return err
		}
		if after, err = s.engagements.Count(ctx, kind, resourceID); err != nil {
			return fmt.Errorf("count engagements: %w", err)
		}
		if before == after {
			return nil
		}
		return strategy.repo.SetLikes(ctx, resourceID, after)
	})
	if err != nil {
		return nil, s.classify(err, "reconcile", kind, resourceID)
	}

	if before != after {
		s.log.Warn().
			Str("kind", kind.String()).
			Str("resource_id", resourceID.String()).
			Int64("counter", before).
			Int64("records", after).
			Msg("engagement counter drift corrected")
	}
	return &domain.EngagementStatus{Kind: kind, ResourceID: resourceID, Likes: after}, nil
}

func (s *engagementService) requireActor(ctx context.Context, actorID uuid.UUID) error {
	if _, err := s.users.FindByID(ctx, actorID); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrResourceNotFound
		}
		return fmt.Errorf("lookup actor: %w", err)
	}
	return nil
}

// classify passes domain outcomes through unchanged and logs everything else
// as a storage fault.
func (s *engagementService) classify(err error, op string, kind domain.ResourceKind, resourceID uuid.UUID) error {
	if isEngagementOutcome(err) {
		return err
	}
	s.log.Error().Err(err).
		Str("op", op).
		Str("kind", kind.String()).
		Str("resource_id", resourceID.String()).
		Msg("engagement transaction failed")
	return fmt.Errorf("%s: %w", op, err)
}

func (s *engagementService) record(ctx context.Context, action domain.AuditAction, kind domain.ResourceKind, resourceID, actorID uuid.UUID) {
	ev := domain.AuditEvent{
		ID:         uuid.New(),
		Action:     action,
		ActorID:    actorID,
		Kind:       kind,
		ResourceID: resourceID,
		OccurredAt: s.now().UTC(),
	}
	if p, ok := domain.PrincipalFromContext(ctx); ok {
		ev.Address = p.Address
	}
	s.audit.Enqueue(ev)
}

func isEngagementOutcome(err error) bool {
	return errors.Is(err, domain.ErrAlreadyEngaged) ||
		errors.Is(err, domain.ErrNotEngaged) ||
		errors.Is(err, domain.ErrSelfEngagement) ||
		errors.Is(err, domain.ErrResourceNotFound) ||
		errors.Is(err, domain.ErrUnknownResourceKind)
}

type nopSink struct{}

func (nopSink) Enqueue(domain.AuditEvent) {}
