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

var errEmptyAction = errors.New("audit event has no action")

type auditService struct {
	repo ports.AuditRepository
	log  zerolog.Logger
}

// NewAuditService returns an AuditService that persists through repo.
func NewAuditService(repo ports.AuditRepository, log zerolog.Logger) ports.AuditService {
	return &auditService{repo: repo, log: log}
}

// Record fills in missing identifiers and stores the event.
func (s *auditService) Record(ctx context.Context, event domain.AuditEvent) error {
	if event.Action == "" {
		return errEmptyAction
	}
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	if err := s.repo.Insert(ctx, &event); err != nil {
		return fmt.Errorf("record audit event: %w", err)
	}

	s.log.Debug().
		Str("action", string(event.Action)).
		Str("actor_id", event.ActorID.String()).
		Str("address", event.Address).
		Str("reason", event.Reason).
		Msg("audit event recorded")
	return nil
}
