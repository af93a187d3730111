package memory

import (
	"context"

	"github.com/forumhub/forum-api/internal/core/domain"
	"github.com/forumhub/forum-api/internal/core/ports"
)

// AuditRepository appends audit events to a slice.
type AuditRepository struct{ s *Store }

var _ ports.AuditRepository = (*AuditRepository)(nil)

func (r *AuditRepository) Insert(ctx context.Context, e *domain.AuditEvent) error {
	return r.s.run(ctx, func(*tx) error {
		r.s.audit = append(r.s.audit, *e)
		return nil
	})
}

// Events returns a copy of every stored event in insertion order.
func (r *AuditRepository) Events() []domain.AuditEvent {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]domain.AuditEvent, len(r.s.audit))
	copy(out, r.s.audit)
	return out
}
