package ports

import (
	"context"

	"github.com/forumhub/forum-api/internal/core/domain"
)

// AuditRepository persists audit events.
type AuditRepository interface {
	Insert(ctx context.Context, event *domain.AuditEvent) error
}

// AuditService validates and stores a single audit event.
type AuditService interface {
	Record(ctx context.Context, event domain.AuditEvent) error
}

// AuditSink accepts events for asynchronous recording. Enqueue never blocks
// the caller.
type AuditSink interface {
	Enqueue(event domain.AuditEvent)
}
