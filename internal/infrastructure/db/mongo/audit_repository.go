package mongo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/forumhub/forum-api/internal/core/domain"
	"github.com/forumhub/forum-api/internal/core/ports"
)

// AuditRepository persists audit events to the audit_events collection.
type AuditRepository struct {
	db *mongo.Database
}

var _ ports.AuditRepository = (*AuditRepository)(nil)

func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) Insert(ctx context.Context, event *domain.AuditEvent) error {
	if _, err := r.db.Collection(auditCollection).InsertOne(ctx, auditDocument(event)); err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

// auditDocument omits the fields that do not apply to the action.
func auditDocument(e *domain.AuditEvent) bson.M {
	doc := bson.M{
		"_id":         e.ID.String(),
		"action":      string(e.Action),
		"occurred_at": e.OccurredAt.UTC(),
	}
	if e.ActorID != uuid.Nil {
		doc["actor_id"] = e.ActorID.String()
	}
	if e.Address != "" {
		doc["address"] = e.Address
	}
	if e.Kind != "" {
		doc["kind"] = string(e.Kind)
		doc["resource_id"] = e.ResourceID.String()
	}
	if e.Reason != "" {
		doc["reason"] = e.Reason
	}
	return doc
}
