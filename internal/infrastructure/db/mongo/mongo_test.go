package mongo

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/forumhub/forum-api/internal/core/domain"
)

func TestAuditDocument_OmitsUnsetFields(t *testing.T) {
	doc := auditDocument(&domain.AuditEvent{
		ID:         uuid.New(),
		Action:     domain.AuditTokenRejected,
		Address:    "10.0.0.1",
		Reason:     domain.ReasonTokenExpired,
		OccurredAt: time.Now(),
	})

	if _, ok := doc["actor_id"]; ok {
		t.Fatalf("anonymous event must not carry actor_id")
	}
	if _, ok := doc["kind"]; ok {
		t.Fatalf("non-engagement event must not carry kind")
	}
	if doc["reason"] != domain.ReasonTokenExpired {
		t.Fatalf("unexpected reason %v", doc["reason"])
	}
}

func TestAuditDocument_EngagementFields(t *testing.T) {
	actor, resource := uuid.New(), uuid.New()
	doc := auditDocument(&domain.AuditEvent{
		ID:         uuid.New(),
		Action:     domain.AuditEngaged,
		ActorID:    actor,
		Kind:       domain.KindTopic,
		ResourceID: resource,
	})

	if doc["actor_id"] != actor.String() || doc["resource_id"] != resource.String() || doc["kind"] != "topic" {
		t.Fatalf("unexpected document %v", doc)
	}
}

func TestUserDoc_ToDomain(t *testing.T) {
	id := uuid.New()
	u, err := userDoc{ID: id.String(), Username: "alice", Likes: 3}.toDomain()
	if err != nil {
		t.Fatalf("toDomain: %v", err)
	}
	if u.ID != id || u.Likes != 3 {
		t.Fatalf("unexpected user %+v", u)
	}

	if _, err := (userDoc{ID: "not-a-uuid"}).toDomain(); err == nil {
		t.Fatalf("expected error for malformed id")
	}
}

func TestEngagementFilter(t *testing.T) {
	r, a := uuid.New(), uuid.New()
	f := engagementFilter(domain.KindComment, r, a)
	if f["kind"] != "comment" || f["resource_id"] != r.String() || f["actor_id"] != a.String() {
		t.Fatalf("unexpected filter %v", f)
	}
}
