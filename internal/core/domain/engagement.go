package domain

import (
	"time"

	"github.com/google/uuid"
)

// Engagement is one actor's like on one resource. At most one may exist per
// (Kind, ResourceID, ActorID); the store enforces it with a unique index.
type Engagement struct {
	ID         uuid.UUID    `json:"id"`
	Kind       ResourceKind `json:"kind"`
	ResourceID uuid.UUID    `json:"resource_id"`
	ActorID    uuid.UUID    `json:"actor_id"`
	CreatedAt  time.Time    `json:"created_at"`
}

// EngagementResult is returned after a successful like or unlike.
type EngagementResult struct {
	Kind       ResourceKind
	ResourceID uuid.UUID
	Likes      int64
	Engaged    bool
}

// EngagementStatus is the read view of a resource's likes. Engaged is always
// false for anonymous callers.
type EngagementStatus struct {
	Kind       ResourceKind
	ResourceID uuid.UUID
	Likes      int64
	Engaged    bool
}
