package domain

import (
	"time"

	"github.com/google/uuid"
)

// AuditAction names a security- or engagement-relevant occurrence.
type AuditAction string

const (
	AuditLogin         AuditAction = "login"
	AuditLoginFailed   AuditAction = "login_failed"
	AuditLogout        AuditAction = "logout"
	AuditRefresh       AuditAction = "refresh"
	AuditTokenRejected AuditAction = "token_rejected"
	AuditEngaged       AuditAction = "engaged"
	AuditDisengaged    AuditAction = "disengaged"
)

// Reasons attached to AuditTokenRejected.
const (
	ReasonTokenExpired = "expired"
	ReasonTokenInvalid = "invalid"
)

// AuditEvent is an append-only record of something a client did.
// ActorID is uuid.Nil for anonymous requests; Kind and ResourceID are only
// set for engagement actions.
type AuditEvent struct {
	ID         uuid.UUID
	Action     AuditAction
	ActorID    uuid.UUID
	Address    string
	Kind       ResourceKind
	ResourceID uuid.UUID
	Reason     string
	OccurredAt time.Time
}

// ShardKey groups events of the same actor (or, when anonymous, the same
// address) so they are written in order.
func (e AuditEvent) ShardKey() string {
	if e.ActorID != uuid.Nil {
		return e.ActorID.String()
	}
	return e.Address
}
