package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is a forum member. Likes counts the engagements other users made on
// the profile and is only changed by the engagement service.
type User struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email,omitempty"`
	PasswordHash string    `json:"-"`
	Likes        int64     `json:"likes"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
