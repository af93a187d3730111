package domain

import (
	"time"

	"github.com/google/uuid"
)

// Forum groups topics.
type Forum struct {
	ID          uuid.UUID
	Title       string
	Description string
	AuthorID    uuid.UUID
	Likes       int64
	CreatedAt   time.Time
}

// Topic is a discussion thread inside a forum.
type Topic struct {
	ID        uuid.UUID
	ForumID   uuid.UUID
	AuthorID  uuid.UUID
	Title     string
	Body      string
	Likes     int64
	CreatedAt time.Time
}

// Comment is a reply on a topic.
type Comment struct {
	ID        uuid.UUID
	TopicID   uuid.UUID
	AuthorID  uuid.UUID
	Body      string
	Likes     int64
	CreatedAt time.Time
}
