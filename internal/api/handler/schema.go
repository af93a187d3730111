package handler

import (
	"time"

	"github.com/google/uuid"

	"github.com/forumhub/forum-api/internal/core/domain"
)

// --- Auth ---

type registerRequest struct {
	Username string `json:"username" validate:"required,min=3,max=32,alphanum"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type sessionResponse struct {
	User      userResponse `json:"user"`
	ExpiresAt time.Time    `json:"expires_at"`
}

// --- Content ---

type createForumRequest struct {
	Title       string `json:"title"       validate:"required,max=200"`
	Description string `json:"description" validate:"max=2000"`
}

type createTopicRequest struct {
	Title string `json:"title" validate:"required,max=200"`
	Body  string `json:"body"  validate:"required,max=20000"`
}

type createCommentRequest struct {
	Body string `json:"body" validate:"required,max=10000"`
}

type userResponse struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email,omitempty"`
	Likes     int64     `json:"likes"`
	CreatedAt time.Time `json:"created_at"`
}

type forumResponse struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	AuthorID    uuid.UUID `json:"author_id"`
	Likes       int64     `json:"likes"`
	CreatedAt   time.Time `json:"created_at"`
}

type topicResponse struct {
	ID        uuid.UUID `json:"id"`
	ForumID   uuid.UUID `json:"forum_id"`
	AuthorID  uuid.UUID `json:"author_id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Likes     int64     `json:"likes"`
	CreatedAt time.Time `json:"created_at"`
}

type commentResponse struct {
	ID        uuid.UUID `json:"id"`
	TopicID   uuid.UUID `json:"topic_id"`
	AuthorID  uuid.UUID `json:"author_id"`
	Body      string    `json:"body"`
	Likes     int64     `json:"likes"`
	CreatedAt time.Time `json:"created_at"`
}

// --- Engagements ---

type engagementResponse struct {
	Kind       domain.ResourceKind `json:"kind"`
	ResourceID uuid.UUID           `json:"resource_id"`
	Likes      int64               `json:"likes"`
	Engaged    bool                `json:"engaged"`
}

// --- Mappers ---

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Likes:     u.Likes,
		CreatedAt: u.CreatedAt,
	}
}

func toForumResponse(f *domain.Forum) forumResponse {
	return forumResponse{
		ID:          f.ID,
		Title:       f.Title,
		Description: f.Description,
		AuthorID:    f.AuthorID,
		Likes:       f.Likes,
		CreatedAt:   f.CreatedAt,
	}
}

func toTopicResponse(t *domain.Topic) topicResponse {
	return topicResponse{
		ID:        t.ID,
		ForumID:   t.ForumID,
		AuthorID:  t.AuthorID,
		Title:     t.Title,
		Body:      t.Body,
		Likes:     t.Likes,
		CreatedAt: t.CreatedAt,
	}
}

func toCommentResponse(cm *domain.Comment) commentResponse {
	return commentResponse{
		ID:        cm.ID,
		TopicID:   cm.TopicID,
		AuthorID:  cm.AuthorID,
		Body:      cm.Body,
		Likes:     cm.Likes,
		CreatedAt: cm.CreatedAt,
	}
}
