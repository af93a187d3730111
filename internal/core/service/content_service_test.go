package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/forumhub/forum-api/internal/core/domain"
	"github.com/forumhub/forum-api/internal/infrastructure/db/memory"
)

func newTestContent() (*contentService, *memory.Store) {
	s := memory.New()
	svc := NewContentService(ContentRepos{
		Users:    s.Users(),
		Forums:   s.Forums(),
		Topics:   s.Topics(),
		Comments: s.Comments(),
	}).(*contentService)
	return svc, s
}

func TestContentService_CreateHierarchy(t *testing.T) {
	svc, _ := newTestContent()
	ctx := context.Background()
	author := uuid.New()

	forum, err := svc.CreateForum(ctx, author, "  General  ", "talk")
	if err != nil {
		t.Fatalf("CreateForum: %v", err)
	}
	if forum.Title != "General" || forum.Likes != 0 {
		t.Fatalf("unexpected forum %+v", forum)
	}

	topic, err := svc.CreateTopic(ctx, forum.ID, author, "Hello", "first post")
	if err != nil {
		t.Fatalf("CreateTopic: %v", err)
	}
	comment, err := svc.CreateComment(ctx, topic.ID, author, "welcome")
	if err != nil {
		t.Fatalf("CreateComment: %v", err)
	}

	got, err := svc.GetComment(ctx, comment.ID)
	if err != nil || got.TopicID != topic.ID {
		t.Fatalf("GetComment: %+v, %v", got, err)
	}
}

func TestContentService_Validation(t *testing.T) {
	svc, _ := newTestContent()
	ctx := context.Background()

	if _, err := svc.CreateForum(ctx, uuid.New(), " ", ""); !errors.Is(err, ErrEmptyContent) {
		t.Fatalf("expected ErrEmptyContent, got %v", err)
	}
	if _, err := svc.CreateTopic(ctx, uuid.New(), uuid.New(), "t", ""); !errors.Is(err, domain.ErrResourceNotFound) {
		t.Fatalf("expected ErrResourceNotFound for missing forum, got %v", err)
	}
	if _, err := svc.CreateComment(ctx, uuid.New(), uuid.New(), "c"); !errors.Is(err, domain.ErrResourceNotFound) {
		t.Fatalf("expected ErrResourceNotFound for missing topic, got %v", err)
	}
}

func TestContentService_GetUserHidesEmail(t *testing.T) {
	svc, store := newTestContent()
	ctx := context.Background()

	u := &domain.User{Username: "gina", Email: "gina@example.com"}
	if err := store.Users().Create(ctx, u); err != nil {
		t.Fatalf("seed: %v", err)
	}

	got, err := svc.GetUser(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if got.Email != "" {
		t.Fatalf("email leaked in public profile")
	}
	if _, err := svc.GetUser(ctx, uuid.New()); !errors.Is(err, domain.ErrResourceNotFound) {
		t.Fatalf("expected ErrResourceNotFound, got %v", err)
	}
}
