package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/forumhub/forum-api/internal/core/domain"
	"github.com/forumhub/forum-api/internal/core/ports"
)

// ErrEmptyContent is returned when a required text field is blank.
var ErrEmptyContent = errors.New("content must not be empty")

// ContentRepos bundles the content repositories.
type ContentRepos struct {
	Users    ports.UserRepository
	Forums   ports.ForumRepository
	Topics   ports.TopicRepository
	Comments ports.CommentRepository
}

type contentService struct {
	repos ContentRepos
}

// NewContentService returns the create/read surface over forum content.
// Counters start at zero and are only changed by the engagement service.
func NewContentService(repos ContentRepos) ports.ContentService {
	return &contentService{repos: repos}
}

func (s *contentService) CreateForum(ctx context.Context, authorID uuid.UUID, title, description string) (*domain.Forum, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrEmptyContent
	}
	f := &domain.Forum{
		ID:          uuid.New(),
		Title:       title,
		Description: strings.TrimSpace(description),
		AuthorID:    authorID,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.repos.Forums.Create(ctx, f); err != nil {
		return nil, fmt.Errorf("create forum: %w", err)
	}
	return f, nil
}

func (s *contentService) GetForum(ctx context.Context, id uuid.UUID) (*domain.Forum, error) {
	return s.repos.Forums.FindByID(ctx, id)
}

func (s *contentService) CreateTopic(ctx context.Context, forumID, authorID uuid.UUID, title, body string) (*domain.Topic, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrEmptyContent
	}
	if _, err := s.repos.Forums.FindByID(ctx, forumID); err != nil {
		return nil, err
	}
	t := &domain.Topic{
		ID:        uuid.New(),
		ForumID:   forumID,
		AuthorID:  authorID,
		Title:     title,
		Body:      body,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repos.Topics.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("create topic: %w", err)
	}
	return t, nil
}

func (s *contentService) GetTopic(ctx context.Context, id uuid.UUID) (*domain.Topic, error) {
	return s.repos.Topics.FindByID(ctx, id)
}

func (s *contentService) CreateComment(ctx context.Context, topicID, authorID uuid.UUID, body string) (*domain.Comment, error) {
	if strings.TrimSpace(body) == "" {
		return nil, ErrEmptyContent
	}
	if _, err := s.repos.Topics.FindByID(ctx, topicID); err != nil {
		return nil, err
	}
	c := &domain.Comment{
		ID:        uuid.New(),
		TopicID:   topicID,
		AuthorID:  authorID,
		Body:      body,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repos.Comments.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	return c, nil
}

func (s *contentService) GetComment(ctx context.Context, id uuid.UUID) (*domain.Comment, error) {
	return s.repos.Comments.FindByID(ctx, id)
}

// GetUser returns a public profile. A missing user is reported as a missing
// resource, matching the other kinds.
func (s *contentService) GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	u, err := s.repos.Users.FindByID(ctx, id)
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, domain.ErrResourceNotFound
	}
	if err != nil {
		return nil, err
	}
	u.Email = ""
	return u, nil
}
