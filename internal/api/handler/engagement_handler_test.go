package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/forumhub/forum-api/internal/core/domain"
)

type stubEngagementService struct {
	likeFn      func(ctx context.Context, kind domain.ResourceKind, resourceID, actorID uuid.UUID) (*domain.EngagementResult, error)
	unlikeFn    func(ctx context.Context, kind domain.ResourceKind, resourceID, actorID uuid.UUID) (*domain.EngagementResult, error)
	statusFn    func(ctx context.Context, kind domain.ResourceKind, resourceID, actorID uuid.UUID) (*domain.EngagementStatus, error)
	reconcileFn func(ctx context.Context, kind domain.ResourceKind, resourceID uuid.UUID) (*domain.EngagementStatus, error)
}

func (s *stubEngagementService) Like(ctx context.Context, kind domain.ResourceKind, resourceID, actorID uuid.UUID) (*domain.EngagementResult, error) {
	return s.likeFn(ctx, kind, resourceID, actorID)
}

func (s *stubEngagementService) Unlike(ctx context.Context, kind domain.ResourceKind, resourceID, actorID uuid.UUID) (*domain.EngagementResult, error) {
	return s.unlikeFn(ctx, kind, resourceID, actorID)
}

func (s *stubEngagementService) Status(ctx context.Context, kind domain.ResourceKind, resourceID, actorID uuid.UUID) (*domain.EngagementStatus, error) {
	return s.statusFn(ctx, kind, resourceID, actorID)
}

func (s *stubEngagementService) Reconcile(ctx context.Context, kind domain.ResourceKind, resourceID uuid.UUID) (*domain.EngagementStatus, error) {
	return s.reconcileFn(ctx, kind, resourceID)
}

func engagementContext(e *echo.Echo, req *http.Request, rec *httptest.ResponseRecorder, kind, id string) echo.Context {
	c := e.NewContext(req, rec)
	c.SetPath("/v1/engagements/:kind/:id")
	c.SetParamNames("kind", "id")
	c.SetParamValues(kind, id)
	return c
}

func TestEngagementHandler_Like(t *testing.T) {
	e := newTestEcho()
	actor, topic := uuid.New(), uuid.New()
	stub := &stubEngagementService{
		likeFn: func(ctx context.Context, kind domain.ResourceKind, resourceID, actorID uuid.UUID) (*domain.EngagementResult, error) {
			if kind != domain.KindTopic || resourceID != topic || actorID != actor {
				t.Fatalf("unexpected args: %s %s %s", kind, resourceID, actorID)
			}
			return &domain.EngagementResult{Kind: kind, ResourceID: resourceID, Likes: 1, Engaged: true}, nil
		},
	}
	handler := NewEngagementHandler(stub)

	req := withPrincipal(httptest.NewRequest(http.MethodPost, "/", nil), actor)
	rec := httptest.NewRecorder()

	if err := handler.Like(engagementContext(e, req, rec, "topics", topic.String())); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp engagementResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Likes != 1 || !resp.Engaged || resp.Kind != domain.KindTopic {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestEngagementHandler_Like_PassesOutcomeErrors(t *testing.T) {
	e := newTestEcho()
	for _, want := range []error{domain.ErrAlreadyEngaged, domain.ErrSelfEngagement, domain.ErrResourceNotFound} {
		stub := &stubEngagementService{
			likeFn: func(ctx context.Context, kind domain.ResourceKind, resourceID, actorID uuid.UUID) (*domain.EngagementResult, error) {
				return nil, want
			},
		}
		handler := NewEngagementHandler(stub)

		req := withPrincipal(httptest.NewRequest(http.MethodPost, "/", nil), uuid.New())
		c := engagementContext(e, req, httptest.NewRecorder(), "user", uuid.NewString())

		if err := handler.Like(c); !errors.Is(err, want) {
			t.Fatalf("expected %v, got %v", want, err)
		}
	}
}

func TestEngagementHandler_UnknownKind(t *testing.T) {
	e := newTestEcho()
	stub := &stubEngagementService{
		likeFn: func(ctx context.Context, kind domain.ResourceKind, resourceID, actorID uuid.UUID) (*domain.EngagementResult, error) {
			t.Fatalf("service must not be reached")
			return nil, nil
		},
	}
	handler := NewEngagementHandler(stub)

	req := withPrincipal(httptest.NewRequest(http.MethodPost, "/", nil), uuid.New())
	c := engagementContext(e, req, httptest.NewRecorder(), "badges", uuid.NewString())

	if err := handler.Like(c); !errors.Is(err, domain.ErrUnknownResourceKind) {
		t.Fatalf("expected ErrUnknownResourceKind, got %v", err)
	}
}

func TestEngagementHandler_MalformedID(t *testing.T) {
	e := newTestEcho()
	handler := NewEngagementHandler(&stubEngagementService{})

	req := withPrincipal(httptest.NewRequest(http.MethodDelete, "/", nil), uuid.New())
	c := engagementContext(e, req, httptest.NewRecorder(), "forum", "not-a-uuid")

	if err := handler.Unlike(c); !errors.Is(err, domain.ErrResourceNotFound) {
		t.Fatalf("expected ErrResourceNotFound, got %v", err)
	}
}

func TestEngagementHandler_Like_Anonymous(t *testing.T) {
	e := newTestEcho()
	handler := NewEngagementHandler(&stubEngagementService{})

	c := engagementContext(e, httptest.NewRequest(http.MethodPost, "/", nil), httptest.NewRecorder(), "forum", uuid.NewString())

	if err := handler.Like(c); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestEngagementHandler_Unlike(t *testing.T) {
	e := newTestEcho()
	stub := &stubEngagementService{
		unlikeFn: func(ctx context.Context, kind domain.ResourceKind, resourceID, actorID uuid.UUID) (*domain.EngagementResult, error) {
			return &domain.EngagementResult{Kind: kind, ResourceID: resourceID, Likes: 0}, nil
		},
	}
	handler := NewEngagementHandler(stub)

	req := withPrincipal(httptest.NewRequest(http.MethodDelete, "/", nil), uuid.New())
	rec := httptest.NewRecorder()

	if err := handler.Unlike(engagementContext(e, req, rec, "comment", uuid.NewString())); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestEngagementHandler_Status_Anonymous(t *testing.T) {
	e := newTestEcho()
	stub := &stubEngagementService{
		statusFn: func(ctx context.Context, kind domain.ResourceKind, resourceID, actorID uuid.UUID) (*domain.EngagementStatus, error) {
			if actorID != uuid.Nil {
				t.Fatalf("expected anonymous actor, got %s", actorID)
			}
			return &domain.EngagementStatus{Kind: kind, ResourceID: resourceID, Likes: 7}, nil
		},
	}
	handler := NewEngagementHandler(stub)

	rec := httptest.NewRecorder()
	if err := handler.Status(engagementContext(e, httptest.NewRequest(http.MethodGet, "/", nil), rec, "Forums", uuid.NewString())); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp engagementResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Likes != 7 || resp.Engaged || resp.Kind != domain.KindForum {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestEngagementHandler_Reconcile(t *testing.T) {
	e := newTestEcho()
	stub := &stubEngagementService{
		reconcileFn: func(ctx context.Context, kind domain.ResourceKind, resourceID uuid.UUID) (*domain.EngagementStatus, error) {
			return &domain.EngagementStatus{Kind: kind, ResourceID: resourceID, Likes: 2}, nil
		},
	}
	handler := NewEngagementHandler(stub)

	req := withPrincipal(httptest.NewRequest(http.MethodPost, "/", nil), uuid.New())
	rec := httptest.NewRecorder()
	if err := handler.Reconcile(engagementContext(e, req, rec, "user", uuid.NewString())); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestResultLabel(t *testing.T) {
	cases := map[string]error{
		"ok":              nil,
		"already_engaged": domain.ErrAlreadyEngaged,
		"not_engaged":     domain.ErrNotEngaged,
		"self":            domain.ErrSelfEngagement,
		"not_found":       domain.ErrResourceNotFound,
		"unknown_kind":    domain.ErrUnknownResourceKind,
		"error":           errors.New("boom"),
	}
	for want, err := range cases {
		if got := resultLabel(err); got != want {
			t.Fatalf("resultLabel(%v) = %q, want %q", err, got, want)
		}
	}
}
