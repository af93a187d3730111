package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/forumhub/forum-api/internal/api/metrics"
	"github.com/forumhub/forum-api/internal/core/domain"
	"github.com/forumhub/forum-api/internal/core/ports"
)

// EngagementHandler exposes likes on every resource kind under
// /v1/engagements/:kind/:id.
type EngagementHandler struct {
	service ports.EngagementService
}

func NewEngagementHandler(service ports.EngagementService) *EngagementHandler {
	return &EngagementHandler{service: service}
}

// Status handles GET /v1/engagements/:kind/:id.
//
// @Summary      Likes on a resource
// @Tags         engagements
// @Produce      json
// @Param        kind  path      string  true  "user, forum, topic or comment"
// @Param        id    path      string  true  "Resource id"
// @Success      200   {object}  engagementResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/engagements/{kind}/{id} [get]
func (h *EngagementHandler) Status(c echo.Context) error {
	kind, id, err := engagementTarget(c)
	if err != nil {
		return err
	}

	st, err := h.service.Status(c.Request().Context(), kind, id, actorOrNil(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, engagementResponse{
		Kind:       st.Kind,
		ResourceID: st.ResourceID,
		Likes:      st.Likes,
		Engaged:    st.Engaged,
	})
}

// Like handles POST /v1/engagements/:kind/:id.
//
// @Summary      Like a resource
// @Tags         engagements
// @Produce      json
// @Param        kind  path      string  true  "user, forum, topic or comment"
// @Param        id    path      string  true  "Resource id"
// @Success      201   {object}  engagementResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/engagements/{kind}/{id} [post]
func (h *EngagementHandler) Like(c echo.Context) error {
	return h.apply(c, "like", http.StatusCreated, h.service.Like)
}

// Unlike handles DELETE /v1/engagements/:kind/:id.
//
// @Summary      Remove a like
// @Tags         engagements
// @Produce      json
// @Param        kind  path      string  true  "user, forum, topic or comment"
// @Param        id    path      string  true  "Resource id"
// @Success      200   {object}  engagementResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /v1/engagements/{kind}/{id} [delete]
func (h *EngagementHandler) Unlike(c echo.Context) error {
	return h.apply(c, "unlike", http.StatusOK, h.service.Unlike)
}

// Reconcile handles POST /v1/engagements/:kind/:id/reconcile.
//
// @Summary      Recount the likes of a resource
// @Tags         engagements
// @Produce      json
// @Success      200   {object}  engagementResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/engagements/{kind}/{id}/reconcile [post]
func (h *EngagementHandler) Reconcile(c echo.Context) error {
	kind, id, err := engagementTarget(c)
	if err != nil {
		return err
	}

	start := time.Now()
	st, err := h.service.Reconcile(c.Request().Context(), kind, id)
	observe(kind, "reconcile", start, err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, engagementResponse{
		Kind:       st.Kind,
		ResourceID: st.ResourceID,
		Likes:      st.Likes,
	})
}

type engageFunc func(ctx context.Context, kind domain.ResourceKind, resourceID, actorID uuid.UUID) (*domain.EngagementResult, error)

func (h *EngagementHandler) apply(c echo.Context, action string, status int, fn engageFunc) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	kind, id, err := engagementTarget(c)
	if err != nil {
		metrics.EngagementsTotal.WithLabelValues("unknown", action, resultLabel(err)).Inc()
		return err
	}

	start := time.Now()
	res, err := fn(c.Request().Context(), kind, id, p.ID)
	observe(kind, action, start, err)
	if err != nil {
		return err
	}
	return c.JSON(status, engagementResponse{
		Kind:       res.Kind,
		ResourceID: res.ResourceID,
		Likes:      res.Likes,
		Engaged:    res.Engaged,
	})
}

// engagementTarget parses :kind and :id. Unknown kinds are rejected here,
// before any service call.
func engagementTarget(c echo.Context) (domain.ResourceKind, uuid.UUID, error) {
	kind, err := domain.ParseResourceKind(c.Param("kind"))
	if err != nil {
		return "", uuid.Nil, err
	}
	id, err := pathID(c)
	if err != nil {
		return "", uuid.Nil, err
	}
	return kind, id, nil
}

func observe(kind domain.ResourceKind, action string, start time.Time, err error) {
	metrics.EngagementDuration.WithLabelValues(action).Observe(time.Since(start).Seconds())
	metrics.EngagementsTotal.WithLabelValues(kind.String(), action, resultLabel(err)).Inc()
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrAlreadyEngaged):
		return "already_engaged"
	case errors.Is(err, domain.ErrNotEngaged):
		return "not_engaged"
	case errors.Is(err, domain.ErrSelfEngagement):
		return "self"
	case errors.Is(err, domain.ErrResourceNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrUnknownResourceKind):
		return "unknown_kind"
	default:
		return "error"
	}
}
