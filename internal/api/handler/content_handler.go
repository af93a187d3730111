package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/forumhub/forum-api/internal/core/ports"
)

// ContentHandler serves the minimal create/read surface for the likeable
// resources.
type ContentHandler struct {
	service ports.ContentService
}

func NewContentHandler(service ports.ContentService) *ContentHandler {
	return &ContentHandler{service: service}
}

// GetUser handles GET /v1/users/:id.
//
// @Summary      Public user profile
// @Tags         users
// @Produce      json
// @Param        id   path      string  true  "User id"
// @Success      200  {object}  userResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/users/{id} [get]
func (h *ContentHandler) GetUser(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	user, err := h.service.GetUser(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

// CreateForum handles POST /v1/forums.
//
// @Summary      Create a forum
// @Tags         forums
// @Accept       json
// @Produce      json
// @Param        body  body      createForumRequest  true  "Forum"
// @Success      201   {object}  forumResponse
// @Failure      401   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/forums [post]
func (h *ContentHandler) CreateForum(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var req createForumRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	forum, err := h.service.CreateForum(c.Request().Context(), p.ID, req.Title, req.Description)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toForumResponse(forum))
}

// GetForum handles GET /v1/forums/:id.
//
// @Summary      Get a forum
// @Tags         forums
// @Produce      json
// @Param        id   path      string  true  "Forum id"
// @Success      200  {object}  forumResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/forums/{id} [get]
func (h *ContentHandler) GetForum(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	forum, err := h.service.GetForum(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toForumResponse(forum))
}

// CreateTopic handles POST /v1/forums/:id/topics.
//
// @Summary      Open a topic in a forum
// @Tags         topics
// @Accept       json
// @Produce      json
// @Param        id    path      string              true  "Forum id"
// @Param        body  body      createTopicRequest  true  "Topic"
// @Success      201   {object}  topicResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/forums/{id}/topics [post]
func (h *ContentHandler) CreateTopic(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	forumID, err := pathID(c)
	if err != nil {
		return err
	}
	var req createTopicRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	topic, err := h.service.CreateTopic(c.Request().Context(), forumID, p.ID, req.Title, req.Body)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toTopicResponse(topic))
}

// GetTopic handles GET /v1/topics/:id.
//
// @Summary      Get a topic
// @Tags         topics
// @Produce      json
// @Param        id   path      string  true  "Topic id"
// @Success      200  {object}  topicResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/topics/{id} [get]
func (h *ContentHandler) GetTopic(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	topic, err := h.service.GetTopic(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toTopicResponse(topic))
}

// CreateComment handles POST /v1/topics/:id/comments.
//
// @Summary      Comment on a topic
// @Tags         comments
// @Accept       json
// @Produce      json
// @Param        id    path      string                true  "Topic id"
// @Param        body  body      createCommentRequest  true  "Comment"
// @Success      201   {object}  commentResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/topics/{id}/comments [post]
func (h *ContentHandler) CreateComment(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	topicID, err := pathID(c)
	if err != nil {
		return err
	}
	var req createCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	comment, err := h.service.CreateComment(c.Request().Context(), topicID, p.ID, req.Body)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toCommentResponse(comment))
}

// GetComment handles GET /v1/comments/:id.
//
// @Summary      Get a comment
// @Tags         comments
// @Produce      json
// @Param        id   path      string  true  "Comment id"
// @Success      200  {object}  commentResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/comments/{id} [get]
func (h *ContentHandler) GetComment(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	comment, err := h.service.GetComment(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCommentResponse(comment))
}
