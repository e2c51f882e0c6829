package handlers

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/pulsefeed/backend/internal/actions"
	"github.com/pulsefeed/backend/internal/apperr"
	"github.com/pulsefeed/backend/internal/authgate"
	"github.com/pulsefeed/backend/internal/interactions"
	"github.com/pulsefeed/backend/internal/models"
)

// CommentHandler handles HTTP requests related to comments
type CommentHandler struct {
	runner  *actions.Runner
	service *interactions.Service
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(runner *actions.Runner, service *interactions.Service) *CommentHandler {
	return &CommentHandler{runner: runner, service: service}
}

// RegisterCommentRoutes registers comment-related routes
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group) {
	g.POST("/comments", h.CreateComment)
	g.DELETE("/comments/:id", h.DeleteComment)
}

// CreateComment creates a new comment on a post or activity
func (h *CommentHandler) CreateComment(c echo.Context) error {
	var body models.CreateCommentRequest
	bindErr := c.Bind(&body)

	req := &actions.Request{
		Action:   "comment.create",
		Resource: fmt.Sprintf("%s:%d", body.TargetType, body.TargetID),
		Policy:   authgate.PolicyUserActive,
		Token:    bearerToken(c),
	}
	resp := h.runner.Do(c.Request().Context(), req, func(ctx context.Context, p *authgate.Principal) (any, error) {
		if bindErr != nil {
			return nil, apperr.New(apperr.CodeValidation, "invalid request payload")
		}
		validate := validator.New()
		if err := validate.Struct(body); err != nil {
			return nil, apperr.Wrap(err, apperr.CodeValidation, "invalid comment request")
		}
		return h.service.CreateComment(ctx, interactions.CreateCommentInput{
			AuthorID:   p.ID,
			TargetType: body.TargetType,
			TargetID:   body.TargetID,
			ParentID:   body.ParentID,
			Content:    body.Content,
		})
	})
	return c.JSON(resp.HTTPStatus(), resp)
}

// DeleteComment deletes a comment (hard delete without replies, tombstone
// with replies)
func (h *CommentHandler) DeleteComment(c echo.Context) error {
	req := &actions.Request{
		Action:   "comment.delete",
		Resource: "comment:" + c.Param("id"),
		Policy:   authgate.PolicyUserActive,
		Token:    bearerToken(c),
	}
	resp := h.runner.Do(c.Request().Context(), req, func(ctx context.Context, p *authgate.Principal) (any, error) {
		commentID, err := parseID(c.Param("id"))
		if err != nil {
			return nil, err
		}
		return h.service.DeleteComment(ctx, commentID, p.ID, p.IsAdmin())
	})
	return c.JSON(resp.HTTPStatus(), resp)
}
