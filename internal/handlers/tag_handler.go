package handlers

import (
	"context"
	"fmt"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/pulsefeed/backend/internal/actions"
	"github.com/pulsefeed/backend/internal/apperr"
	"github.com/pulsefeed/backend/internal/authgate"
	"github.com/pulsefeed/backend/internal/hashtag"
	"github.com/pulsefeed/backend/internal/interactions"
	"github.com/pulsefeed/backend/internal/models"
)

// SyncTagsRequest carries either explicit tag names or content to extract
// hashtags from. Names win when both are present.
type SyncTagsRequest struct {
	Names   []string `json:"names,omitempty"`
	Content string   `json:"content,omitempty"`
}

// TagHandler handles tag synchronization and candidate promotion requests
type TagHandler struct {
	runner  *actions.Runner
	service *interactions.Service
}

// NewTagHandler creates a new TagHandler
func NewTagHandler(runner *actions.Runner, service *interactions.Service) *TagHandler {
	return &TagHandler{runner: runner, service: service}
}

// RegisterTagRoutes registers tag-related routes
func (h *TagHandler) RegisterTagRoutes(g *echo.Group) {
	g.PUT("/activities/:id/tags", h.SyncActivityTags)
	g.PUT("/posts/:id/tags", h.SyncPostTags)
}

// RegisterAdminTagRoutes registers admin-only tag routes
func (h *TagHandler) RegisterAdminTagRoutes(g *echo.Group) {
	g.POST("/tag-candidates/:id/promote", h.PromoteTagCandidate)
}

// SyncActivityTags re-derives the tag set of an activity
func (h *TagHandler) SyncActivityTags(c echo.Context) error {
	return h.syncTags(c, models.TargetActivity)
}

// SyncPostTags re-derives the tag set of a post
func (h *TagHandler) SyncPostTags(c echo.Context) error {
	return h.syncTags(c, models.TargetPost)
}

func (h *TagHandler) syncTags(c echo.Context, targetType string) error {
	var body SyncTagsRequest
	bindErr := c.Bind(&body)

	req := &actions.Request{
		Action:   "tags.sync",
		Resource: fmt.Sprintf("%s:%s", targetType, c.Param("id")),
		Policy:   authgate.PolicyUserActive,
		Token:    bearerToken(c),
	}
	resp := h.runner.Do(c.Request().Context(), req, func(ctx context.Context, p *authgate.Principal) (any, error) {
		if bindErr != nil {
			return nil, apperr.New(apperr.CodeValidation, "invalid request payload")
		}
		targetID, err := parseID(c.Param("id"))
		if err != nil {
			return nil, err
		}
		names := body.Names
		if len(names) == 0 {
			names = hashtag.Extract(body.Content)
		}
		tagIDs, err := h.service.SyncTags(ctx, targetType, targetID, names)
		if err != nil {
			return nil, err
		}
		return echo.Map{"tag_ids": tagIDs}, nil
	})
	return c.JSON(resp.HTTPStatus(), resp)
}

// PromoteTagCandidate promotes a candidate hashtag to a canonical tag
func (h *TagHandler) PromoteTagCandidate(c echo.Context) error {
	req := &actions.Request{
		Action:   "tags.promote",
		Resource: "tag_candidate:" + c.Param("id"),
		Policy:   authgate.PolicyAdmin,
		Token:    bearerToken(c),
		Details:  map[string]string{"candidate_id": c.Param("id")},
	}
	resp := h.runner.Do(c.Request().Context(), req, func(ctx context.Context, p *authgate.Principal) (any, error) {
		candidateID, err := parseID(c.Param("id"))
		if err != nil {
			return nil, err
		}
		tag, err := h.service.PromoteTagCandidate(ctx, candidateID)
		if err != nil {
			return nil, err
		}
		req.Details["tag_id"] = strconv.FormatUint(uint64(tag.ID), 10)
		req.Details["tag_slug"] = tag.Slug
		return tag, nil
	})
	return c.JSON(resp.HTTPStatus(), resp)
}
