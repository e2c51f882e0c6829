package handlers

import (
	"context"

	"github.com/labstack/echo/v4"

	"github.com/pulsefeed/backend/internal/actions"
	"github.com/pulsefeed/backend/internal/authgate"
	"github.com/pulsefeed/backend/internal/interactions"
)

// FollowHandler handles follow/unfollow HTTP requests
type FollowHandler struct {
	runner  *actions.Runner
	service *interactions.Service
}

// NewFollowHandler creates a new FollowHandler
func NewFollowHandler(runner *actions.Runner, service *interactions.Service) *FollowHandler {
	return &FollowHandler{runner: runner, service: service}
}

// RegisterFollowRoutes registers follow-related routes
func (h *FollowHandler) RegisterFollowRoutes(g *echo.Group) {
	g.POST("/users/:id/follow", h.FollowUser)
	g.DELETE("/users/:id/follow", h.UnfollowUser)
}

// FollowUser follows a user
func (h *FollowHandler) FollowUser(c echo.Context) error {
	req := &actions.Request{
		Action:   "follow",
		Resource: "user:" + c.Param("id"),
		Policy:   authgate.PolicyUserActive,
		Token:    bearerToken(c),
	}
	resp := h.runner.Do(c.Request().Context(), req, func(ctx context.Context, p *authgate.Principal) (any, error) {
		targetID, err := parseID(c.Param("id"))
		if err != nil {
			return nil, err
		}
		return h.service.Follow(ctx, p.ID, targetID)
	})
	return c.JSON(resp.HTTPStatus(), resp)
}

// UnfollowUser unfollows a user
func (h *FollowHandler) UnfollowUser(c echo.Context) error {
	req := &actions.Request{
		Action:   "unfollow",
		Resource: "user:" + c.Param("id"),
		Policy:   authgate.PolicyUserActive,
		Token:    bearerToken(c),
	}
	resp := h.runner.Do(c.Request().Context(), req, func(ctx context.Context, p *authgate.Principal) (any, error) {
		targetID, err := parseID(c.Param("id"))
		if err != nil {
			return nil, err
		}
		return h.service.Unfollow(ctx, p.ID, targetID)
	})
	return c.JSON(resp.HTTPStatus(), resp)
}
