package handlers

import (
	"context"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/pulsefeed/backend/internal/actions"
	"github.com/pulsefeed/backend/internal/apperr"
	"github.com/pulsefeed/backend/internal/authgate"
	"github.com/pulsefeed/backend/internal/models"
	"github.com/pulsefeed/backend/internal/repositories"
)

// NotificationHandler handles notification read/listing requests. The listing
// doubles as the reconciliation path for realtime messages a client missed.
type NotificationHandler struct {
	runner        *actions.Runner
	notifications repositories.NotificationRepository
	users         repositories.UserRepository
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(runner *actions.Runner, notifRepo repositories.NotificationRepository, userRepo repositories.UserRepository) *NotificationHandler {
	return &NotificationHandler{runner: runner, notifications: notifRepo, users: userRepo}
}

// RegisterNotificationRoutes registers notification-related routes
func (h *NotificationHandler) RegisterNotificationRoutes(g *echo.Group) {
	g.GET("/notifications", h.ListNotifications)
	g.GET("/notifications/unread-count", h.UnreadCount)
	g.POST("/notifications/:id/read", h.MarkAsRead)
	g.POST("/notifications/read-all", h.MarkAllAsRead)
	g.PUT("/notifications/preferences", h.UpdatePreferences)
}

// ListNotifications returns the recipient's notifications, newest first
func (h *NotificationHandler) ListNotifications(c echo.Context) error {
	req := &actions.Request{
		Action:   "notifications.list",
		Resource: "notifications",
		Policy:   authgate.PolicyUserActive,
		Token:    bearerToken(c),
	}
	resp := h.runner.Do(c.Request().Context(), req, func(ctx context.Context, p *authgate.Principal) (any, error) {
		page, _ := strconv.Atoi(c.QueryParam("page"))
		if page < 1 {
			page = 1
		}
		limit, _ := strconv.Atoi(c.QueryParam("limit"))
		if limit < 1 || limit > 100 {
			limit = 20
		}
		notifications, total, err := h.notifications.GetByRecipientID(p.ID, page, limit)
		if err != nil {
			return nil, err
		}
		return echo.Map{
			"notifications": notifications,
			"total":         total,
			"page":          page,
			"limit":         limit,
		}, nil
	})
	return c.JSON(resp.HTTPStatus(), resp)
}

// UnreadCount returns the number of unread notifications
func (h *NotificationHandler) UnreadCount(c echo.Context) error {
	req := &actions.Request{
		Action:   "notifications.unread_count",
		Resource: "notifications",
		Policy:   authgate.PolicyUserActive,
		Token:    bearerToken(c),
	}
	resp := h.runner.Do(c.Request().Context(), req, func(ctx context.Context, p *authgate.Principal) (any, error) {
		count, err := h.notifications.GetUnreadCount(p.ID)
		if err != nil {
			return nil, err
		}
		return echo.Map{"unread": count}, nil
	})
	return c.JSON(resp.HTTPStatus(), resp)
}

// MarkAsRead marks one notification as read
func (h *NotificationHandler) MarkAsRead(c echo.Context) error {
	req := &actions.Request{
		Action:   "notifications.mark_read",
		Resource: "notification:" + c.Param("id"),
		Policy:   authgate.PolicyUserActive,
		Token:    bearerToken(c),
	}
	resp := h.runner.Do(c.Request().Context(), req, func(ctx context.Context, p *authgate.Principal) (any, error) {
		notificationID, err := parseID(c.Param("id"))
		if err != nil {
			return nil, err
		}
		if err := h.notifications.MarkAsRead(p.ID, notificationID); err != nil {
			return nil, err
		}
		return echo.Map{"read": true}, nil
	})
	return c.JSON(resp.HTTPStatus(), resp)
}

// MarkAllAsRead marks every unread notification of the recipient as read
func (h *NotificationHandler) MarkAllAsRead(c echo.Context) error {
	req := &actions.Request{
		Action:   "notifications.mark_all_read",
		Resource: "notifications",
		Policy:   authgate.PolicyUserActive,
		Token:    bearerToken(c),
	}
	resp := h.runner.Do(c.Request().Context(), req, func(ctx context.Context, p *authgate.Principal) (any, error) {
		if err := h.notifications.MarkAllAsRead(p.ID); err != nil {
			return nil, err
		}
		return echo.Map{"read": true}, nil
	})
	return c.JSON(resp.HTTPStatus(), resp)
}

// UpdatePreferences replaces the recipient's notification preference map
func (h *NotificationHandler) UpdatePreferences(c echo.Context) error {
	var prefs models.NotificationPrefs
	bindErr := c.Bind(&prefs)

	req := &actions.Request{
		Action:   "notifications.update_preferences",
		Resource: "notification_preferences",
		Policy:   authgate.PolicyUserActive,
		Token:    bearerToken(c),
	}
	resp := h.runner.Do(c.Request().Context(), req, func(ctx context.Context, p *authgate.Principal) (any, error) {
		if bindErr != nil {
			return nil, apperr.New(apperr.CodeValidation, "invalid request payload")
		}
		if err := h.users.UpdateNotificationPrefs(p.ID, prefs); err != nil {
			return nil, err
		}
		return echo.Map{"preferences": prefs}, nil
	})
	return c.JSON(resp.HTTPStatus(), resp)
}
