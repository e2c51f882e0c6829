// Package notify creates notification records and fans them out to the
// realtime channel and the deferred email queue. The primary insert is the
// only thing that can fail a dispatch; both side effects are fire-and-forget.
package notify

import (
	"context"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/pulsefeed/backend/internal/apperr"
	"github.com/pulsefeed/backend/internal/metrics"
	"github.com/pulsefeed/backend/internal/models"
	"github.com/pulsefeed/backend/internal/repositories"
)

const sideEffectTimeout = 5 * time.Second

// Refs carries the actor and the optional entities a notification points at.
// ActorID is mandatory: notifications must always be attributable.
type Refs struct {
	ActorID    uint
	PostID     *uint
	CommentID  *uint
	ActivityID *uint
}

// Dispatcher gates notification creation on the recipient's preferences and
// triggers the best-effort side effects.
type Dispatcher struct {
	users         repositories.UserRepository
	notifications repositories.NotificationRepository
	broadcaster   Broadcaster
	enqueuer      EmailEnqueuer
	logger        *slog.Logger
}

// NewDispatcher creates a Dispatcher over the given database handle.
func NewDispatcher(db *gorm.DB, broadcaster Broadcaster, enqueuer EmailEnqueuer, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		users:         repositories.NewPostgresUserRepository(db),
		notifications: repositories.NewPostgresNotificationRepository(db),
		broadcaster:   broadcaster,
		enqueuer:      enqueuer,
		logger:        logger,
	}
}

// Dispatch creates the notification row unless the recipient disabled the
// type. A disabled type returns (nil, nil): silence is an intentional
// outcome, not a failure. Broadcast and email enqueue run detached; their
// failures are logged and counted, never returned.
func (d *Dispatcher) Dispatch(ctx context.Context, recipientID uint, notifType string, refs Refs) (*models.Notification, error) {
	if refs.ActorID == 0 {
		return nil, apperr.New(apperr.CodeValidation, "notification requires an actor")
	}

	recipient, err := d.users.GetUserByID(recipientID)
	if err != nil {
		return nil, apperr.Wrap(err, apperr.CodeNotFound, "notification recipient not found")
	}
	if !recipient.NotificationPrefs.Enabled(notifType) {
		return nil, nil
	}

	notification := &models.Notification{
		RecipientID: recipientID,
		ActorID:     refs.ActorID,
		Type:        notifType,
		PostID:      refs.PostID,
		CommentID:   refs.CommentID,
		ActivityID:  refs.ActivityID,
	}
	if err := d.notifications.CreateNotification(notification); err != nil {
		return nil, err
	}

	// Detached from the request: the caller's result must not wait on, or
	// fail because of, either side effect.
	go d.broadcast(recipientID, notification)
	go d.enqueueEmail(recipientID, notifType, notification.ID)

	return notification, nil
}

func (d *Dispatcher) broadcast(recipientID uint, notification *models.Notification) {
	if d.broadcaster == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), sideEffectTimeout)
	defer cancel()
	if err := d.broadcaster.Publish(ctx, recipientID, notification); err != nil {
		metrics.NotifySideEffectFailed("broadcast")
		d.logger.Warn("notification broadcast failed",
			"notification_id", notification.ID,
			"recipient_id", recipientID,
			"error", err,
		)
	}
}

func (d *Dispatcher) enqueueEmail(recipientID uint, notifType string, notificationID uint) {
	if d.enqueuer == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), sideEffectTimeout)
	defer cancel()
	job := models.EmailJob{
		RecipientID:    recipientID,
		Type:           notifType,
		NotificationID: notificationID,
	}
	if err := d.enqueuer.Enqueue(ctx, job); err != nil {
		metrics.NotifySideEffectFailed("email_enqueue")
		d.logger.Warn("email enqueue failed",
			"notification_id", notificationID,
			"recipient_id", recipientID,
			"error", err,
		)
	}
}
