// Package worker processes deferred email jobs from the redis queue. It runs
// as a separate binary so slow SMTP round-trips never share a process with
// the request path.
package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/pulsefeed/backend/internal/models"
	"github.com/pulsefeed/backend/internal/notify"
	"github.com/pulsefeed/backend/internal/repositories"
)

// Worker consumes email jobs and hands them to the mailer.
type Worker struct {
	rdb    *redis.Client
	users  repositories.UserRepository
	mailer Mailer
	logger *slog.Logger
}

// NewWorker creates a Worker over the given connections.
func NewWorker(rdb *redis.Client, db *gorm.DB, mailer Mailer, logger *slog.Logger) *Worker {
	return &Worker{
		rdb:    rdb,
		users:  repositories.NewPostgresUserRepository(db),
		mailer: mailer,
		logger: logger,
	}
}

// Run starts the email worker loop.
func (w *Worker) Run(ctx context.Context) {
	go w.StartEmailWorker(ctx)
}

// StartEmailWorker blocks on the queue until ctx is cancelled. Jobs that
// fail to parse or send are logged and dropped.
func (w *Worker) StartEmailWorker(ctx context.Context) {
	w.logger.Info("start email worker")

	for {
		if ctx.Err() != nil {
			return
		}
		res, err := w.rdb.BRPop(ctx, 5*time.Second, notify.EmailQueueKey).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) || errors.Is(err, context.Canceled) {
				continue
			}
			w.logger.Error("worker/email BRPop", "error", err)
			time.Sleep(time.Second)
			continue
		}
		// BRPop returns [key, value]
		if len(res) != 2 {
			continue
		}

		var job models.EmailJob
		if err := json.Unmarshal([]byte(res[1]), &job); err != nil {
			w.logger.Error("worker/email bad job payload", "error", err)
			continue
		}
		w.process(job)
	}
}

func (w *Worker) process(job models.EmailJob) {
	recipient, err := w.users.GetUserByID(job.RecipientID)
	if err != nil {
		w.logger.Warn("worker/email recipient lookup failed",
			"recipient_id", job.RecipientID,
			"notification_id", job.NotificationID,
			"error", err,
		)
		return
	}
	if recipient.Email == "" {
		return
	}

	subject, body := composeEmail(recipient.Name, job)
	if err := w.mailer.Send(recipient.Email, subject, body); err != nil {
		w.logger.Warn("worker/email send failed",
			"recipient_id", job.RecipientID,
			"notification_id", job.NotificationID,
			"error", err,
		)
	}
}

func composeEmail(name string, job models.EmailJob) (subject, body string) {
	switch job.Type {
	case models.NotificationTypeFollow:
		subject = "You have a new follower"
	case models.NotificationTypeComment:
		subject = "New comment on your content"
	case models.NotificationTypeReply:
		subject = "New reply to your comment"
	default:
		subject = "You have a new notification"
	}
	body = fmt.Sprintf("Hi %s,\n\nYou have a new notification. Open the app to see it.\n", name)
	return subject, body
}
