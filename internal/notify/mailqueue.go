package notify

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"github.com/pulsefeed/backend/internal/models"
)

// EmailQueueKey is the redis list the email worker consumes.
const EmailQueueKey = "queue:email"

// EmailEnqueuer schedules a deferred email for a notification. Processing is
// eventual; an insertion failure never reaches the action that triggered it.
type EmailEnqueuer interface {
	Enqueue(ctx context.Context, job models.EmailJob) error
}

// RedisEmailQueue pushes jobs onto a redis list.
type RedisEmailQueue struct {
	client *redis.Client
}

// NewRedisEmailQueue creates an enqueuer on the given client.
func NewRedisEmailQueue(client *redis.Client) *RedisEmailQueue {
	return &RedisEmailQueue{client: client}
}

func (q *RedisEmailQueue) Enqueue(ctx context.Context, job models.EmailJob) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return q.client.LPush(ctx, EmailQueueKey, payload).Err()
}
