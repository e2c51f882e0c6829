package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/pulsefeed/backend/internal/models"
)

// Broadcaster pushes a freshly created notification to a per-recipient
// channel. Delivery is at-most-once with no retry; disconnected clients
// reconcile through the notification listing instead.
type Broadcaster interface {
	Publish(ctx context.Context, recipientID uint, notification *models.Notification) error
}

// ChannelForUser is the pub/sub channel a client subscribes to.
func ChannelForUser(recipientID uint) string {
	return fmt.Sprintf("notify:user:%d", recipientID)
}

// RedisBroadcaster publishes over redis pub/sub.
type RedisBroadcaster struct {
	client *redis.Client
}

// NewRedisBroadcaster creates a broadcaster on the given client.
func NewRedisBroadcaster(client *redis.Client) *RedisBroadcaster {
	return &RedisBroadcaster{client: client}
}

func (b *RedisBroadcaster) Publish(ctx context.Context, recipientID uint, notification *models.Notification) error {
	payload, err := json.Marshal(notification)
	if err != nil {
		return err
	}
	return b.client.Publish(ctx, ChannelForUser(recipientID), payload).Err()
}
