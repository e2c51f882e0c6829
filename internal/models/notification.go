package models

import "time"

// Notification types delivered through the dispatcher.
const (
	NotificationTypeFollow  = "follow"
	NotificationTypeComment = "comment"
	NotificationTypeReply   = "reply"
)

// Notification represents a user notification (PostgreSQL). ActorID is
// mandatory: every notification must be attributable.
type Notification struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	RecipientID uint       `json:"recipient_id" gorm:"index"`
	ActorID     uint       `json:"actor_id" gorm:"index"`
	Type        string     `json:"type" gorm:"size:30;index"`
	PostID      *uint      `json:"post_id,omitempty"`
	CommentID   *uint      `json:"comment_id,omitempty"`
	ActivityID  *uint      `json:"activity_id,omitempty"`
	ReadAt      *time.Time `json:"read_at,omitempty" gorm:"index"`
	CreatedAt   time.Time  `json:"created_at" gorm:"index"`
}

// EmailJob is the payload pushed onto the deferred email queue. Processing is
// eventual; the enqueuer never waits for it.
type EmailJob struct {
	RecipientID    uint              `json:"recipient_id"`
	Type           string            `json:"type"`
	NotificationID uint              `json:"notification_id"`
	Context        map[string]string `json:"context,omitempty"`
}
