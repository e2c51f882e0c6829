package models

import "time"

// Comment target kinds.
const (
	TargetPost     = "post"
	TargetActivity = "activity"
)

// TombstoneContent replaces the content of a soft-deleted comment. The row is
// kept so child replies retain a valid parent linkage.
const TombstoneContent = "[deleted]"

// Comment represents a comment on a post or an activity. ParentID, when set,
// must reference a comment attached to the same target.
type Comment struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	AuthorID   uint      `json:"author_id" gorm:"index"`
	TargetType string    `json:"target_type" gorm:"size:20;index:idx_comment_target"`
	TargetID   uint      `json:"target_id" gorm:"index:idx_comment_target"`
	ParentID   *uint     `json:"parent_id,omitempty" gorm:"index"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Tombstoned reports whether the comment was soft-deleted.
func (c *Comment) Tombstoned() bool {
	return c.Content == TombstoneContent
}

// CreateCommentRequest defines the request body for creating a new comment.
type CreateCommentRequest struct {
	TargetType string `json:"target_type" validate:"required,oneof=post activity"`
	TargetID   uint   `json:"target_id" validate:"required"`
	ParentID   *uint  `json:"parent_id,omitempty"`
	Content    string `json:"content" validate:"required,min=1,max=2000"`
}
