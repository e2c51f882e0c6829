package models

import "time"

// Tag is a promoted, canonical vocabulary entry. Name and slug are unique.
type Tag struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"size:64;uniqueIndex"`
	Slug      string    `json:"slug" gorm:"size:64;uniqueIndex"`
	CreatedAt time.Time `json:"created_at"`
}

// TagCandidate is a provisional hashtag not yet promoted to a Tag. It is
// upserted by slug on every re-occurrence and deleted on promotion.
type TagCandidate struct {
	ID                 uint      `json:"id" gorm:"primaryKey"`
	Slug               string    `json:"slug" gorm:"size:64;uniqueIndex"`
	Name               string    `json:"name" gorm:"size:64"`
	Occurrences        int64     `json:"occurrences" gorm:"default:1"`
	LastSeenActivityID *uint     `json:"last_seen_activity_id,omitempty"`
	LastSeenAt         time.Time `json:"last_seen_at"`
	CreatedAt          time.Time `json:"created_at"`
}

// ActivityTag joins activities to tags. The pair is unique so concurrent
// syncs cannot leave duplicate rows.
type ActivityTag struct {
	ID         uint `json:"id" gorm:"primaryKey"`
	ActivityID uint `json:"activity_id" gorm:"index;uniqueIndex:idx_activity_tag"`
	TagID      uint `json:"tag_id" gorm:"index;uniqueIndex:idx_activity_tag"`
}

// PostTag joins posts to tags, same shape as ActivityTag.
type PostTag struct {
	ID     uint `json:"id" gorm:"primaryKey"`
	PostID uint `json:"post_id" gorm:"index;uniqueIndex:idx_post_tag"`
	TagID  uint `json:"tag_id" gorm:"index;uniqueIndex:idx_post_tag"`
}
