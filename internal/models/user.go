package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// Roles and statuses a principal can carry. Only ACTIVE users may mutate
// state; BANNED users are rejected by the auth gate regardless of role.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"

	StatusActive = "ACTIVE"
	StatusBanned = "BANNED"
)

// NotificationPrefs is the per-user preference map keyed by notification
// type. A missing key means the type is enabled.
type NotificationPrefs map[string]bool

// Enabled reports whether the given notification type may be delivered.
func (p NotificationPrefs) Enabled(notifType string) bool {
	if p == nil {
		return true
	}
	enabled, ok := p[notifType]
	if !ok {
		return true
	}
	return enabled
}

func (p NotificationPrefs) Value() (driver.Value, error) {
	if p == nil {
		return "{}", nil
	}
	b, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (p *NotificationPrefs) Scan(value interface{}) error {
	if value == nil {
		*p = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, p)
	case string:
		return json.Unmarshal([]byte(v), p)
	default:
		return fmt.Errorf("cannot scan %T into NotificationPrefs", value)
	}
}

// User represents an account (PostgreSQL). FollowersCount and FollowingCount
// are denormalized and maintained in the same transaction as the follow rows.
type User struct {
	ID                uint              `json:"id" gorm:"primaryKey"`
	Name              string            `json:"name"`
	Email             string            `json:"email" gorm:"uniqueIndex"`
	Password          string            `json:"-"`
	FirebaseUID       string            `json:"firebase_uid,omitempty"`
	Role              string            `json:"role" gorm:"size:20;default:USER"`
	Status            string            `json:"status" gorm:"size:20;default:ACTIVE;index"`
	FollowersCount    int64             `json:"followers_count" gorm:"default:0"`
	FollowingCount    int64             `json:"following_count" gorm:"default:0"`
	NotificationPrefs NotificationPrefs `json:"notification_prefs" gorm:"type:text"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
}

// CreateUserRequest registers a user already authenticated with Firebase.
type CreateUserRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=50"`
	Email       string `json:"email" validate:"required,email"`
	FirebaseUID string `json:"firebase_uid" validate:"required"`
}

// CreateLocalUserRequest registers a user with email and password.
type CreateLocalUserRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}
