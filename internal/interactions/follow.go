package interactions

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/pulsefeed/backend/internal/apperr"
	"github.com/pulsefeed/backend/internal/models"
	"github.com/pulsefeed/backend/internal/notify"
	"github.com/pulsefeed/backend/internal/repositories"
)

// FollowResult reports whether the call changed state. WasNew is false when
// the relationship already existed (follow) or did not exist (unfollow);
// both are successful outcomes so retries are always safe.
type FollowResult struct {
	Following bool `json:"following"`
	WasNew    bool `json:"was_new"`
}

// Follow creates the relationship and bumps both denormalized counters in
// one transaction. Re-following is a no-op, never a duplicate row.
func (s *Service) Follow(ctx context.Context, followerID, targetID uint) (*FollowResult, error) {
	if followerID == targetID {
		return nil, apperr.New(apperr.CodeConflict, "cannot follow yourself")
	}

	var wasNew bool
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		users := repositories.NewPostgresUserRepository(tx)
		follows := repositories.NewPostgresFollowRepository(tx)

		target, err := users.GetUserByID(targetID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.New(apperr.CodeNotFound, "target user not found")
			}
			return err
		}
		if target.Status != models.StatusActive {
			return apperr.New(apperr.CodeConflict, "target account is not active")
		}

		wasNew, err = follows.CreateIfAbsent(&models.Follow{
			FollowerID: followerID,
			FolloweeID: targetID,
		})
		if err != nil {
			return err
		}
		if !wasNew {
			return nil
		}
		if err := users.AddFollowersCount(targetID, 1); err != nil {
			return err
		}
		return users.AddFollowingCount(followerID, 1)
	})
	if err != nil {
		return nil, err
	}

	if wasNew {
		s.dispatch(ctx, targetID, models.NotificationTypeFollow, notify.Refs{ActorID: followerID})
	}
	return &FollowResult{Following: true, WasNew: wasNew}, nil
}

// Unfollow removes the relationship. Removing a non-existent relationship is
// a successful no-op; counters are only decremented when a row was deleted.
func (s *Service) Unfollow(ctx context.Context, followerID, targetID uint) (*FollowResult, error) {
	if followerID == targetID {
		return nil, apperr.New(apperr.CodeConflict, "cannot unfollow yourself")
	}

	var removed bool
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		users := repositories.NewPostgresUserRepository(tx)
		follows := repositories.NewPostgresFollowRepository(tx)

		var err error
		removed, err = follows.Delete(followerID, targetID)
		if err != nil {
			return err
		}
		if !removed {
			return nil
		}
		if err := users.AddFollowersCount(targetID, -1); err != nil {
			return err
		}
		return users.AddFollowingCount(followerID, -1)
	})
	if err != nil {
		return nil, err
	}
	return &FollowResult{Following: false, WasNew: removed}, nil
}
