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

// CreateCommentInput is the validated input for CreateComment.
type CreateCommentInput struct {
	AuthorID   uint
	TargetType string
	TargetID   uint
	ParentID   *uint
	Content    string
}

// DeleteCommentResult reports which terminal state the comment reached.
type DeleteCommentResult struct {
	HardDeleted bool `json:"hard_deleted"`
	Tombstoned  bool `json:"tombstoned"`
}

// CreateComment persists a sanitized comment. For activity targets the
// activity's comment counter is incremented in the same transaction. A parent
// comment must be attached to the same target.
func (s *Service) CreateComment(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	if in.TargetType != models.TargetPost && in.TargetType != models.TargetActivity {
		return nil, apperr.New(apperr.CodeValidation, "unknown target type")
	}
	content := s.sanitizer.Clean(in.Content)
	if content == "" {
		return nil, apperr.New(apperr.CodeValidation, "comment content is empty")
	}

	comment := &models.Comment{
		AuthorID:   in.AuthorID,
		TargetType: in.TargetType,
		TargetID:   in.TargetID,
		ParentID:   in.ParentID,
		Content:    content,
	}
	var targetAuthorID uint
	var parentAuthorID uint

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		comments := repositories.NewPostgresCommentRepository(tx)
		activities := repositories.NewPostgresActivityRepository(tx)
		posts := repositories.NewPostgresPostRepository(tx)

		if in.TargetType == models.TargetActivity {
			activity, err := activities.GetActivityByID(in.TargetID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return apperr.New(apperr.CodeNotFound, "activity not found")
				}
				return err
			}
			targetAuthorID = activity.AuthorID
		} else {
			post, err := posts.GetPostByID(in.TargetID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return apperr.New(apperr.CodeNotFound, "post not found")
				}
				return err
			}
			targetAuthorID = post.AuthorID
		}

		if in.ParentID != nil {
			parent, err := comments.GetCommentByID(*in.ParentID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return apperr.New(apperr.CodeNotFound, "parent comment not found")
				}
				return err
			}
			if parent.TargetType != in.TargetType || parent.TargetID != in.TargetID {
				return apperr.New(apperr.CodeValidation, "parent comment belongs to a different target")
			}
			parentAuthorID = parent.AuthorID
		}

		if err := comments.CreateComment(comment); err != nil {
			return err
		}
		if in.TargetType == models.TargetActivity {
			return activities.AddCommentsCount(in.TargetID, 1)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	refs := notify.Refs{ActorID: in.AuthorID, CommentID: &comment.ID}
	if in.TargetType == models.TargetActivity {
		refs.ActivityID = &comment.TargetID
	} else {
		refs.PostID = &comment.TargetID
	}
	if in.ParentID != nil {
		s.dispatch(ctx, parentAuthorID, models.NotificationTypeReply, refs)
	} else {
		s.dispatch(ctx, targetAuthorID, models.NotificationTypeComment, refs)
	}
	return comment, nil
}

// DeleteComment removes a comment. Only the author or an admin may delete.
// With no replies the row is hard-deleted (and the activity counter
// decremented in the same transaction); with replies the content is replaced
// by the tombstone so children keep their parent linkage. Both states are
// terminal.
func (s *Service) DeleteComment(ctx context.Context, commentID, requesterID uint, isAdmin bool) (*DeleteCommentResult, error) {
	result := &DeleteCommentResult{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		comments := repositories.NewPostgresCommentRepository(tx)
		activities := repositories.NewPostgresActivityRepository(tx)

		comment, err := comments.GetCommentByID(commentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.New(apperr.CodeNotFound, "comment not found")
			}
			return err
		}
		if comment.AuthorID != requesterID && !isAdmin {
			return apperr.New(apperr.CodeForbidden, "not the comment author")
		}

		children, err := comments.CountChildren(commentID)
		if err != nil {
			return err
		}
		if children == 0 {
			if err := comments.HardDelete(commentID); err != nil {
				return err
			}
			result.HardDeleted = true
			if comment.TargetType == models.TargetActivity {
				return activities.AddCommentsCount(comment.TargetID, -1)
			}
			return nil
		}
		// The thread slot is still occupied, so counters stay untouched.
		if err := comments.Tombstone(commentID); err != nil {
			return err
		}
		result.Tombstoned = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
