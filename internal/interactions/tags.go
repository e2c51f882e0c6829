package interactions

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/pulsefeed/backend/internal/apperr"
	"github.com/pulsefeed/backend/internal/hashtag"
	"github.com/pulsefeed/backend/internal/models"
	"github.com/pulsefeed/backend/internal/repositories"
)

// SyncTags re-derives the tag attachments for a target from the desired
// names. Known (promoted) tags are diffed against the currently attached set:
// undesired rows are deleted, missing rows inserted, the intersection left
// untouched, so the relation is never transiently empty. Unknown names are
// upserted as candidates. Returns the final attached tag ids.
func (s *Service) SyncTags(ctx context.Context, targetType string, targetID uint, names []string) ([]uint, error) {
	if targetType != models.TargetPost && targetType != models.TargetActivity {
		return nil, apperr.New(apperr.CodeValidation, "unknown target type")
	}
	if len(names) > hashtag.MaxTags {
		names = names[:hashtag.MaxTags]
	}

	var finalIDs []uint
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tags := repositories.NewPostgresTagRepository(tx)
		activities := repositories.NewPostgresActivityRepository(tx)
		posts := repositories.NewPostgresPostRepository(tx)

		var candidateActivityID *uint
		if targetType == models.TargetActivity {
			if _, err := activities.GetActivityByID(targetID); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return apperr.New(apperr.CodeNotFound, "activity not found")
				}
				return err
			}
			id := targetID
			candidateActivityID = &id
		} else {
			if _, err := posts.GetPostByID(targetID); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return apperr.New(apperr.CodeNotFound, "post not found")
				}
				return err
			}
		}

		type unknown struct{ slug, name string }
		desired := make([]uint, 0, len(names))
		desiredSet := make(map[uint]bool, len(names))
		var unknowns []unknown
		seenSlugs := make(map[string]bool, len(names))

		for _, name := range names {
			slug := hashtag.Slugify(name)
			if slug == "" || seenSlugs[slug] {
				continue
			}
			seenSlugs[slug] = true

			tag, err := tags.GetTagByNameOrSlug(name, slug)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					unknowns = append(unknowns, unknown{slug: slug, name: name})
					continue
				}
				return err
			}
			if !desiredSet[tag.ID] {
				desiredSet[tag.ID] = true
				desired = append(desired, tag.ID)
			}
		}

		attached, err := tags.AttachedTagIDs(targetType, targetID)
		if err != nil {
			return err
		}
		attachedSet := make(map[uint]bool, len(attached))
		var toDetach []uint
		for _, id := range attached {
			attachedSet[id] = true
			if !desiredSet[id] {
				toDetach = append(toDetach, id)
			}
		}
		if err := tags.Detach(targetType, targetID, toDetach); err != nil {
			return err
		}
		for _, id := range desired {
			if attachedSet[id] {
				continue
			}
			if err := tags.Attach(targetType, targetID, id); err != nil {
				return err
			}
		}

		for _, u := range unknowns {
			if err := tags.UpsertCandidate(u.slug, u.name, candidateActivityID); err != nil {
				return err
			}
		}

		finalIDs = desired
		return nil
	})
	if err != nil {
		return nil, err
	}
	return finalIDs, nil
}

// PromoteTagCandidate turns a candidate into a canonical Tag and removes the
// candidate row atomically. A promoted tag with the same name or slug is a
// conflict. Cached tag listings are invalidated after commit.
func (s *Service) PromoteTagCandidate(ctx context.Context, candidateID uint) (*models.Tag, error) {
	var tag *models.Tag
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tags := repositories.NewPostgresTagRepository(tx)

		candidate, err := tags.GetCandidateByID(candidateID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.New(apperr.CodeNotFound, "tag candidate not found")
			}
			return err
		}

		exists, err := tags.TagExists(candidate.Name, candidate.Slug)
		if err != nil {
			return err
		}
		if exists {
			return apperr.New(apperr.CodeConflict, "tag with this name or slug already exists")
		}

		tag = &models.Tag{Name: candidate.Name, Slug: candidate.Slug}
		if err := tags.CreateTag(tag); err != nil {
			return err
		}
		return tags.DeleteCandidate(candidateID)
	})
	if err != nil {
		return nil, err
	}

	if s.tagCache != nil {
		if err := s.tagCache.Invalidate(ctx); err != nil {
			s.logger.Warn("tag cache invalidation failed", "error", err)
		}
	}
	return tag, nil
}
