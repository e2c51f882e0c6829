package repositories

import (
	"time"

	"github.com/pulsefeed/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TagRepository defines the interface for tag and tag-candidate operations
type TagRepository interface {
	GetTagByNameOrSlug(name, slug string) (*models.Tag, error)
	TagExists(name, slug string) (bool, error)
	CreateTag(tag *models.Tag) error
	AttachedTagIDs(targetType string, targetID uint) ([]uint, error)
	Attach(targetType string, targetID, tagID uint) error
	Detach(targetType string, targetID uint, tagIDs []uint) error
	UpsertCandidate(slug, name string, activityID *uint) error
	GetCandidateByID(id uint) (*models.TagCandidate, error)
	DeleteCandidate(id uint) error
}

// PostgresTagRepository implements TagRepository for PostgreSQL
type PostgresTagRepository struct {
	db *gorm.DB
}

// NewPostgresTagRepository creates a new PostgresTagRepository
func NewPostgresTagRepository(db *gorm.DB) *PostgresTagRepository {
	return &PostgresTagRepository{db: db}
}

func (r *PostgresTagRepository) GetTagByNameOrSlug(name, slug string) (*models.Tag, error) {
	var tag models.Tag
	if err := r.db.Where("name = ? OR slug = ?", name, slug).First(&tag).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

func (r *PostgresTagRepository) TagExists(name, slug string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Tag{}).Where("name = ? OR slug = ?", name, slug).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostgresTagRepository) CreateTag(tag *models.Tag) error {
	return r.db.Create(tag).Error
}

func (r *PostgresTagRepository) AttachedTagIDs(targetType string, targetID uint) ([]uint, error) {
	var ids []uint
	var err error
	if targetType == models.TargetActivity {
		err = r.db.Model(&models.ActivityTag{}).Where("activity_id = ?", targetID).
			Pluck("tag_id", &ids).Error
	} else {
		err = r.db.Model(&models.PostTag{}).Where("post_id = ?", targetID).
			Pluck("tag_id", &ids).Error
	}
	return ids, err
}

// Attach ensures the join row exists. The unique pair index plus DoNothing
// makes concurrent syncs converge without duplicates.
func (r *PostgresTagRepository) Attach(targetType string, targetID, tagID uint) error {
	if targetType == models.TargetActivity {
		return r.db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "activity_id"}, {Name: "tag_id"}},
			DoNothing: true,
		}).Create(&models.ActivityTag{ActivityID: targetID, TagID: tagID}).Error
	}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "post_id"}, {Name: "tag_id"}},
		DoNothing: true,
	}).Create(&models.PostTag{PostID: targetID, TagID: tagID}).Error
}

func (r *PostgresTagRepository) Detach(targetType string, targetID uint, tagIDs []uint) error {
	if len(tagIDs) == 0 {
		return nil
	}
	if targetType == models.TargetActivity {
		return r.db.Where("activity_id = ? AND tag_id IN ?", targetID, tagIDs).
			Delete(&models.ActivityTag{}).Error
	}
	return r.db.Where("post_id = ? AND tag_id IN ?", targetID, tagIDs).
		Delete(&models.PostTag{}).Error
}

// UpsertCandidate records a hashtag occurrence: first sighting creates the
// candidate, re-occurrence increments its counter and refreshes last-seen.
func (r *PostgresTagRepository) UpsertCandidate(slug, name string, activityID *uint) error {
	now := time.Now()
	assignments := map[string]interface{}{
		"occurrences":  gorm.Expr("occurrences + 1"),
		"last_seen_at": now,
	}
	if activityID != nil {
		assignments["last_seen_activity_id"] = *activityID
	}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "slug"}},
		DoUpdates: clause.Assignments(assignments),
	}).Create(&models.TagCandidate{
		Slug:               slug,
		Name:               name,
		Occurrences:        1,
		LastSeenActivityID: activityID,
		LastSeenAt:         now,
	}).Error
}

func (r *PostgresTagRepository) GetCandidateByID(id uint) (*models.TagCandidate, error) {
	var candidate models.TagCandidate
	if err := r.db.First(&candidate, id).Error; err != nil {
		return nil, err
	}
	return &candidate, nil
}

func (r *PostgresTagRepository) DeleteCandidate(id uint) error {
	return r.db.Delete(&models.TagCandidate{}, id).Error
}
