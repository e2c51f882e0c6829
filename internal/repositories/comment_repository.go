package repositories

import (
	"github.com/pulsefeed/backend/internal/models"
	"gorm.io/gorm"
)

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	CreateComment(comment *models.Comment) error
	GetCommentByID(id uint) (*models.Comment, error)
	CountChildren(id uint) (int64, error)
	HardDelete(id uint) error
	Tombstone(id uint) error
	ListByTarget(targetType string, targetID uint, page, limit int) ([]models.Comment, error)
}

// PostgresCommentRepository implements CommentRepository for PostgreSQL
type PostgresCommentRepository struct {
	db *gorm.DB
}

// NewPostgresCommentRepository creates a new PostgresCommentRepository
func NewPostgresCommentRepository(db *gorm.DB) *PostgresCommentRepository {
	return &PostgresCommentRepository{db: db}
}

func (r *PostgresCommentRepository) CreateComment(comment *models.Comment) error {
	return r.db.Create(comment).Error
}

func (r *PostgresCommentRepository) GetCommentByID(id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.First(&comment, id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// CountChildren counts direct replies of the comment.
func (r *PostgresCommentRepository) CountChildren(id uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Comment{}).Where("parent_id = ?", id).Count(&count).Error
	return count, err
}

func (r *PostgresCommentRepository) HardDelete(id uint) error {
	return r.db.Delete(&models.Comment{}, id).Error
}

// Tombstone overwrites the content in place. The row and its parent linkage
// survive so children keep a valid thread position.
func (r *PostgresCommentRepository) Tombstone(id uint) error {
	return r.db.Model(&models.Comment{}).Where("id = ?", id).
		UpdateColumn("content", models.TombstoneContent).Error
}

func (r *PostgresCommentRepository) ListByTarget(targetType string, targetID uint, page, limit int) ([]models.Comment, error) {
	var comments []models.Comment
	offset := (page - 1) * limit
	err := r.db.Where("target_type = ? AND target_id = ?", targetType, targetID).
		Order("created_at ASC").
		Offset(offset).Limit(limit).
		Find(&comments).Error
	return comments, err
}
