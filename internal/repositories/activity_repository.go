package repositories

import (
	"github.com/pulsefeed/backend/internal/models"
	"gorm.io/gorm"
)

// ActivityRepository defines the interface for activity data operations
type ActivityRepository interface {
	GetActivityByID(id uint) (*models.Activity, error)
	AddCommentsCount(id uint, delta int) error
}

// PostgresActivityRepository implements ActivityRepository for PostgreSQL
type PostgresActivityRepository struct {
	db *gorm.DB
}

// NewPostgresActivityRepository creates a new PostgresActivityRepository
func NewPostgresActivityRepository(db *gorm.DB) *PostgresActivityRepository {
	return &PostgresActivityRepository{db: db}
}

func (r *PostgresActivityRepository) GetActivityByID(id uint) (*models.Activity, error) {
	var activity models.Activity
	if err := r.db.First(&activity, id).Error; err != nil {
		return nil, err
	}
	return &activity, nil
}

// AddCommentsCount bumps the denormalized comment counter atomically.
func (r *PostgresActivityRepository) AddCommentsCount(id uint, delta int) error {
	return r.db.Model(&models.Activity{}).Where("id = ?", id).
		UpdateColumn("comments_count", gorm.Expr("comments_count + ?", delta)).Error
}

// PostRepository defines the interface for post data operations
type PostRepository interface {
	GetPostByID(id uint) (*models.Post, error)
}

// PostgresPostRepository implements PostRepository for PostgreSQL
type PostgresPostRepository struct {
	db *gorm.DB
}

// NewPostgresPostRepository creates a new PostgresPostRepository
func NewPostgresPostRepository(db *gorm.DB) *PostgresPostRepository {
	return &PostgresPostRepository{db: db}
}

func (r *PostgresPostRepository) GetPostByID(id uint) (*models.Post, error) {
	var post models.Post
	if err := r.db.First(&post, id).Error; err != nil {
		return nil, err
	}
	return &post, nil
}
