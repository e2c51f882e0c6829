package interactions

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/pulsefeed/backend/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Follow{},
		&models.Activity{},
		&models.Post{},
		&models.Comment{},
		&models.Tag{},
		&models.TagCandidate{},
		&models.ActivityTag{},
		&models.PostTag{},
		&models.Notification{},
	))
	return db
}

func newTestService(t *testing.T, db *gorm.DB) *Service {
	t.Helper()
	return NewService(db, nil, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func createUser(t *testing.T, db *gorm.DB, name, status string) *models.User {
	t.Helper()
	user := &models.User{
		Name:   name,
		Email:  name + "@example.com",
		Role:   models.RoleUser,
		Status: status,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createActivity(t *testing.T, db *gorm.DB, authorID uint) *models.Activity {
	t.Helper()
	activity := &models.Activity{AuthorID: authorID, Content: "hello"}
	require.NoError(t, db.Create(activity).Error)
	return activity
}

func createPost(t *testing.T, db *gorm.DB, authorID uint, slug string) *models.Post {
	t.Helper()
	post := &models.Post{AuthorID: authorID, Title: "post " + slug, Slug: slug}
	require.NoError(t, db.Create(post).Error)
	return post
}

func reloadUser(t *testing.T, db *gorm.DB, id uint) *models.User {
	t.Helper()
	var user models.User
	require.NoError(t, db.First(&user, id).Error)
	return &user
}

func reloadActivity(t *testing.T, db *gorm.DB, id uint) *models.Activity {
	t.Helper()
	var activity models.Activity
	require.NoError(t, db.First(&activity, id).Error)
	return &activity
}
