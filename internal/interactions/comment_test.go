package interactions

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulsefeed/backend/internal/apperr"
	"github.com/pulsefeed/backend/internal/models"
)

func TestCreateCommentOnActivity(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db)
	author := createUser(t, db, "author", models.StatusActive)
	commenter := createUser(t, db, "commenter", models.StatusActive)
	activity := createActivity(t, db, author.ID)

	comment, err := svc.CreateComment(context.Background(), CreateCommentInput{
		AuthorID:   commenter.ID,
		TargetType: models.TargetActivity,
		TargetID:   activity.ID,
		Content:    "nice one",
	})
	require.NoError(t, err)
	assert.NotZero(t, comment.ID)
	assert.Equal(t, "nice one", comment.Content)

	assert.Equal(t, int64(1), reloadActivity(t, db, activity.ID).CommentsCount)
}

func TestCreateCommentOnPost(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db)
	author := createUser(t, db, "author", models.StatusActive)
	post := createPost(t, db, author.ID, "first-post")

	comment, err := svc.CreateComment(context.Background(), CreateCommentInput{
		AuthorID:   author.ID,
		TargetType: models.TargetPost,
		TargetID:   post.ID,
		Content:    "self comment",
	})
	require.NoError(t, err)
	assert.Equal(t, models.TargetPost, comment.TargetType)
}

func TestCreateCommentSanitizesContent(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db)
	author := createUser(t, db, "author", models.StatusActive)
	activity := createActivity(t, db, author.ID)

	comment, err := svc.CreateComment(context.Background(), CreateCommentInput{
		AuthorID:   author.ID,
		TargetType: models.TargetActivity,
		TargetID:   activity.ID,
		Content:    `hello <script>alert(1)</script><b>world</b>`,
	})
	require.NoError(t, err)
	assert.NotContains(t, comment.Content, "<script>")
	assert.Contains(t, comment.Content, "<b>world</b>")
}

func TestCreateCommentEmptyAfterSanitize(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db)
	author := createUser(t, db, "author", models.StatusActive)
	activity := createActivity(t, db, author.ID)

	_, err := svc.CreateComment(context.Background(), CreateCommentInput{
		AuthorID:   author.ID,
		TargetType: models.TargetActivity,
		TargetID:   activity.ID,
		Content:    "<script>alert(1)</script>",
	})
	require.Error(t, err)
	assert.Equal(t, apperr.CodeValidation, apperr.Classify(err).Code)
}

func TestCreateCommentMissingTarget(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db)
	author := createUser(t, db, "author", models.StatusActive)

	_, err := svc.CreateComment(context.Background(), CreateCommentInput{
		AuthorID:   author.ID,
		TargetType: models.TargetActivity,
		TargetID:   9999,
		Content:    "into the void",
	})
	require.Error(t, err)
	assert.Equal(t, apperr.CodeNotFound, apperr.Classify(err).Code)
}

func TestCreateCommentParentOnDifferentTarget(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db)
	author := createUser(t, db, "author", models.StatusActive)
	first := createActivity(t, db, author.ID)
	second := createActivity(t, db, author.ID)

	parent, err := svc.CreateComment(context.Background(), CreateCommentInput{
		AuthorID:   author.ID,
		TargetType: models.TargetActivity,
		TargetID:   first.ID,
		Content:    "root",
	})
	require.NoError(t, err)

	_, err = svc.CreateComment(context.Background(), CreateCommentInput{
		AuthorID:   author.ID,
		TargetType: models.TargetActivity,
		TargetID:   second.ID,
		ParentID:   &parent.ID,
		Content:    "misplaced reply",
	})
	require.Error(t, err)
	assert.Equal(t, apperr.CodeValidation, apperr.Classify(err).Code)
}

func TestDeleteCommentWithoutChildren(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db)
	author := createUser(t, db, "author", models.StatusActive)
	activity := createActivity(t, db, author.ID)

	comment, err := svc.CreateComment(context.Background(), CreateCommentInput{
		AuthorID:   author.ID,
		TargetType: models.TargetActivity,
		TargetID:   activity.ID,
		Content:    "short lived",
	})
	require.NoError(t, err)
	require.Equal(t, int64(1), reloadActivity(t, db, activity.ID).CommentsCount)

	res, err := svc.DeleteComment(context.Background(), comment.ID, author.ID, false)
	require.NoError(t, err)
	assert.True(t, res.HardDeleted)
	assert.False(t, res.Tombstoned)

	var count int64
	require.NoError(t, db.Model(&models.Comment{}).Count(&count).Error)
	assert.Zero(t, count)
	assert.Zero(t, reloadActivity(t, db, activity.ID).CommentsCount)
}

func TestDeleteCommentWithChildrenTombstones(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db)
	author := createUser(t, db, "author", models.StatusActive)
	replier := createUser(t, db, "replier", models.StatusActive)
	activity := createActivity(t, db, author.ID)

	parent, err := svc.CreateComment(context.Background(), CreateCommentInput{
		AuthorID:   author.ID,
		TargetType: models.TargetActivity,
		TargetID:   activity.ID,
		Content:    "root",
	})
	require.NoError(t, err)

	child, err := svc.CreateComment(context.Background(), CreateCommentInput{
		AuthorID:   replier.ID,
		TargetType: models.TargetActivity,
		TargetID:   activity.ID,
		ParentID:   &parent.ID,
		Content:    "reply",
	})
	require.NoError(t, err)

	res, err := svc.DeleteComment(context.Background(), parent.ID, author.ID, false)
	require.NoError(t, err)
	assert.False(t, res.HardDeleted)
	assert.True(t, res.Tombstoned)

	var stored models.Comment
	require.NoError(t, db.First(&stored, parent.ID).Error)
	assert.True(t, stored.Tombstoned())
	assert.Equal(t, models.TombstoneContent, stored.Content)

	// The reply keeps its parent linkage and the counter is untouched.
	var storedChild models.Comment
	require.NoError(t, db.First(&storedChild, child.ID).Error)
	require.NotNil(t, storedChild.ParentID)
	assert.Equal(t, parent.ID, *storedChild.ParentID)
	assert.Equal(t, int64(2), reloadActivity(t, db, activity.ID).CommentsCount)
}

func TestDeleteCommentNotAuthor(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db)
	author := createUser(t, db, "author", models.StatusActive)
	other := createUser(t, db, "other", models.StatusActive)
	activity := createActivity(t, db, author.ID)

	comment, err := svc.CreateComment(context.Background(), CreateCommentInput{
		AuthorID:   author.ID,
		TargetType: models.TargetActivity,
		TargetID:   activity.ID,
		Content:    "mine",
	})
	require.NoError(t, err)

	_, err = svc.DeleteComment(context.Background(), comment.ID, other.ID, false)
	require.Error(t, err)
	assert.Equal(t, apperr.CodeForbidden, apperr.Classify(err).Code)

	// An admin may delete regardless of authorship.
	res, err := svc.DeleteComment(context.Background(), comment.ID, other.ID, true)
	require.NoError(t, err)
	assert.True(t, res.HardDeleted)
}

func TestDeleteCommentNotFound(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db)
	author := createUser(t, db, "author", models.StatusActive)

	_, err := svc.DeleteComment(context.Background(), 9999, author.ID, false)
	require.Error(t, err)
	assert.Equal(t, apperr.CodeNotFound, apperr.Classify(err).Code)
}
