package notify

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/pulsefeed/backend/internal/apperr"
	"github.com/pulsefeed/backend/internal/models"
)

type fakeBroadcaster struct {
	mu        sync.Mutex
	published []*models.Notification
	err       error
}

func (f *fakeBroadcaster) Publish(ctx context.Context, recipientID uint, notification *models.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, notification)
	return nil
}

func (f *fakeBroadcaster) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.published)
}

type fakeEnqueuer struct {
	mu   sync.Mutex
	jobs []models.EmailJob
}

func (f *fakeEnqueuer) Enqueue(ctx context.Context, job models.EmailJob) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.jobs = append(f.jobs, job)
	return nil
}

func (f *fakeEnqueuer) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.jobs)
}

func (f *fakeEnqueuer) last() models.EmailJob {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.jobs[len(f.jobs)-1]
}

func newDispatcherTest(t *testing.T) (*gorm.DB, *fakeBroadcaster, *fakeEnqueuer, *Dispatcher) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Notification{}))

	broadcaster := &fakeBroadcaster{}
	enqueuer := &fakeEnqueuer{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return db, broadcaster, enqueuer, NewDispatcher(db, broadcaster, enqueuer, logger)
}

func createRecipient(t *testing.T, db *gorm.DB, prefs models.NotificationPrefs) *models.User {
	t.Helper()
	user := &models.User{
		Name:              "recipient",
		Email:             "recipient@example.com",
		Status:            models.StatusActive,
		NotificationPrefs: prefs,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func TestDispatchCreatesNotificationAndFansOut(t *testing.T) {
	db, broadcaster, enqueuer, d := newDispatcherTest(t)
	recipient := createRecipient(t, db, nil)

	n, err := d.Dispatch(context.Background(), recipient.ID, models.NotificationTypeFollow, Refs{ActorID: 42})
	require.NoError(t, err)
	require.NotNil(t, n)
	assert.Equal(t, recipient.ID, n.RecipientID)
	assert.Equal(t, uint(42), n.ActorID)
	assert.Nil(t, n.ReadAt)

	var count int64
	require.NoError(t, db.Model(&models.Notification{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	require.Eventually(t, func() bool {
		return broadcaster.count() == 1 && enqueuer.count() == 1
	}, time.Second, 10*time.Millisecond)

	job := enqueuer.last()
	assert.Equal(t, recipient.ID, job.RecipientID)
	assert.Equal(t, models.NotificationTypeFollow, job.Type)
	assert.Equal(t, n.ID, job.NotificationID)
}

func TestDispatchRequiresActor(t *testing.T) {
	db, _, _, d := newDispatcherTest(t)
	recipient := createRecipient(t, db, nil)

	_, err := d.Dispatch(context.Background(), recipient.ID, models.NotificationTypeFollow, Refs{})
	require.Error(t, err)
	assert.Equal(t, apperr.CodeValidation, apperr.Classify(err).Code)
}

func TestDispatchUnknownRecipient(t *testing.T) {
	_, _, _, d := newDispatcherTest(t)

	_, err := d.Dispatch(context.Background(), 9999, models.NotificationTypeFollow, Refs{ActorID: 1})
	require.Error(t, err)
	assert.Equal(t, apperr.CodeNotFound, apperr.Classify(err).Code)
}

func TestDispatchRespectsDisabledPreference(t *testing.T) {
	db, broadcaster, enqueuer, d := newDispatcherTest(t)
	recipient := createRecipient(t, db, models.NotificationPrefs{models.NotificationTypeFollow: false})

	n, err := d.Dispatch(context.Background(), recipient.ID, models.NotificationTypeFollow, Refs{ActorID: 42})
	require.NoError(t, err)
	assert.Nil(t, n)

	var count int64
	require.NoError(t, db.Model(&models.Notification{}).Count(&count).Error)
	assert.Zero(t, count)
	assert.Zero(t, broadcaster.count())
	assert.Zero(t, enqueuer.count())

	// Other types stay enabled.
	n, err = d.Dispatch(context.Background(), recipient.ID, models.NotificationTypeComment, Refs{ActorID: 42})
	require.NoError(t, err)
	assert.NotNil(t, n)
}

func TestDispatchSurvivesBroadcastFailure(t *testing.T) {
	db, broadcaster, enqueuer, d := newDispatcherTest(t)
	broadcaster.err = errors.New("redis down")
	recipient := createRecipient(t, db, nil)

	n, err := d.Dispatch(context.Background(), recipient.ID, models.NotificationTypeReply, Refs{ActorID: 42})
	require.NoError(t, err)
	require.NotNil(t, n)

	// The email path still runs; the broadcast failure stays internal.
	require.Eventually(t, func() bool {
		return enqueuer.count() == 1
	}, time.Second, 10*time.Millisecond)
}

func TestChannelForUser(t *testing.T) {
	assert.Equal(t, "notify:user:7", ChannelForUser(7))
}
