package notif

import (
	"context"
	"testing"

	"nexoecos/internal/dbmysql"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newNotifTestService(t *testing.T) *NotificationService {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&dbmysql.Notification{}))

	return NewNotificationService(dbmysql.NewNotificationRepository(db))
}

func TestNotificationQueue(t *testing.T) {
	svc := newNotifTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Create(ctx, 1, "Tu publicación fue retirada: spam"))
	require.NoError(t, svc.Create(ctx, 1, "Tu comentario fue retirado: tono"))
	require.NoError(t, svc.Create(ctx, 2, "otro usuario"))

	list, err := svc.ListRecent(ctx, 1, 10)
	require.NoError(t, err)
	require.Len(t, list, 2)
	for _, n := range list {
		assert.False(t, n.IsRead)
		assert.NotEmpty(t, n.ID)
	}

	count, err := svc.UnreadCount(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	require.NoError(t, svc.MarkAllRead(ctx, 1))

	count, err = svc.UnreadCount(ctx, 1)
	require.NoError(t, err)
	assert.Zero(t, count)

	// the other user's queue is untouched
	count, err = svc.UnreadCount(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestNotificationRequiresMessage(t *testing.T) {
	svc := newNotifTestService(t)
	assert.Error(t, svc.Create(context.Background(), 1, ""))
}

// staleRepo returns elements of the wrong dynamic type, as a
// misbehaving implementation would
type staleRepo struct{}

func (staleRepo) Create(ctx context.Context, userID int64, message string) error { return nil }
func (staleRepo) ByUserID(ctx context.Context, userID int64, limit int) ([]interface{}, error) {
	return []interface{}{dbmysql.Notification{ID: "n1"}}, nil
}
func (staleRepo) MarkAllRead(ctx context.Context, userID int64) error { return nil }
func (staleRepo) UnreadCount(ctx context.Context, userID int64) (int64, error) { return 0, nil }

func TestListRecentRejectsForeignElements(t *testing.T) {
	svc := NewNotificationService(staleRepo{})

	require.NotPanics(t, func() {
		_, err := svc.ListRecent(context.Background(), 1, 10)
		assert.Error(t, err)
	})
}
