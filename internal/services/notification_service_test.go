package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SAP-F-2025/attendance-service/internal/models"
	"github.com/SAP-F-2025/attendance-service/internal/repositories"
)

func TestNotifyPersistsAndPublishes(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	student := seedStudent(t, env, "sam")

	notification, err := env.manager.Notification().Notify(ctx, student.ID, nil, models.NotificationInfo,
		"Schedule change", "Friday's session moves to room 204", nil)
	require.NoError(t, err)
	assert.NotZero(t, notification.ID)
	assert.False(t, notification.IsRead)

	published := env.publisher.GetPublishedEvents()
	require.Len(t, published, 1)
	assert.Equal(t, student.ID, published[0].UserID)
	assert.Equal(t, "Schedule change", published[0].Title)
}

func TestNotifySurvivesPublishFailure(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	student := seedStudent(t, env, "sam")
	env.publisher.FailNext = errors.New("broker down")

	notification, err := env.manager.Notification().Notify(ctx, student.ID, nil, models.NotificationSystem,
		"Maintenance", "Planned downtime tonight", nil)
	require.NoError(t, err)

	// Row persisted even though the event was lost
	unread, err := env.manager.Notification().UnreadCount(ctx, student.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), unread)
	assert.NotZero(t, notification.ID)
}

func TestMarkReadScopedToRecipient(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := seedStudent(t, env, "alice")
	bob := seedStudent(t, env, "bob")

	notification, err := env.manager.Notification().Notify(ctx, alice.ID, nil, models.NotificationInfo, "Hello", "World", nil)
	require.NoError(t, err)

	// Bob cannot mark Alice's notification
	err = env.manager.Notification().MarkRead(ctx, notification.ID, bob.ID)
	assert.ErrorIs(t, err, ErrNotificationNotFound)

	require.NoError(t, env.manager.Notification().MarkRead(ctx, notification.ID, alice.ID))

	unread, err := env.manager.Notification().UnreadCount(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), unread)
}

func TestMarkAllRead(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	student := seedStudent(t, env, "sam")
	for i := 0; i < 3; i++ {
		_, err := env.manager.Notification().Notify(ctx, student.ID, nil, models.NotificationInfo, "Ping", "Pong", nil)
		require.NoError(t, err)
	}

	count, err := env.manager.Notification().MarkAllRead(ctx, student.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	unread, err := env.manager.Notification().UnreadCount(ctx, student.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), unread)
}

func TestListNewestFirstWithUnreadFilter(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	student := seedStudent(t, env, "sam")

	first, err := env.manager.Notification().Notify(ctx, student.ID, nil, models.NotificationInfo, "First", "msg", nil)
	require.NoError(t, err)
	second, err := env.manager.Notification().Notify(ctx, student.ID, nil, models.NotificationInfo, "Second", "msg", nil)
	require.NoError(t, err)

	require.NoError(t, env.manager.Notification().MarkRead(ctx, first.ID, student.ID))

	resp, err := env.manager.Notification().List(ctx, student.ID, repositories.NotificationFilters{UnreadOnly: true})
	require.NoError(t, err)
	require.Len(t, resp.Notifications, 1)
	assert.Equal(t, second.ID, resp.Notifications[0].ID)
	assert.Equal(t, int64(1), resp.Unread)
}
