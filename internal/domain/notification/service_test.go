package notification_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sitestock/internal/core/apperror"
	"sitestock/internal/core/id"
	"sitestock/internal/domain/notification"
	"sitestock/internal/infrastructure/storage/memory"
)

func newDispatcher() (*notification.Dispatcher, *memory.NotificationRepository) {
	repo := memory.NewNotificationRepository()
	return notification.NewDispatcher(repo), repo
}

func TestEmitAndFeedOrdering(t *testing.T) {
	d, _ := newDispatcher()
	ctx := context.Background()

	require.NoError(t, d.Emit(ctx, "user-1", notification.TypeInfo, "first"))
	time.Sleep(2 * time.Millisecond)
	require.NoError(t, d.Emit(ctx, "user-1", notification.TypeSuccess, "second"))
	require.NoError(t, d.Emit(ctx, "user-2", notification.TypeError, "other user"))

	feed, err := d.Feed(ctx, "user-1", notification.FeedFilter{})
	require.NoError(t, err)
	require.Len(t, feed, 2)
	assert.Equal(t, "second", feed[0].Message, "newest first")
	assert.Equal(t, "first", feed[1].Message)
}

func TestMarkReadIsIdempotent(t *testing.T) {
	d, _ := newDispatcher()
	ctx := context.Background()

	require.NoError(t, d.Emit(ctx, "user-1", notification.TypeWarning, "low stock"))
	feed, err := d.Feed(ctx, "user-1", notification.FeedFilter{})
	require.NoError(t, err)
	require.Len(t, feed, 1)

	require.NoError(t, d.MarkRead(ctx, feed[0].ID))
	require.NoError(t, d.MarkRead(ctx, feed[0].ID), "second mark-read is a no-op")

	count, err := d.UnreadCount(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestUnreadOnlyFilter(t *testing.T) {
	d, _ := newDispatcher()
	ctx := context.Background()

	require.NoError(t, d.Emit(ctx, "user-1", notification.TypeInfo, "a"))
	require.NoError(t, d.Emit(ctx, "user-1", notification.TypeInfo, "b"))

	feed, err := d.Feed(ctx, "user-1", notification.FeedFilter{})
	require.NoError(t, err)
	require.NoError(t, d.MarkRead(ctx, feed[0].ID))

	unread, err := d.Feed(ctx, "user-1", notification.FeedFilter{UnreadOnly: true})
	require.NoError(t, err)
	require.Len(t, unread, 1)

	count, err := d.UnreadCount(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestEmitValidatesInput(t *testing.T) {
	d, _ := newDispatcher()
	ctx := context.Background()

	err := d.Emit(ctx, "", notification.TypeInfo, "no recipient")
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))

	err = d.Emit(ctx, "user-1", "SHOUT", "bad type")
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))
}

func TestMarkReadUnknownIDFails(t *testing.T) {
	d, _ := newDispatcher()

	err := d.MarkRead(context.Background(), id.New())
	assert.True(t, apperror.IsNotFound(err))
}
