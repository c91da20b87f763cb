package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/google/uuid"

	"github.com/platefeed/backend/internal/models"
)

func TestNotifyAndList(t *testing.T) {
	db := setupServiceDB(t)
	svc := NewNotificationService(db, nil)
	ctx := context.Background()

	user := seedUser(t, db, "user")
	actor := seedUser(t, db, "actor")

	svc.Notify(ctx, user, actor, models.NotificationNewFollower, actor, "started following you")
	svc.Notify(ctx, user, actor, models.NotificationRecipeStar, uuid.New(), "starred your recipe")

	// Self-notifications are dropped.
	svc.Notify(ctx, user, user, models.NotificationRecipeStar, uuid.New(), "starred your own recipe")

	notifications, err := svc.List(ctx, user, 0)
	require.NoError(t, err)
	assert.Len(t, notifications, 2)

	count, err := svc.UnreadCount(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestMarkRead(t *testing.T) {
	db := setupServiceDB(t)
	svc := NewNotificationService(db, nil)
	ctx := context.Background()

	user := seedUser(t, db, "user")
	actor := seedUser(t, db, "actor")

	svc.Notify(ctx, user, actor, models.NotificationNewFollower, actor, "started following you")

	notifications, err := svc.List(ctx, user, 0)
	require.NoError(t, err)
	require.Len(t, notifications, 1)

	require.NoError(t, svc.MarkRead(ctx, user, notifications[0].ID))

	count, err := svc.UnreadCount(ctx, user)
	require.NoError(t, err)
	assert.Zero(t, count)

	// Marking again is a no-op.
	require.NoError(t, svc.MarkRead(ctx, user, notifications[0].ID))
}

func TestMarkAllRead(t *testing.T) {
	db := setupServiceDB(t)
	svc := NewNotificationService(db, nil)
	ctx := context.Background()

	user := seedUser(t, db, "user")
	actor := seedUser(t, db, "actor")

	for i := 0; i < 3; i++ {
		svc.Notify(ctx, user, actor, models.NotificationNewMessage, uuid.New(), "sent you a message")
	}

	require.NoError(t, svc.MarkAllRead(ctx, user))

	count, err := svc.UnreadCount(ctx, user)
	require.NoError(t, err)
	assert.Zero(t, count)
}
