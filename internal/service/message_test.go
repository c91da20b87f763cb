package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/google/uuid"

	"github.com/platefeed/backend/internal/models"
)

func TestSendMessage(t *testing.T) {
	db := setupServiceDB(t)
	svc := NewMessageService(db, NewNotificationService(db, nil))
	ctx := context.Background()

	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	_, err := svc.SendMessage(ctx, alice, alice, "talking to myself")
	assert.ErrorIs(t, err, ErrSelfMessage)

	_, err = svc.SendMessage(ctx, alice, uuid.New(), "hello void")
	assert.Error(t, err)

	msg, err := svc.SendMessage(ctx, alice, bob, "hi bob")
	require.NoError(t, err)
	assert.Equal(t, alice, msg.SenderID)
	assert.Equal(t, bob, msg.RecipientID)
	assert.Nil(t, msg.ReadAt)

	// Bob is notified.
	var count int64
	require.NoError(t, db.Model(&models.Notification{}).
		Where("user_id = ? AND type = ?", bob, models.NotificationNewMessage).
		Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestConversation(t *testing.T) {
	db := setupServiceDB(t)
	svc := NewMessageService(db, NewNotificationService(db, nil))
	ctx := context.Background()

	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	carol := seedUser(t, db, "carol")

	_, err := svc.SendMessage(ctx, alice, bob, "hi bob")
	require.NoError(t, err)
	_, err = svc.SendMessage(ctx, bob, alice, "hi alice")
	require.NoError(t, err)
	_, err = svc.SendMessage(ctx, alice, carol, "hi carol")
	require.NoError(t, err)

	messages, err := svc.Conversation(ctx, alice, bob, 0)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, "hi bob", messages[0].Body)
	assert.Equal(t, "hi alice", messages[1].Body)
}

func TestMarkConversationRead(t *testing.T) {
	db := setupServiceDB(t)
	svc := NewMessageService(db, NewNotificationService(db, nil))
	ctx := context.Background()

	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	_, err := svc.SendMessage(ctx, bob, alice, "one")
	require.NoError(t, err)
	_, err = svc.SendMessage(ctx, bob, alice, "two")
	require.NoError(t, err)
	sent, err := svc.SendMessage(ctx, alice, bob, "reply")
	require.NoError(t, err)

	require.NoError(t, svc.MarkConversationRead(ctx, alice, bob))

	var unread int64
	require.NoError(t, db.Model(&models.Message{}).
		Where("recipient_id = ? AND read_at IS NULL", alice).
		Count(&unread).Error)
	assert.Zero(t, unread)

	// Alice's own outgoing message stays unread for Bob.
	var stored models.Message
	require.NoError(t, db.First(&stored, "id = ?", sent.ID).Error)
	assert.Nil(t, stored.ReadAt)
}
