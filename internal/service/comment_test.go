package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/google/uuid"

	"github.com/platefeed/backend/internal/models"
)

func TestCreateAndListComments(t *testing.T) {
	db := setupServiceDB(t)
	notifications := NewNotificationService(db, nil)
	svc := NewCommentService(db, notifications)
	ctx := context.Background()

	owner := seedUser(t, db, "owner")
	commenter := seedUser(t, db, "commenter")
	recipe := seedRecipe(t, db, owner, "Commented Dish")

	first, err := svc.CreateComment(ctx, recipe.ID, commenter, "Looks great")
	require.NoError(t, err)
	assert.Equal(t, "Looks great", first.Body)

	_, err = svc.CreateComment(ctx, recipe.ID, owner, "Thanks!")
	require.NoError(t, err)

	comments, err := svc.ListComments(ctx, recipe.ID)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "Looks great", comments[0].Body)
	assert.Equal(t, "Thanks!", comments[1].Body)

	// The owner is notified about the stranger's comment only.
	var count int64
	require.NoError(t, db.Model(&models.Notification{}).
		Where("user_id = ? AND type = ?", owner, models.NotificationRecipeComment).
		Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestCreateCommentMissingRecipe(t *testing.T) {
	db := setupServiceDB(t)
	svc := NewCommentService(db, NewNotificationService(db, nil))

	commenter := seedUser(t, db, "commenter")
	_, err := svc.CreateComment(context.Background(), uuid.New(), commenter, "hello?")
	assert.Error(t, err)
}

func TestDeleteCommentPermissions(t *testing.T) {
	db := setupServiceDB(t)
	svc := NewCommentService(db, NewNotificationService(db, nil))
	ctx := context.Background()

	owner := seedUser(t, db, "owner")
	commenter := seedUser(t, db, "commenter")
	stranger := seedUser(t, db, "stranger")
	recipe := seedRecipe(t, db, owner, "Moderated Dish")

	comment, err := svc.CreateComment(ctx, recipe.ID, commenter, "to be removed")
	require.NoError(t, err)

	assert.ErrorIs(t, svc.DeleteComment(ctx, comment.ID, stranger), ErrNotCommentOwner)

	// The author may delete their own comment.
	require.NoError(t, svc.DeleteComment(ctx, comment.ID, commenter))

	// The recipe owner may delete anyone's comment.
	comment, err = svc.CreateComment(ctx, recipe.ID, commenter, "another one")
	require.NoError(t, err)
	require.NoError(t, svc.DeleteComment(ctx, comment.ID, owner))

	comments, err := svc.ListComments(ctx, recipe.ID)
	require.NoError(t, err)
	assert.Empty(t, comments)
}
