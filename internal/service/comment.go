package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/platefeed/backend/internal/model"
	"github.com/platefeed/backend/internal/models"
)

// ErrNotCommentOwner is returned when the user may not delete a comment.
var ErrNotCommentOwner = errors.New("comment does not belong to user")

type CommentService struct {
	db            *gorm.DB
	notifications *NotificationService
}

func NewCommentService(db *gorm.DB, notifications *NotificationService) *CommentService {
	return &CommentService{db: db, notifications: notifications}
}

// CreateComment adds a comment to a recipe and notifies the recipe owner.
func (s *CommentService) CreateComment(ctx context.Context, recipeID, userID uuid.UUID, body string) (*model.Comment, error) {
	var recipe model.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", recipeID).Error; err != nil {
		return nil, err
	}

	comment := model.Comment{
		ID:       uuid.New(),
		RecipeID: recipeID,
		UserID:   userID,
		Body:     body,
	}
	if err := s.db.WithContext(ctx).Create(&comment).Error; err != nil {
		return nil, err
	}

	s.notifications.Notify(ctx, recipe.UserID, userID, models.NotificationRecipeComment, recipeID, "commented on your recipe "+recipe.Name)
	return &comment, nil
}

// ListComments returns all comments on a recipe, oldest first.
func (s *CommentService) ListComments(ctx context.Context, recipeID uuid.UUID) ([]model.Comment, error) {
	var comments []model.Comment
	err := s.db.WithContext(ctx).
		Where("recipe_id = ?", recipeID).
		Order("created_at ASC").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}

// DeleteComment removes a comment. Allowed for the comment author and for
// the owner of the recipe it sits on.
func (s *CommentService) DeleteComment(ctx context.Context, commentID, userID uuid.UUID) error {
	var comment model.Comment
	if err := s.db.WithContext(ctx).First(&comment, "id = ?", commentID).Error; err != nil {
		return err
	}

	if comment.UserID != userID {
		var recipe model.Recipe
		if err := s.db.WithContext(ctx).First(&recipe, "id = ?", comment.RecipeID).Error; err != nil {
			return err
		}
		if recipe.UserID != userID {
			return ErrNotCommentOwner
		}
	}

	return s.db.WithContext(ctx).Delete(&model.Comment{}, "id = ?", commentID).Error
}
