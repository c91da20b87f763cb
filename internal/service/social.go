package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/platefeed/backend/internal/model"
	"github.com/platefeed/backend/internal/models"
)

var (
	ErrSelfFollow     = errors.New("cannot follow yourself")
	ErrAlreadyFollows = errors.New("already following this user")
	ErrNotFollowing   = errors.New("not following this user")
	ErrAlreadyStarred = errors.New("recipe already starred")
	ErrNotStarred     = errors.New("recipe not starred")
)

// SocialService covers the follow graph and recipe stars.
type SocialService struct {
	db            *gorm.DB
	notifications *NotificationService
}

func NewSocialService(db *gorm.DB, notifications *NotificationService) *SocialService {
	return &SocialService{db: db, notifications: notifications}
}

// Follow adds a follower -> followee edge.
func (s *SocialService) Follow(ctx context.Context, followerID, followeeID uuid.UUID) error {
	if followerID == followeeID {
		return ErrSelfFollow
	}

	var followee models.User
	if err := s.db.WithContext(ctx).First(&followee, "id = ?", followeeID).Error; err != nil {
		return err
	}

	var existing models.Follow
	err := s.db.WithContext(ctx).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		First(&existing).Error
	if err == nil {
		return ErrAlreadyFollows
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	follow := models.Follow{
		ID:         uuid.New(),
		FollowerID: followerID,
		FolloweeID: followeeID,
	}
	if err := s.db.WithContext(ctx).Create(&follow).Error; err != nil {
		return err
	}

	s.notifications.Notify(ctx, followeeID, followerID, models.NotificationNewFollower, followerID, "started following you")
	return nil
}

// Unfollow removes the follower -> followee edge.
func (s *SocialService) Unfollow(ctx context.Context, followerID, followeeID uuid.UUID) error {
	result := s.db.WithContext(ctx).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Delete(&models.Follow{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFollowing
	}
	return nil
}

// Followers returns profiles of users following userID.
func (s *SocialService) Followers(ctx context.Context, userID uuid.UUID) ([]models.UserProfile, error) {
	var profiles []models.UserProfile
	err := s.db.WithContext(ctx).
		Joins("JOIN follows ON follows.follower_id = user_profiles.user_id").
		Where("follows.followee_id = ?", userID).
		Find(&profiles).Error
	if err != nil {
		return nil, err
	}
	return profiles, nil
}

// Following returns profiles of users userID follows.
func (s *SocialService) Following(ctx context.Context, userID uuid.UUID) ([]models.UserProfile, error) {
	var profiles []models.UserProfile
	err := s.db.WithContext(ctx).
		Joins("JOIN follows ON follows.followee_id = user_profiles.user_id").
		Where("follows.follower_id = ?", userID).
		Find(&profiles).Error
	if err != nil {
		return nil, err
	}
	return profiles, nil
}

// StarRecipe stars a recipe for the user and bumps the denormalized
// counter on the recipe row.
func (s *SocialService) StarRecipe(ctx context.Context, userID, recipeID uuid.UUID) error {
	var recipe model.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", recipeID).Error; err != nil {
		return err
	}

	var existing model.RecipeStar
	err := s.db.WithContext(ctx).
		Where("recipe_id = ? AND user_id = ?", recipeID, userID).
		First(&existing).Error
	if err == nil {
		return ErrAlreadyStarred
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	if err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		star := model.RecipeStar{
			ID:       uuid.New(),
			RecipeID: recipeID,
			UserID:   userID,
		}
		if err := tx.Create(&star).Error; err != nil {
			return err
		}
		return tx.Model(&model.Recipe{}).
			Where("id = ?", recipeID).
			Update("star_count", gorm.Expr("star_count + 1")).Error
	}); err != nil {
		return err
	}

	s.notifications.Notify(ctx, recipe.UserID, userID, models.NotificationRecipeStar, recipeID, "starred your recipe "+recipe.Name)
	return nil
}

// UnstarRecipe removes a star.
func (s *SocialService) UnstarRecipe(ctx context.Context, userID, recipeID uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("recipe_id = ? AND user_id = ?", recipeID, userID).Delete(&model.RecipeStar{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotStarred
		}
		return tx.Model(&model.Recipe{}).
			Where("id = ? AND star_count > 0", recipeID).
			Update("star_count", gorm.Expr("star_count - 1")).Error
	})
}

// StarredRecipes lists the recipes a user has starred.
func (s *SocialService) StarredRecipes(ctx context.Context, userID uuid.UUID) ([]model.Recipe, error) {
	var recipes []model.Recipe
	err := s.db.WithContext(ctx).
		Joins("JOIN recipe_stars ON recipe_stars.recipe_id = recipes.id").
		Where("recipe_stars.user_id = ?", userID).
		Find(&recipes).Error
	if err != nil {
		return nil, err
	}
	return recipes, nil
}
