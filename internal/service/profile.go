package service

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/platefeed/backend/internal/model"
	"github.com/platefeed/backend/internal/models"
	"github.com/platefeed/backend/internal/types"
)

// ProfileService handles user profile operations
type ProfileService struct {
	db *gorm.DB
}

func NewProfileService(db *gorm.DB) *ProfileService {
	return &ProfileService{db: db}
}

// GetProfile loads the profile row for a user.
func (s *ProfileService) GetProfile(ctx context.Context, userID uuid.UUID) (*models.UserProfile, error) {
	var profile models.UserProfile
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// GetProfileByUsername loads a profile by its public username.
func (s *ProfileService) GetProfileByUsername(ctx context.Context, username string) (*models.UserProfile, error) {
	var profile models.UserProfile
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// UpdateProfile applies the non-empty fields of the request.
func (s *ProfileService) UpdateProfile(ctx context.Context, userID uuid.UUID, req *types.UpdateProfileRequest) (*models.UserProfile, error) {
	profile, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Username != "" {
		profile.Username = req.Username
	}
	if req.Bio != "" {
		profile.Bio = req.Bio
	}
	if req.ProfilePictureURL != "" {
		profile.ProfilePictureURL = req.ProfilePictureURL
	}
	if req.PrivacyLevel != "" {
		profile.PrivacyLevel = req.PrivacyLevel
	}

	if err := s.db.WithContext(ctx).Save(profile).Error; err != nil {
		return nil, err
	}
	return profile, nil
}

// GetUserRecipes lists the recipes a user has published.
func (s *ProfileService) GetUserRecipes(ctx context.Context, userID uuid.UUID) ([]model.Recipe, error) {
	var recipes []model.Recipe
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

// DietaryContext returns the dietary preference and allergen names for a
// user, for use in LLM prompts.
func (s *ProfileService) DietaryContext(ctx context.Context, userID uuid.UUID) (prefs, allergens []string, err error) {
	var dps []models.DietaryPreference
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Find(&dps).Error; err != nil {
		return nil, nil, err
	}
	for _, p := range dps {
		if p.PreferenceType == "custom" {
			prefs = append(prefs, p.CustomName)
		} else {
			prefs = append(prefs, p.PreferenceType)
		}
	}

	var alls []models.Allergen
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Find(&alls).Error; err != nil {
		return nil, nil, err
	}
	for _, a := range alls {
		allergens = append(allergens, a.AllergenName)
	}

	return prefs, allergens, nil
}
