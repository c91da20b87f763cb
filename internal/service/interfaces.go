package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/platefeed/backend/internal/models"
	"github.com/platefeed/backend/internal/types"
)

// IAuthService defines the interface for authentication operations
type IAuthService interface {
	Register(name, email, password, username string, dietaryPrefs, allergens []string) (string, error)
	Login(email, password string) (string, error)
	ValidateToken(token string) (*types.TokenClaims, error)
	GenerateVerificationToken(userID uuid.UUID) (string, error)
	VerifyEmail(token string) (*models.User, error)
	GetUserByID(userID uuid.UUID) (*models.User, error)
}

// ILLMService defines the interface for recipe generation operations
type ILLMService interface {
	GenerateRecipeText(ctx context.Context, query string, dietaryPrefs, allergens []string, original *RecipeDraft) (string, error)
	CalculateMacros(ctx context.Context, ingredients []string) (*Macros, error)
	SaveDraft(ctx context.Context, draft *RecipeDraft) error
	GetDraft(ctx context.Context, id string) (*RecipeDraft, error)
	DeleteDraft(ctx context.Context, id string) error
}
