package model

import (
	"time"

	"github.com/google/uuid"
)

// RecipeStar records one user starring one recipe. The (recipe, user)
// pair is unique.
type RecipeStar struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	RecipeID  uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_recipe_stars_recipe_user" json:"recipe_id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_recipe_stars_recipe_user" json:"user_id"`
}

func (RecipeStar) TableName() string {
	return "recipe_stars"
}
