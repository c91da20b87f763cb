package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/platefeed/backend/internal/model"
)

// ErrNotRecipeOwner is returned when a user tries to change a recipe they
// do not own.
var ErrNotRecipeOwner = errors.New("recipe does not belong to user")

// RecipeFilters narrows ListRecipes results.
type RecipeFilters struct {
	Query   string
	Cuisine string
	Diet    string
	Source  string
	Exclude []string
	UserID  *uuid.UUID
}

// RecipeService handles recipe operations
type RecipeService struct {
	db *gorm.DB
}

// NewRecipeService creates a new RecipeService instance
func NewRecipeService(db *gorm.DB) *RecipeService {
	return &RecipeService{db: db}
}

// CreateRecipe creates a new recipe
func (s *RecipeService) CreateRecipe(ctx context.Context, recipe *model.Recipe) (*model.Recipe, error) {
	if recipe.ID == uuid.Nil {
		recipe.ID = uuid.New()
	}
	recipe.Embedding = GenerateEmbedding(recipe.Name + " " + recipe.Description)
	if err := s.db.WithContext(ctx).Create(recipe).Error; err != nil {
		return nil, err
	}
	return recipe, nil
}

// GetRecipe retrieves a recipe by ID
func (s *RecipeService) GetRecipe(ctx context.Context, id uuid.UUID) (*model.Recipe, error) {
	var recipe model.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &recipe, nil
}

// UpdateRecipe updates a recipe owned by userID.
func (s *RecipeService) UpdateRecipe(ctx context.Context, id, userID uuid.UUID, recipe *model.Recipe) (*model.Recipe, error) {
	existing, err := s.GetRecipe(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.UserID != userID {
		return nil, ErrNotRecipeOwner
	}

	// Save writes every content column, so a field the caller left empty
	// clears its stored value.
	existing.Name = recipe.Name
	existing.Description = recipe.Description
	existing.Cuisine = recipe.Cuisine
	existing.Diet = recipe.Diet
	existing.ImageURL = recipe.ImageURL
	existing.Ingredients = recipe.Ingredients
	existing.Instructions = recipe.Instructions
	existing.CookingTime = recipe.CookingTime
	existing.CookingTimeMinutes = recipe.CookingTimeMinutes
	existing.Calories = recipe.Calories
	existing.Protein = recipe.Protein
	existing.Carbs = recipe.Carbs
	existing.Fat = recipe.Fat
	if recipe.Source != "" {
		existing.Source = recipe.Source
	}
	existing.Embedding = GenerateEmbedding(existing.Name + " " + existing.Description)

	if err := s.db.WithContext(ctx).Save(existing).Error; err != nil {
		return nil, err
	}
	return existing, nil
}

// DeleteRecipe deletes a recipe owned by userID.
func (s *RecipeService) DeleteRecipe(ctx context.Context, id, userID uuid.UUID) error {
	existing, err := s.GetRecipe(ctx, id)
	if err != nil {
		return err
	}
	if existing.UserID != userID {
		return ErrNotRecipeOwner
	}
	return s.db.WithContext(ctx).Delete(&model.Recipe{}, "id = ?", id).Error
}

// SetImageURL updates just the image column on a recipe owned by userID.
func (s *RecipeService) SetImageURL(ctx context.Context, id, userID uuid.UUID, imageURL string) error {
	existing, err := s.GetRecipe(ctx, id)
	if err != nil {
		return err
	}
	if existing.UserID != userID {
		return ErrNotRecipeOwner
	}
	return s.db.WithContext(ctx).Model(&model.Recipe{}).
		Where("id = ?", id).
		Update("image_url", imageURL).Error
}

// ListRecipes lists recipes matching the filters. On Postgres a search
// query orders by embedding distance; on sqlite it falls back to LIKE.
func (s *RecipeService) ListRecipes(ctx context.Context, filters RecipeFilters) ([]model.Recipe, error) {
	var recipes []model.Recipe
	query := s.db.WithContext(ctx)

	if search := filters.Query; search != "" {
		if s.db.Dialector.Name() == "postgres" {
			vec := GenerateEmbedding(search)
			query = query.Clauses(clause.OrderBy{
				Expression: clause.Expr{SQL: "embedding <-> ?", Vars: []interface{}{vec}},
			})
		} else {
			like := "%" + strings.ToLower(search) + "%"
			query = query.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
		}
	}

	if filters.Cuisine != "" {
		query = query.Where("LOWER(cuisine) = ?", strings.ToLower(filters.Cuisine))
	}
	if filters.Diet != "" {
		query = query.Where("LOWER(diet) = ?", strings.ToLower(filters.Diet))
	}
	if filters.Source != "" {
		query = query.Where("source = ?", filters.Source)
	}
	if filters.UserID != nil {
		query = query.Where("user_id = ?", *filters.UserID)
	}

	for _, a := range filters.Exclude {
		like := "%" + strings.ToLower(strings.TrimSpace(a)) + "%"
		if s.db.Dialector.Name() == "postgres" {
			query = query.Where("LOWER(ingredients::text) NOT LIKE ?", like)
		} else {
			query = query.Where("LOWER(ingredients) NOT LIKE ?", like)
		}
	}

	if err := query.Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

// RecipeFromProperties builds a Recipe row out of the extractor's output.
// The sentinel "unknown" collapses to empty columns.
func RecipeFromProperties(name string, props RecipeProperties, source string, userID uuid.UUID) *model.Recipe {
	clean := func(v string) string {
		if v == UnknownValue {
			return ""
		}
		return v
	}

	macros := MacrosFromNutrition(props.Nutrition)
	return &model.Recipe{
		ID:                 uuid.New(),
		Name:               name,
		Description:        props.Description,
		Cuisine:            clean(props.CuisineType),
		Diet:               clean(props.DietType),
		Ingredients:        model.JSONBStringArray(props.Ingredients),
		Instructions:       model.JSONBStringArray(props.Instructions),
		CookingTime:        clean(props.CookingTime),
		CookingTimeMinutes: props.CookingTimeValue,
		Calories:           macros.Calories,
		Protein:            macros.Protein,
		Carbs:              macros.Carbs,
		Fat:                macros.Fat,
		Source:             source,
		UserID:             userID,
	}
}
