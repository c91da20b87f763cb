package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platefeed/backend/internal/model"
)

func TestRecipeCRUD(t *testing.T) {
	db := setupServiceDB(t)
	svc := NewRecipeService(db)
	ctx := context.Background()

	owner := seedUser(t, db, "owner")
	other := seedUser(t, db, "other")

	created, err := svc.CreateRecipe(ctx, &model.Recipe{
		Name:         "Pasta Bake",
		Description:  "Weeknight dinner",
		Cuisine:      "italian",
		Ingredients:  model.JSONBStringArray{"penne", "marinara"},
		Instructions: model.JSONBStringArray{"boil", "bake"},
		Source:       model.SourceUser,
		UserID:       owner,
	})
	require.NoError(t, err)
	require.NotEqual(t, "", created.ID.String())

	got, err := svc.GetRecipe(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Pasta Bake", got.Name)
	assert.Equal(t, []string{"penne", "marinara"}, []string(got.Ingredients))

	_, err = svc.UpdateRecipe(ctx, created.ID, other, &model.Recipe{Name: "Stolen"})
	assert.ErrorIs(t, err, ErrNotRecipeOwner)

	updated, err := svc.UpdateRecipe(ctx, created.ID, owner, &model.Recipe{
		Name:         "Pasta Bake v2",
		Description:  "Improved",
		Ingredients:  model.JSONBStringArray{"penne"},
		Instructions: model.JSONBStringArray{"boil", "bake", "rest"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Pasta Bake v2", updated.Name)
	assert.Equal(t, "", updated.Cuisine, "omitted field clears its stored value")
	assert.Equal(t, model.SourceUser, updated.Source, "source survives a plain edit")

	err = svc.DeleteRecipe(ctx, created.ID, other)
	assert.ErrorIs(t, err, ErrNotRecipeOwner)

	require.NoError(t, svc.DeleteRecipe(ctx, created.ID, owner))
	_, err = svc.GetRecipe(ctx, created.ID)
	assert.Error(t, err)
}

func TestListRecipesFilters(t *testing.T) {
	db := setupServiceDB(t)
	svc := NewRecipeService(db)
	ctx := context.Background()

	owner := seedUser(t, db, "owner")

	mk := func(name, cuisine, diet, source string, ingredients ...string) {
		_, err := svc.CreateRecipe(ctx, &model.Recipe{
			Name:         name,
			Cuisine:      cuisine,
			Diet:         diet,
			Source:       source,
			Ingredients:  model.JSONBStringArray(ingredients),
			Instructions: model.JSONBStringArray{"cook"},
			UserID:       owner,
		})
		require.NoError(t, err)
	}

	mk("Margherita Pizza", "italian", "vegetarian", model.SourceUser, "flour", "tomato", "mozzarella")
	mk("Pad Thai", "thai", "", model.SourceUser, "rice noodles", "peanuts")
	mk("Green Curry", "thai", "vegan", model.SourceAI, "coconut milk", "green curry paste")

	recipes, err := svc.ListRecipes(ctx, RecipeFilters{Cuisine: "Thai"})
	require.NoError(t, err)
	assert.Len(t, recipes, 2)

	recipes, err = svc.ListRecipes(ctx, RecipeFilters{Diet: "vegan"})
	require.NoError(t, err)
	require.Len(t, recipes, 1)
	assert.Equal(t, "Green Curry", recipes[0].Name)

	recipes, err = svc.ListRecipes(ctx, RecipeFilters{Source: model.SourceAI})
	require.NoError(t, err)
	require.Len(t, recipes, 1)
	assert.Equal(t, "Green Curry", recipes[0].Name)

	recipes, err = svc.ListRecipes(ctx, RecipeFilters{Cuisine: "thai", Exclude: []string{"peanuts"}})
	require.NoError(t, err)
	require.Len(t, recipes, 1)
	assert.Equal(t, "Green Curry", recipes[0].Name)

	recipes, err = svc.ListRecipes(ctx, RecipeFilters{Query: "pizza"})
	require.NoError(t, err)
	require.Len(t, recipes, 1)
	assert.Equal(t, "Margherita Pizza", recipes[0].Name)
}

func TestRecipeFromProperties(t *testing.T) {
	owner := seedUser(t, setupServiceDB(t), "owner")

	props := RecipeProperties{
		Description:  "A quick stew.",
		Ingredients:  []string{"beans", "tomatoes"},
		Instructions: []string{"Simmer"},
		Nutrition: NutritionFacts{
			Calories:      "350",
			Protein:       "12",
			Fat:           UnknownValue,
			Carbohydrates: "40",
		},
		CuisineType:      "mexican",
		DietType:         UnknownValue,
		CookingTime:      "30 mins",
		CookingTimeValue: 30,
	}

	recipe := RecipeFromProperties("Bean Stew", props, model.SourceAI, owner)

	assert.Equal(t, "Bean Stew", recipe.Name)
	assert.Equal(t, "A quick stew.", recipe.Description)
	assert.Equal(t, "mexican", recipe.Cuisine)
	assert.Equal(t, "", recipe.Diet)
	assert.Equal(t, "30 mins", recipe.CookingTime)
	assert.Equal(t, 30, recipe.CookingTimeMinutes)
	assert.Equal(t, 350.0, recipe.Calories)
	assert.Equal(t, 12.0, recipe.Protein)
	assert.Equal(t, 0.0, recipe.Fat)
	assert.Equal(t, 40.0, recipe.Carbs)
	assert.Equal(t, model.SourceAI, recipe.Source)
	assert.Equal(t, owner, recipe.UserID)
}
