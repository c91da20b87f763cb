package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platefeed/backend/internal/model"
	"github.com/platefeed/backend/internal/service"
)

const generatedRecipeText = "A bright lemon pasta for busy evenings.\n" +
	"\n" +
	"CUISINE: Italian\n" +
	"DIET: vegetarian\n" +
	"COOKING TIME: 30 minutes\n" +
	"NUTRITION: 500 calories, 20g protein, 15g fat, 60g carbohydrates\n" +
	"INGREDIENTS:\n" +
	"- 200g spaghetti\n" +
	"- 1 lemon\n" +
	"INSTRUCTIONS:\n" +
	"1. Boil the spaghetti\n" +
	"2. Toss with lemon\n"

func setupLLMRouter(t *testing.T, content string) (*gin.Engine, *service.AuthService, *service.RecipeService) {
	t.Helper()

	db, authSvc := setupAPIDB(t)

	ts := fakeChatServer(t, content)
	t.Setenv("LLM_API_KEY", "dummy")
	t.Setenv("LLM_API_URL", ts.URL)

	llmSvc, err := service.NewLLMService(nil)
	require.NoError(t, err)

	recipeSvc := service.NewRecipeService(db)
	profileSvc := service.NewProfileService(db)

	handler := NewLLMHandler(llmSvc, recipeSvc, profileSvc, authSvc, nil)

	router := gin.New()
	handler.RegisterRoutes(router.Group("/api/v1"))
	return router, authSvc, recipeSvc
}

func TestQueryGeneratesAndSavesRecipe(t *testing.T) {
	router, authSvc, _ := setupLLMRouter(t, generatedRecipeText)
	token, userID := registerTestUser(t, authSvc, "cook")

	w := doJSON(t, router, http.MethodPost, "/api/v1/llm/query", token,
		`{"query":"lemon pasta","intent":"generate"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Recipe model.Recipe `json:"recipe"`
	}
	decodeBody(t, w, &resp)

	assert.Equal(t, "lemon pasta", resp.Recipe.Name)
	assert.Equal(t, "A bright lemon pasta for busy evenings.", resp.Recipe.Description)
	assert.Equal(t, "italian", resp.Recipe.Cuisine)
	assert.Equal(t, "vegetarian", resp.Recipe.Diet)
	assert.Equal(t, "30 mins", resp.Recipe.CookingTime)
	assert.Equal(t, 30, resp.Recipe.CookingTimeMinutes)
	assert.Equal(t, 500.0, resp.Recipe.Calories)
	assert.Equal(t, 20.0, resp.Recipe.Protein)
	assert.Equal(t, 15.0, resp.Recipe.Fat)
	assert.Equal(t, 60.0, resp.Recipe.Carbs)
	assert.Equal(t, []string{"200g spaghetti", "1 lemon"}, []string(resp.Recipe.Ingredients))
	assert.Equal(t, []string{"Boil the spaghetti", "Toss with lemon"}, []string(resp.Recipe.Instructions))
	assert.Equal(t, model.SourceAI, resp.Recipe.Source)
	assert.Equal(t, userID, resp.Recipe.UserID)
}

func TestQueryUnparsableTextStillSaves(t *testing.T) {
	// The generation path never fails on malformed text: everything lands
	// in the description and the rest stays empty.
	router, authSvc, _ := setupLLMRouter(t, "Just a rambling paragraph about food with no structure at all.")
	token, _ := registerTestUser(t, authSvc, "cook")

	w := doJSON(t, router, http.MethodPost, "/api/v1/llm/query", token,
		`{"query":"mystery dish","intent":"generate"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Recipe model.Recipe `json:"recipe"`
	}
	decodeBody(t, w, &resp)

	assert.Equal(t, "Just a rambling paragraph about food with no structure at all.", resp.Recipe.Description)
	assert.Empty(t, []string(resp.Recipe.Ingredients))
	assert.Equal(t, "", resp.Recipe.Cuisine)
}

func TestQueryUnauthorized(t *testing.T) {
	router, _, _ := setupLLMRouter(t, generatedRecipeText)

	w := doJSON(t, router, http.MethodPost, "/api/v1/llm/query", "",
		`{"query":"lemon pasta","intent":"generate"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestQueryRejectsUnknownIntent(t *testing.T) {
	router, authSvc, _ := setupLLMRouter(t, generatedRecipeText)
	token, _ := registerTestUser(t, authSvc, "cook")

	w := doJSON(t, router, http.MethodPost, "/api/v1/llm/query", token,
		`{"query":"lemon pasta","intent":"teleport"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestQueryModifyRequiresOwnership(t *testing.T) {
	router, authSvc, recipeSvc := setupLLMRouter(t, generatedRecipeText)
	_, ownerID := registerTestUser(t, authSvc, "owner")
	token, _ := registerTestUser(t, authSvc, "intruder")

	recipe := service.RecipeFromProperties("Original",
		service.ExtractRecipePropertiesFromMarkdown(generatedRecipeText),
		model.SourceAI, ownerID)
	_, err := recipeSvc.CreateRecipe(context.Background(), recipe)
	require.NoError(t, err)

	body := fmt.Sprintf(`{"query":"make it spicy","intent":"modify","recipe_id":"%s"}`, recipe.ID)
	w := doJSON(t, router, http.MethodPost, "/api/v1/llm/query", token, body)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestQueryModifySendsOriginalRecipe(t *testing.T) {
	// The modify prompt must carry the stored recipe text, not just the
	// change request.
	db, authSvc := setupAPIDB(t)

	var prompts []string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var chatReq struct {
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&chatReq))
		for _, m := range chatReq.Messages {
			if m.Role == "user" {
				prompts = append(prompts, m.Content)
			}
		}

		payload := map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": generatedRecipeText}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(payload)
	}))
	t.Cleanup(ts.Close)

	t.Setenv("LLM_API_KEY", "dummy")
	t.Setenv("LLM_API_URL", ts.URL)

	llmSvc, err := service.NewLLMService(nil)
	require.NoError(t, err)
	recipeSvc := service.NewRecipeService(db)

	handler := NewLLMHandler(llmSvc, recipeSvc, service.NewProfileService(db), authSvc, nil)
	router := gin.New()
	handler.RegisterRoutes(router.Group("/api/v1"))

	token, ownerID := registerTestUser(t, authSvc, "owner")
	recipe := service.RecipeFromProperties("Plain Pasta",
		service.RecipeProperties{Description: "old", Ingredients: []string{"500g pasta"}, Instructions: []string{"boil"}},
		model.SourceAI, ownerID)
	_, err = recipeSvc.CreateRecipe(context.Background(), recipe)
	require.NoError(t, err)

	body := fmt.Sprintf(`{"query":"add lemon","intent":"modify","recipe_id":"%s"}`, recipe.ID)
	w := doJSON(t, router, http.MethodPost, "/api/v1/llm/query", token, body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	require.Len(t, prompts, 1)
	assert.Contains(t, prompts[0], "Modify this recipe")
	assert.Contains(t, prompts[0], "- 500g pasta")
	assert.Contains(t, prompts[0], "Modification request: add lemon")
}

func TestQueryModifyUpdatesRecipe(t *testing.T) {
	router, authSvc, recipeSvc := setupLLMRouter(t, generatedRecipeText)
	token, ownerID := registerTestUser(t, authSvc, "owner")

	recipe := service.RecipeFromProperties("Plain Pasta",
		service.RecipeProperties{Description: "old", Ingredients: []string{"pasta"}, Instructions: []string{"boil"}},
		model.SourceAI, ownerID)
	_, err := recipeSvc.CreateRecipe(context.Background(), recipe)
	require.NoError(t, err)

	body := fmt.Sprintf(`{"query":"add lemon","intent":"modify","recipe_id":"%s"}`, recipe.ID)
	w := doJSON(t, router, http.MethodPost, "/api/v1/llm/query", token, body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Recipe model.Recipe `json:"recipe"`
	}
	decodeBody(t, w, &resp)

	assert.Equal(t, recipe.ID, resp.Recipe.ID)
	assert.Equal(t, "Plain Pasta", resp.Recipe.Name)
	assert.Equal(t, "A bright lemon pasta for busy evenings.", resp.Recipe.Description)

	stored, err := recipeSvc.GetRecipe(context.Background(), recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"200g spaghetti", "1 lemon"}, []string(stored.Ingredients))
}
