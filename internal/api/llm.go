package api

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/platefeed/backend/internal/middleware"
	"github.com/platefeed/backend/internal/model"
	"github.com/platefeed/backend/internal/service"
)

// LLMHandler handles recipe generation requests
type LLMHandler struct {
	llmService     service.ILLMService
	recipeService  *service.RecipeService
	profileService *service.ProfileService
	authService    service.IAuthService
	rateLimiter    *middleware.RateLimiter
}

func NewLLMHandler(llmService service.ILLMService, recipeService *service.RecipeService, profileService *service.ProfileService, authService service.IAuthService, rateLimiter *middleware.RateLimiter) *LLMHandler {
	return &LLMHandler{
		llmService:     llmService,
		recipeService:  recipeService,
		profileService: profileService,
		authService:    authService,
		rateLimiter:    rateLimiter,
	}
}

// RegisterRoutes registers the LLM routes. Generation is the expensive
// path, so it alone sits behind the per-user rate limiter.
func (h *LLMHandler) RegisterRoutes(router *gin.RouterGroup) {
	llm := router.Group("/llm", middleware.AuthMiddleware(h.authService))
	if h.rateLimiter != nil {
		llm.Use(h.rateLimiter.RateLimitMiddleware())
	}
	{
		llm.POST("/query", h.Query)
		llm.GET("/drafts/:id", h.GetDraft)
		llm.DELETE("/drafts/:id", h.DeleteDraft)
	}
}

// Query generates a recipe from a free-text request. The model returns a
// loosely labeled text blob which is parsed into structured fields before
// being saved.
func (h *LLMHandler) Query(c *gin.Context) {
	var req struct {
		Query    string `json:"query" binding:"required"`
		Intent   string `json:"intent" binding:"required,oneof=generate modify draft"`
		RecipeID string `json:"recipe_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()

	// A modify request resolves its target up front so the model is shown
	// the recipe's current text alongside the change.
	var existing *model.Recipe
	var original *service.RecipeDraft
	if req.Intent == "modify" {
		if req.RecipeID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "recipe_id required"})
			return
		}
		rid, err := uuid.Parse(req.RecipeID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe_id"})
			return
		}
		existing, err = h.recipeService.GetRecipe(ctx, rid)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "recipe not found"})
			return
		}
		if existing.UserID != userID {
			c.JSON(http.StatusForbidden, gin.H{"error": "recipe does not belong to user"})
			return
		}
		original = &service.RecipeDraft{
			Name:    existing.Name,
			RawText: service.RenderRecipeText(existing),
			UserID:  userID,
		}
	}

	dietaryList, allergenList, err := h.profileService.DietaryContext(ctx, userID)
	if err != nil {
		log.Printf("[LLMHandler] failed to load dietary context: %v", err)
	}

	rawText, err := h.llmService.GenerateRecipeText(ctx, req.Query, dietaryList, allergenList, original)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate recipe: " + err.Error()})
		return
	}

	props := service.ExtractRecipePropertiesFromMarkdown(rawText)

	// The text source provides no name; the user's request is the best one
	// available.
	name := req.Query

	// Backfill macros through the LLM when no NUTRITION line parsed.
	if props.Nutrition.Calories == service.UnknownValue &&
		props.Nutrition.Protein == service.UnknownValue &&
		props.Nutrition.Fat == service.UnknownValue &&
		props.Nutrition.Carbohydrates == service.UnknownValue &&
		len(props.Ingredients) > 0 {
		if macros, err := h.llmService.CalculateMacros(ctx, props.Ingredients); err == nil && macros != nil {
			props.Nutrition = service.NutritionFacts{
				Calories:      formatMacro(macros.Calories),
				Protein:       formatMacro(macros.Protein),
				Fat:           formatMacro(macros.Fat),
				Carbohydrates: formatMacro(macros.Carbs),
			}
		}
	}

	switch req.Intent {
	case "draft":
		draft := &service.RecipeDraft{
			Name:       name,
			RawText:    rawText,
			Properties: props,
			UserID:     userID,
		}
		if err := h.llmService.SaveDraft(ctx, draft); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save draft"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"draft": draft})

	case "modify":
		update := service.RecipeFromProperties(existing.Name, props, model.SourceAI, userID)
		update.ID = existing.ID
		update.ImageURL = existing.ImageURL
		saved, err := h.recipeService.UpdateRecipe(ctx, existing.ID, userID, update)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save recipe"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"recipe": saved})

	default: // generate
		recipe := service.RecipeFromProperties(name, props, model.SourceAI, userID)
		saved, err := h.recipeService.CreateRecipe(ctx, recipe)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save recipe"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"recipe": saved})
	}
}

func formatMacro(v float64) string {
	if v == 0 {
		return service.UnknownValue
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func (h *LLMHandler) GetDraft(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	draft, err := h.llmService.GetDraft(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "draft not found"})
		return
	}
	if draft.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "draft does not belong to user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"draft": draft})
}

func (h *LLMHandler) DeleteDraft(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	draft, err := h.llmService.GetDraft(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "draft not found"})
		return
	}
	if draft.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "draft does not belong to user"})
		return
	}

	if err := h.llmService.DeleteDraft(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete draft"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "draft deleted"})
}
