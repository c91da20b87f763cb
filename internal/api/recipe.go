package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/platefeed/backend/internal/middleware"
	"github.com/platefeed/backend/internal/model"
	"github.com/platefeed/backend/internal/service"
	"github.com/platefeed/backend/internal/types"
)

type RecipeHandler struct {
	recipeService *service.RecipeService
	socialService *service.SocialService
	authService   service.IAuthService
}

func NewRecipeHandler(recipeService *service.RecipeService, socialService *service.SocialService, authService service.IAuthService) *RecipeHandler {
	return &RecipeHandler{
		recipeService: recipeService,
		socialService: socialService,
		authService:   authService,
	}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	recipes := router.Group("/recipes")
	{
		recipes.GET("", h.ListRecipes)
		recipes.GET("/:id", h.GetRecipe)
		recipes.POST("", middleware.AuthMiddleware(h.authService), h.CreateRecipe)
		recipes.PUT("/:id", middleware.AuthMiddleware(h.authService), h.UpdateRecipe)
		recipes.DELETE("/:id", middleware.AuthMiddleware(h.authService), h.DeleteRecipe)
		recipes.POST("/:id/star", middleware.AuthMiddleware(h.authService), h.StarRecipe)
		recipes.DELETE("/:id/star", middleware.AuthMiddleware(h.authService), h.UnstarRecipe)
	}

	router.GET("/starred", middleware.AuthMiddleware(h.authService), h.StarredRecipes)
}

func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	filters := service.RecipeFilters{
		Query:   c.Query("q"),
		Cuisine: c.Query("cuisine"),
		Diet:    c.Query("diet"),
		Source:  c.Query("source"),
	}
	if ex := c.Query("exclude"); ex != "" {
		filters.Exclude = strings.Split(ex, ",")
	}

	recipes, err := h.recipeService.ListRecipes(c.Request.Context(), filters)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch recipes"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"recipes": recipes})
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	recipe, err := h.recipeService.GetRecipe(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Recipe not found"})
		return
	}

	c.JSON(http.StatusOK, recipe)
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req types.CreateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	recipe := &model.Recipe{
		Name:         req.Name,
		Description:  req.Description,
		Cuisine:      strings.ToLower(req.Cuisine),
		Diet:         strings.ToLower(req.Diet),
		ImageURL:     req.ImageURL,
		Ingredients:  model.JSONBStringArray(req.Ingredients),
		Instructions: model.JSONBStringArray(req.Instructions),
		CookingTime:  req.CookingTime,
		Calories:     req.Calories,
		Protein:      req.Protein,
		Carbs:        req.Carbs,
		Fat:          req.Fat,
		Source:       model.SourceUser,
		UserID:       userID,
	}

	created, err := h.recipeService.CreateRecipe(c.Request.Context(), recipe)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create recipe"})
		return
	}

	c.JSON(http.StatusCreated, created)
}

func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req types.CreateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	recipe := &model.Recipe{
		Name:         req.Name,
		Description:  req.Description,
		Cuisine:      strings.ToLower(req.Cuisine),
		Diet:         strings.ToLower(req.Diet),
		ImageURL:     req.ImageURL,
		Ingredients:  model.JSONBStringArray(req.Ingredients),
		Instructions: model.JSONBStringArray(req.Instructions),
		CookingTime:  req.CookingTime,
		Calories:     req.Calories,
		Protein:      req.Protein,
		Carbs:        req.Carbs,
		Fat:          req.Fat,
	}

	updated, err := h.recipeService.UpdateRecipe(c.Request.Context(), id, userID, recipe)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotRecipeOwner):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		case errors.Is(err, gorm.ErrRecordNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Recipe not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update recipe"})
		}
		return
	}

	c.JSON(http.StatusOK, updated)
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.recipeService.DeleteRecipe(c.Request.Context(), id, userID); err != nil {
		switch {
		case errors.Is(err, service.ErrNotRecipeOwner):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		case errors.Is(err, gorm.ErrRecordNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Recipe not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete recipe"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Recipe deleted successfully", "id": id})
}

func (h *RecipeHandler) StarRecipe(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.socialService.StarRecipe(c.Request.Context(), userID, id); err != nil {
		switch {
		case errors.Is(err, service.ErrAlreadyStarred):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, gorm.ErrRecordNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Recipe not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to star recipe"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Recipe starred"})
}

func (h *RecipeHandler) UnstarRecipe(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.socialService.UnstarRecipe(c.Request.Context(), userID, id); err != nil {
		switch {
		case errors.Is(err, service.ErrNotStarred):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to unstar recipe"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Recipe unstarred"})
}

func (h *RecipeHandler) StarredRecipes(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	recipes, err := h.socialService.StarredRecipes(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch starred recipes"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"recipes": recipes})
}
