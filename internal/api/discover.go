package api

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/platefeed/backend/internal/middleware"
	"github.com/platefeed/backend/internal/model"
	"github.com/platefeed/backend/internal/service"
)

// DiscoverHandler exposes the external recipe catalogs and lets users
// import recipes from them into the platform.
type DiscoverHandler struct {
	spoonacular   *service.SpoonacularService
	mealdb        *service.MealDBService
	recipeService *service.RecipeService
	imageService  *service.ImageService
	authService   service.IAuthService
}

func NewDiscoverHandler(spoonacular *service.SpoonacularService, mealdb *service.MealDBService, recipeService *service.RecipeService, imageService *service.ImageService, authService service.IAuthService) *DiscoverHandler {
	return &DiscoverHandler{
		spoonacular:   spoonacular,
		mealdb:        mealdb,
		recipeService: recipeService,
		imageService:  imageService,
		authService:   authService,
	}
}

func (h *DiscoverHandler) RegisterRoutes(router *gin.RouterGroup) {
	discover := router.Group("/discover")
	{
		discover.GET("/spoonacular", h.SearchSpoonacular)
		discover.GET("/mealdb", h.SearchMealDB)
		discover.GET("/mealdb/random", h.RandomMeal)
		discover.GET("/mealdb/:id", h.MealDetail)

		imports := discover.Group("/import", middleware.AuthMiddleware(h.authService))
		{
			imports.POST("/spoonacular/:id", h.ImportSpoonacular)
			imports.POST("/mealdb/:id", h.ImportMealDB)
		}
	}
}

func (h *DiscoverHandler) SearchSpoonacular(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "q required"})
		return
	}
	number, _ := strconv.Atoi(c.Query("number"))

	results, err := h.spoonacular.Search(c.Request.Context(), query, number)
	if err != nil {
		if errors.Is(err, service.ErrSpoonacularNotConfigured) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to search recipes"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"results": results})
}

func (h *DiscoverHandler) SearchMealDB(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "q required"})
		return
	}

	meals, err := h.mealdb.SearchByName(c.Request.Context(), query)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to search meals"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"results": meals})
}

func (h *DiscoverHandler) MealDetail(c *gin.Context) {
	meal, err := h.mealdb.Lookup(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrMealNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "meal not found"})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to fetch meal"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"meal": meal})
}

func (h *DiscoverHandler) RandomMeal(c *gin.Context) {
	meal, err := h.mealdb.Random(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to fetch meal"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"meal": meal})
}

// ImportSpoonacular copies an upstream Spoonacular recipe into the user's
// collection.
func (h *DiscoverHandler) ImportSpoonacular(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	ctx := c.Request.Context()

	upstream, err := h.spoonacular.GetRecipe(ctx, id)
	if err != nil {
		if errors.Is(err, service.ErrSpoonacularNotConfigured) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to fetch recipe"})
		return
	}

	recipe := &model.Recipe{
		Name:               upstream.Title,
		Description:        stripTags(upstream.Summary),
		Ingredients:        model.JSONBStringArray(upstream.IngredientLines()),
		Instructions:       model.JSONBStringArray(upstream.InstructionSteps()),
		Source:             model.SourceSpoonacular,
		ExternalID:         strconv.Itoa(upstream.ID),
		UserID:             userID,
		CookingTimeMinutes: upstream.ReadyMinutes,
	}
	if upstream.ReadyMinutes > 0 {
		recipe.CookingTime = fmt.Sprintf("%d mins", upstream.ReadyMinutes)
	}
	if len(upstream.Cuisines) > 0 {
		recipe.Cuisine = strings.ToLower(upstream.Cuisines[0])
	}
	if len(upstream.Diets) > 0 {
		recipe.Diet = strings.ToLower(upstream.Diets[0])
	}
	recipe.ImageURL = h.mirror(c, upstream.Image)

	created, err := h.recipeService.CreateRecipe(ctx, recipe)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to import recipe"})
		return
	}

	c.JSON(http.StatusCreated, created)
}

// ImportMealDB copies a TheMealDB meal into the user's collection.
func (h *DiscoverHandler) ImportMealDB(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()

	meal, err := h.mealdb.Lookup(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrMealNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "meal not found"})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to fetch meal"})
		return
	}

	recipe := &model.Recipe{
		Name:         meal.Name,
		Description:  meal.Category,
		Cuisine:      strings.ToLower(meal.Area),
		Ingredients:  model.JSONBStringArray(meal.Ingredients),
		Instructions: model.JSONBStringArray(meal.Instructions),
		Source:       model.SourceMealDB,
		ExternalID:   meal.ID,
		UserID:       userID,
	}
	recipe.ImageURL = h.mirror(c, meal.ImageURL)

	created, err := h.recipeService.CreateRecipe(ctx, recipe)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to import recipe"})
		return
	}

	c.JSON(http.StatusCreated, created)
}

// mirror re-hosts an upstream thumbnail in our bucket. Failures fall back
// to the upstream URL so imports never break on image plumbing.
func (h *DiscoverHandler) mirror(c *gin.Context, sourceURL string) string {
	if sourceURL == "" || h.imageService == nil {
		return sourceURL
	}
	mirrored, err := h.imageService.MirrorImageURL(c.Request.Context(), sourceURL, "recipes")
	if err != nil {
		log.Printf("[DiscoverHandler] image mirror failed, keeping upstream URL: %v", err)
		return sourceURL
	}
	return mirrored
}

// stripTags removes the HTML markup Spoonacular embeds in summaries.
func stripTags(s string) string {
	var b strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}
