package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/platefeed/backend/internal/middleware"
	"github.com/platefeed/backend/internal/service"
	"github.com/platefeed/backend/internal/types"
)

// 5 MB is plenty for a food photo.
const maxImageBytes = 5 << 20

// ImageHandler accepts multipart image uploads for recipes and profile
// pictures and stores them in S3.
type ImageHandler struct {
	imageService   *service.ImageService
	recipeService  *service.RecipeService
	profileService *service.ProfileService
	authService    service.IAuthService
}

func NewImageHandler(imageService *service.ImageService, recipeService *service.RecipeService, profileService *service.ProfileService, authService service.IAuthService) *ImageHandler {
	return &ImageHandler{
		imageService:   imageService,
		recipeService:  recipeService,
		profileService: profileService,
		authService:    authService,
	}
}

func (h *ImageHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/recipes/:id/image", middleware.AuthMiddleware(h.authService), h.UploadRecipeImage)
	router.POST("/recipes/:id/generate-image", middleware.AuthMiddleware(h.authService), h.GenerateRecipeImage)
	router.POST("/profile/picture", middleware.AuthMiddleware(h.authService), h.UploadProfilePicture)
}

func (h *ImageHandler) UploadRecipeImage(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	recipeID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	data, contentType, ok := h.readUpload(c)
	if !ok {
		return
	}

	url, err := h.imageService.UploadImage(c.Request.Context(), data, contentType, "recipes")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload image"})
		return
	}

	if err := h.recipeService.SetImageURL(c.Request.Context(), recipeID, userID, url); err != nil {
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

	c.JSON(http.StatusOK, gin.H{"image_url": url})
}

// GenerateRecipeImage produces a photo for a recipe the user owns and
// stores it as the recipe image.
func (h *ImageHandler) GenerateRecipeImage(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	recipeID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	recipe, err := h.recipeService.GetRecipe(c.Request.Context(), recipeID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Recipe not found"})
		return
	}
	if recipe.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "recipe does not belong to user"})
		return
	}

	url, err := h.imageService.GenerateRecipeImage(c.Request.Context(), recipe.Name, recipe.Cuisine)
	if err != nil {
		if errors.Is(err, service.ErrImageGenNotConfigured) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to generate image"})
		return
	}

	if err := h.recipeService.SetImageURL(c.Request.Context(), recipeID, userID, url); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update recipe"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"image_url": url})
}

func (h *ImageHandler) UploadProfilePicture(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	data, contentType, ok := h.readUpload(c)
	if !ok {
		return
	}

	url, err := h.imageService.UploadImage(c.Request.Context(), data, contentType, "profiles")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload image"})
		return
	}

	if _, err := h.profileService.UpdateProfile(c.Request.Context(), userID, &types.UpdateProfileRequest{ProfilePictureURL: url}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"profile_picture_url": url})
}

// readUpload pulls the "image" part out of the multipart form, writing
// the error response itself on failure.
func (h *ImageHandler) readUpload(c *gin.Context) ([]byte, string, bool) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file required"})
		return nil, "", false
	}
	if fileHeader.Size > maxImageBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "image too large"})
		return nil, "", false
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read image"})
		return nil, "", false
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(io.LimitReader(file, maxImageBytes))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read image"})
		return nil, "", false
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	return data, contentType, true
}
