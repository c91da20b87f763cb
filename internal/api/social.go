package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/platefeed/backend/internal/middleware"
	"github.com/platefeed/backend/internal/service"
)

// SocialHandler covers following users and listing the follow graph.
// Routes address users by public username, matching the profile routes.
type SocialHandler struct {
	socialService  *service.SocialService
	profileService *service.ProfileService
	authService    service.IAuthService
}

func NewSocialHandler(socialService *service.SocialService, profileService *service.ProfileService, authService service.IAuthService) *SocialHandler {
	return &SocialHandler{
		socialService:  socialService,
		profileService: profileService,
		authService:    authService,
	}
}

func (h *SocialHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/users/:username/follow", middleware.AuthMiddleware(h.authService), h.Follow)
	router.DELETE("/users/:username/follow", middleware.AuthMiddleware(h.authService), h.Unfollow)
	router.GET("/users/:username/followers", h.Followers)
	router.GET("/users/:username/following", h.Following)
}

// resolveUser maps the username path parameter to a user id, writing the
// 404 itself when the user does not exist.
func (h *SocialHandler) resolveUser(c *gin.Context) (uuid.UUID, bool) {
	profile, err := h.profileService.GetProfileByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return uuid.Nil, false
	}
	return profile.UserID, true
}

func (h *SocialHandler) Follow(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	followeeID, ok := h.resolveUser(c)
	if !ok {
		return
	}

	if err := h.socialService.Follow(c.Request.Context(), userID, followeeID); err != nil {
		switch {
		case errors.Is(err, service.ErrSelfFollow):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrAlreadyFollows):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, gorm.ErrRecordNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to follow user"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Following"})
}

func (h *SocialHandler) Unfollow(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	followeeID, ok := h.resolveUser(c)
	if !ok {
		return
	}

	if err := h.socialService.Unfollow(c.Request.Context(), userID, followeeID); err != nil {
		if errors.Is(err, service.ErrNotFollowing) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to unfollow user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Unfollowed"})
}

func (h *SocialHandler) Followers(c *gin.Context) {
	userID, ok := h.resolveUser(c)
	if !ok {
		return
	}

	profiles, err := h.socialService.Followers(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch followers"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"followers": profiles})
}

func (h *SocialHandler) Following(c *gin.Context) {
	userID, ok := h.resolveUser(c)
	if !ok {
		return
	}

	profiles, err := h.socialService.Following(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch following"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"following": profiles})
}
