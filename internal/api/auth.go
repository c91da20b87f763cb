package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/platefeed/backend/internal/middleware"
	"github.com/platefeed/backend/internal/service"
	"github.com/platefeed/backend/internal/types"
)

// AuthHandler handles registration, login and profile requests
type AuthHandler struct {
	authService    service.IAuthService
	profileService *service.ProfileService
	emailService   service.IEmailService
}

func NewAuthHandler(authService service.IAuthService, profileService *service.ProfileService, emailService service.IEmailService) *AuthHandler {
	return &AuthHandler{
		authService:    authService,
		profileService: profileService,
		emailService:   emailService,
	}
}

// RegisterRoutes registers the auth and profile routes
func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup) {
	auth := router.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.GET("/verify-email", h.VerifyEmail)
	}

	profile := router.Group("/profile", middleware.AuthMiddleware(h.authService))
	{
		profile.GET("", h.GetProfile)
		profile.PUT("", h.UpdateProfile)
		profile.GET("/recipes", h.GetMyRecipes)
	}

	router.GET("/users/:username", h.GetPublicProfile)
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req types.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, err := h.authService.Register(req.Name, req.Email, req.Password, req.Username, req.DietaryPreferences, req.Allergens)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserExists), errors.Is(err, service.ErrUsernameTaken):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register user"})
		}
		return
	}

	// Send the verification email outside the request's success path.
	if h.emailService != nil {
		claims, err := h.authService.ValidateToken(token)
		if err == nil {
			if user, err := h.authService.GetUserByID(claims.UserID); err == nil {
				vtoken, err := h.authService.GenerateVerificationToken(user.ID)
				if err == nil {
					if err := h.emailService.SendVerificationEmail(user, vtoken); err != nil {
						log.Printf("[AuthHandler] failed to send verification email: %v", err)
					}
				}
			}
		}
	}

	c.JSON(http.StatusCreated, gin.H{"token": token})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req types.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "token required"})
		return
	}

	user, err := h.authService.VerifyEmail(token)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid verification token"})
		return
	}

	if h.emailService != nil {
		if err := h.emailService.SendWelcomeEmail(user); err != nil {
			log.Printf("[AuthHandler] failed to send welcome email: %v", err)
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "email verified"})
}

func (h *AuthHandler) GetProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	profile, err := h.profileService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
		return
	}

	c.JSON(http.StatusOK, profile)
}

func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req types.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profile, err := h.profileService.UpdateProfile(c.Request.Context(), userID, &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
		return
	}

	c.JSON(http.StatusOK, profile)
}

func (h *AuthHandler) GetMyRecipes(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	recipes, err := h.profileService.GetUserRecipes(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch recipes"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"recipes": recipes})
}

func (h *AuthHandler) GetPublicProfile(c *gin.Context) {
	profile, err := h.profileService.GetProfileByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
		return
	}

	if profile.PrivacyLevel == "private" {
		c.JSON(http.StatusOK, gin.H{"username": profile.Username, "privacy_level": profile.PrivacyLevel})
		return
	}

	c.JSON(http.StatusOK, profile)
}
