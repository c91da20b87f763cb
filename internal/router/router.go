package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/platefeed/backend/internal/api"
	"github.com/platefeed/backend/internal/database"
	"github.com/platefeed/backend/internal/middleware"
)

// Handlers bundles every API handler the router mounts.
type Handlers struct {
	Auth         *api.AuthHandler
	Recipe       *api.RecipeHandler
	LLM          *api.LLMHandler
	Discover     *api.DiscoverHandler
	Comment      *api.CommentHandler
	Social       *api.SocialHandler
	Message      *api.MessageHandler
	Notification *api.NotificationHandler
	Report       *api.ReportHandler
	Image        *api.ImageHandler
}

// SetupRouter configures the application routes
func SetupRouter(db *gorm.DB, h Handlers) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(middleware.Recovery())
	router.Use(middleware.CORS())

	router.GET("/health", func(c *gin.Context) {
		if err := database.HealthCheck(c.Request.Context(), db); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")

	h.Auth.RegisterRoutes(v1)
	h.Recipe.RegisterRoutes(v1)
	h.LLM.RegisterRoutes(v1)
	h.Discover.RegisterRoutes(v1)
	h.Comment.RegisterRoutes(v1)
	h.Social.RegisterRoutes(v1)
	h.Message.RegisterRoutes(v1)
	h.Notification.RegisterRoutes(v1)
	h.Report.RegisterRoutes(v1)
	if h.Image != nil {
		h.Image.RegisterRoutes(v1)
	}

	return router
}
