package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/platefeed/backend/config"
	"github.com/platefeed/backend/internal/api"
	"github.com/platefeed/backend/internal/middleware"
	"github.com/platefeed/backend/internal/router"
	"github.com/platefeed/backend/internal/service"
)

// Server owns the HTTP listener and the wired application services.
type Server struct {
	engine *gin.Engine
	http   *http.Server
}

// New wires the services and handlers into a ready-to-start server.
func New(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	authService := service.NewAuthService(db, cfg.JWTSecret)
	profileService := service.NewProfileService(db)
	recipeService := service.NewRecipeService(db)
	notificationService := service.NewNotificationService(db, redisClient)
	socialService := service.NewSocialService(db, notificationService)
	commentService := service.NewCommentService(db, notificationService)
	messageService := service.NewMessageService(db, notificationService)
	emailService := service.NewEmailService()
	reportService := service.NewReportService(db, emailService)

	llmService, err := service.NewLLMService(redisClient)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM service: %w", err)
	}

	spoonacularService := service.NewSpoonacularService(cfg.SpoonacularAPIKey, cfg.SpoonacularAPIURL)
	mealdbService := service.NewMealDBService(cfg.MealDBAPIURL)

	// S3 is optional in development: without credentials the image
	// endpoints are simply not mounted and imports keep upstream URLs.
	var imageService *service.ImageService
	var imageHandler *api.ImageHandler
	if s3cfg, err := config.NewS3Config(context.Background()); err != nil {
		log.Printf("[Server] S3 not configured, image uploads disabled: %v", err)
	} else {
		if err := s3cfg.SetupBucketPolicy(context.Background()); err != nil {
			log.Printf("[Server] failed to apply bucket policy, image URLs may not be public: %v", err)
		}
		imageService = service.NewImageService(s3cfg)
		imageHandler = api.NewImageHandler(imageService, recipeService, profileService, authService)
	}

	rateLimiter := middleware.NewRateLimiter(redisClient, middleware.RateLimitConfig{
		Window:    time.Minute,
		Limit:     10,
		KeyPrefix: "ratelimit:llm",
	})

	handlers := router.Handlers{
		Auth:         api.NewAuthHandler(authService, profileService, emailService),
		Recipe:       api.NewRecipeHandler(recipeService, socialService, authService),
		LLM:          api.NewLLMHandler(llmService, recipeService, profileService, authService, rateLimiter),
		Discover:     api.NewDiscoverHandler(spoonacularService, mealdbService, recipeService, imageService, authService),
		Comment:      api.NewCommentHandler(commentService, authService),
		Social:       api.NewSocialHandler(socialService, profileService, authService),
		Message:      api.NewMessageHandler(messageService, authService),
		Notification: api.NewNotificationHandler(notificationService, authService),
		Report:       api.NewReportHandler(reportService, authService),
		Image:        imageHandler,
	}

	engine := router.SetupRouter(db, handlers)

	return &Server{
		engine: engine,
		http: &http.Server{
			Addr:         cfg.ServerHost + ":" + cfg.ServerPort,
			Handler:      engine,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 60 * time.Second,
			IdleTimeout:  120 * time.Second,
		},
	}, nil
}

// Start blocks serving HTTP until Shutdown is called or the listener
// fails.
func (s *Server) Start() error {
	log.Printf("Listening on %s", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and stops the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return s.http.Shutdown(ctx)
}
