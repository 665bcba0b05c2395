package router

import (
	"log"
	"log/slog"

	"firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/zyh422797297/juan-le-me/internal/feed"
	"github.com/zyh422797297/juan-le-me/internal/handlers"
	"github.com/zyh422797297/juan-le-me/internal/middleware"
	"github.com/zyh422797297/juan-le-me/internal/models"
	"github.com/zyh422797297/juan-le-me/internal/repositories"
	"github.com/zyh422797297/juan-le-me/pkg/config"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	log.Println("Global middleware configured.")
}

// SetupRoutes configures all application routes and injects dependencies.
// firebaseAuthClient may be nil when running in JWT-only mode.
func SetupRoutes(e *echo.Echo, cfg *config.Config, pgdb *gorm.DB, mgClient *mongo.Client, firebaseAuthClient *auth.Client) {
	// AutoMigrate PostgreSQL models
	err := pgdb.AutoMigrate(
		&models.User{},
		&models.Reaction{},
		&models.Comment{},
	)
	if err != nil {
		log.Fatalf("Failed to auto migrate models: %v", err)
	}
	log.Println("PostgreSQL auto-migrations completed for all models.")

	// Health check and metrics - always accessible
	e.GET("/health", handlers.HealthCheck)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// --- Initialize Repositories ---
	userRepo := repositories.NewPostgresUserRepository(pgdb)
	postRepo := repositories.NewMongoPostRepository(mgClient.Database(cfg.MongoDB))
	reactionRepo := repositories.NewPostgresReactionRepository(pgdb)
	commentRepo := repositories.NewPostgresCommentRepository(pgdb)

	// --- Feed engine ---
	feedService := feed.NewService(postRepo, reactionRepo, commentRepo, userRepo, feed.Config{
		FeedLimit:   cfg.FeedLimit,
		NotifyLimit: cfg.NotifyLimit,
		IncludeSelf: cfg.NotifyIncludeSelf,
		CallTimeout: cfg.RemoteTimeout,
	}, slog.Default())

	// --- Unprotected routes for authentication ---
	authGroup := e.Group("/api/v1/auth")
	authHandler := handlers.NewAuthHandler(userRepo, firebaseAuthClient, cfg.JWTSecret)
	authHandler.RegisterAuthRoutes(authGroup)
	log.Println("Auth routes configured.")

	// --- Protected routes ---
	api := e.Group("/api/v1")
	switch cfg.AuthMode {
	case "firebase":
		if firebaseAuthClient == nil {
			log.Fatal("AUTH_MODE=firebase requires Firebase credentials")
		}
		api.Use(middleware.FirebaseAuthMiddleware(firebaseAuthClient, userRepo))
		log.Println("Firebase authentication middleware applied to /api/v1 group.")
	default:
		api.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))
		log.Println("JWT authentication middleware applied to /api/v1 group.")
	}

	// User profile routes
	userHandler := handlers.NewUserHandler(userRepo, postRepo)
	userHandler.RegisterProfileRoutes(api)
	log.Println("User profile routes configured.")

	// Post routes
	postHandler := handlers.NewPostHandler(postRepo, userRepo)
	postHandler.RegisterPostRoutes(api)
	log.Println("Post routes configured.")

	// Feed routes
	feedHandler := handlers.NewFeedHandler(feedService)
	feedHandler.RegisterFeedRoutes(api)
	log.Println("Feed routes configured.")

	// Reaction routes
	reactionHandler := handlers.NewReactionHandler(feedService, reactionRepo, postRepo)
	reactionHandler.RegisterReactionRoutes(api)
	log.Println("Reaction routes configured.")

	// Comment routes
	commentHandler := handlers.NewCommentHandler(commentRepo, postRepo, userRepo)
	commentHandler.RegisterCommentRoutes(api)
	log.Println("Comment routes configured.")

	// Notification routes
	notificationHandler := handlers.NewNotificationHandler(feedService)
	notificationHandler.RegisterNotificationRoutes(api)
	log.Println("Notification routes configured.")

	log.Println("All routes configured.")
}
