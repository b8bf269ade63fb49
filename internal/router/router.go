package router

import (
	"firebase.google.com/go/v4/auth"
	"github.com/EnzokuChakra/social-land-sub003/internal/cache"
	"github.com/EnzokuChakra/social-land-sub003/internal/events"
	"github.com/EnzokuChakra/social-land-sub003/internal/handlers"
	"github.com/EnzokuChakra/social-land-sub003/internal/middleware"
	"github.com/EnzokuChakra/social-land-sub003/internal/models"
	"github.com/EnzokuChakra/social-land-sub003/internal/repositories"
	"github.com/EnzokuChakra/social-land-sub003/internal/services"
	"github.com/EnzokuChakra/social-land-sub003/pkg/config"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
}

// Deps carries the process-scoped components the routes share. The
// broker and status cache are owned by main and torn down there.
type Deps struct {
	Config             *config.Config
	Postgres           *gorm.DB
	Mongo              *mongo.Client
	FirebaseAuthClient *auth.Client
	Broker             *events.Broker
	StatusCache        *cache.StatusCache
	Logger             *zap.Logger
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, deps Deps) error {
	// AutoMigrate PostgreSQL models
	err := deps.Postgres.AutoMigrate(
		&models.User{},
		&models.Follow{},
		&models.Block{},
		&models.Comment{},
		&models.Like{},
		&models.Notification{},
		&models.Report{},
	)
	if err != nil {
		return err
	}
	deps.Logger.Info("PostgreSQL auto-migrations completed")

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Initialize Repositories ---
	userRepo := repositories.NewPostgresUserRepository(deps.Postgres)
	followRepo := repositories.NewPostgresFollowRepository(deps.Postgres)
	blockRepo := repositories.NewPostgresBlockRepository(deps.Postgres)
	notificationRepo := repositories.NewPostgresNotificationRepository(deps.Postgres)
	commentRepo := repositories.NewPostgresCommentRepository(deps.Postgres)
	likeRepo := repositories.NewPostgresLikeRepository(deps.Postgres)
	reportRepo := repositories.NewPostgresReportRepository(deps.Postgres)
	postRepo := repositories.NewMongoPostRepository(deps.Mongo.Database(deps.Config.MongoDatabase))

	// --- Core services ---
	visibility := services.NewVisibilityService(userRepo, followRepo, blockRepo)
	notifier := services.NewNotifierService(userRepo, notificationRepo, blockRepo, visibility, deps.Broker, deps.Logger)
	relationships := services.NewRelationshipService(userRepo, followRepo, blockRepo, notifier, deps.Logger)

	// --- Unprotected routes for authentication ---
	authGroup := e.Group("/api/v1/auth")
	authHandler := handlers.NewAuthHandler(userRepo, deps.Config.JWTSecret)
	authHandler.RegisterAuthRoutes(authGroup)

	// --- Protected routes ---
	api := e.Group("/api/v1")
	if deps.FirebaseAuthClient != nil {
		api.Use(middleware.FirebaseAuthMiddleware(deps.FirebaseAuthClient, userRepo))
		deps.Logger.Info("Firebase authentication middleware applied to /api/v1 group")
	} else {
		api.Use(middleware.JWTAuthMiddleware(deps.Config.JWTSecret))
		deps.Logger.Info("JWT authentication middleware applied to /api/v1 group")
	}

	userHandler := handlers.NewUserHandler(userRepo, followRepo, blockRepo, visibility, deps.StatusCache)
	userHandler.RegisterProfileRoutes(api)

	followHandler := handlers.NewFollowHandler(relationships, visibility)
	followHandler.RegisterFollowRoutes(api)

	postHandler := handlers.NewPostHandler(postRepo, userRepo, visibility, notifier)
	postHandler.RegisterPostRoutes(api)

	feedHandler := handlers.NewFeedHandler(postRepo, userRepo, followRepo, likeRepo)
	feedHandler.RegisterFeedRoutes(api)

	commentHandler := handlers.NewCommentHandler(commentRepo, postRepo, userRepo, visibility, notifier)
	commentHandler.RegisterCommentRoutes(api)

	likeHandler := handlers.NewLikeHandler(likeRepo, postRepo, visibility, notifier)
	likeHandler.RegisterLikeRoutes(api)

	reportHandler := handlers.NewReportHandler(reportRepo, userRepo, notifier, deps.StatusCache)
	reportHandler.RegisterReportRoutes(api)

	notificationHandler := handlers.NewNotificationHandler(notificationRepo, userRepo, deps.Broker, deps.Logger)
	notificationHandler.RegisterNotificationRoutes(api)

	deps.Logger.Info("all routes configured")
	return nil
}
