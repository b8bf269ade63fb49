package main

import (
	"context"
	"log"

	"firebase.google.com/go/v4/auth"
	"github.com/EnzokuChakra/social-land-sub003/internal/cache"
	"github.com/EnzokuChakra/social-land-sub003/internal/events"
	"github.com/EnzokuChakra/social-land-sub003/internal/router"
	"github.com/EnzokuChakra/social-land-sub003/pkg/config"
	"github.com/EnzokuChakra/social-land-sub003/pkg/firebase"
	"github.com/EnzokuChakra/social-land-sub003/pkg/logger"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg := config.Load()

	zlog, err := logger.New(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zlog.Sync()

	// Initialize database connections
	db, err := config.InitDB(cfg, zlog)
	if err != nil {
		zlog.Fatal("failed to initialize databases", zap.Error(err))
	}
	defer db.CloseDB()

	// Firebase is optional; without credentials the JWT middleware
	// handles sessions instead.
	var firebaseAuthClient *auth.Client
	if cfg.FirebaseCredentialsPath != "" {
		firebaseApp, err := firebase.InitFirebase(context.Background(), cfg.FirebaseCredentialsPath)
		if err != nil {
			zlog.Fatal("failed to initialize Firebase", zap.Error(err))
		}
		firebaseAuthClient = firebaseApp.AuthClient
		zlog.Info("Firebase auth client initialized")
	}

	// Process-scoped fan-out registry and status cache, torn down with
	// the server.
	broker := events.NewBroker(zlog)
	defer broker.Shutdown()
	statusCache := cache.NewStatusCache(cfg.StatusCacheTTL)

	// Create Echo instance
	e := echo.New()

	router.SetupMiddleware(e)

	if err := router.SetupRoutes(e, router.Deps{
		Config:             cfg,
		Postgres:           db.Postgres,
		Mongo:              db.Mongo,
		FirebaseAuthClient: firebaseAuthClient,
		Broker:             broker,
		StatusCache:        statusCache,
		Logger:             zlog,
	}); err != nil {
		zlog.Fatal("failed to set up routes", zap.Error(err))
	}

	// Start server
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
