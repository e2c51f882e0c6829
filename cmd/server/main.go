package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/labstack/echo/v4"

	"github.com/pulsefeed/backend/internal/ratelimit"
	"github.com/pulsefeed/backend/internal/router"
	"github.com/pulsefeed/backend/pkg/config"
	"github.com/pulsefeed/backend/pkg/firebase"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg := config.Load()

	db, err := config.InitDB(cfg, logger)
	if err != nil {
		logger.Error("failed to initialize data stores", "error", err)
		os.Exit(1)
	}
	defer db.CloseDB(logger)

	deps := router.Dependencies{
		DB:               db.Postgres,
		Mongo:            db.Mongo,
		Redis:            db.Redis,
		JWTSecret:        cfg.JWTSecret,
		AuditDatabase:    cfg.AuditDatabase,
		RateLimitBackend: cfg.RateLimitBackend,
		Logger:           logger,
	}
	if deps.RateLimitBackend == ratelimit.BackendRedis && db.Redis == nil {
		logger.Warn("redis rate limit backend requested without REDIS_URL, using memory")
	}

	if cfg.FirebaseCredentialsPath != "" {
		firebaseApp, err := firebase.InitFirebase(context.Background(), cfg.FirebaseCredentialsPath)
		if err != nil {
			logger.Error("failed to initialize Firebase", "error", err)
			os.Exit(1)
		}
		deps.FirebaseAuth = firebaseApp.AuthClient
	}

	e := echo.New()
	e.HideBanner = true

	router.SetupMiddleware(e, logger)
	if err := router.SetupRoutes(e, deps); err != nil {
		logger.Error("failed to set up routes", "error", err)
		os.Exit(1)
	}

	if err := e.Start(":" + cfg.Port); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
