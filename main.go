package main

import (
	"context"

	"agahi-backend/internal/api"
	"agahi-backend/internal/config"
	"agahi-backend/internal/middleware"
	"agahi-backend/internal/otp"
	"agahi-backend/internal/storage"
	"agahi-backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	envErr := godotenv.Load()

	// Initialize configuration
	cfg := config.New()
	logger.Init(cfg.Env)
	if envErr != nil {
		logger.Info().Msg("No .env file found")
	}

	if cfg.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()

	stores, err := storage.Open(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Str("driver", cfg.Storage.Driver).Msg("Failed to open storage")
	}
	defer stores.Close()

	codes, closeCodes, err := otp.Open(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		logger.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("Redis unavailable, keeping codes in memory")
	}
	defer closeCodes()

	if cfg.OTP.DevCode != "" && cfg.IsProduction() {
		logger.Warn().Msg("OTP_DEV_CODE is set in production")
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())

	// Setup API routes
	api.SetupRoutes(router, stores, codes, cfg)

	logger.Info().Str("port", cfg.Server.Port).Str("storage", cfg.Storage.Driver).Msg("Server starting")
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		logger.Fatal().Err(err).Msg("Failed to start server")
	}
}
