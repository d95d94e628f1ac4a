package main

import (
	"fmt"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/openshelf/backend/config"
	"github.com/openshelf/backend/database"
	"github.com/openshelf/backend/handlers"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("server terminates with error")
	}
}

func run() error {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("no .env file found, using environment variables")
	}

	cfg := config.Load()
	if err := setupLogger(cfg); err != nil {
		return err
	}

	db, err := database.Open(cfg.DBPath, log.Logger)
	if err != nil {
		return err
	}
	defer database.Close(db)
	log.Info().Str("path", cfg.DBPath).Msg("database connected")

	if os.Getenv("ENV") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	// CORS middleware
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Cookie"}
	router.Use(cors.New(corsConfig))

	h := handlers.New(db, cfg.SecretKey, cfg.StaticDir)
	h.RegisterRoutes(router)

	log.Info().Str("port", cfg.Port).Msg("server running")
	if err := router.Run(":" + cfg.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

func setupLogger(cfg config.Config) error {
	if !cfg.JSONLog {
		log.Logger = log.Logger.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}
	log.Logger = log.Logger.Level(level)
	return nil
}
