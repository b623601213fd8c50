package main

import (
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hritikarora28/AppstoreBackend/internal/config"
	"github.com/hritikarora28/AppstoreBackend/internal/database"
	"github.com/hritikarora28/AppstoreBackend/internal/server"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	// Load environment variables
	if err := config.Load(); err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}

	// Init DB
	if err := database.Connect(config.Current.DatabaseURL); err != nil {
		log.Fatal().Err(err).Msg("database connect failed")
	}

	// Auto-migrate models and seed admin
	if err := database.AutoMigrateAndSeed(); err != nil {
		log.Fatal().Err(err).Msg("migration/seed failed")
	}

	app := fiber.New(fiber.Config{
		ServerHeader: "AppstoreBackend",
		AppName:      "Appstore Backend",
	})

	server.RegisterRoutes(app)

	log.Info().Str("port", config.Current.Port).Msg("server listening")
	if err := app.Listen(":" + config.Current.Port); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
}
