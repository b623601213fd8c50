package server

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/hritikarora28/AppstoreBackend/internal/models"
	"github.com/hritikarora28/AppstoreBackend/internal/server/handlers"
	"github.com/hritikarora28/AppstoreBackend/internal/server/middleware"
)

func RegisterRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	// Auth
	api.Post("/auth/register", handlers.Register)
	api.Post("/auth/login", handlers.Login)
	api.Get("/profile", middleware.RequireAuth, handlers.Profile)

	// Apps
	apps := api.Group("/apps", middleware.RequireAuth)
	apps.Post("/", middleware.RequireRole(models.RoleAdmin), handlers.AppCreate)
	apps.Get("/", handlers.AppList)
	apps.Get("/:appId", handlers.AppGet)
	apps.Put("/:appId", middleware.RequireRole(models.RoleAdmin), handlers.AppUpdate)
	apps.Delete("/:appId", middleware.RequireRole(models.RoleAdmin), handlers.AppDelete)
	apps.Post("/:appId/download", handlers.AppDownload)
	apps.Get("/:appId/downloads", middleware.RequireRole(models.RoleAdmin), handlers.AppDownloadCount)

	// Comments
	comments := api.Group("/comments", middleware.RequireAuth)
	comments.Post("/", handlers.CommentCreate)
	comments.Get("/:appId", middleware.RequireRole(models.RoleAdmin), handlers.CommentsByApp)

	// Health
	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"ok": true, "time": time.Now()})
	})
}
