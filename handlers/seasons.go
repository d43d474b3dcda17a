// handlers/seasons.go
package handlers

import (
	"league-scheduler/middleware"
	"league-scheduler/services"

	"github.com/gofiber/fiber/v2"
)

// SetupSeasonRoutes wires the season archive.
func SetupSeasonRoutes(app *fiber.App, archiveService *services.ArchiveService) {
	seasons := app.Group("/seasons")
	seasons.Get("/", archiveService.GetSeasons)
	seasons.Get("/:number", archiveService.GetSeasonByNumber)
	seasons.Post("/archive", middleware.RequireAdmin(), archiveService.ArchiveSeason)
	seasons.Delete("/:number", middleware.RequireAdmin(), archiveService.DeleteSeason)
}
