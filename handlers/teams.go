// handlers/teams.go
package handlers

import (
	"league-scheduler/middleware"
	"league-scheduler/services"

	"github.com/gofiber/fiber/v2"
)

// SetupTeamRoutes wires team and player CRUD plus per-player statistics.
func SetupTeamRoutes(app *fiber.App, teamService *services.TeamService, statsService *services.StatsService) {
	teams := app.Group("/teams")
	teams.Get("/", teamService.GetTeams)
	teams.Get("/:id", teamService.GetTeam)
	teams.Get("/:id/players", teamService.GetPlayers)

	admin := teams.Group("/", middleware.RequireAdmin())
	admin.Post("/", teamService.CreateTeam)
	admin.Patch("/:id", teamService.UpdateTeam)
	admin.Put("/:id/crest", teamService.UploadCrest)
	admin.Delete("/:id", teamService.DeleteTeam)
	admin.Post("/:id/players", teamService.CreatePlayer)

	players := app.Group("/players")
	players.Get("/:id/stats", statsService.GetPlayerStats)
	players.Patch("/:id", middleware.RequireAdmin(), teamService.UpdatePlayer)
	players.Delete("/:id", middleware.RequireAdmin(), teamService.DeletePlayer)

	app.Get("/stats/top-scorers", statsService.GetTopScorers)
}
