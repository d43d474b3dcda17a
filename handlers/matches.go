// handlers/matches.go
package handlers

import (
	"league-scheduler/middleware"
	"league-scheduler/services"

	"github.com/gofiber/fiber/v2"
)

// SetupMatchRoutes wires fixtures, results, events, publication and standings.
func SetupMatchRoutes(app *fiber.App, matchService *services.MatchService, fixtureService *services.FixtureService, standingsService *services.StandingsService) {
	matches := app.Group("/matches")
	matches.Get("/", matchService.GetMatches)
	matches.Get("/:id", matchService.GetMatch)

	admin := matches.Group("/", middleware.RequireAdmin())
	admin.Patch("/:id/result", matchService.RecordResult)
	admin.Put("/:id/events", matchService.ReplaceEvents)
	admin.Patch("/:id/publish", matchService.PublishMatch)

	fixtures := app.Group("/fixtures", middleware.RequireAdmin())
	fixtures.Post("/league", fixtureService.GenerateLeagueFixtures)
	fixtures.Post("/cup", fixtureService.GenerateCupFixtures)
	fixtures.Post("/super-cup", fixtureService.GenerateSuperCupFixture)
	fixtures.Post("/series", fixtureService.GenerateSeriesFixtures)

	app.Get("/standings/:competition?", standingsService.GetStandings)
}
