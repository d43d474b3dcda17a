package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"league-scheduler/handlers"
	"league-scheduler/middleware"
	"league-scheduler/models"
	"league-scheduler/services"
	"league-scheduler/utils"
	"league-scheduler/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	app := fiber.New(fiber.Config{
		BodyLimit: 10 * 1024 * 1024, // 10MB, crest images only
	})

	// 🔐 GLOBAL: only Gateway requests allowed
	app.Use(middleware.GatewayAuthMiddleware())
	app.Use(middleware.UserContextMiddleware())

	allowedOriginsEnv := os.Getenv("ALLOWED_ORIGINS")
	if allowedOriginsEnv == "" {
		log.Println("⚠️  ALLOWED_ORIGINS environment variable not set, using default: http://localhost:3000")
		allowedOriginsEnv = "http://localhost:3000"
	}
	allowedOriginsList := strings.Split(allowedOriginsEnv, ",")
	for i, origin := range allowedOriginsList {
		allowedOriginsList[i] = strings.TrimSpace(origin)
	}
	allowedOriginsString := strings.Join(allowedOriginsList, ",")

	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOriginsString,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH,HEAD",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-Request-ID, User-Agent, Cache-Control, X-Service-Token, X-User-ID, X-User-Roles",
		ExposeHeaders:    "Content-Length, Content-Type, Authorization, X-Request-ID",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	if err := utils.InitR2(); err != nil {
		log.Println("⚠️  R2 not configured, crest uploads fall back to local disk:", err)
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.Team{},
		&models.Player{},
		&models.Match{},
		&models.MatchEvent{},
		&models.PlayerSeasonStat{},
		&models.Season{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	teamService := services.NewTeamService(db)
	fixtureService := services.NewFixtureService(db)
	standingsService := services.NewStandingsService(db)
	statsService := services.NewStatsService(db)
	progressionService := services.NewProgressionService(db)
	matchService := services.NewMatchService(db, statsService, progressionService)
	archiveService := services.NewArchiveService(db, statsService, progressionService)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Roster sync is optional: without a roster service URL, player profiles
	// are managed purely through the CRUD endpoints.
	if rosterServiceURL := os.Getenv("ROSTER_SERVICE_URL"); rosterServiceURL != "" {
		serviceToken := os.Getenv("LEAGUE_SERVICE_TOKEN")
		syncWorker := workers.NewPlayerSyncWorker(db, rosterServiceURL, "/api/v1/public/players", serviceToken)
		syncWorker.Start(ctx)
	} else {
		log.Println("⚠️  ROSTER_SERVICE_URL not set, player sync worker disabled")
	}

	matchService.StartPublishScheduler()

	handlers.SetupTeamRoutes(app, teamService, statsService)
	handlers.SetupMatchRoutes(app, matchService, fixtureService, standingsService)
	handlers.SetupSeasonRoutes(app, archiveService)

	app.Static("/uploads", "./uploads")

	port := os.Getenv("PORT")
	if port == "" {
		port = "5300"
	}

	go func() {
		if err := app.Listen(":" + port); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("✅ Server running on http://localhost:%s", port)
	log.Println("✅ Publish scheduler running (every 1m)")
	log.Println("✅ GatewayAuthMiddleware enforced globally — all requests must come from Gateway")
	log.Printf("✅ CORS configured for origins: %s", allowedOriginsString)

	<-ctx.Done()
	log.Println("Shutting down server...")
	_ = app.Shutdown()
}
