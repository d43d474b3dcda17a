package services

import (
	"fmt"
	"path/filepath"
	"strings"

	"league-scheduler/models"
	"league-scheduler/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gorm.io/gorm"
)

// TeamService owns team and player CRUD. Record fields on Team are never
// writable through this service; only the standings ledger mutates them.
type TeamService struct {
	DB *gorm.DB
}

func NewTeamService(db *gorm.DB) *TeamService {
	return &TeamService{DB: db}
}

var nameCaser = cases.Title(language.English)

// normalizeName trims and title-cases a display name so "fc north end"
// and "FC NORTH END" land as the same team.
func normalizeName(name string) string {
	return nameCaser.String(strings.TrimSpace(name))
}

func normalizeCompetitions(raw string) string {
	if raw == "" {
		return models.CompetitionLeague
	}
	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if tag := strings.TrimSpace(strings.ToLower(p)); tag != "" {
			tags = append(tags, tag)
		}
	}
	return strings.Join(tags, ",")
}

type teamRequest struct {
	Name         string `json:"name" form:"name"`
	Category     string `json:"category" form:"category"`
	Competitions string `json:"competitions" form:"competitions"`
}

// CreateTeam handles POST /teams. Accepts JSON or multipart; a multipart
// "crest" file is stored and linked.
func (s *TeamService) CreateTeam(c *fiber.Ctx) error {
	var req teamRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
	}
	if strings.TrimSpace(req.Name) == "" {
		return c.Status(400).JSON(fiber.Map{"error": "team name is required"})
	}

	category := req.Category
	if category != models.CategorySecondary {
		category = models.CategoryPrimary
	}

	team := models.Team{
		ID:           uuid.NewString(),
		Name:         normalizeName(req.Name),
		Slug:         slug.Make(req.Name),
		Category:     category,
		Competitions: normalizeCompetitions(req.Competitions),
	}

	if fileHeader, err := c.FormFile("crest"); err == nil {
		url, err := utils.StoreCrest(fileHeader, team.Slug+filepath.Ext(fileHeader.Filename))
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "failed to store crest"})
		}
		team.CrestURL = url
	}

	if err := s.DB.Create(&team).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to create team"})
	}
	fmt.Printf("✅ Team created: %s (%s)\n", team.Name, team.Slug)
	return c.Status(201).JSON(team)
}

// GetTeams handles GET /teams with optional competition and category filters.
func (s *TeamService) GetTeams(c *fiber.Ctx) error {
	query := s.DB.Order("name ASC")
	if tag := c.Query("competition"); tag != "" {
		query = query.Where("competitions LIKE ?", "%"+tag+"%")
	}
	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}

	var teams []models.Team
	if err := query.Find(&teams).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch teams"})
	}
	return c.JSON(teams)
}

// GetTeam handles GET /teams/:id including the squad.
func (s *TeamService) GetTeam(c *fiber.Ctx) error {
	var team models.Team
	if err := s.DB.Preload("Players").First(&team, "id = ?", c.Params("id")).Error; err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(team)
}

// UpdateTeam handles PATCH /teams/:id. Only identity fields are writable;
// record fields belong to the standings ledger.
func (s *TeamService) UpdateTeam(c *fiber.Ctx) error {
	var team models.Team
	if err := s.DB.First(&team, "id = ?", c.Params("id")).Error; err != nil {
		return errorJSON(c, err)
	}

	var req teamRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
	}

	if strings.TrimSpace(req.Name) != "" {
		team.Name = normalizeName(req.Name)
		team.Slug = slug.Make(req.Name)
	}
	if req.Category == models.CategoryPrimary || req.Category == models.CategorySecondary {
		team.Category = req.Category
	}
	if req.Competitions != "" {
		team.Competitions = normalizeCompetitions(req.Competitions)
	}

	if err := s.DB.Save(&team).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to update team"})
	}
	return c.JSON(team)
}

// UploadCrest handles PUT /teams/:id/crest (multipart field "crest").
func (s *TeamService) UploadCrest(c *fiber.Ctx) error {
	var team models.Team
	if err := s.DB.First(&team, "id = ?", c.Params("id")).Error; err != nil {
		return errorJSON(c, err)
	}

	fileHeader, err := c.FormFile("crest")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "crest file is required"})
	}

	url, err := utils.StoreCrest(fileHeader, team.Slug+filepath.Ext(fileHeader.Filename))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to store crest"})
	}

	team.CrestURL = url
	if err := s.DB.Save(&team).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to update team"})
	}
	fmt.Printf("🖼️ Crest updated for %s\n", team.Name)
	return c.JSON(team)
}

// DeleteTeam handles DELETE /teams/:id. A team with scheduled matches cannot
// be removed; regenerate fixtures without it first.
func (s *TeamService) DeleteTeam(c *fiber.Ctx) error {
	teamID := c.Params("id")

	var team models.Team
	if err := s.DB.First(&team, "id = ?", teamID).Error; err != nil {
		return errorJSON(c, err)
	}

	var matchCount int64
	if err := s.DB.Model(&models.Match{}).
		Where("home_team_id = ? OR away_team_id = ?", teamID, teamID).
		Count(&matchCount).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to check fixtures"})
	}
	if matchCount > 0 {
		return c.Status(409).JSON(fiber.Map{"error": "team has scheduled matches"})
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("team_id = ?", teamID).Delete(&models.Player{}).Error; err != nil {
			return err
		}
		return tx.Delete(&team).Error
	})
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to delete team"})
	}
	return c.JSON(fiber.Map{"message": "team deleted"})
}

type playerRequest struct {
	Name     string `json:"name"`
	Position string `json:"position"`
	Number   int    `json:"number"`
	PhotoURL string `json:"photo_url"`
}

// CreatePlayer handles POST /teams/:id/players.
func (s *TeamService) CreatePlayer(c *fiber.Ctx) error {
	var team models.Team
	if err := s.DB.First(&team, "id = ?", c.Params("id")).Error; err != nil {
		return errorJSON(c, err)
	}

	var req playerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
	}
	if strings.TrimSpace(req.Name) == "" {
		return c.Status(400).JSON(fiber.Map{"error": "player name is required"})
	}

	player := models.Player{
		ID:       uuid.NewString(),
		TeamID:   team.ID,
		Name:     normalizeName(req.Name),
		Position: req.Position,
		Number:   req.Number,
		PhotoURL: req.PhotoURL,
	}
	if err := s.DB.Create(&player).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to create player"})
	}
	return c.Status(201).JSON(player)
}

// GetPlayers handles GET /teams/:id/players.
func (s *TeamService) GetPlayers(c *fiber.Ctx) error {
	var players []models.Player
	if err := s.DB.Where("team_id = ?", c.Params("id")).Order("number ASC").Find(&players).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch players"})
	}
	return c.JSON(players)
}

// UpdatePlayer handles PATCH /players/:id.
func (s *TeamService) UpdatePlayer(c *fiber.Ctx) error {
	var player models.Player
	if err := s.DB.First(&player, "id = ?", c.Params("id")).Error; err != nil {
		return errorJSON(c, err)
	}

	var req playerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
	}

	if strings.TrimSpace(req.Name) != "" {
		player.Name = normalizeName(req.Name)
	}
	if req.Position != "" {
		player.Position = req.Position
	}
	if req.Number > 0 {
		player.Number = req.Number
	}
	if req.PhotoURL != "" {
		player.PhotoURL = req.PhotoURL
	}

	if err := s.DB.Save(&player).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to update player"})
	}
	return c.JSON(player)
}

// DeletePlayer handles DELETE /players/:id. Historical stats rows are kept;
// they reference the player by ID only.
func (s *TeamService) DeletePlayer(c *fiber.Ctx) error {
	var player models.Player
	if err := s.DB.First(&player, "id = ?", c.Params("id")).Error; err != nil {
		return errorJSON(c, err)
	}
	if err := s.DB.Delete(&player).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to delete player"})
	}
	return c.JSON(fiber.Map{"message": "player deleted"})
}
