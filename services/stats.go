package services

import (
	"errors"
	"fmt"
	"time"

	"league-scheduler/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StatsService is the statistics ledger: per-player, per-season,
// per-competition counters driven by match event deltas. It mirrors the
// standings ledger's reverse-then-reapply discipline at event granularity.
type StatsService struct {
	DB *gorm.DB
}

func NewStatsService(db *gorm.DB) *StatsService {
	return &StatsService{DB: db}
}

// validEventTypes and validSides gate incoming events before any mutation.
var validEventTypes = map[string]bool{
	models.EventGoal:       true,
	models.EventCleanSheet: true,
	models.EventYellowCard: true,
	models.EventRedCard:    true,
}

var validSides = map[string]bool{
	models.SideHome: true,
	models.SideAway: true,
}

// ValidateEvents checks a replacement event list against the competing teams'
// rosters (playerID -> teamID). Any failure rejects the whole list so nothing
// is ever partially applied.
func ValidateEvents(events []models.MatchEvent, roster map[string]string) error {
	for i, ev := range events {
		if !validEventTypes[ev.Type] {
			return fmt.Errorf("event %d: unknown type %q: %w", i, ev.Type, ErrInvalidEvent)
		}
		if !validSides[ev.Side] {
			return fmt.Errorf("event %d: unknown side %q: %w", i, ev.Side, ErrInvalidEvent)
		}
		if _, ok := roster[ev.PlayerID]; !ok {
			return fmt.Errorf("event %d: player %s is not on either competing team: %w", i, ev.PlayerID, ErrInvalidEvent)
		}
		if ev.AssistPlayerID != nil {
			if _, ok := roster[*ev.AssistPlayerID]; !ok {
				return fmt.Errorf("event %d: assist player %s is not on either competing team: %w", i, *ev.AssistPlayerID, ErrInvalidEvent)
			}
		}
		if ev.Minute < 0 || ev.Minute > 120 {
			return fmt.Errorf("event %d: minute %d out of range: %w", i, ev.Minute, ErrInvalidEvent)
		}
	}
	return nil
}

// ApplyEventCounters adds one event's delta to the primary player's counters.
// sign is +1 on apply and -1 on reverse. Assist credit is a separate counter
// on the assisting player; see ApplyAssistCounters.
func ApplyEventCounters(stat *models.PlayerSeasonStat, ev models.MatchEvent, sign int) {
	switch ev.Type {
	case models.EventGoal:
		if ev.OwnGoal {
			stat.OwnGoals += sign
		} else {
			stat.Goals += sign
		}
	case models.EventCleanSheet:
		stat.CleanSheets += sign
	case models.EventYellowCard:
		stat.YellowCards += sign
	case models.EventRedCard:
		stat.RedCards += sign
	}
}

// ApplyAssistCounters adds the assist delta for a non-own-goal with an
// assisting player.
func ApplyAssistCounters(stat *models.PlayerSeasonStat, sign int) {
	stat.Assists += sign
}

// EnsureActiveSeason returns the active season, creating the next one on
// demand so every event always lands in exactly one season bucket.
func (s *StatsService) EnsureActiveSeason(tx *gorm.DB) (*models.Season, error) {
	var season models.Season
	err := tx.Where("is_active = ?", true).First(&season).Error
	if err == nil {
		return &season, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var lastNumber int
	if err := tx.Model(&models.Season{}).Select("COALESCE(MAX(number), 0)").Scan(&lastNumber).Error; err != nil {
		return nil, err
	}

	season = models.Season{
		ID:        uuid.NewString(),
		Number:    lastNumber + 1,
		IsActive:  true,
		StartedAt: time.Now(),
	}
	if err := tx.Create(&season).Error; err != nil {
		return nil, err
	}
	return &season, nil
}

// ensureStat finds or creates the (player, season, competition) counter row.
// Mirrors the idempotent ensure-record idiom used across the service layer.
func (s *StatsService) ensureStat(tx *gorm.DB, playerID, teamID string, seasonNumber int, tag string) (*models.PlayerSeasonStat, error) {
	var stat models.PlayerSeasonStat
	err := tx.Where("player_id = ? AND season_number = ? AND competition_tag = ?", playerID, seasonNumber, tag).
		First(&stat).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		stat = models.PlayerSeasonStat{
			ID:             uuid.NewString(),
			PlayerID:       playerID,
			TeamID:         teamID,
			SeasonNumber:   seasonNumber,
			CompetitionTag: tag,
		}
		if err := tx.Create(&stat).Error; err != nil {
			return nil, err
		}
		return &stat, nil
	}
	if err != nil {
		return nil, err
	}
	return &stat, nil
}

// ApplyMatchEvents walks an event list applying per-event deltas with the
// given sign (+1 apply, -1 reverse). roster maps playerID -> teamID for the
// two competing teams. Runs inside the caller's transaction.
func (s *StatsService) ApplyMatchEvents(tx *gorm.DB, match *models.Match, events []models.MatchEvent, roster map[string]string, seasonNumber int, sign int) error {
	for _, ev := range events {
		stat, err := s.ensureStat(tx, ev.PlayerID, roster[ev.PlayerID], seasonNumber, match.CompetitionTag)
		if err != nil {
			return err
		}
		ApplyEventCounters(stat, ev, sign)
		if err := tx.Save(stat).Error; err != nil {
			return err
		}

		if ev.Type == models.EventGoal && !ev.OwnGoal && ev.AssistPlayerID != nil {
			assistStat, err := s.ensureStat(tx, *ev.AssistPlayerID, roster[*ev.AssistPlayerID], seasonNumber, match.CompetitionTag)
			if err != nil {
				return err
			}
			ApplyAssistCounters(assistStat, sign)
			if err := tx.Save(assistStat).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

// GetPlayerStats handles GET /players/:id/stats with optional season and
// competition filters.
func (s *StatsService) GetPlayerStats(c *fiber.Ctx) error {
	playerID := c.Params("id")

	query := s.DB.Where("player_id = ?", playerID)
	if season := c.QueryInt("season"); season > 0 {
		query = query.Where("season_number = ?", season)
	}
	if tag := c.Query("competition"); tag != "" {
		query = query.Where("competition_tag = ?", tag)
	}

	var stats []models.PlayerSeasonStat
	if err := query.Order("season_number DESC, competition_tag ASC").Find(&stats).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch player stats"})
	}
	return c.JSON(stats)
}

// GetTopScorers handles GET /stats/top-scorers for the active season.
func (s *StatsService) GetTopScorers(c *fiber.Ctx) error {
	var season models.Season
	if err := s.DB.Where("is_active = ?", true).First(&season).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON([]models.PlayerSeasonStat{})
		}
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch active season"})
	}

	query := s.DB.Where("season_number = ?", season.Number)
	if tag := c.Query("competition"); tag != "" {
		query = query.Where("competition_tag = ?", tag)
	}

	limit := c.QueryInt("limit")
	if limit < 1 || limit > 100 {
		limit = 10
	}

	var stats []models.PlayerSeasonStat
	if err := query.Order("goals DESC, assists DESC").Limit(limit).Find(&stats).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch top scorers"})
	}
	return c.JSON(stats)
}
