package services

import (
	"fmt"
	"time"

	"league-scheduler/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MatchService owns result entry, event lists and publication. Results drive
// the standings and statistics ledgers, so every write path here runs
// reverse-then-reapply inside one transaction.
type MatchService struct {
	DB          *gorm.DB
	Stats       *StatsService
	Progression *ProgressionService
}

func NewMatchService(db *gorm.DB, stats *StatsService, progression *ProgressionService) *MatchService {
	return &MatchService{DB: db, Stats: stats, Progression: progression}
}

// GetMatches handles GET /matches with optional competition, matchweek and
// published filters.
func (s *MatchService) GetMatches(c *fiber.Ctx) error {
	query := s.DB.Preload("HomeTeam").Preload("AwayTeam")

	if tag := c.Query("competition"); tag != "" {
		query = query.Where("competition_tag = ?", tag)
	}
	if week := c.QueryInt("matchweek"); week > 0 {
		query = query.Where("matchweek = ?", week)
	}
	if published := c.Query("published"); published != "" {
		query = query.Where("published = ?", published == "true")
	}

	var matches []models.Match
	if err := query.Order("kickoff_at ASC").Find(&matches).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch matches"})
	}
	return c.JSON(matches)
}

// GetMatch handles GET /matches/:id including teams and events.
func (s *MatchService) GetMatch(c *fiber.Ctx) error {
	var match models.Match
	err := s.DB.Preload("HomeTeam").Preload("AwayTeam").Preload("Events").
		First(&match, "id = ?", c.Params("id")).Error
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(match)
}

type resultRequest struct {
	HomeScore *int `json:"home_score"`
	AwayScore *int `json:"away_score"`
	HomePens  *int `json:"home_pens"`
	AwayPens  *int `json:"away_pens"`
}

func validateResult(match *models.Match, req *resultRequest) error {
	if req.HomeScore == nil || req.AwayScore == nil {
		return fmt.Errorf("both scores are required: %w", ErrInvalidResult)
	}
	if *req.HomeScore < 0 || *req.AwayScore < 0 {
		return fmt.Errorf("scores must be non-negative: %w", ErrInvalidResult)
	}
	if (req.HomePens == nil) != (req.AwayPens == nil) {
		return fmt.Errorf("penalty scores must be set for both sides or neither: %w", ErrInvalidResult)
	}
	if req.HomePens != nil {
		if *req.HomePens < 0 || *req.AwayPens < 0 {
			return fmt.Errorf("penalty scores must be non-negative: %w", ErrInvalidResult)
		}
		if match.CompetitionTag == models.CompetitionLeague {
			return fmt.Errorf("league matches cannot go to penalties: %w", ErrInvalidResult)
		}
		if *req.HomeScore != *req.AwayScore {
			return fmt.Errorf("penalties only apply to drawn matches: %w", ErrInvalidResult)
		}
		if *req.HomePens == *req.AwayPens {
			return fmt.Errorf("a shootout cannot end level: %w", ErrInvalidResult)
		}
	}
	return nil
}

// lockTeams fetches and row-locks both competing teams in ascending ID order
// so concurrent result entries on overlapping teams cannot deadlock.
func lockTeams(tx *gorm.DB, homeID, awayID string) (home, away *models.Team, err error) {
	var teams []models.Team
	err = tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id IN ?", []string{homeID, awayID}).
		Order("id ASC").
		Find(&teams).Error
	if err != nil {
		return nil, nil, err
	}
	if len(teams) != 2 {
		return nil, nil, gorm.ErrRecordNotFound
	}
	for i := range teams {
		switch teams[i].ID {
		case homeID:
			home = &teams[i]
		case awayID:
			away = &teams[i]
		}
	}
	return home, away, nil
}

// RecordResult handles PATCH /matches/:id/result. Overwriting a previously
// recorded result first reverses its ledger effects, so corrections leave the
// table exactly as if the old score had never been entered.
func (s *MatchService) RecordResult(c *fiber.Ctx) error {
	matchID := c.Params("id")

	var req resultRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var match models.Match
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&match, "id = ?", matchID).Error; err != nil {
			return err
		}

		if err := validateResult(&match, &req); err != nil {
			return err
		}

		if match.CompetitionTag == models.CompetitionLeague {
			home, away, err := lockTeams(tx, match.HomeTeamID, match.AwayTeamID)
			if err != nil {
				return err
			}
			if match.Played && match.HasResult() {
				ReverseResult(home, away, *match.HomeScore, *match.AwayScore)
			}
			ApplyResult(home, away, *req.HomeScore, *req.AwayScore)
			if err := tx.Save(home).Error; err != nil {
				return err
			}
			if err := tx.Save(away).Error; err != nil {
				return err
			}
		}

		match.HomeScore = req.HomeScore
		match.AwayScore = req.AwayScore
		match.HomePens = req.HomePens
		match.AwayPens = req.AwayPens
		match.Played = true
		if err := tx.Save(&match).Error; err != nil {
			return err
		}

		// A second cup semi result may complete the bracket.
		if match.CompetitionTag == models.CompetitionCup && match.Stage == models.StageSemiFinal {
			if err := s.Progression.MaybeCreateCupFinal(tx); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return errorJSON(c, err)
	}

	var match models.Match
	if err := s.DB.Preload("HomeTeam").Preload("AwayTeam").First(&match, "id = ?", matchID).Error; err != nil {
		return errorJSON(c, err)
	}
	fmt.Printf("✅ Result recorded for match %s (%s)\n", match.ID, match.CompetitionTag)
	return c.JSON(match)
}

type eventRequest struct {
	Type           string  `json:"type"`
	Side           string  `json:"side"`
	PlayerID       string  `json:"player_id"`
	AssistPlayerID *string `json:"assist_player_id"`
	OwnGoal        bool    `json:"own_goal"`
	Minute         int     `json:"minute"`
}

type replaceEventsRequest struct {
	Events []eventRequest `json:"events"`
}

// matchRoster maps every player on either competing team to their team ID.
func matchRoster(tx *gorm.DB, match *models.Match) (map[string]string, error) {
	var players []models.Player
	if err := tx.Where("team_id IN ?", []string{match.HomeTeamID, match.AwayTeamID}).
		Find(&players).Error; err != nil {
		return nil, err
	}
	roster := make(map[string]string, len(players))
	for _, p := range players {
		roster[p.ID] = p.TeamID
	}
	return roster, nil
}

// ReplaceEvents handles PUT /matches/:id/events. The incoming list fully
// replaces the stored one: existing events are reversed out of the stats
// ledger, deleted, and the new list validated and applied, all in one
// transaction. An invalid list leaves both events and stats untouched.
func (s *MatchService) ReplaceEvents(c *fiber.Ctx) error {
	matchID := c.Params("id")

	var req replaceEventsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
	}

	var saved []models.MatchEvent
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var match models.Match
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&match, "id = ?", matchID).Error; err != nil {
			return err
		}

		roster, err := matchRoster(tx, &match)
		if err != nil {
			return err
		}

		incoming := make([]models.MatchEvent, 0, len(req.Events))
		for _, ev := range req.Events {
			incoming = append(incoming, models.MatchEvent{
				ID:             uuid.NewString(),
				MatchID:        match.ID,
				Type:           ev.Type,
				Side:           ev.Side,
				PlayerID:       ev.PlayerID,
				AssistPlayerID: ev.AssistPlayerID,
				OwnGoal:        ev.OwnGoal,
				Minute:         ev.Minute,
			})
		}
		if err := ValidateEvents(incoming, roster); err != nil {
			return err
		}

		season, err := s.Stats.EnsureActiveSeason(tx)
		if err != nil {
			return err
		}

		var existing []models.MatchEvent
		if err := tx.Where("match_id = ?", match.ID).Find(&existing).Error; err != nil {
			return err
		}
		if len(existing) > 0 {
			if err := s.Stats.ApplyMatchEvents(tx, &match, existing, roster, season.Number, -1); err != nil {
				return err
			}
			if err := tx.Where("match_id = ?", match.ID).Delete(&models.MatchEvent{}).Error; err != nil {
				return err
			}
		}

		if len(incoming) > 0 {
			if err := tx.Create(&incoming).Error; err != nil {
				return err
			}
			if err := s.Stats.ApplyMatchEvents(tx, &match, incoming, roster, season.Number, 1); err != nil {
				return err
			}
		}

		saved = incoming
		return nil
	})
	if err != nil {
		return errorJSON(c, err)
	}

	fmt.Printf("📋 Replaced %d events for match %s\n", len(saved), matchID)
	return c.JSON(saved)
}

type publishRequest struct {
	PublishAt *time.Time `json:"publish_at"`
}

// PublishMatch handles PATCH /matches/:id/publish. Without a publish_at the
// match goes public immediately; with one, the scheduler picks it up when the
// time arrives.
func (s *MatchService) PublishMatch(c *fiber.Ctx) error {
	var req publishRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
	}

	var match models.Match
	if err := s.DB.First(&match, "id = ?", c.Params("id")).Error; err != nil {
		return errorJSON(c, err)
	}

	if req.PublishAt != nil && req.PublishAt.After(time.Now()) {
		match.PublishAt = req.PublishAt
		match.Published = false
	} else {
		now := time.Now()
		match.PublishAt = &now
		match.Published = true
	}

	if err := s.DB.Save(&match).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to update match"})
	}

	if match.Published {
		fmt.Printf("📢 Match %s published\n", match.ID)
	} else {
		fmt.Printf("⏰ Match %s scheduled for publication at %s\n", match.ID, match.PublishAt.Format(time.RFC3339))
	}
	return c.JSON(match)
}

// PublishDueMatches flips every match whose scheduled publication time has
// arrived. Called by the background scheduler.
func (s *MatchService) PublishDueMatches() error {
	var due []models.Match
	err := s.DB.Where("published = ? AND publish_at IS NOT NULL AND publish_at <= ?", false, time.Now()).
		Find(&due).Error
	if err != nil {
		return err
	}
	for i := range due {
		due[i].Published = true
		if err := s.DB.Save(&due[i]).Error; err != nil {
			fmt.Printf("❌ Failed to auto-publish match %s: %v\n", due[i].ID, err)
			continue
		}
		fmt.Printf("📢 Auto-published match %s\n", due[i].ID)
	}
	if len(due) > 0 {
		fmt.Printf("✅ Auto-published %d match(es)\n", len(due))
	}
	return nil
}
