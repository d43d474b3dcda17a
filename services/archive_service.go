package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"league-scheduler/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ArchiveService closes out a season: it freezes the league table, the full
// match history and the trophy winners into immutable snapshots, then resets
// the live state for the next season. The whole close-out is one transaction,
// so a failed archive leaves the live season exactly as it was.
type ArchiveService struct {
	DB          *gorm.DB
	Stats       *StatsService
	Progression *ProgressionService
}

func NewArchiveService(db *gorm.DB, stats *StatsService, progression *ProgressionService) *ArchiveService {
	return &ArchiveService{DB: db, Stats: stats, Progression: progression}
}

// BuildStandingsSnapshot freezes a league table. Teams are sorted by the
// standard tiebreak order and positions assigned 1..n.
func BuildStandingsSnapshot(teams []models.Team) []models.StandingSnapshot {
	sorted := make([]models.Team, len(teams))
	copy(sorted, teams)
	SortStandings(sorted)

	rows := make([]models.StandingSnapshot, 0, len(sorted))
	for i, t := range sorted {
		rows = append(rows, models.StandingSnapshot{
			Position:       i + 1,
			Team:           t.Snapshot(),
			Played:         t.Played,
			Won:            t.Won,
			Drawn:          t.Drawn,
			Lost:           t.Lost,
			GoalsFor:       t.GoalsFor,
			GoalsAgainst:   t.GoalsAgainst,
			GoalDifference: t.GoalDifference,
			Points:         t.Points,
			Form:           t.Form,
		})
	}
	return rows
}

// BuildMatchSnapshots embeds team identity into every fixture so the archive
// is self-contained. Matches must carry their HomeTeam/AwayTeam/Events
// preloads.
func BuildMatchSnapshots(matches []models.Match) []models.MatchSnapshot {
	rows := make([]models.MatchSnapshot, 0, len(matches))
	for i := range matches {
		m := &matches[i]
		rows = append(rows, models.MatchSnapshot{
			ID:             m.ID,
			CompetitionTag: m.CompetitionTag,
			Stage:          m.Stage,
			Home:           m.HomeTeam.Snapshot(),
			Away:           m.AwayTeam.Snapshot(),
			HomeScore:      m.HomeScore,
			AwayScore:      m.AwayScore,
			HomePens:       m.HomePens,
			AwayPens:       m.AwayPens,
			Matchweek:      m.Matchweek,
			KickoffAt:      m.KickoffAt,
			Played:         m.Played,
			Events:         m.Events,
		})
	}
	return rows
}

// resolveWinners is best-effort: a competition that never ran, or is still
// unresolved, archives with a nil winner rather than blocking the close-out.
// Database errors still abort.
func (s *ArchiveService) resolveWinners(tx *gorm.DB, teamsByID map[string]*models.Team) (*models.CompetitionWinners, error) {
	winners := &models.CompetitionWinners{}

	snapshotOf := func(id string) *models.TeamSnapshot {
		if t, ok := teamsByID[id]; ok {
			snap := t.Snapshot()
			return &snap
		}
		return nil
	}

	if id, err := s.Progression.LeagueWinnerID(tx); err == nil {
		winners.League = snapshotOf(id)
	} else if !errors.Is(err, ErrPrerequisiteNotMet) {
		return nil, err
	}

	if id, _, err := s.Progression.CupWinnerID(tx); err == nil {
		winners.Cup = snapshotOf(id)
	} else if !errors.Is(err, ErrPrerequisiteNotMet) {
		return nil, err
	}

	if id, err := s.Progression.SuperCupWinnerID(tx); err == nil {
		winners.SuperCup = snapshotOf(id)
		var superCup models.Match
		if err := tx.Where("competition_tag = ?", models.CompetitionSuperCup).
			First(&superCup).Error; err == nil {
			winners.CupRunnerUpUsed = superCup.CupRunnerUpUsed
		}
	} else if !errors.Is(err, ErrPrerequisiteNotMet) {
		return nil, err
	}

	if id, err := s.Progression.CurrentSeriesWinnerID(tx); err == nil {
		winners.Series = snapshotOf(id)
	} else if !errors.Is(err, ErrPrerequisiteNotMet) {
		return nil, err
	}

	return winners, nil
}

// ArchiveSeason handles POST /seasons/archive. At least one played match is
// required; archiving an empty season is rejected.
func (s *ArchiveService) ArchiveSeason(c *fiber.Ctx) error {
	var archived models.Season

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		season, err := s.Stats.EnsureActiveSeason(tx)
		if err != nil {
			return err
		}

		var playedCount int64
		if err := tx.Model(&models.Match{}).Where("played = ?", true).Count(&playedCount).Error; err != nil {
			return err
		}
		if playedCount == 0 {
			return fmt.Errorf("no played matches to archive: %w", ErrPrerequisiteNotMet)
		}

		var teams []models.Team
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Find(&teams).Error; err != nil {
			return err
		}
		teamsByID := make(map[string]*models.Team, len(teams))
		for i := range teams {
			teamsByID[teams[i].ID] = &teams[i]
		}

		var leagueTeams []models.Team
		for _, t := range teams {
			if t.InCompetition(models.CompetitionLeague) {
				leagueTeams = append(leagueTeams, t)
			}
		}

		var matches []models.Match
		if err := tx.Preload("HomeTeam").Preload("AwayTeam").Preload("Events").
			Order("kickoff_at ASC").
			Find(&matches).Error; err != nil {
			return err
		}

		winners, err := s.resolveWinners(tx, teamsByID)
		if err != nil {
			return err
		}

		standingsJSON, err := json.Marshal(BuildStandingsSnapshot(leagueTeams))
		if err != nil {
			return err
		}
		matchesJSON, err := json.Marshal(BuildMatchSnapshots(matches))
		if err != nil {
			return err
		}
		winnersJSON, err := json.Marshal(winners)
		if err != nil {
			return err
		}

		now := time.Now()
		season.IsActive = false
		season.ArchivedAt = &now
		season.StandingsJSON = string(standingsJSON)
		season.MatchesJSON = string(matchesJSON)
		season.WinnersJSON = string(winnersJSON)
		if err := tx.Save(season).Error; err != nil {
			return err
		}

		// Start the next season in the same transaction so the singleton
		// invariant (exactly one active season) holds at every commit point.
		var clash int64
		if err := tx.Model(&models.Season{}).Where("number = ?", season.Number+1).Count(&clash).Error; err != nil {
			return err
		}
		if clash > 0 {
			return fmt.Errorf("season %d already exists: %w", season.Number+1, ErrDuplicateSeasonNumber)
		}
		if _, err := s.Stats.EnsureActiveSeason(tx); err != nil {
			return err
		}

		// Reset live state: zero every record, drop the fixture list.
		for i := range teams {
			teams[i].ResetRecord()
			if err := tx.Save(&teams[i]).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("1 = 1").Delete(&models.MatchEvent{}).Error; err != nil {
			return err
		}
		if err := tx.Where("1 = 1").Delete(&models.Match{}).Error; err != nil {
			return err
		}

		archived = *season
		return nil
	})
	if err != nil {
		return errorJSON(c, err)
	}

	fmt.Printf("🏆 Season %d archived\n", archived.Number)
	return c.JSON(fiber.Map{
		"message": "season archived",
		"season":  archived,
	})
}

// seasonDetail is the unpacked view of an archived season.
type seasonDetail struct {
	Season    models.Season              `json:"season"`
	Standings []models.StandingSnapshot  `json:"standings"`
	Matches   []models.MatchSnapshot     `json:"matches"`
	Winners   *models.CompetitionWinners `json:"winners"`
}

// GetSeasons handles GET /seasons.
func (s *ArchiveService) GetSeasons(c *fiber.Ctx) error {
	var seasons []models.Season
	if err := s.DB.Order("number DESC").Find(&seasons).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch seasons"})
	}
	return c.JSON(seasons)
}

// GetSeasonByNumber handles GET /seasons/:number, unpacking the stored
// snapshots.
func (s *ArchiveService) GetSeasonByNumber(c *fiber.Ctx) error {
	number, err := c.ParamsInt("number")
	if err != nil || number < 1 {
		return c.Status(400).JSON(fiber.Map{"error": "invalid season number"})
	}

	var season models.Season
	if err := s.DB.Where("number = ?", number).First(&season).Error; err != nil {
		return errorJSON(c, err)
	}

	detail := seasonDetail{Season: season}
	if season.StandingsJSON != "" {
		if err := json.Unmarshal([]byte(season.StandingsJSON), &detail.Standings); err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "corrupt standings snapshot"})
		}
	}
	if season.MatchesJSON != "" {
		if err := json.Unmarshal([]byte(season.MatchesJSON), &detail.Matches); err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "corrupt match snapshot"})
		}
	}
	if season.WinnersJSON != "" {
		if err := json.Unmarshal([]byte(season.WinnersJSON), &detail.Winners); err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "corrupt winners snapshot"})
		}
	}
	return c.JSON(detail)
}

// DeleteSeason handles DELETE /seasons/:number for archived seasons only.
func (s *ArchiveService) DeleteSeason(c *fiber.Ctx) error {
	number, err := c.ParamsInt("number")
	if err != nil || number < 1 {
		return c.Status(400).JSON(fiber.Map{"error": "invalid season number"})
	}

	var season models.Season
	if err := s.DB.Where("number = ?", number).First(&season).Error; err != nil {
		return errorJSON(c, err)
	}
	if season.IsActive {
		return c.Status(409).JSON(fiber.Map{"error": "cannot delete the active season"})
	}

	if err := s.DB.Delete(&season).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to delete season"})
	}
	fmt.Printf("🗑️ Season %d deleted\n", number)
	return c.JSON(fiber.Map{"message": "season deleted"})
}
