package services

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"league-scheduler/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Required team counts per fixture format.
const (
	leagueTeamCount = 6
	cupTeamCount    = 4
	seriesLength    = 5
)

// kickoffSlots is the fixed rotation of kickoff times-of-day assigned by
// fixture slot index within a matchweek.
var kickoffSlots = [...]struct{ hour, min int }{
	{12, 0},
	{15, 0},
	{17, 30},
}

// FixtureService seeds Match entities for every competition format.
type FixtureService struct {
	DB *gorm.DB
}

func NewFixtureService(db *gorm.DB) *FixtureService {
	return &FixtureService{DB: db}
}

// pairing indexes two teams of an ordered team list.
type pairing struct {
	home, away int
}

// leagueRounds produces a single round-robin for n teams (n even) using the
// circle method: the last team is fixed, the remaining n-1 rotate. Each round
// pairs the rotation head with the fixed team plus opposite ends of the rest.
// Every team appears exactly once per round and every unordered pair meets
// exactly once across the n-1 rounds.
func leagueRounds(n int) [][]pairing {
	half := n / 2
	fixed := n - 1

	rotating := make([]int, n-1)
	for i := range rotating {
		rotating[i] = i
	}

	rounds := make([][]pairing, 0, n-1)
	for r := 0; r < n-1; r++ {
		week := make([]pairing, 0, half)
		week = append(week, pairing{rotating[0], fixed})
		size := len(rotating)
		for i := 1; i < half; i++ {
			week = append(week, pairing{rotating[i], rotating[size-i]})
		}
		rounds = append(rounds, week)

		// Rotate: move the last element to the front. This is the only
		// mutation between rounds.
		last := rotating[size-1]
		copy(rotating[1:], rotating[:size-1])
		rotating[0] = last
	}
	return rounds
}

// kickoffFor places a fixture on the matchweek's date at the slot's time of day.
// Matchweeks are one week apart starting from startDate; matchweek is 1-based.
func kickoffFor(startDate time.Time, matchweek, slot int) time.Time {
	d := startDate.AddDate(0, 0, 7*(matchweek-1))
	s := kickoffSlots[slot%len(kickoffSlots)]
	return time.Date(d.Year(), d.Month(), d.Day(), s.hour, s.min, 0, 0, d.Location())
}

// BuildLeagueFixtures produces the double round-robin for exactly six teams.
// The team order is shuffled from rng before the circle method runs, which
// reshuffles the pairing sequence without breaking any scheduling invariant.
// The second half mirrors the first with home and away reversed.
func BuildLeagueFixtures(teams []models.Team, rng *rand.Rand, startDate time.Time) ([]models.Match, error) {
	if len(teams) != leagueTeamCount {
		return nil, fmt.Errorf("league needs exactly %d teams, got %d: %w", leagueTeamCount, len(teams), ErrInvalidTeamCount)
	}

	order := make([]models.Team, len(teams))
	copy(order, teams)
	rng.Shuffle(len(order), func(i, j int) {
		order[i], order[j] = order[j], order[i]
	})

	rounds := leagueRounds(leagueTeamCount)
	halfWeeks := len(rounds)

	fixtures := make([]models.Match, 0, 2*halfWeeks*len(rounds[0]))
	for r, week := range rounds {
		for slot, p := range week {
			first := models.Match{
				ID:             uuid.NewString(),
				CompetitionTag: models.CompetitionLeague,
				Stage:          models.StageGroup,
				HomeTeamID:     order[p.home].ID,
				AwayTeamID:     order[p.away].ID,
				Matchweek:      r + 1,
				KickoffAt:      kickoffFor(startDate, r+1, slot),
			}
			// Return fixture: same pairing, venues reversed, five weeks later.
			second := models.Match{
				ID:             uuid.NewString(),
				CompetitionTag: models.CompetitionLeague,
				Stage:          models.StageGroup,
				HomeTeamID:     order[p.away].ID,
				AwayTeamID:     order[p.home].ID,
				Matchweek:      r + 1 + halfWeeks,
				KickoffAt:      kickoffFor(startDate, r+1+halfWeeks, slot),
			}
			fixtures = append(fixtures, first, second)
		}
	}
	return fixtures, nil
}

// BuildCupFixtures pairs four teams into two semi-finals after a shuffle.
// The final is created later by the progression check, never here.
func BuildCupFixtures(teams []models.Team, rng *rand.Rand, startDate time.Time) ([]models.Match, error) {
	if len(teams) != cupTeamCount {
		return nil, fmt.Errorf("cup needs exactly %d teams, got %d: %w", cupTeamCount, len(teams), ErrInvalidTeamCount)
	}

	order := make([]models.Team, len(teams))
	copy(order, teams)
	rng.Shuffle(len(order), func(i, j int) {
		order[i], order[j] = order[j], order[i]
	})

	semis := make([]models.Match, 0, 2)
	for i := 0; i < cupTeamCount; i += 2 {
		semis = append(semis, models.Match{
			ID:             uuid.NewString(),
			CompetitionTag: models.CompetitionCup,
			Stage:          models.StageSemiFinal,
			HomeTeamID:     order[i].ID,
			AwayTeamID:     order[i+1].ID,
			Matchweek:      1,
			KickoffAt:      kickoffFor(startDate, 1, i/2),
		})
	}
	return semis, nil
}

// BuildSeriesFixtures produces the best-of-five between two teams, home
// advantage alternating game by game.
func BuildSeriesFixtures(teams []models.Team, startDate time.Time) ([]models.Match, error) {
	if len(teams) != 2 {
		return nil, fmt.Errorf("series needs exactly 2 teams, got %d: %w", len(teams), ErrInvalidTeamCount)
	}

	games := make([]models.Match, 0, seriesLength)
	for i := 0; i < seriesLength; i++ {
		home, away := teams[0], teams[1]
		if i%2 == 1 {
			home, away = away, home
		}
		games = append(games, models.Match{
			ID:             uuid.NewString(),
			CompetitionTag: models.CompetitionSeries,
			Stage:          models.StageGroup,
			HomeTeamID:     home.ID,
			AwayTeamID:     away.ID,
			Matchweek:      i + 1,
			KickoffAt:      kickoffFor(startDate, i+1, 0),
		})
	}
	return games, nil
}

// newRNG is the default randomness source for fixture shuffling. The build
// functions take an explicit *rand.Rand so tests can pin a seed.
func newRNG() *rand.Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// parseStartDate reads an optional RFC3339 start date, defaulting to the
// upcoming Saturday.
func parseStartDate(raw string) (time.Time, error) {
	if raw == "" {
		d := time.Now()
		for d.Weekday() != time.Saturday {
			d = d.AddDate(0, 0, 1)
		}
		return d, nil
	}
	return time.Parse(time.RFC3339, raw)
}

// fetchTeams loads the given team IDs, failing if any is missing. When ids is
// empty it falls back to every team registered for the competition tag.
func (s *FixtureService) fetchTeams(ids []string, tag string) ([]models.Team, error) {
	var teams []models.Team
	if len(ids) == 0 {
		if err := s.DB.Where("competitions LIKE ?", "%"+tag+"%").Order("name ASC").Find(&teams).Error; err != nil {
			return nil, err
		}
		return teams, nil
	}
	if err := s.DB.Where("id IN ?", ids).Find(&teams).Error; err != nil {
		return nil, err
	}
	if len(teams) != len(ids) {
		return nil, fmt.Errorf("one or more team ids not found: %w", gorm.ErrRecordNotFound)
	}
	return teams, nil
}

// replaceFixtures clears any previously generated fixtures for the
// competition (events included) and inserts the new set atomically.
func (s *FixtureService) replaceFixtures(tag string, fixtures []models.Match) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var staleIDs []string
		if err := tx.Model(&models.Match{}).Where("competition_tag = ?", tag).Pluck("id", &staleIDs).Error; err != nil {
			return err
		}
		if len(staleIDs) > 0 {
			if err := tx.Where("match_id IN ?", staleIDs).Delete(&models.MatchEvent{}).Error; err != nil {
				return err
			}
			if err := tx.Where("competition_tag = ?", tag).Delete(&models.Match{}).Error; err != nil {
				return err
			}
		}
		for i := range fixtures {
			if err := tx.Create(&fixtures[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// GenerateLeagueFixtures handles POST /fixtures/league.
func (s *FixtureService) GenerateLeagueFixtures(c *fiber.Ctx) error {
	type Req struct {
		TeamIDs   []string `json:"team_ids"`
		StartDate string   `json:"start_date"` // RFC3339, optional
	}
	var req Req
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON", "details": err.Error()})
	}

	startDate, err := parseStartDate(req.StartDate)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid start_date (use RFC3339)"})
	}

	teams, err := s.fetchTeams(req.TeamIDs, models.CompetitionLeague)
	if err != nil {
		return errorJSON(c, err)
	}

	fixtures, err := BuildLeagueFixtures(teams, newRNG(), startDate)
	if err != nil {
		return errorJSON(c, err)
	}

	if err := s.replaceFixtures(models.CompetitionLeague, fixtures); err != nil {
		log.Printf("ERROR generating league fixtures: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to save fixtures"})
	}
	return c.Status(201).JSON(fixtures)
}

// GenerateCupFixtures handles POST /fixtures/cup. Only the two semi-finals are
// created; the final appears once both are played.
func (s *FixtureService) GenerateCupFixtures(c *fiber.Ctx) error {
	type Req struct {
		TeamIDs   []string `json:"team_ids"`
		StartDate string   `json:"start_date"`
	}
	var req Req
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON", "details": err.Error()})
	}

	startDate, err := parseStartDate(req.StartDate)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid start_date (use RFC3339)"})
	}

	teams, err := s.fetchTeams(req.TeamIDs, models.CompetitionCup)
	if err != nil {
		return errorJSON(c, err)
	}

	semis, err := BuildCupFixtures(teams, newRNG(), startDate)
	if err != nil {
		return errorJSON(c, err)
	}

	if err := s.replaceFixtures(models.CompetitionCup, semis); err != nil {
		log.Printf("ERROR generating cup fixtures: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to save fixtures"})
	}
	return c.Status(201).JSON(semis)
}

// GenerateSuperCupFixture handles POST /fixtures/super-cup. The two teams are
// supplied explicitly — the cup may still be in progress when the super cup is
// scheduled — together with a flag marking a runner-up standing in for a
// double winner. The flag is display metadata only.
func (s *FixtureService) GenerateSuperCupFixture(c *fiber.Ctx) error {
	type Req struct {
		LeagueWinnerID       string `json:"league_winner_id"`
		CupWinnerID          string `json:"cup_winner_id"`
		RunnerUpSubstitution bool   `json:"runner_up_substitution"`
		StartDate            string `json:"start_date"`
	}
	var req Req
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON", "details": err.Error()})
	}
	if req.LeagueWinnerID == "" || req.CupWinnerID == "" {
		return c.Status(400).JSON(fiber.Map{"error": "league_winner_id and cup_winner_id are required"})
	}
	if req.LeagueWinnerID == req.CupWinnerID {
		return errorJSON(c, fmt.Errorf("super cup needs two distinct teams: %w", ErrInvalidTeamCount))
	}

	startDate, err := parseStartDate(req.StartDate)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid start_date (use RFC3339)"})
	}

	if _, err := s.fetchTeams([]string{req.LeagueWinnerID, req.CupWinnerID}, models.CompetitionSuperCup); err != nil {
		return errorJSON(c, err)
	}

	final := models.Match{
		ID:              uuid.NewString(),
		CompetitionTag:  models.CompetitionSuperCup,
		Stage:           models.StageFinal,
		HomeTeamID:      req.LeagueWinnerID,
		AwayTeamID:      req.CupWinnerID,
		Matchweek:       1,
		KickoffAt:       kickoffFor(startDate, 1, 0),
		CupRunnerUpUsed: req.RunnerUpSubstitution,
	}

	if err := s.replaceFixtures(models.CompetitionSuperCup, []models.Match{final}); err != nil {
		log.Printf("ERROR generating super cup fixture: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to save fixture"})
	}
	return c.Status(201).JSON(final)
}

// GenerateSeriesFixtures handles POST /fixtures/series (best-of-five).
func (s *FixtureService) GenerateSeriesFixtures(c *fiber.Ctx) error {
	type Req struct {
		TeamIDs   []string `json:"team_ids"`
		StartDate string   `json:"start_date"`
	}
	var req Req
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON", "details": err.Error()})
	}

	startDate, err := parseStartDate(req.StartDate)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid start_date (use RFC3339)"})
	}

	teams, err := s.fetchTeams(req.TeamIDs, models.CompetitionSeries)
	if err != nil {
		return errorJSON(c, err)
	}

	games, err := BuildSeriesFixtures(teams, startDate)
	if err != nil {
		return errorJSON(c, err)
	}

	if err := s.replaceFixtures(models.CompetitionSeries, games); err != nil {
		log.Printf("ERROR generating series fixtures: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to save fixtures"})
	}
	return c.Status(201).JSON(games)
}
