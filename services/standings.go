package services

import (
	"sort"

	"league-scheduler/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Form result codes, most recent first in Team.Form, capped at formLength.
const formLength = 3

// resultCode returns W/D/L for a team that scored `for_` against `against`.
func resultCode(for_, against int) string {
	switch {
	case for_ > against:
		return "W"
	case for_ < against:
		return "L"
	default:
		return "D"
	}
}

// pushForm prepends the newest result code and truncates to the cap.
func pushForm(form, code string) string {
	form = code + form
	if len(form) > formLength {
		form = form[:formLength]
	}
	return form
}

// popForm removes the most recently prepended result code.
func popForm(form string) string {
	if form == "" {
		return form
	}
	return form[1:]
}

// ApplyResult applies one match result to the two involved teams' records:
// played +1 for both, goals added symmetrically, 3 points to a strictly
// higher scorer (loss for the other), 1 point each on a draw. Form gains the
// new result code at the front.
func ApplyResult(home, away *models.Team, homeScore, awayScore int) {
	home.Played++
	away.Played++
	home.GoalsFor += homeScore
	home.GoalsAgainst += awayScore
	away.GoalsFor += awayScore
	away.GoalsAgainst += homeScore

	switch {
	case homeScore > awayScore:
		home.Won++
		home.Points += 3
		away.Lost++
	case homeScore < awayScore:
		away.Won++
		away.Points += 3
		home.Lost++
	default:
		home.Drawn++
		away.Drawn++
		home.Points++
		away.Points++
	}

	home.GoalDifference = home.GoalsFor - home.GoalsAgainst
	away.GoalDifference = away.GoalsFor - away.GoalsAgainst
	home.Form = pushForm(home.Form, resultCode(homeScore, awayScore))
	away.Form = pushForm(away.Form, resultCode(awayScore, homeScore))
}

// ReverseResult is the exact inverse of ApplyResult for the same score.
// Applying then reversing leaves both records bit-identical to before.
func ReverseResult(home, away *models.Team, homeScore, awayScore int) {
	home.Played--
	away.Played--
	home.GoalsFor -= homeScore
	home.GoalsAgainst -= awayScore
	away.GoalsFor -= awayScore
	away.GoalsAgainst -= homeScore

	switch {
	case homeScore > awayScore:
		home.Won--
		home.Points -= 3
		away.Lost--
	case homeScore < awayScore:
		away.Won--
		away.Points -= 3
		home.Lost--
	default:
		home.Drawn--
		away.Drawn--
		home.Points--
		away.Points--
	}

	home.GoalDifference = home.GoalsFor - home.GoalsAgainst
	away.GoalDifference = away.GoalsFor - away.GoalsAgainst
	home.Form = popForm(home.Form)
	away.Form = popForm(away.Form)
}

// SortStandings orders teams by points desc, then goal difference desc, then
// goals for desc. Name ascending is the documented tertiary key so exact ties
// stay deterministic.
func SortStandings(teams []models.Team) {
	sort.SliceStable(teams, func(i, j int) bool {
		a, b := teams[i], teams[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.GoalDifference != b.GoalDifference {
			return a.GoalDifference > b.GoalDifference
		}
		if a.GoalsFor != b.GoalsFor {
			return a.GoalsFor > b.GoalsFor
		}
		return a.Name < b.Name
	})
}

// StandingsService exposes the live table.
type StandingsService struct {
	DB *gorm.DB
}

func NewStandingsService(db *gorm.DB) *StandingsService {
	return &StandingsService{DB: db}
}

// competitionTeams loads every team registered for the competition tag.
func (s *StandingsService) competitionTeams(tag string) ([]models.Team, error) {
	var teams []models.Team
	if err := s.DB.Where("competitions LIKE ?", "%"+tag+"%").Find(&teams).Error; err != nil {
		return nil, err
	}
	return teams, nil
}

// GetStandings handles GET /standings/:competition, ordered by the league
// tie-break rules.
func (s *StandingsService) GetStandings(c *fiber.Ctx) error {
	tag := c.Params("competition")
	if tag == "" {
		tag = models.CompetitionLeague
	}

	teams, err := s.competitionTeams(tag)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch standings"})
	}

	SortStandings(teams)
	return c.JSON(teams)
}
