package services

import (
	"testing"

	"league-scheduler/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyResultHomeWin(t *testing.T) {
	home := &models.Team{ID: "h", Name: "Home"}
	away := &models.Team{ID: "a", Name: "Away"}

	ApplyResult(home, away, 3, 1)

	assert.Equal(t, 1, home.Played)
	assert.Equal(t, 1, home.Won)
	assert.Equal(t, 3, home.Points)
	assert.Equal(t, 3, home.GoalsFor)
	assert.Equal(t, 1, home.GoalsAgainst)
	assert.Equal(t, 2, home.GoalDifference)
	assert.Equal(t, "W", home.Form)

	assert.Equal(t, 1, away.Played)
	assert.Equal(t, 1, away.Lost)
	assert.Equal(t, 0, away.Points)
	assert.Equal(t, -2, away.GoalDifference)
	assert.Equal(t, "L", away.Form)
}

func TestApplyResultDraw(t *testing.T) {
	home := &models.Team{ID: "h"}
	away := &models.Team{ID: "a"}

	ApplyResult(home, away, 2, 2)

	assert.Equal(t, 1, home.Drawn)
	assert.Equal(t, 1, away.Drawn)
	assert.Equal(t, 1, home.Points)
	assert.Equal(t, 1, away.Points)
	assert.Equal(t, "D", home.Form)
	assert.Equal(t, "D", away.Form)
}

// A recorded-then-reversed result must leave both records exactly as they were.
func TestReverseResultIsExactInverse(t *testing.T) {
	home := &models.Team{ID: "h", Name: "Home"}
	away := &models.Team{ID: "a", Name: "Away"}

	ApplyResult(home, away, 1, 0)
	ApplyResult(away, home, 2, 2)

	beforeHome := *home
	beforeAway := *away

	scores := [][2]int{{4, 0}, {0, 4}, {1, 1}, {0, 0}}
	for _, sc := range scores {
		ApplyResult(home, away, sc[0], sc[1])
		ReverseResult(home, away, sc[0], sc[1])
		require.Equal(t, beforeHome, *home, "score %v", sc)
		require.Equal(t, beforeAway, *away, "score %v", sc)
	}
}

func TestFormIsCappedAtThreeMostRecentFirst(t *testing.T) {
	home := &models.Team{ID: "h"}
	away := &models.Team{ID: "a"}

	ApplyResult(home, away, 1, 0) // W
	ApplyResult(home, away, 0, 0) // D
	ApplyResult(home, away, 0, 1) // L
	ApplyResult(home, away, 2, 0) // W

	assert.Equal(t, "WLD", home.Form)
	assert.Equal(t, "LWD", away.Form)

	ReverseResult(home, away, 2, 0)
	assert.Equal(t, "LD", home.Form)
}

func TestSortStandingsTiebreakOrder(t *testing.T) {
	teams := []models.Team{
		{Name: "Gamma", Points: 7, GoalDifference: 9, GoalsFor: 20},
		{Name: "Alpha", Points: 10, GoalDifference: 3, GoalsFor: 12},
		{Name: "Beta", Points: 10, GoalDifference: 5, GoalsFor: 15},
	}

	SortStandings(teams)

	assert.Equal(t, "Beta", teams[0].Name, "higher goal difference wins level points")
	assert.Equal(t, "Alpha", teams[1].Name)
	assert.Equal(t, "Gamma", teams[2].Name, "points outrank goal difference")
}

func TestSortStandingsGoalsForThenName(t *testing.T) {
	teams := []models.Team{
		{Name: "Zeta", Points: 6, GoalDifference: 1, GoalsFor: 8},
		{Name: "Echo", Points: 6, GoalDifference: 1, GoalsFor: 10},
		{Name: "Delta", Points: 6, GoalDifference: 1, GoalsFor: 8},
	}

	SortStandings(teams)

	assert.Equal(t, "Echo", teams[0].Name)
	assert.Equal(t, "Delta", teams[1].Name, "name ascending breaks the full tie")
	assert.Equal(t, "Zeta", teams[2].Name)
}
