package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTeamInCompetition(t *testing.T) {
	team := Team{Competitions: "league, cup"}

	assert.True(t, team.InCompetition(CompetitionLeague))
	assert.True(t, team.InCompetition(CompetitionCup))
	assert.False(t, team.InCompetition(CompetitionSeries))

	empty := Team{}
	assert.False(t, empty.InCompetition(CompetitionLeague))
}

func TestTeamResetRecord(t *testing.T) {
	team := Team{
		ID: "t1", Name: "Alpha", Slug: "alpha",
		Played: 10, Won: 6, Drawn: 2, Lost: 2,
		GoalsFor: 18, GoalsAgainst: 9, GoalDifference: 9,
		Points: 20, Form: "WWD",
	}

	team.ResetRecord()

	assert.Zero(t, team.Played)
	assert.Zero(t, team.Won)
	assert.Zero(t, team.Points)
	assert.Zero(t, team.GoalDifference)
	assert.Empty(t, team.Form)
	// Identity survives the reset.
	assert.Equal(t, "Alpha", team.Name)
	assert.Equal(t, "alpha", team.Slug)
}

func TestTeamSnapshot(t *testing.T) {
	team := Team{ID: "t1", Name: "Alpha", Slug: "alpha", CrestURL: "/uploads/crests/alpha.png", Points: 20}
	snap := team.Snapshot()

	assert.Equal(t, TeamSnapshot{ID: "t1", Name: "Alpha", Slug: "alpha", CrestURL: "/uploads/crests/alpha.png"}, snap)
}
