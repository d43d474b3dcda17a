package services

import (
	"testing"
	"time"

	"league-scheduler/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildStandingsSnapshot(t *testing.T) {
	teams := []models.Team{
		{ID: "t1", Name: "Alpha", Slug: "alpha", Points: 12, GoalDifference: 4, GoalsFor: 14, Played: 10, Form: "WWL"},
		{ID: "t2", Name: "Beta", Slug: "beta", Points: 20, GoalDifference: 11, GoalsFor: 22, Played: 10, Form: "WWW"},
		{ID: "t3", Name: "Gamma", Slug: "gamma", Points: 12, GoalDifference: 6, GoalsFor: 13, Played: 10, Form: "DWL"},
	}

	rows := BuildStandingsSnapshot(teams)
	require.Len(t, rows, 3)

	assert.Equal(t, 1, rows[0].Position)
	assert.Equal(t, "Beta", rows[0].Team.Name)
	assert.Equal(t, "Gamma", rows[1].Team.Name, "goal difference splits level points")
	assert.Equal(t, "Alpha", rows[2].Team.Name)
	assert.Equal(t, 3, rows[2].Position)

	assert.Equal(t, 20, rows[0].Points)
	assert.Equal(t, "WWW", rows[0].Form)

	// Input order untouched.
	assert.Equal(t, "Alpha", teams[0].Name)
}

func TestBuildMatchSnapshotsEmbedsTeamIdentity(t *testing.T) {
	kickoff := time.Date(2026, 9, 5, 15, 0, 0, 0, time.UTC)
	matches := []models.Match{
		{
			ID:             "m1",
			CompetitionTag: models.CompetitionLeague,
			Stage:          models.StageGroup,
			HomeTeamID:     "t1",
			AwayTeamID:     "t2",
			HomeScore:      intPtr(2),
			AwayScore:      intPtr(2),
			Matchweek:      3,
			KickoffAt:      kickoff,
			Played:         true,
			HomeTeam:       models.Team{ID: "t1", Name: "Alpha", Slug: "alpha"},
			AwayTeam:       models.Team{ID: "t2", Name: "Beta", Slug: "beta"},
			Events: []models.MatchEvent{
				{ID: "e1", MatchID: "m1", Type: models.EventGoal, Side: models.SideHome, PlayerID: "p1", Minute: 12},
			},
		},
		{
			ID:             "m2",
			CompetitionTag: models.CompetitionCup,
			Stage:          models.StageSemiFinal,
			HomeTeamID:     "t1",
			AwayTeamID:     "t2",
			KickoffAt:      kickoff.AddDate(0, 0, 7),
			HomeTeam:       models.Team{ID: "t1", Name: "Alpha"},
			AwayTeam:       models.Team{ID: "t2", Name: "Beta"},
		},
	}

	rows := BuildMatchSnapshots(matches)
	require.Len(t, rows, 2)

	assert.Equal(t, "Alpha", rows[0].Home.Name)
	assert.Equal(t, "Beta", rows[0].Away.Name)
	require.NotNil(t, rows[0].HomeScore)
	assert.Equal(t, 2, *rows[0].HomeScore)
	assert.True(t, rows[0].Played)
	assert.Len(t, rows[0].Events, 1)

	assert.False(t, rows[1].Played)
	assert.Nil(t, rows[1].HomeScore)
	assert.Equal(t, models.StageSemiFinal, rows[1].Stage)
}
