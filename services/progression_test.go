package services

import (
	"errors"
	"testing"

	"league-scheduler/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(n int) *int { return &n }

func playedMatch(id, homeID, awayID string, homeScore, awayScore int) models.Match {
	return models.Match{
		ID:         id,
		HomeTeamID: homeID,
		AwayTeamID: awayID,
		HomeScore:  intPtr(homeScore),
		AwayScore:  intPtr(awayScore),
		Played:     true,
	}
}

func TestMatchWinnerIDByScore(t *testing.T) {
	m := playedMatch("m1", "h", "a", 2, 1)
	id, err := MatchWinnerID(&m)
	require.NoError(t, err)
	assert.Equal(t, "h", id)

	m = playedMatch("m2", "h", "a", 0, 3)
	id, err = MatchWinnerID(&m)
	require.NoError(t, err)
	assert.Equal(t, "a", id)
}

func TestMatchWinnerIDRequiresResult(t *testing.T) {
	m := models.Match{ID: "m1", HomeTeamID: "h", AwayTeamID: "a"}
	_, err := MatchWinnerID(&m)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrPrerequisiteNotMet))
}

func TestMatchWinnerIDDrawGoesToPenalties(t *testing.T) {
	m := playedMatch("m1", "h", "a", 2, 2)

	_, err := MatchWinnerID(&m)
	require.Error(t, err, "a drawn knockout without a shootout resolves nothing")
	assert.True(t, errors.Is(err, ErrPrerequisiteNotMet))

	m.HomePens = intPtr(5)
	m.AwayPens = intPtr(4)
	id, err := MatchWinnerID(&m)
	require.NoError(t, err)
	assert.Equal(t, "h", id)

	m.HomePens = intPtr(3)
	m.AwayPens = intPtr(4)
	id, err = MatchWinnerID(&m)
	require.NoError(t, err)
	assert.Equal(t, "a", id)
}

func TestMatchWinnerOrHomeFallsBack(t *testing.T) {
	m := playedMatch("m1", "h", "a", 1, 1)
	id, err := matchWinnerOrHome(&m)
	require.NoError(t, err)
	assert.Equal(t, "h", id)

	unplayed := models.Match{ID: "m2", HomeTeamID: "h", AwayTeamID: "a"}
	_, err = matchWinnerOrHome(&unplayed)
	assert.Error(t, err, "no result means no fallback either")
}

func TestCupFinalTeams(t *testing.T) {
	semis := []models.Match{
		playedMatch("s1", "t1", "t2", 2, 0),
		playedMatch("s2", "t3", "t4", 1, 3),
	}

	homeID, awayID, err := CupFinalTeams(semis)
	require.NoError(t, err)
	assert.Equal(t, "t1", homeID, "first semi winner hosts")
	assert.Equal(t, "t4", awayID)
}

func TestCupFinalTeamsRequiresPlayedSemis(t *testing.T) {
	semis := []models.Match{
		playedMatch("s1", "t1", "t2", 2, 0),
		{ID: "s2", HomeTeamID: "t3", AwayTeamID: "t4"},
	}
	_, _, err := CupFinalTeams(semis)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrPrerequisiteNotMet))

	_, _, err = CupFinalTeams(semis[:1])
	assert.True(t, errors.Is(err, ErrPrerequisiteNotMet))
}

func TestSeriesWinnerID(t *testing.T) {
	games := []models.Match{
		playedMatch("g1", "t1", "t2", 1, 0), // t1
		playedMatch("g2", "t2", "t1", 2, 1), // t2
		playedMatch("g3", "t1", "t2", 3, 0), // t1
	}
	assert.Equal(t, "", SeriesWinnerID(games), "2-1 is not a clinch")

	games = append(games, playedMatch("g4", "t2", "t1", 0, 1)) // t1 clinches 3-1
	assert.Equal(t, "t1", SeriesWinnerID(games))
}

func TestSeriesWinnerIDIgnoresUnplayedAndDrawn(t *testing.T) {
	games := []models.Match{
		playedMatch("g1", "t1", "t2", 1, 0),
		playedMatch("g2", "t2", "t1", 1, 1), // drawn game counts for nobody
		{ID: "g3", HomeTeamID: "t1", AwayTeamID: "t2"},
		playedMatch("g4", "t2", "t1", 0, 2),
		playedMatch("g5", "t1", "t2", 2, 0),
	}
	assert.Equal(t, "t1", SeriesWinnerID(games))
}
