package services

import (
	"errors"
	"testing"

	"league-scheduler/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateResult(t *testing.T) {
	league := models.Match{CompetitionTag: models.CompetitionLeague}
	cup := models.Match{CompetitionTag: models.CompetitionCup, Stage: models.StageSemiFinal}

	ok := resultRequest{HomeScore: intPtr(2), AwayScore: intPtr(1)}
	assert.NoError(t, validateResult(&league, &ok))

	shootout := resultRequest{HomeScore: intPtr(1), AwayScore: intPtr(1), HomePens: intPtr(4), AwayPens: intPtr(2)}
	assert.NoError(t, validateResult(&cup, &shootout))

	cases := []struct {
		name  string
		match *models.Match
		req   resultRequest
	}{
		{"missing away score", &league, resultRequest{HomeScore: intPtr(1)}},
		{"negative score", &league, resultRequest{HomeScore: intPtr(-1), AwayScore: intPtr(0)}},
		{"one-sided penalties", &cup, resultRequest{HomeScore: intPtr(1), AwayScore: intPtr(1), HomePens: intPtr(4)}},
		{"negative penalties", &cup, resultRequest{HomeScore: intPtr(1), AwayScore: intPtr(1), HomePens: intPtr(-1), AwayPens: intPtr(2)}},
		{"penalties in the league", &league, resultRequest{HomeScore: intPtr(1), AwayScore: intPtr(1), HomePens: intPtr(4), AwayPens: intPtr(2)}},
		{"penalties without a draw", &cup, resultRequest{HomeScore: intPtr(2), AwayScore: intPtr(1), HomePens: intPtr(4), AwayPens: intPtr(2)}},
		{"level shootout", &cup, resultRequest{HomeScore: intPtr(1), AwayScore: intPtr(1), HomePens: intPtr(3), AwayPens: intPtr(3)}},
	}
	for _, tc := range cases {
		err := validateResult(tc.match, &tc.req)
		require.Error(t, err, tc.name)
		assert.True(t, errors.Is(err, ErrInvalidResult), tc.name)
	}
}

func TestStatusForError(t *testing.T) {
	assert.Equal(t, 400, statusForError(ErrInvalidTeamCount))
	assert.Equal(t, 400, statusForError(ErrInvalidResult))
	assert.Equal(t, 400, statusForError(ErrInvalidEvent))
	assert.Equal(t, 409, statusForError(ErrDuplicateSeasonNumber))
	assert.Equal(t, 409, statusForError(ErrPrerequisiteNotMet))
	assert.Equal(t, 500, statusForError(errors.New("boom")))
}
