package services

import (
	"errors"
	"testing"

	"league-scheduler/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

var testRoster = map[string]string{
	"p1": "team-1",
	"p2": "team-1",
	"p3": "team-2",
}

func TestValidateEvents(t *testing.T) {
	valid := []models.MatchEvent{
		{Type: models.EventGoal, Side: models.SideHome, PlayerID: "p1", AssistPlayerID: strPtr("p2"), Minute: 23},
		{Type: models.EventYellowCard, Side: models.SideAway, PlayerID: "p3", Minute: 70},
		{Type: models.EventCleanSheet, Side: models.SideHome, PlayerID: "p2", Minute: 90},
	}
	assert.NoError(t, ValidateEvents(valid, testRoster))

	cases := []struct {
		name string
		ev   models.MatchEvent
	}{
		{"unknown type", models.MatchEvent{Type: "hat_trick", Side: models.SideHome, PlayerID: "p1"}},
		{"unknown side", models.MatchEvent{Type: models.EventGoal, Side: "neutral", PlayerID: "p1"}},
		{"unknown player", models.MatchEvent{Type: models.EventGoal, Side: models.SideHome, PlayerID: "ghost"}},
		{"unknown assist", models.MatchEvent{Type: models.EventGoal, Side: models.SideHome, PlayerID: "p1", AssistPlayerID: strPtr("ghost")}},
		{"negative minute", models.MatchEvent{Type: models.EventGoal, Side: models.SideHome, PlayerID: "p1", Minute: -1}},
		{"minute past extra time", models.MatchEvent{Type: models.EventGoal, Side: models.SideHome, PlayerID: "p1", Minute: 121}},
	}
	for _, tc := range cases {
		err := ValidateEvents([]models.MatchEvent{tc.ev}, testRoster)
		require.Error(t, err, tc.name)
		assert.True(t, errors.Is(err, ErrInvalidEvent), tc.name)
	}
}

func TestApplyEventCounters(t *testing.T) {
	stat := &models.PlayerSeasonStat{}

	ApplyEventCounters(stat, models.MatchEvent{Type: models.EventGoal}, 1)
	ApplyEventCounters(stat, models.MatchEvent{Type: models.EventGoal, OwnGoal: true}, 1)
	ApplyEventCounters(stat, models.MatchEvent{Type: models.EventCleanSheet}, 1)
	ApplyEventCounters(stat, models.MatchEvent{Type: models.EventYellowCard}, 1)
	ApplyEventCounters(stat, models.MatchEvent{Type: models.EventRedCard}, 1)
	ApplyAssistCounters(stat, 1)

	assert.Equal(t, 1, stat.Goals)
	assert.Equal(t, 1, stat.OwnGoals, "own goals never count as goals scored")
	assert.Equal(t, 1, stat.CleanSheets)
	assert.Equal(t, 1, stat.YellowCards)
	assert.Equal(t, 1, stat.RedCards)
	assert.Equal(t, 1, stat.Assists)
}

// foldEvents replays an event list into per-player counters the way the
// ledger does, using an in-memory map instead of stat rows.
func foldEvents(counters map[string]*models.PlayerSeasonStat, events []models.MatchEvent, sign int) {
	get := func(id string) *models.PlayerSeasonStat {
		if counters[id] == nil {
			counters[id] = &models.PlayerSeasonStat{PlayerID: id}
		}
		return counters[id]
	}
	for _, ev := range events {
		ApplyEventCounters(get(ev.PlayerID), ev, sign)
		if ev.Type == models.EventGoal && !ev.OwnGoal && ev.AssistPlayerID != nil {
			ApplyAssistCounters(get(*ev.AssistPlayerID), sign)
		}
	}
}

// Replacing an event list must be equivalent to applying only the final list
// from a clean slate, regardless of what was recorded in between.
func TestReverseThenReapplyEqualsCleanReplay(t *testing.T) {
	first := []models.MatchEvent{
		{Type: models.EventGoal, Side: models.SideHome, PlayerID: "p1", AssistPlayerID: strPtr("p2"), Minute: 10},
		{Type: models.EventGoal, Side: models.SideHome, PlayerID: "p1", Minute: 55},
		{Type: models.EventRedCard, Side: models.SideAway, PlayerID: "p3", Minute: 80},
	}
	corrected := []models.MatchEvent{
		{Type: models.EventGoal, Side: models.SideHome, PlayerID: "p2", Minute: 10},
		{Type: models.EventYellowCard, Side: models.SideAway, PlayerID: "p3", Minute: 80},
	}

	ledger := map[string]*models.PlayerSeasonStat{}
	foldEvents(ledger, first, 1)
	foldEvents(ledger, first, -1)
	foldEvents(ledger, corrected, 1)

	clean := map[string]*models.PlayerSeasonStat{}
	foldEvents(clean, corrected, 1)

	for id, want := range clean {
		require.NotNil(t, ledger[id])
		assert.Equal(t, *want, *ledger[id], "player %s", id)
	}
	// Players touched only by the replaced list must be back to zero.
	if got, ok := ledger["p1"]; ok {
		assert.Equal(t, models.PlayerSeasonStat{PlayerID: "p1"}, *got)
	}
}
