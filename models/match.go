package models

import "time"

// Competition tags.
const (
	CompetitionLeague   = "league"
	CompetitionCup      = "cup"
	CompetitionSuperCup = "super-cup"
	CompetitionSeries   = "secondary" // best-of-five series
)

// Match stages.
const (
	StageGroup     = "group"
	StageSemiFinal = "semi-final"
	StageFinal     = "final"
)

// Match event types.
const (
	EventGoal       = "goal"
	EventCleanSheet = "clean_sheet"
	EventYellowCard = "yellow_card"
	EventRedCard    = "red_card"
)

// Event sides.
const (
	SideHome = "home"
	SideAway = "away"
)

// Match is a single fixture. Scores are nil until a result is recorded;
// Played is true iff both scores are set. Publication is independent of play
// and gates public visibility only.
type Match struct {
	ID             string `json:"id" gorm:"primaryKey"`
	CompetitionTag string `json:"competition" gorm:"type:varchar(16);index;not null"`
	Stage          string `json:"stage" gorm:"type:varchar(16);default:'group'"`
	HomeTeamID     string `json:"home_team_id" gorm:"index;not null"`
	AwayTeamID     string `json:"away_team_id" gorm:"index;not null"`

	HomeScore *int `json:"home_score,omitempty"`
	AwayScore *int `json:"away_score,omitempty"`
	HomePens  *int `json:"home_pens,omitempty"`
	AwayPens  *int `json:"away_pens,omitempty"`

	Matchweek int        `json:"matchweek" gorm:"default:0"`
	KickoffAt time.Time  `json:"kickoff_at"`
	Played    bool       `json:"played" gorm:"default:false"`
	Published bool       `json:"published" gorm:"default:false"`
	PublishAt *time.Time `json:"publish_at,omitempty" gorm:"index"`

	// Super-cup only: the cup slot is held by a runner-up standing in for a
	// double winner. Display metadata; does not affect progression.
	CupRunnerUpUsed bool `json:"cup_runner_up_used" gorm:"default:false"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// Relationships
	HomeTeam Team         `json:"home_team,omitempty" gorm:"foreignKey:HomeTeamID"`
	AwayTeam Team         `json:"away_team,omitempty" gorm:"foreignKey:AwayTeamID"`
	Events   []MatchEvent `json:"events,omitempty" gorm:"foreignKey:MatchID"`
}

// HasResult reports whether both scores are recorded.
func (m *Match) HasResult() bool {
	return m.HomeScore != nil && m.AwayScore != nil
}

// HasPenalties reports whether a penalty shoot-out result is recorded.
func (m *Match) HasPenalties() bool {
	return m.HomePens != nil && m.AwayPens != nil
}

// MatchEvent is a single in-match occurrence attributed to a player of one of
// the two competing teams.
type MatchEvent struct {
	ID             string  `json:"id" gorm:"primaryKey"`
	MatchID        string  `json:"match_id" gorm:"index;not null"`
	Type           string  `json:"type" gorm:"type:varchar(16);not null"`
	Side           string  `json:"side" gorm:"type:varchar(8);not null"`
	PlayerID       string  `json:"player_id" gorm:"index;not null"`
	AssistPlayerID *string `json:"assist_player_id,omitempty"`
	OwnGoal        bool    `json:"own_goal" gorm:"default:false"`
	Minute         int     `json:"minute" gorm:"default:0"`
}
