package models

import "time"

// Season is both the "currently active season" singleton (IsActive=true, no
// snapshots yet) and, once archived, an immutable historical record. Season
// numbers are unique and strictly increasing. Archived rows are never mutated;
// deletion is an explicit administrative action.
type Season struct {
	ID         string     `json:"id" gorm:"primaryKey"`
	Number     int        `json:"number" gorm:"uniqueIndex;not null"`
	IsActive   bool       `json:"is_active" gorm:"default:false"`
	StartedAt  time.Time  `json:"started_at"`
	ArchivedAt *time.Time `json:"archived_at,omitempty"`

	// Embedded snapshots, serialized JSON. Standings and match history are
	// embedded rather than referenced so the archive survives later team
	// mutation or deletion.
	StandingsJSON string `json:"-" gorm:"type:text"`
	MatchesJSON   string `json:"-" gorm:"type:text"`
	WinnersJSON   string `json:"-" gorm:"type:text"`
}

// StandingSnapshot is one row of an archived league table.
type StandingSnapshot struct {
	Position       int          `json:"position"`
	Team           TeamSnapshot `json:"team"`
	Played         int          `json:"played"`
	Won            int          `json:"won"`
	Drawn          int          `json:"drawn"`
	Lost           int          `json:"lost"`
	GoalsFor       int          `json:"goals_for"`
	GoalsAgainst   int          `json:"goals_against"`
	GoalDifference int          `json:"goal_difference"`
	Points         int          `json:"points"`
	Form           string       `json:"form"`
}

// MatchSnapshot is one archived fixture with team identity embedded.
type MatchSnapshot struct {
	ID             string       `json:"id"`
	CompetitionTag string       `json:"competition"`
	Stage          string       `json:"stage"`
	Home           TeamSnapshot `json:"home"`
	Away           TeamSnapshot `json:"away"`
	HomeScore      *int         `json:"home_score,omitempty"`
	AwayScore      *int         `json:"away_score,omitempty"`
	HomePens       *int         `json:"home_pens,omitempty"`
	AwayPens       *int         `json:"away_pens,omitempty"`
	Matchweek      int          `json:"matchweek"`
	KickoffAt      time.Time    `json:"kickoff_at"`
	Played         bool         `json:"played"`
	Events         []MatchEvent `json:"events,omitempty"`
}

// CompetitionWinners records the trophy holders of an archived season.
type CompetitionWinners struct {
	League   *TeamSnapshot `json:"league,omitempty"`
	Cup      *TeamSnapshot `json:"cup,omitempty"`
	SuperCup *TeamSnapshot `json:"super_cup,omitempty"`
	Series   *TeamSnapshot `json:"secondary,omitempty"`
	// Display metadata carried over from the super-cup fixture.
	CupRunnerUpUsed bool `json:"cup_runner_up_used,omitempty"`
}
