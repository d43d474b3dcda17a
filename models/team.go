package models

import (
	"strings"
	"time"
)

// Team categories. The two groups are disjoint: a team belongs to exactly one.
const (
	CategoryPrimary   = "primary"
	CategorySecondary = "secondary"
)

// Team represents a club and its cumulative season record.
// The record fields are mutated only by the standings ledger and are
// reset to zero when a season is archived.
type Team struct {
	ID           string `json:"id" gorm:"primaryKey"`
	Name         string `json:"name" gorm:"not null;uniqueIndex"`
	Slug         string `json:"slug" gorm:"uniqueIndex"`
	CrestURL     string `json:"crest_url"`
	Category     string `json:"category" gorm:"type:varchar(16);default:'primary'"`
	Competitions string `json:"competitions"` // comma-separated tags, e.g. "league,cup"

	Played         int `json:"played" gorm:"default:0"`
	Won            int `json:"won" gorm:"default:0"`
	Drawn          int `json:"drawn" gorm:"default:0"`
	Lost           int `json:"lost" gorm:"default:0"`
	GoalsFor       int `json:"goals_for" gorm:"default:0"`
	GoalsAgainst   int `json:"goals_against" gorm:"default:0"`
	GoalDifference int `json:"goal_difference" gorm:"default:0"`
	Points         int `json:"points" gorm:"default:0"`
	// Form holds the last results, most recent first, capped at 3 (e.g. "WDL").
	Form string `json:"form" gorm:"size:3"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// Relationships
	Players []Player `json:"players,omitempty" gorm:"foreignKey:TeamID"`
}

// InCompetition reports whether the team is registered for the given competition tag.
func (t *Team) InCompetition(tag string) bool {
	for _, c := range strings.Split(t.Competitions, ",") {
		if strings.TrimSpace(c) == tag {
			return true
		}
	}
	return false
}

// ResetRecord zeroes the cumulative record ahead of a new season.
func (t *Team) ResetRecord() {
	t.Played = 0
	t.Won = 0
	t.Drawn = 0
	t.Lost = 0
	t.GoalsFor = 0
	t.GoalsAgainst = 0
	t.GoalDifference = 0
	t.Points = 0
	t.Form = ""
}

// Snapshot returns the minimal embedded identity stored in season archives,
// so history survives later team deletion or renaming.
func (t *Team) Snapshot() TeamSnapshot {
	return TeamSnapshot{
		ID:       t.ID,
		Name:     t.Name,
		Slug:     t.Slug,
		CrestURL: t.CrestURL,
	}
}

// TeamSnapshot is the minimal team identity embedded in archives.
type TeamSnapshot struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	CrestURL string `json:"crest_url,omitempty"`
}
