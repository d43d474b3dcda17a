package models

import "time"

// Player is a squad member of a single team. Display fields may be refreshed
// by the profile sync worker when the player is linked to an external profile.
type Player struct {
	ID         string  `json:"id" gorm:"primaryKey"`
	TeamID     string  `json:"team_id" gorm:"index;not null"`
	Name       string  `json:"name" gorm:"not null"`
	Position   string  `json:"position" gorm:"type:varchar(16)"` // GK, DEF, MID, FWD
	Number     int     `json:"number" gorm:"default:0"`
	PhotoURL   string  `json:"photo_url"`
	ExternalID *string `json:"external_id,omitempty" gorm:"uniqueIndex"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// PlayerSeasonStat accumulates per-player event counters for one season and
// one competition. Unique per (player, season, competition); mutated only via
// the statistics ledger's apply/reverse deltas, never by direct assignment.
type PlayerSeasonStat struct {
	ID             string `json:"id" gorm:"primaryKey"`
	PlayerID       string `json:"player_id" gorm:"not null;index;uniqueIndex:idx_player_season_comp"`
	TeamID         string `json:"team_id" gorm:"index;not null"`
	SeasonNumber   int    `json:"season_number" gorm:"not null;uniqueIndex:idx_player_season_comp"`
	CompetitionTag string `json:"competition" gorm:"type:varchar(16);not null;uniqueIndex:idx_player_season_comp"`

	Goals       int `json:"goals" gorm:"default:0"`
	Assists     int `json:"assists" gorm:"default:0"`
	CleanSheets int `json:"clean_sheets" gorm:"default:0"`
	YellowCards int `json:"yellow_cards" gorm:"default:0"`
	RedCards    int `json:"red_cards" gorm:"default:0"`
	OwnGoals    int `json:"own_goals" gorm:"default:0"`

	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}
