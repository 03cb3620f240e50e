package models

import (
	"gorm.io/gorm"
	"time"
)

const (
	GameUpcoming = "upcoming"
	GameLive     = "live"
	GameFinal    = "final"
)

const (
	WinnerHome = "home"
	WinnerAway = "away"
)

type Game struct {
	gorm.Model
	ID         uint   `gorm:"primaryKey"`
	Sport      string `gorm:"index; size:64"`
	ProviderID string `gorm:"uniqueIndex; size:128"`
	HomeTeam   string
	AwayTeam   string
	StartsAt   time.Time
	Status     string `gorm:"index; size:16; default:upcoming"`

	// Live display only, written by the scoreboard feed. Never used for settlement.
	LiveHomeScore *int
	LiveAwayScore *int
	Period        *string
	Clock         *string

	HomeScore *int
	AwayScore *int
	Winner    *string `gorm:"size:8"` // "home", "away", nil = push
}
