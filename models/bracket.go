package models

import "gorm.io/gorm"

const (
	MatchupOpen    = "open"
	MatchupDecided = "decided"
)

type BracketMatchup struct {
	gorm.Model
	ID       uint `gorm:"primaryKey"`
	Round    int
	Slot     int
	HomeTeam string
	AwayTeam string
	GameID   *uint `gorm:"index"`

	// Winning team name, advanced into the next round when decided.
	Winner *string
	Status string `gorm:"size:16; default:open"`
}
