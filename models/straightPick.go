package models

import "gorm.io/gorm"

type StraightPick struct {
	gorm.Model
	ID         uint `gorm:"primaryKey"`
	UserID     uint `gorm:"index"`
	User       User `gorm:"foreignKey:UserID"`
	GameID     uint `gorm:"index"`
	Game       Game `gorm:"foreignKey:GameID"`
	PickedTeam string `gorm:"size:8"` // "home" or "away"

	// Snapshotted when the pick locks; the only values used to compute payout.
	Odds         int // American odds
	RiskPoints   int
	RewardPoints int

	Status       string `gorm:"index; size:16; default:pending"`
	IsCorrect    *bool  // nil once settled means push
	PointsEarned int
}
