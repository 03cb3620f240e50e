package models

import "gorm.io/gorm"

type Parlay struct {
	gorm.Model
	ID     uint `gorm:"primaryKey"`
	UserID uint `gorm:"index"`
	User   User `gorm:"foreignKey:UserID"`

	RiskPoints int // flat stake, fixed per parlay

	// Product of the winning legs' locked multipliers. Only final once every
	// leg has resolved; nil until the parlay settles.
	CombinedMultiplier *float64
	RewardPoints       *int

	Status       string `gorm:"index; size:16; default:pending"`
	IsCorrect    *bool
	PointsEarned int
	Legs         []ParlayLeg
}

type ParlayLeg struct {
	gorm.Model
	ID       uint   `gorm:"primaryKey"`
	ParlayID uint   `gorm:"index"`
	Parlay   Parlay `gorm:"foreignKey:ParlayID"`
	GameID   uint   `gorm:"index"`
	Game     Game   `gorm:"foreignKey:GameID"`

	PickedTeam string `gorm:"size:8"`
	Odds       int

	// Decimal payout multiplier snapshotted at lock time.
	Multiplier *float64

	// pending -> locked -> won/lost/push
	Status string `gorm:"index; size:16; default:pending"`
}
