package models

import "gorm.io/gorm"

const (
	PropDraft     = "draft"
	PropPublished = "published"
	PropSettled   = "settled"
)

const (
	SideOver  = "over"
	SideUnder = "under"
)

type PropMarket struct {
	gorm.Model
	ID         uint `gorm:"primaryKey"`
	GameID     uint `gorm:"index"`
	Game       Game `gorm:"foreignKey:GameID"`
	PlayerName string
	MarketKey  string `gorm:"size:64"` // e.g. "player_points"
	Line       float64
	OverOdds   int
	UnderOdds  int
	Status     string `gorm:"index; size:16; default:draft"`

	// Filled by the prop result sync once the game is over; settlement
	// compares it against Line.
	ActualValue *float64
}

type PropPick struct {
	gorm.Model
	ID           uint       `gorm:"primaryKey"`
	UserID       uint       `gorm:"index"`
	User         User       `gorm:"foreignKey:UserID"`
	PropMarketID uint       `gorm:"index"`
	PropMarket   PropMarket `gorm:"foreignKey:PropMarketID"`

	Side         string `gorm:"size:8"` // "over" or "under"
	Odds         int
	RiskPoints   int
	RewardPoints int

	Status       string `gorm:"index; size:16; default:pending"`
	IsCorrect    *bool
	PointsEarned int
}
