package models

import "gorm.io/gorm"

const (
	FuturesOpen    = "open"
	FuturesSettled = "settled"
)

type FuturesMarket struct {
	gorm.Model
	ID         uint   `gorm:"primaryKey"`
	Sport      string `gorm:"index; size:64"`
	ProviderID string `gorm:"uniqueIndex; size:128"`
	MarketKey  string `gorm:"size:64"` // e.g. "championship_winner"
	Title      string
	Status     string `gorm:"index; size:16; default:open"`

	WinningOutcome *string
}

type FuturesPick struct {
	gorm.Model
	ID              uint          `gorm:"primaryKey"`
	UserID          uint          `gorm:"index"`
	User            User          `gorm:"foreignKey:UserID"`
	FuturesMarketID uint          `gorm:"index"`
	FuturesMarket   FuturesMarket `gorm:"foreignKey:FuturesMarketID"`

	PickedOutcome string

	// Futures lock at submission, so these are submission-time snapshots.
	Odds         int
	RiskPoints   int
	RewardPoints int

	Status       string `gorm:"index; size:16; default:locked"`
	IsCorrect    *bool
	PointsEarned int
}
