package models

import "gorm.io/gorm"

type UserSportStats struct {
	gorm.Model
	ID     uint   `gorm:"primaryKey"`
	UserID uint   `gorm:"uniqueIndex:user_sport_idx"`
	Sport  string `gorm:"uniqueIndex:user_sport_idx; size:64"`

	Wins   int
	Losses int
	Pushes int

	CurrentStreak int
	LongestStreak int
}

// StreakEvent rows are appended at milestones (streak >= 5 and a multiple of
// 5) and feed the record calculators and the social feed.
type StreakEvent struct {
	gorm.Model
	ID           uint   `gorm:"primaryKey"`
	UserID       uint   `gorm:"index"`
	Sport        string `gorm:"size:64"`
	StreakLength int
}
