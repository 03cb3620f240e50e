package models

import "gorm.io/gorm"

// Record names checked by the settlement hooks.
const (
	RecordLongestStreak   = "longest_win_streak"
	RecordBiggestWin      = "biggest_single_win"
	RecordBiggestParlay   = "biggest_parlay_multiplier"
	RecordMostFuturesWins = "most_futures_wins"
)

type Record struct {
	gorm.Model
	ID           uint   `gorm:"primaryKey"`
	Name         string `gorm:"uniqueIndex; size:64"`
	HolderUserID uint
	Value        float64
	Detail       string
}

type RecordHistory struct {
	gorm.Model
	ID           uint   `gorm:"primaryKey"`
	RecordName   string `gorm:"index; size:64"`
	HolderUserID uint
	Value        float64
	Detail       string
}
