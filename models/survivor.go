package models

import "gorm.io/gorm"

const (
	EntryAlive      = "alive"
	EntryEliminated = "eliminated"
)

type SurvivorPool struct {
	gorm.Model
	ID     uint   `gorm:"primaryKey"`
	Sport  string `gorm:"size:64"`
	Season string `gorm:"size:16"`
	Name   string
}

type SurvivorEntry struct {
	gorm.Model
	ID     uint         `gorm:"primaryKey"`
	PoolID uint         `gorm:"index"`
	Pool   SurvivorPool `gorm:"foreignKey:PoolID"`
	UserID uint         `gorm:"index"`
	User   User         `gorm:"foreignKey:UserID"`
	Status string       `gorm:"size:16; default:alive"`
}

type SurvivorPick struct {
	gorm.Model
	ID      uint          `gorm:"primaryKey"`
	EntryID uint          `gorm:"index"`
	Entry   SurvivorEntry `gorm:"foreignKey:EntryID"`
	GameID  uint          `gorm:"index"`
	Game    Game          `gorm:"foreignKey:GameID"`
	Week    int

	PickedTeam string `gorm:"size:8"`

	Status    string `gorm:"index; size:16; default:pending"`
	IsCorrect *bool // nil once settled means push; a push survives
}
