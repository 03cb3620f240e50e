package models

import "gorm.io/gorm"

type User struct {
	gorm.Model
	ID          uint   `gorm:"primaryKey"`
	ExternalID  string `gorm:"uniqueIndex; size:64"`
	Username    *string
	TotalPoints int
}
