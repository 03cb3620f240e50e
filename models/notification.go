package models

import "gorm.io/gorm"

type Notification struct {
	gorm.Model
	ID       uint   `gorm:"primaryKey"`
	UUID     string `gorm:"uniqueIndex; size:36"`
	UserID   uint   `gorm:"index"`
	Type     string `gorm:"size:64"`
	Message  string
	Metadata string // JSON blob, opaque to the pipeline
}
