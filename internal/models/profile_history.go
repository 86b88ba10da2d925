package models

import (
	"time"

	"gorm.io/gorm"
)

// ProfileHistory records each biometric field change so target
// recalculations can be traced back to the profile edit that caused
// them.
type ProfileHistory struct {
	gorm.Model
	UserID    string    `gorm:"index;not null"`
	Field     string    `gorm:"not null"` // The field that was changed
	OldValue  string    `gorm:"type:text"`
	NewValue  string    `gorm:"type:text"`
	ChangedAt time.Time `gorm:"not null"`
}

// TableName specifies the table name for ProfileHistory
func (ProfileHistory) TableName() string {
	return "profile_history"
}
