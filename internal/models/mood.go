package models

import "time"

// MoodEntryModel is one submitted mood entry. Rows are insert-only.
type MoodEntryModel struct {
	Base
	UserID    string    `json:"user_id"   gorm:"index;not null"`
	Mood      string    `json:"mood"      gorm:"size:16;not null"`
	Note      string    `json:"note"      gorm:"type:text;not null"`
	Timestamp time.Time `json:"timestamp" gorm:"index;not null"`
}

func (MoodEntryModel) TableName() string { return "moods" }
