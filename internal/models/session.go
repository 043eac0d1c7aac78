package models

import "time"

// UserSession tracks a signed-in device. RefreshJTI is rotated on every
// token exchange so a refresh token can only be spent once.
type UserSession struct {
	Base
	UserID     string     `json:"user_id"    gorm:"index;not null"`
	RefreshJTI string     `json:"-"          gorm:"size:64;index"`
	IP         string     `json:"ip"`
	UA         string     `json:"ua"         gorm:"type:text"`
	ExpiresAt  time.Time  `json:"expires_at" gorm:"index;not null"`
	RevokedAt  *time.Time `json:"revoked_at" gorm:"index"`
}

func (UserSession) TableName() string { return "user_sessions" }
