package models

import "time"

// UserModel is a journal owner. Accounts are created on first magic-link sign-in.
type UserModel struct {
	Base
	Email         string     `json:"email"           gorm:"uniqueIndex;size:191;not null"`
	Name          string     `json:"name"`
	LastLoginTime *time.Time `json:"last_login_time"`
	LastLoginIP   string     `json:"last_login_ip"`
}

func (UserModel) TableName() string { return "users" }
