package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a studio member. Passwords are stored as bcrypt hashes only.
// Diamonds and XP are mutated exclusively through ledger-writing transactions;
// level is always derived from XP and never stored.
type User struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Username     string `gorm:"size:64;not null" json:"username"`
	Email        string `gorm:"size:255" json:"email"`
	PasswordHash string `gorm:"size:255" json:"-"`
	RegisterIP   string `gorm:"size:45" json:"register_ip"`
	AvatarURL    string `gorm:"size:512" json:"avatar_url"`
	Signature    string `gorm:"size:255" json:"signature"`

	Diamonds      int `gorm:"default:0" json:"diamonds"`
	XP            int `gorm:"column:xp;default:0" json:"xp"`
	CreationCount int `gorm:"default:0" json:"creation_count"`

	// Check-in streak state. StreakOccurrence increments each time the streak
	// restarts from 1 and keys the once-per-occurrence milestone claim guard.
	ConsecutiveCheckInDays int        `gorm:"default:0" json:"consecutive_check_in_days"`
	LastCheckInAt          *time.Time `json:"last_check_in_at"`
	StreakOccurrence       int        `gorm:"default:0" json:"-"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	Posts     []Post         `json:"-"`
	Comments  []Comment      `json:"-"`
}

// BeforeCreate hook ensures timestamps are set even when not provided.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	now := time.Now()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now
	return nil
}

// BeforeUpdate ensures the UpdatedAt timestamp is refreshed.
func (u *User) BeforeUpdate(tx *gorm.DB) error {
	u.UpdatedAt = time.Now()
	return nil
}
