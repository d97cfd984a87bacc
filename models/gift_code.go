package models

import "time"

// GiftCode is an admin-issued redeemable code crediting diamonds and XP.
type GiftCode struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	Code      string     `gorm:"size:64;uniqueIndex;not null" json:"code"`
	Diamonds  int        `gorm:"not null;default:0" json:"diamonds"`
	XP        int        `gorm:"column:xp;not null;default:0" json:"xp"`
	MaxUses   int        `gorm:"not null;default:1" json:"max_uses"`
	UsedCount int        `gorm:"not null;default:0" json:"used_count"`
	ExpiresAt *time.Time `json:"expires_at"`
	IsActive  bool       `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time  `json:"created_at"`
}

// GiftCodeRedemption ties a code to a user; the unique index makes
// redemption once-per-user regardless of request retries.
type GiftCodeRedemption struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	GiftCodeID uint      `gorm:"not null;uniqueIndex:idx_redeem_once,priority:1" json:"gift_code_id"`
	UserID     uint      `gorm:"not null;uniqueIndex:idx_redeem_once,priority:2" json:"user_id"`
	CreatedAt  time.Time `json:"created_at"`
}
