package models

import "time"

// Cosmetic item kinds.
const (
	CosmeticKindFrame      = "frame"
	CosmeticKindTitle      = "title"
	CosmeticKindNameEffect = "name_effect"
)

// CosmeticItem is a purchasable avatar frame, title or name effect, gated by
// level, streak and creation count in addition to its diamond price.
type CosmeticItem struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Name          string    `gorm:"size:128;not null" json:"name"`
	Kind          string    `gorm:"size:32;not null" json:"kind"`
	Description   string    `gorm:"size:255" json:"description"`
	PriceDiamonds int       `gorm:"not null;default:0" json:"price_diamonds"`
	MinLevel      int       `gorm:"not null;default:1" json:"min_level"`
	MinStreak     int       `gorm:"not null;default:0" json:"min_streak"`
	MinCreations  int       `gorm:"not null;default:0" json:"min_creations"`
	IsActive      bool      `gorm:"default:true" json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// UserCosmetic records ownership; a user buys each item at most once.
type UserCosmetic struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	UserID         uint      `gorm:"not null;uniqueIndex:idx_owned_once,priority:1" json:"user_id"`
	CosmeticItemID uint      `gorm:"not null;uniqueIndex:idx_owned_once,priority:2" json:"cosmetic_item_id"`
	CreatedAt      time.Time `json:"created_at"`
}
