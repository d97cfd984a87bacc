package models

import "time"

// Creation records one AI image generation: prompt, result URL and the
// diamond cost charged through the ledger. The generation call itself is made
// by an external relay; this row is the bookkeeping side.
type Creation struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uint      `gorm:"index;not null" json:"user_id"`
	Prompt       string    `gorm:"type:text;not null" json:"prompt"`
	ImageURL     string    `gorm:"size:1024" json:"image_url"`
	CostDiamonds int       `gorm:"not null;default:0" json:"cost_diamonds"`
	CreatedAt    time.Time `json:"created_at"`
}
