package models

import "time"

// Announcement is admin-authored notice content shown to all users.
// HTML is sanitized before storage.
type Announcement struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	IsActive  bool      `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreditPackage describes a purchasable diamond bundle. Payment processing is
// handled by an external relay; only the catalog lives here.
type CreditPackage struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Name       string    `gorm:"size:128;not null" json:"name"`
	Diamonds   int       `gorm:"not null" json:"diamonds"`
	Bonus      int       `gorm:"not null;default:0" json:"bonus"`
	PriceCents int       `gorm:"not null" json:"price_cents"`
	IsActive   bool      `gorm:"default:true" json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
}
