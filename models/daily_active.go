package models

import "time"

// DailyActive stores one row per (day, user) for daily-active-user stats.
// Rows are upserted by middleware on authenticated requests.
type DailyActive struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Date      time.Time `gorm:"index:idx_dau_date_user,unique;type:date;not null" json:"date"`
	UserID    uint      `gorm:"index:idx_dau_date_user,unique;not null" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}
