package models

import "time"

// CheckInRewardConfig maps a streak length to its daily payout. Admin managed:
// create, list, delete. The unique index on ConsecutiveDays keeps the catalog
// unambiguous when resolving a streak to its nearest threshold.
type CheckInRewardConfig struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	ConsecutiveDays int       `gorm:"uniqueIndex;not null" json:"consecutive_days"`
	DiamondReward   int       `gorm:"not null;default:0" json:"diamond_reward"`
	XPReward        int       `gorm:"column:xp_reward;not null;default:0" json:"xp_reward"`
	IsActive        bool      `gorm:"default:true" json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
}

// MilestoneClaim records a one-time bonus claim for a streak occurrence.
// The unique index enforces at most one claim per (user, threshold,
// occurrence); re-reaching a threshold after a streak reset produces a new
// occurrence and is claimable again.
type MilestoneClaim struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	UserID           uint      `gorm:"not null;uniqueIndex:idx_claim_once,priority:1" json:"user_id"`
	MilestoneDays    int       `gorm:"not null;uniqueIndex:idx_claim_once,priority:2" json:"milestone_days"`
	StreakOccurrence int       `gorm:"not null;uniqueIndex:idx_claim_once,priority:3" json:"streak_occurrence"`
	CreatedAt        time.Time `json:"created_at"`
}
