package controllers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/auditionai/audition-studio/models"
	"github.com/auditionai/audition-studio/utils"
)

const (
	leaderboardCacheKey = "cache:leaderboard"
	leaderboardSize     = 20
	leaderboardTTL      = 5 * time.Minute
)

// StatsController provides the public leaderboard and admin statistics.
type StatsController struct {
	db *gorm.DB
}

// NewStatsController creates a new StatsController instance.
func NewStatsController(db *gorm.DB) *StatsController {
	return &StatsController{db: db}
}

type leaderboardEntry struct {
	ID            uint   `json:"id"`
	Username      string `json:"username"`
	AvatarURL     string `json:"avatar_url"`
	Diamonds      int    `json:"diamonds"`
	XP            int    `gorm:"column:xp" json:"xp"`
	Level         int    `gorm:"-" json:"level"`
	CreationCount int    `json:"creation_count"`
}

type leaderboardPayload struct {
	ByDiamonds []leaderboardEntry `json:"by_diamonds"`
	ByXP       []leaderboardEntry `json:"by_xp"`
}

// GetLeaderboard returns top users by diamonds and by XP, redis-cached.
func (s *StatsController) GetLeaderboard(ctx *gin.Context) {
	if b, ok := utils.CacheGetBytes(leaderboardCacheKey); ok {
		var cached leaderboardPayload
		if err := json.Unmarshal(b, &cached); err == nil {
			utils.Success(ctx, cached)
			return
		}
	}

	payload, err := buildLeaderboard(s.db)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50110, "failed to load leaderboard")
		return
	}

	utils.CacheSetJSON(leaderboardCacheKey, payload, leaderboardTTL)
	utils.Success(ctx, payload)
}

// GetStats returns aggregate statistics for the admin panel.
func (s *StatsController) GetStats(ctx *gin.Context) {
	var userCount, creationCount, postCount, dailyActive int64
	var diamondsIssued, diamondsSpent int64

	if err := s.db.Model(&models.User{}).Count(&userCount).Error; err != nil {
		userCount = 0
	}
	if err := s.db.Model(&models.Creation{}).Count(&creationCount).Error; err != nil {
		creationCount = 0
	}
	if err := s.db.Model(&models.Post{}).Count(&postCount).Error; err != nil {
		postCount = 0
	}

	// DAU from the activity table, same local-day rules as check-ins
	today := utils.StartOfLocalDay(time.Now())
	if err := s.db.Model(&models.DailyActive{}).Where("date = ?", today).Count(&dailyActive).Error; err != nil {
		dailyActive = 0
	}

	if err := s.db.Model(&models.DiamondTransaction{}).
		Where("amount > 0").
		Select("COALESCE(SUM(amount),0)").
		Scan(&diamondsIssued).Error; err != nil {
		diamondsIssued = 0
	}
	if err := s.db.Model(&models.DiamondTransaction{}).
		Where("amount < 0").
		Select("COALESCE(-SUM(amount),0)").
		Scan(&diamondsSpent).Error; err != nil {
		diamondsSpent = 0
	}

	utils.Success(ctx, gin.H{
		"user_count":         userCount,
		"creation_count":     creationCount,
		"post_count":         postCount,
		"daily_active_count": dailyActive,
		"diamonds_issued":    diamondsIssued,
		"diamonds_spent":     diamondsSpent,
	})
}

func buildLeaderboard(db *gorm.DB) (leaderboardPayload, error) {
	var payload leaderboardPayload

	if err := db.Model(&models.User{}).
		Order("diamonds DESC").
		Limit(leaderboardSize).
		Find(&payload.ByDiamonds).Error; err != nil {
		return payload, err
	}
	if err := db.Model(&models.User{}).
		Order("xp DESC").
		Limit(leaderboardSize).
		Find(&payload.ByXP).Error; err != nil {
		return payload, err
	}

	for i := range payload.ByDiamonds {
		payload.ByDiamonds[i].Level = utils.LevelForXP(payload.ByDiamonds[i].XP)
	}
	for i := range payload.ByXP {
		payload.ByXP[i].Level = utils.LevelForXP(payload.ByXP[i].XP)
	}
	return payload, nil
}

// RefreshLeaderboardCache rebuilds the cached leaderboard. Called from cron.
func RefreshLeaderboardCache(db *gorm.DB) error {
	payload, err := buildLeaderboard(db)
	if err != nil {
		return err
	}
	utils.CacheSetJSON(leaderboardCacheKey, payload, leaderboardTTL)
	return nil
}
