package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/auditionai/audition-studio/models"
	"github.com/auditionai/audition-studio/utils"
)

// RewardConfigController manages the admin-editable check-in reward catalog.
// No update-in-place: delete and recreate.
type RewardConfigController struct {
	db *gorm.DB
}

// NewRewardConfigController creates a new controller instance.
func NewRewardConfigController(db *gorm.DB) *RewardConfigController {
	return &RewardConfigController{db: db}
}

// Create adds a catalog entry. ConsecutiveDays is unique across the catalog.
func (r *RewardConfigController) Create(ctx *gin.Context) {
	var req struct {
		ConsecutiveDays int `json:"consecutive_days" binding:"required,min=1"`
		DiamondReward   int `json:"diamond_reward" binding:"min=0"`
		XPReward        int `json:"xp_reward" binding:"min=0"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40040, "invalid request payload")
		return
	}

	entry := models.CheckInRewardConfig{
		ConsecutiveDays: req.ConsecutiveDays,
		DiamondReward:   req.DiamondReward,
		XPReward:        req.XPReward,
		IsActive:        true,
	}
	if err := r.db.Create(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			utils.Error(ctx, http.StatusConflict, 40940, "a reward for this streak length already exists")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50050, "failed to create reward config")
		return
	}

	utils.Success(ctx, entry)
}

// List returns the catalog sorted ascending by streak length.
func (r *RewardConfigController) List(ctx *gin.Context) {
	var entries []models.CheckInRewardConfig
	if err := r.db.Order("consecutive_days ASC").Find(&entries).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50051, "failed to load reward configs")
		return
	}
	utils.Success(ctx, entries)
}

// Delete removes a catalog entry by id.
func (r *RewardConfigController) Delete(ctx *gin.Context) {
	id := ctx.Param("id")
	res := r.db.Delete(&models.CheckInRewardConfig{}, "id = ?", id)
	if res.Error != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50052, "failed to delete reward config")
		return
	}
	if res.RowsAffected == 0 {
		utils.Error(ctx, http.StatusNotFound, 40440, "reward config not found")
		return
	}
	utils.Success(ctx, gin.H{"message": "deleted"})
}
