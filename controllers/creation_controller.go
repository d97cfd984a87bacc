package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/auditionai/audition-studio/config"
	"github.com/auditionai/audition-studio/models"
	"github.com/auditionai/audition-studio/utils"
)

// CreationController records AI image generations: the diamond cost is
// charged through the ledger and a small XP reward granted. The generation
// call itself happens in an external relay; this is the bookkeeping boundary.
type CreationController struct {
	db  *gorm.DB
	now func() time.Time
}

// NewCreationController creates a new controller instance.
func NewCreationController(db *gorm.DB) *CreationController {
	return &CreationController{db: db, now: time.Now}
}

// Create charges the generation cost and records the creation.
func (c *CreationController) Create(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var req struct {
		Prompt   string `json:"prompt" binding:"required"`
		ImageURL string `json:"image_url"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40070, "invalid request payload")
		return
	}
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		utils.Error(ctx, http.StatusBadRequest, 40071, "prompt must not be empty")
		return
	}

	cfg := config.Get()
	now := c.now()
	var creation models.Creation
	var newDiamonds int

	err := c.db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, userID).Error; err != nil {
			return err
		}

		res := tx.Model(&models.User{}).
			Where("id = ? AND diamonds >= ?", userID, cfg.GenerationCostDiamonds).
			Updates(map[string]interface{}{
				"diamonds":       gorm.Expr("diamonds - ?", cfg.GenerationCostDiamonds),
				"xp":             gorm.Expr("xp + ?", cfg.GenerationRewardXP),
				"creation_count": gorm.Expr("creation_count + 1"),
				"updated_at":     now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errInsufficientBalance
		}

		creation = models.Creation{
			UserID:       userID,
			Prompt:       prompt,
			ImageURL:     strings.TrimSpace(req.ImageURL),
			CostDiamonds: cfg.GenerationCostDiamonds,
			CreatedAt:    now,
		}
		if err := tx.Create(&creation).Error; err != nil {
			return err
		}

		entry := models.DiamondTransaction{
			UserID:      userID,
			Amount:      -cfg.GenerationCostDiamonds,
			XPAmount:    cfg.GenerationRewardXP,
			Type:        models.TxTypeGenerationCost,
			Description: "AI image generation",
			CreatedAt:   now,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}

		newDiamonds = user.Diamonds - cfg.GenerationCostDiamonds
		return nil
	})

	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			utils.Error(ctx, http.StatusNotFound, 40410, "user not found")
		case errors.Is(err, errInsufficientBalance):
			utils.Error(ctx, http.StatusForbidden, 40370, "insufficient diamonds")
		default:
			utils.Sugar.Errorf("creation failed user=%d err=%v", userID, err)
			utils.Error(ctx, http.StatusInternalServerError, 50080, "failed to record creation")
		}
		return
	}

	utils.Success(ctx, gin.H{
		"creation":     creation,
		"new_diamonds": newDiamonds,
	})
}

// ListMine returns the caller's creations, newest first.
func (c *CreationController) ListMine(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	page, size := parsePagination(ctx.Query("page"), ctx.Query("size"))

	var creations []models.Creation
	if err := c.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset((page - 1) * size).
		Limit(size).
		Find(&creations).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50081, "failed to load creations")
		return
	}

	utils.Success(ctx, creations)
}
