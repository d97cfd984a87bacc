package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/auditionai/audition-studio/models"
	"github.com/auditionai/audition-studio/utils"
)

var (
	errGateNotMet          = errors.New("unlock requirements not met")
	errInsufficientBalance = errors.New("insufficient diamonds")
	errAlreadyOwned        = errors.New("item already owned")
)

// ShopController sells cosmetic items (frames, titles, name effects) gated by
// level, streak and creation count.
type ShopController struct {
	db  *gorm.DB
	now func() time.Time
}

// NewShopController creates a new controller instance.
func NewShopController(db *gorm.DB) *ShopController {
	return &ShopController{db: db, now: time.Now}
}

// ListItems returns active items with per-user unlock state when authenticated.
func (s *ShopController) ListItems(ctx *gin.Context) {
	var items []models.CosmeticItem
	if err := s.db.Where("is_active = ?", true).Order("price_diamonds ASC").Find(&items).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50070, "failed to load shop items")
		return
	}
	utils.Success(ctx, items)
}

// ListOwned returns the caller's purchased cosmetics.
func (s *ShopController) ListOwned(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var owned []models.UserCosmetic
	if err := s.db.Where("user_id = ?", userID).Find(&owned).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50071, "failed to load owned cosmetics")
		return
	}
	utils.Success(ctx, owned)
}

// Purchase checks gates, spends diamonds through the ledger and records
// ownership, all atomically. The diamonds >= price guard keeps balances
// non-negative under concurrent spends.
func (s *ShopController) Purchase(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var req struct {
		ItemID uint `json:"item_id" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40060, "invalid request payload")
		return
	}

	now := s.now()
	var item models.CosmeticItem

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND is_active = ?", req.ItemID, true).First(&item).Error; err != nil {
			return err
		}

		var user models.User
		if err := tx.First(&user, userID).Error; err != nil {
			return err
		}

		if utils.LevelForXP(user.XP) < item.MinLevel ||
			user.ConsecutiveCheckInDays < item.MinStreak ||
			user.CreationCount < item.MinCreations {
			return errGateNotMet
		}

		ownership := models.UserCosmetic{UserID: userID, CosmeticItemID: item.ID, CreatedAt: now}
		if err := tx.Create(&ownership).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return errAlreadyOwned
			}
			return err
		}

		res := tx.Model(&models.User{}).
			Where("id = ? AND diamonds >= ?", userID, item.PriceDiamonds).
			Updates(map[string]interface{}{
				"diamonds":   gorm.Expr("diamonds - ?", item.PriceDiamonds),
				"updated_at": now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errInsufficientBalance
		}

		entry := models.DiamondTransaction{
			UserID:      userID,
			Amount:      -item.PriceDiamonds,
			Type:        models.TxTypeShopPurchase,
			Description: fmt.Sprintf("Purchased %s '%s'", item.Kind, item.Name),
			CreatedAt:   now,
		}
		return tx.Create(&entry).Error
	})

	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			utils.Error(ctx, http.StatusNotFound, 40460, "item not found")
		case errors.Is(err, errGateNotMet):
			utils.Error(ctx, http.StatusForbidden, 40360, "unlock requirements not met")
		case errors.Is(err, errAlreadyOwned):
			utils.Error(ctx, http.StatusConflict, 40960, "item already owned")
		case errors.Is(err, errInsufficientBalance):
			utils.Error(ctx, http.StatusForbidden, 40361, "insufficient diamonds")
		default:
			utils.Sugar.Errorf("shop purchase failed user=%d item=%d err=%v", userID, req.ItemID, err)
			utils.Error(ctx, http.StatusInternalServerError, 50072, "failed to purchase item")
		}
		return
	}

	utils.Success(ctx, gin.H{
		"message": fmt.Sprintf("'%s' unlocked", item.Name),
		"item_id": item.ID,
	})
}

// CreateItem adds a cosmetic item (admin).
func (s *ShopController) CreateItem(ctx *gin.Context) {
	var req struct {
		Name          string `json:"name" binding:"required"`
		Kind          string `json:"kind" binding:"required,oneof=frame title name_effect"`
		Description   string `json:"description"`
		PriceDiamonds int    `json:"price_diamonds" binding:"min=0"`
		MinLevel      int    `json:"min_level" binding:"min=0"`
		MinStreak     int    `json:"min_streak" binding:"min=0"`
		MinCreations  int    `json:"min_creations" binding:"min=0"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40061, "invalid request payload")
		return
	}

	item := models.CosmeticItem{
		Name:          req.Name,
		Kind:          req.Kind,
		Description:   req.Description,
		PriceDiamonds: req.PriceDiamonds,
		MinLevel:      maxInt(req.MinLevel, 1),
		MinStreak:     req.MinStreak,
		MinCreations:  req.MinCreations,
		IsActive:      true,
	}
	if err := s.db.Create(&item).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50073, "failed to create item")
		return
	}
	utils.Success(ctx, item)
}

// DeactivateItem removes an item from sale without revoking ownership.
func (s *ShopController) DeactivateItem(ctx *gin.Context) {
	id := ctx.Param("id")
	res := s.db.Model(&models.CosmeticItem{}).Where("id = ?", id).Update("is_active", false)
	if res.Error != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50074, "failed to deactivate item")
		return
	}
	if res.RowsAffected == 0 {
		utils.Error(ctx, http.StatusNotFound, 40461, "item not found")
		return
	}
	utils.Success(ctx, gin.H{"message": "deactivated"})
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
