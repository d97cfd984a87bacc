package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/auditionai/audition-studio/models"
	"github.com/auditionai/audition-studio/utils"
)

var (
	errCodeExhausted = errors.New("gift code exhausted or inactive")
	errCodeRedeemed  = errors.New("gift code already redeemed")
)

// GiftCodeController manages admin-issued redeemable codes.
type GiftCodeController struct {
	db  *gorm.DB
	now func() time.Time
}

// NewGiftCodeController creates a new controller instance.
func NewGiftCodeController(db *gorm.DB) *GiftCodeController {
	return &GiftCodeController{db: db, now: time.Now}
}

// Create issues a new gift code. When no code string is supplied one is
// derived from a UUID.
func (g *GiftCodeController) Create(ctx *gin.Context) {
	var req struct {
		Code      string     `json:"code"`
		Diamonds  int        `json:"diamonds" binding:"min=0"`
		XP        int        `json:"xp" binding:"min=0"`
		MaxUses   int        `json:"max_uses"`
		ExpiresAt *time.Time `json:"expires_at"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40050, "invalid request payload")
		return
	}
	if req.Diamonds == 0 && req.XP == 0 {
		utils.Error(ctx, http.StatusBadRequest, 40051, "gift code must grant diamonds or xp")
		return
	}

	code := strings.ToUpper(strings.TrimSpace(req.Code))
	if code == "" {
		code = strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:16])
	}
	maxUses := req.MaxUses
	if maxUses < 1 {
		maxUses = 1
	}

	gc := models.GiftCode{
		Code:      code,
		Diamonds:  req.Diamonds,
		XP:        req.XP,
		MaxUses:   maxUses,
		ExpiresAt: req.ExpiresAt,
		IsActive:  true,
	}
	if err := g.db.Create(&gc).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			utils.Error(ctx, http.StatusConflict, 40950, "code already exists")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50060, "failed to create gift code")
		return
	}

	utils.Success(ctx, gc)
}

// List returns all gift codes, newest first.
func (g *GiftCodeController) List(ctx *gin.Context) {
	page, size := parsePagination(ctx.Query("page"), ctx.Query("size"))

	var codes []models.GiftCode
	if err := g.db.Order("created_at DESC").
		Offset((page - 1) * size).
		Limit(size).
		Find(&codes).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50061, "failed to load gift codes")
		return
	}
	utils.Success(ctx, codes)
}

// Deactivate disables a gift code without deleting its redemption history.
func (g *GiftCodeController) Deactivate(ctx *gin.Context) {
	id := ctx.Param("id")
	res := g.db.Model(&models.GiftCode{}).Where("id = ?", id).Update("is_active", false)
	if res.Error != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50062, "failed to deactivate gift code")
		return
	}
	if res.RowsAffected == 0 {
		utils.Error(ctx, http.StatusNotFound, 40450, "gift code not found")
		return
	}
	utils.Success(ctx, gin.H{"message": "deactivated"})
}

// Redeem credits a code's diamonds and XP to the caller, once per user per
// code, atomically with a used_count guard and a ledger entry.
func (g *GiftCodeController) Redeem(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var req struct {
		Code string `json:"code" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40052, "invalid request payload")
		return
	}
	code := strings.ToUpper(strings.TrimSpace(req.Code))

	now := g.now()
	var granted models.GiftCode

	err := g.db.Transaction(func(tx *gorm.DB) error {
		var gc models.GiftCode
		if err := tx.Where("code = ?", code).First(&gc).Error; err != nil {
			return err
		}
		if !gc.IsActive || (gc.ExpiresAt != nil && gc.ExpiresAt.Before(now)) {
			return errCodeExhausted
		}

		redemption := models.GiftCodeRedemption{GiftCodeID: gc.ID, UserID: userID, CreatedAt: now}
		if err := tx.Create(&redemption).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return errCodeRedeemed
			}
			return err
		}

		// used_count guard keeps concurrent redeemers within max_uses.
		res := tx.Model(&models.GiftCode{}).
			Where("id = ? AND used_count < max_uses", gc.ID).
			Update("used_count", gorm.Expr("used_count + 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errCodeExhausted
		}

		if err := tx.Model(&models.User{}).Where("id = ?", userID).
			Updates(map[string]interface{}{
				"diamonds":   gorm.Expr("diamonds + ?", gc.Diamonds),
				"xp":         gorm.Expr("xp + ?", gc.XP),
				"updated_at": now,
			}).Error; err != nil {
			return err
		}

		entry := models.DiamondTransaction{
			UserID:      userID,
			Amount:      gc.Diamonds,
			XPAmount:    gc.XP,
			Type:        models.TxTypeGiftCode,
			Description: fmt.Sprintf("Gift code %s redeemed", gc.Code),
			CreatedAt:   now,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}

		granted = gc
		return nil
	})

	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			utils.Error(ctx, http.StatusNotFound, 40451, "gift code not found")
		case errors.Is(err, errCodeExhausted):
			utils.Error(ctx, http.StatusConflict, 40951, "gift code expired or exhausted")
		case errors.Is(err, errCodeRedeemed):
			utils.Error(ctx, http.StatusConflict, 40952, "gift code already redeemed")
		default:
			utils.Sugar.Errorf("gift code redeem failed user=%d code=%s err=%v", userID, code, err)
			utils.Error(ctx, http.StatusInternalServerError, 50063, "failed to redeem gift code")
		}
		return
	}

	utils.Success(ctx, gin.H{
		"message":  "gift code redeemed",
		"diamonds": granted.Diamonds,
		"xp":       granted.XP,
	})
}

// DeactivateExpired disables all active codes whose expiry has passed.
// Called from the daily cron sweep.
func DeactivateExpiredGiftCodes(db *gorm.DB) (int64, error) {
	res := db.Model(&models.GiftCode{}).
		Where("is_active = ? AND expires_at IS NOT NULL AND expires_at < ?", true, time.Now()).
		Update("is_active", false)
	return res.RowsAffected, res.Error
}
