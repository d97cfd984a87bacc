package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/auditionai/audition-studio/config"
	"github.com/auditionai/audition-studio/models"
	"github.com/auditionai/audition-studio/utils"
)

// MilestoneDays is the fixed allow-list of streak lengths eligible for a
// one-time bonus claim. Deliberately independent of the dynamic reward
// catalog: eligibility comes from here, payout amounts from the catalog.
var MilestoneDays = []int{7, 14, 30}

var (
	errAlreadyCheckedIn    = errors.New("already checked in today")
	errStreakTooShort      = errors.New("streak not reached")
	errRewardNotConfigured = errors.New("reward not configured")
	errAlreadyClaimed      = errors.New("milestone already claimed")
)

// CheckInController handles daily check-ins and milestone bonus claims.
// All calendar decisions run in the fixed application timezone.
type CheckInController struct {
	db  *gorm.DB
	now func() time.Time
}

// NewCheckInController creates a new controller instance.
func NewCheckInController(db *gorm.DB) *CheckInController {
	return &CheckInController{db: db, now: time.Now}
}

// Status reports whether the user has checked in today, plus current totals.
func (cc *CheckInController) Status(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var user models.User
	if err := cc.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40410, "user not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50031, "failed to load user")
		return
	}

	now := cc.now()
	checked := user.LastCheckInAt != nil && utils.SameLocalDay(*user.LastCheckInAt, now)

	utils.Success(ctx, gin.H{
		"hasCheckedInToday": checked,
		"consecutiveDays":   user.ConsecutiveCheckInDays,
		"diamonds":          user.Diamonds,
		"xp":                user.XP,
		"level":             utils.LevelForXP(user.XP),
	})
}

// CheckIn performs the once-per-local-day check-in: continues or resets the
// streak, credits the daily reward and appends a ledger entry, all in one
// transaction guarded by a conditional update on last_check_in_at.
func (cc *CheckInController) CheckIn(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	release, err := utils.LockUser(ctx.Request.Context(), "checkin", userID)
	if err != nil {
		utils.Error(ctx, http.StatusConflict, 40931, "check-in already in progress")
		return
	}
	defer release()

	now := cc.now()
	var newDiamonds, streak int

	err = cc.db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, userID).Error; err != nil {
			return err
		}

		if user.LastCheckInAt != nil && utils.SameLocalDay(*user.LastCheckInAt, now) {
			return errAlreadyCheckedIn
		}

		streak = 1
		occurrence := user.StreakOccurrence + 1
		if user.LastCheckInAt != nil && utils.IsLocalYesterday(*user.LastCheckInAt, now) {
			streak = user.ConsecutiveCheckInDays + 1
			occurrence = user.StreakOccurrence
		}

		diamonds, xp, err := dailyReward(tx, streak)
		if err != nil {
			return err
		}

		// The WHERE guard keeps the credit at-most-once per day even when two
		// requests race past the read above.
		res := tx.Model(&models.User{}).
			Where("id = ? AND (last_check_in_at IS NULL OR last_check_in_at < ?)", userID, utils.StartOfLocalDay(now)).
			Updates(map[string]interface{}{
				"diamonds":                  gorm.Expr("diamonds + ?", diamonds),
				"xp":                        gorm.Expr("xp + ?", xp),
				"consecutive_check_in_days": streak,
				"streak_occurrence":         occurrence,
				"last_check_in_at":          now,
				"updated_at":                now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errAlreadyCheckedIn
		}

		entry := models.DiamondTransaction{
			UserID:      userID,
			Amount:      diamonds,
			XPAmount:    xp,
			Type:        models.TxTypeDailyCheckIn,
			Description: fmt.Sprintf("Daily check-in, day %d", streak),
			CreatedAt:   now,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}

		newDiamonds = user.Diamonds + diamonds
		return nil
	})

	if err != nil {
		switch {
		case errors.Is(err, errAlreadyCheckedIn):
			utils.ErrorData(ctx, http.StatusConflict, 40930, "already checked in today", gin.H{"checkedIn": true})
		case errors.Is(err, gorm.ErrRecordNotFound):
			utils.Error(ctx, http.StatusNotFound, 40410, "user not found")
		default:
			utils.Sugar.Errorf("check-in failed user=%d err=%v", userID, err)
			utils.Error(ctx, http.StatusInternalServerError, 50030, "failed to record check-in")
		}
		return
	}

	utils.Success(ctx, gin.H{
		"message":          fmt.Sprintf("Checked in! Day %d of your streak.", streak),
		"newTotalDiamonds": newDiamonds,
		"consecutiveDays":  streak,
	})
}

// ClaimMilestone grants the one-time streak bonus for 7/14/30 days. The
// duplicate guard is the unique (user, days, occurrence) claim row, not a
// date-window lookback over the ledger.
func (cc *CheckInController) ClaimMilestone(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var req struct {
		MilestoneDays int `json:"milestoneDays" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40031, "invalid request payload")
		return
	}
	if !containsInt(MilestoneDays, req.MilestoneDays) {
		utils.Error(ctx, http.StatusBadRequest, 40032, "invalid milestone")
		return
	}

	release, err := utils.LockUser(ctx.Request.Context(), "milestone", userID)
	if err != nil {
		utils.Error(ctx, http.StatusConflict, 40931, "claim already in progress")
		return
	}
	defer release()

	now := cc.now()
	var newDiamonds int

	err = cc.db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, userID).Error; err != nil {
			return err
		}
		if user.ConsecutiveCheckInDays < req.MilestoneDays {
			return errStreakTooShort
		}

		var rc models.CheckInRewardConfig
		if err := tx.Where("consecutive_days = ? AND is_active = ?", req.MilestoneDays, true).First(&rc).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errRewardNotConfigured
			}
			return err
		}

		claim := models.MilestoneClaim{
			UserID:           userID,
			MilestoneDays:    req.MilestoneDays,
			StreakOccurrence: user.StreakOccurrence,
			CreatedAt:        now,
		}
		if err := tx.Create(&claim).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return errAlreadyClaimed
			}
			return err
		}

		if err := tx.Model(&models.User{}).Where("id = ?", userID).
			Updates(map[string]interface{}{
				"diamonds":   gorm.Expr("diamonds + ?", rc.DiamondReward),
				"xp":         gorm.Expr("xp + ?", rc.XPReward),
				"updated_at": now,
			}).Error; err != nil {
			return err
		}

		entry := models.DiamondTransaction{
			UserID:      userID,
			Amount:      rc.DiamondReward,
			XPAmount:    rc.XPReward,
			Type:        models.MilestoneTxType(req.MilestoneDays),
			Description: fmt.Sprintf("%d-day streak milestone bonus", req.MilestoneDays),
			CreatedAt:   now,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}

		newDiamonds = user.Diamonds + rc.DiamondReward
		return nil
	})

	if err != nil {
		switch {
		case errors.Is(err, errStreakTooShort):
			utils.Error(ctx, http.StatusForbidden, 40330, "streak not reached")
		case errors.Is(err, errRewardNotConfigured):
			utils.Error(ctx, http.StatusNotFound, 40430, "reward not configured for this milestone")
		case errors.Is(err, errAlreadyClaimed):
			utils.Error(ctx, http.StatusConflict, 40932, "milestone already claimed")
		case errors.Is(err, gorm.ErrRecordNotFound):
			utils.Error(ctx, http.StatusNotFound, 40410, "user not found")
		default:
			utils.Sugar.Errorf("milestone claim failed user=%d days=%d err=%v", userID, req.MilestoneDays, err)
			utils.Error(ctx, http.StatusInternalServerError, 50032, "failed to claim milestone")
		}
		return
	}

	utils.Success(ctx, gin.H{
		"success":     true,
		"message":     fmt.Sprintf("Milestone reward for %d consecutive days claimed!", req.MilestoneDays),
		"newDiamonds": newDiamonds,
	})
}

// dailyReward resolves the payout for a streak length: the highest active
// catalog threshold not exceeding it, or the configured default when the
// catalog has no match. Read failures other than not-found propagate so the
// surrounding transaction aborts instead of crediting a guessed amount.
func dailyReward(tx *gorm.DB, streak int) (diamonds, xp int, err error) {
	var rc models.CheckInRewardConfig
	err = tx.Where("consecutive_days <= ? AND is_active = ?", streak, true).
		Order("consecutive_days DESC").
		First(&rc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			cfg := config.Get()
			return cfg.DefaultCheckInDiamonds, cfg.DefaultCheckInXP, nil
		}
		return 0, 0, err
	}
	return rc.DiamondReward, rc.XPReward, nil
}
