package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/auditionai/audition-studio/models"
	"github.com/auditionai/audition-studio/utils"
)

// TransactionController serves the user-facing ledger history.
type TransactionController struct {
	db *gorm.DB
}

// NewTransactionController creates a new controller instance.
func NewTransactionController(db *gorm.DB) *TransactionController {
	return &TransactionController{db: db}
}

// ListMine returns the authenticated user's ledger entries, newest first.
func (t *TransactionController) ListMine(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	page, size := parsePagination(ctx.Query("page"), ctx.Query("size"))

	var total int64
	if err := t.db.Model(&models.DiamondTransaction{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50040, "failed to count transactions")
		return
	}

	// id tie-breaker keeps entries written in the same instant (check-in plus
	// an immediate milestone claim) in stable reverse insertion order
	var entries []models.DiamondTransaction
	if err := t.db.Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Offset((page - 1) * size).
		Limit(size).
		Find(&entries).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50041, "failed to load transactions")
		return
	}

	utils.Success(ctx, gin.H{
		"items": entries,
		"page":  page,
		"size":  size,
		"total": total,
	})
}
