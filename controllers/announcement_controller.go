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

const announcementCacheKey = "cache:announcements:active"

// AnnouncementController serves admin-authored notices. The public list is
// redis-cached; writes invalidate the cache.
type AnnouncementController struct {
	db *gorm.DB
}

// NewAnnouncementController creates a new controller instance.
func NewAnnouncementController(db *gorm.DB) *AnnouncementController {
	return &AnnouncementController{db: db}
}

// ListActive returns active announcements, newest first.
func (a *AnnouncementController) ListActive(ctx *gin.Context) {
	if b, ok := utils.CacheGetBytes(announcementCacheKey); ok {
		var cached []models.Announcement
		if err := json.Unmarshal(b, &cached); err == nil {
			utils.Success(ctx, cached)
			return
		}
	}

	var items []models.Announcement
	if err := a.db.Where("is_active = ?", true).Order("created_at DESC").Find(&items).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50090, "failed to load announcements")
		return
	}

	utils.CacheSetJSON(announcementCacheKey, items, 10*time.Minute)
	utils.Success(ctx, items)
}

// Create stores a sanitized announcement (admin).
func (a *AnnouncementController) Create(ctx *gin.Context) {
	var req struct {
		Title   string `json:"title" binding:"required"`
		Content string `json:"content" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40080, "invalid request payload")
		return
	}

	item := models.Announcement{
		Title:    req.Title,
		Content:  utils.Sanitize(req.Content),
		IsActive: true,
	}
	if err := a.db.Create(&item).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50091, "failed to create announcement")
		return
	}

	utils.InvalidateByPrefix(announcementCacheKey)
	utils.Success(ctx, item)
}

// Deactivate hides an announcement (admin).
func (a *AnnouncementController) Deactivate(ctx *gin.Context) {
	id := ctx.Param("id")
	res := a.db.Model(&models.Announcement{}).Where("id = ?", id).Update("is_active", false)
	if res.Error != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50092, "failed to deactivate announcement")
		return
	}
	if res.RowsAffected == 0 {
		utils.Error(ctx, http.StatusNotFound, 40480, "announcement not found")
		return
	}

	utils.InvalidateByPrefix(announcementCacheKey)
	utils.Success(ctx, gin.H{"message": "deactivated"})
}
