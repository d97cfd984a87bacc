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

// FeedController handles the social feed: posts and comments.
type FeedController struct {
	db  *gorm.DB
	now func() time.Time
}

// NewFeedController creates a new controller instance.
func NewFeedController(db *gorm.DB) *FeedController {
	return &FeedController{db: db, now: time.Now}
}

// CreatePost publishes a feed post and grants the posting XP reward through
// the ledger in the same transaction.
func (f *FeedController) CreatePost(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var req struct {
		Title    string `json:"title" binding:"required,max=255"`
		Content  string `json:"content" binding:"required"`
		ImageURL string `json:"image_url"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40020, "invalid request payload")
		return
	}

	cfg := config.Get()
	now := f.now()
	post := models.Post{
		UserID:   userID,
		Title:    strings.TrimSpace(req.Title),
		Content:  utils.Sanitize(req.Content),
		ImageURL: strings.TrimSpace(req.ImageURL),
	}

	err := f.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&post).Error; err != nil {
			return err
		}

		if cfg.PostRewardXP <= 0 {
			return nil
		}
		if err := tx.Model(&models.User{}).Where("id = ?", userID).
			Updates(map[string]interface{}{
				"xp":         gorm.Expr("xp + ?", cfg.PostRewardXP),
				"updated_at": now,
			}).Error; err != nil {
			return err
		}
		entry := models.DiamondTransaction{
			UserID:      userID,
			Amount:      0,
			XPAmount:    cfg.PostRewardXP,
			Type:        models.TxTypePostReward,
			Description: "Published a feed post",
			CreatedAt:   now,
		}
		return tx.Create(&entry).Error
	})
	if err != nil {
		utils.Sugar.Errorf("create post failed user=%d err=%v", userID, err)
		utils.Error(ctx, http.StatusInternalServerError, 50020, "failed to create post")
		return
	}

	utils.Success(ctx, post)
}

// ListPosts returns the public feed, newest first.
func (f *FeedController) ListPosts(ctx *gin.Context) {
	page, size := parsePagination(ctx.Query("page"), ctx.Query("size"))

	var total int64
	if err := f.db.Model(&models.Post{}).Count(&total).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50021, "failed to count posts")
		return
	}

	var posts []models.Post
	if err := f.db.Preload("User").
		Order("created_at DESC").
		Offset((page - 1) * size).
		Limit(size).
		Find(&posts).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50022, "failed to load posts")
		return
	}

	utils.Success(ctx, gin.H{
		"items": posts,
		"page":  page,
		"size":  size,
		"total": total,
	})
}

// GetPost returns one post with its comments.
func (f *FeedController) GetPost(ctx *gin.Context) {
	id := ctx.Param("id")

	var post models.Post
	if err := f.db.Preload("User").Preload("Comments").Preload("Comments.User").
		First(&post, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40420, "post not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50023, "failed to load post")
		return
	}

	utils.Success(ctx, post)
}

// DeletePost removes a post; only the author or an admin may delete.
func (f *FeedController) DeletePost(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}
	id := ctx.Param("id")

	var post models.Post
	if err := f.db.First(&post, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40420, "post not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50023, "failed to load post")
		return
	}

	if post.UserID != userID && !isAdmin(ctx) {
		utils.Error(ctx, http.StatusForbidden, 40320, "not allowed to delete this post")
		return
	}

	if err := f.db.Select("Comments").Delete(&post).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50024, "failed to delete post")
		return
	}
	utils.Success(ctx, gin.H{"message": "deleted"})
}

// CreateComment adds a comment to an existing post.
func (f *FeedController) CreateComment(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}
	id := ctx.Param("id")

	var req struct {
		Content string `json:"content" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40021, "invalid request payload")
		return
	}

	var post models.Post
	if err := f.db.First(&post, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40420, "post not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50023, "failed to load post")
		return
	}

	comment := models.Comment{
		PostID:  post.ID,
		UserID:  userID,
		Content: utils.Sanitize(req.Content),
	}
	if err := f.db.Create(&comment).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50025, "failed to create comment")
		return
	}
	utils.Success(ctx, comment)
}

// DeleteComment removes a comment; only the author or an admin may delete.
func (f *FeedController) DeleteComment(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}
	id := ctx.Param("commentId")

	var comment models.Comment
	if err := f.db.First(&comment, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40421, "comment not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50026, "failed to load comment")
		return
	}

	if comment.UserID != userID && !isAdmin(ctx) {
		utils.Error(ctx, http.StatusForbidden, 40321, "not allowed to delete this comment")
		return
	}

	if err := f.db.Delete(&comment).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50027, "failed to delete comment")
		return
	}
	utils.Success(ctx, gin.H{"message": "deleted"})
}
