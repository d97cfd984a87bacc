package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/auditionai/audition-studio/models"
	"github.com/auditionai/audition-studio/utils"
)

// ActivityRecorder upserts one DailyActive row per authenticated user per
// local calendar day, feeding the DAU stat.
func ActivityRecorder(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		v, ok := c.Get(ContextUserIDKey)
		if !ok {
			return
		}
		userID, ok := v.(uint)
		if !ok {
			return
		}

		status := c.Writer.Status()
		if status < 200 || status >= 400 {
			return
		}

		// Atomic upsert to avoid duplicate key errors under concurrency
		day := utils.StartOfLocalDay(time.Now())
		_ = db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "date"}, {Name: "user_id"}},
			DoNothing: true,
		}).Create(&models.DailyActive{Date: day, UserID: userID}).Error
	}
}
