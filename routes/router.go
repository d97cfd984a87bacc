package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/auditionai/audition-studio/config"
	"github.com/auditionai/audition-studio/controllers"
	"github.com/auditionai/audition-studio/middleware"
	"github.com/auditionai/audition-studio/utils"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(db *gorm.DB) *gin.Engine {
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	// Replace default console logger with file-based zap logger
	gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
	if err == nil {
		r.Use(utils.Ginzap(gl, time.RFC3339, true))
		r.Use(utils.RecoveryWithZap(gl, false))
	} else {
		r.Use(gin.Recovery())
	}

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	// Record daily active users after each authenticated request
	r.Use(middleware.ActivityRecorder(db))

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})

	authController := controllers.NewAuthController(db)
	checkInController := controllers.NewCheckInController(db)
	transactionController := controllers.NewTransactionController(db)
	rewardConfigController := controllers.NewRewardConfigController(db)
	giftCodeController := controllers.NewGiftCodeController(db)
	shopController := controllers.NewShopController(db)
	creationController := controllers.NewCreationController(db)
	feedController := controllers.NewFeedController(db)
	announcementController := controllers.NewAnnouncementController(db)
	packageController := controllers.NewPackageController(db)
	statsController := controllers.NewStatsController(db)

	api := r.Group("/api/v1")

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware())
	authGroup.POST("/register", authController.Register)
	authGroup.POST("/login", authController.Login)
	authGroup.POST("/logout", middleware.AuthRequired(), authController.Logout)
	authGroup.GET("/me", middleware.AuthRequired(), authController.Me)
	authGroup.PATCH("/profile", middleware.AuthRequired(), authController.UpdateProfile)

	// Public surfaces
	api.GET("/users/:id", authController.GetUserPublic)
	api.GET("/posts", feedController.ListPosts)
	api.GET("/posts/:id", feedController.GetPost)
	api.GET("/announcements", announcementController.ListActive)
	api.GET("/packages", packageController.ListActive)
	api.GET("/shop/items", shopController.ListItems)
	api.GET("/leaderboard", statsController.GetLeaderboard)

	protected := api.Group("")
	protected.Use(middleware.AuthRequired(), middleware.RateLimitMiddleware())

	protected.GET("/checkin/status", checkInController.Status)
	protected.POST("/checkin", checkInController.CheckIn)
	protected.POST("/checkin/milestone", checkInController.ClaimMilestone)
	protected.GET("/transactions", transactionController.ListMine)

	protected.POST("/creations", creationController.Create)
	protected.GET("/creations", creationController.ListMine)

	protected.POST("/giftcodes/redeem", giftCodeController.Redeem)

	protected.POST("/shop/purchase", shopController.Purchase)
	protected.GET("/shop/owned", shopController.ListOwned)

	protected.POST("/posts", feedController.CreatePost)
	protected.DELETE("/posts/:id", feedController.DeletePost)
	protected.POST("/posts/:id/comments", feedController.CreateComment)
	protected.DELETE("/comments/:commentId", feedController.DeleteComment)

	admin := api.Group("/admin")
	admin.Use(middleware.AuthRequired(), middleware.AdminRequired())

	admin.POST("/checkin-rewards", rewardConfigController.Create)
	admin.GET("/checkin-rewards", rewardConfigController.List)
	admin.DELETE("/checkin-rewards/:id", rewardConfigController.Delete)

	admin.POST("/giftcodes", giftCodeController.Create)
	admin.GET("/giftcodes", giftCodeController.List)
	admin.DELETE("/giftcodes/:id", giftCodeController.Deactivate)

	admin.POST("/shop/items", shopController.CreateItem)
	admin.DELETE("/shop/items/:id", shopController.DeactivateItem)

	admin.POST("/announcements", announcementController.Create)
	admin.DELETE("/announcements/:id", announcementController.Deactivate)

	admin.POST("/packages", packageController.Create)
	admin.DELETE("/packages/:id", packageController.Delete)

	admin.GET("/stats", statsController.GetStats)

	r.NoRoute(func(ctx *gin.Context) {
		utils.Error(ctx, http.StatusNotFound, 40400, "route not found")
	})

	return r
}
