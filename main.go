package main

import (
	"log"

	"github.com/robfig/cron/v3"

	"github.com/auditionai/audition-studio/config"
	"github.com/auditionai/audition-studio/controllers"
	"github.com/auditionai/audition-studio/models"
	"github.com/auditionai/audition-studio/routes"
	"github.com/auditionai/audition-studio/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	db := config.InitDatabase(
		&models.User{},
		&models.DiamondTransaction{},
		&models.CheckInRewardConfig{},
		&models.MilestoneClaim{},
		&models.GiftCode{},
		&models.GiftCodeRedemption{},
		&models.CosmeticItem{},
		&models.UserCosmetic{},
		&models.Creation{},
		&models.Post{},
		&models.Comment{},
		&models.Announcement{},
		&models.CreditPackage{},
		&models.DailyActive{},
	)

	r := routes.SetupRouter(db)

	// Scheduled maintenance in the application timezone: daily gift-code
	// expiry sweep at local midnight, leaderboard cache refresh every 5m.
	c := cron.New(cron.WithLocation(utils.AppZone()))
	if _, err := c.AddFunc("0 0 * * *", func() {
		n, err := controllers.DeactivateExpiredGiftCodes(db)
		if err != nil {
			utils.Sugar.Errorf("gift code expiry sweep failed: %v", err)
			return
		}
		if n > 0 {
			utils.Sugar.Infof("deactivated %d expired gift codes", n)
		}
	}); err != nil {
		log.Fatalf("failed to schedule gift code sweep: %v", err)
	}
	if _, err := c.AddFunc("*/5 * * * *", func() {
		if err := controllers.RefreshLeaderboardCache(db); err != nil {
			utils.Sugar.Warnf("leaderboard refresh failed: %v", err)
		}
	}); err != nil {
		log.Fatalf("failed to schedule leaderboard refresh: %v", err)
	}
	c.Start()
	defer c.Stop()

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
