package controllers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/auditionai/audition-studio/models"
	"github.com/auditionai/audition-studio/utils"
)

func newCheckInRouter(db *gorm.DB, userID uint) (*gin.Engine, *CheckInController) {
	cc := NewCheckInController(db)
	r := gin.New()
	g := r.Group("/api", authAs(userID, "tester"))
	g.GET("/checkin/status", cc.Status)
	g.POST("/checkin", cc.CheckIn)
	g.POST("/checkin/milestone", cc.ClaimMilestone)
	return r, cc
}

func at(year int, month time.Month, day, hour int) time.Time {
	return time.Date(year, month, day, hour, 0, 0, 0, utils.AppZone())
}

func TestFirstCheckIn(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "alice")
	r, cc := newCheckInRouter(db, user.ID)
	day := at(2026, 3, 10, 9)
	cc.now = func() time.Time { return day }

	w, env := doRequest(t, r, http.MethodPost, "/api/checkin", nil)
	requireStatus(t, w, http.StatusOK)
	require.Equal(t, 0, env.Code)

	data := dataMap(t, env)
	assert.Equal(t, float64(5), data["newTotalDiamonds"])
	assert.Equal(t, float64(1), data["consecutiveDays"])

	got := reloadUser(t, db, user.ID)
	assert.Equal(t, 5, got.Diamonds)
	assert.Equal(t, 10, got.XP)
	assert.Equal(t, 1, got.ConsecutiveCheckInDays)
	require.NotNil(t, got.LastCheckInAt)
	assert.True(t, utils.SameLocalDay(*got.LastCheckInAt, day))

	var entries []models.DiamondTransaction
	require.NoError(t, db.Where("user_id = ?", user.ID).Find(&entries).Error)
	require.Len(t, entries, 1)
	assert.Equal(t, models.TxTypeDailyCheckIn, entries[0].Type)
	assert.Equal(t, 5, entries[0].Amount)
	assert.Equal(t, 10, entries[0].XPAmount)
}

func TestCheckInTwiceSameDayRejected(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "alice")
	r, cc := newCheckInRouter(db, user.ID)
	cc.now = func() time.Time { return at(2026, 3, 10, 9) }

	w, _ := doRequest(t, r, http.MethodPost, "/api/checkin", nil)
	requireStatus(t, w, http.StatusOK)

	// later the same local day
	cc.now = func() time.Time { return at(2026, 3, 10, 22) }
	w, env := doRequest(t, r, http.MethodPost, "/api/checkin", nil)
	requireStatus(t, w, http.StatusConflict)
	assert.Equal(t, 40930, env.Code)
	assert.Equal(t, true, dataMap(t, env)["checkedIn"])

	// no double credit, no extra ledger entry
	got := reloadUser(t, db, user.ID)
	assert.Equal(t, 5, got.Diamonds)
	assert.Equal(t, 1, got.ConsecutiveCheckInDays)

	var count int64
	require.NoError(t, db.Model(&models.DiamondTransaction{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestCheckInConsecutiveDaysGrowStreak(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "alice")
	r, cc := newCheckInRouter(db, user.ID)

	for day := 1; day <= 7; day++ {
		d := at(2026, 3, 9+day, 8+day%12)
		cc.now = func() time.Time { return d }
		w, env := doRequest(t, r, http.MethodPost, "/api/checkin", nil)
		requireStatus(t, w, http.StatusOK)
		assert.Equal(t, float64(day), dataMap(t, env)["consecutiveDays"])
	}

	got := reloadUser(t, db, user.ID)
	assert.Equal(t, 7, got.ConsecutiveCheckInDays)
	assert.Equal(t, 1, got.StreakOccurrence)
	assert.Equal(t, 35, got.Diamonds)
	assert.Equal(t, 70, got.XP)
}

func TestCheckInAfterGapResetsStreak(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "alice")
	r, cc := newCheckInRouter(db, user.ID)

	cc.now = func() time.Time { return at(2026, 3, 10, 9) }
	w, _ := doRequest(t, r, http.MethodPost, "/api/checkin", nil)
	requireStatus(t, w, http.StatusOK)
	cc.now = func() time.Time { return at(2026, 3, 11, 9) }
	w, _ = doRequest(t, r, http.MethodPost, "/api/checkin", nil)
	requireStatus(t, w, http.StatusOK)

	// skip March 12 entirely
	cc.now = func() time.Time { return at(2026, 3, 13, 9) }
	w, env := doRequest(t, r, http.MethodPost, "/api/checkin", nil)
	requireStatus(t, w, http.StatusOK)
	assert.Equal(t, float64(1), dataMap(t, env)["consecutiveDays"])

	got := reloadUser(t, db, user.ID)
	assert.Equal(t, 1, got.ConsecutiveCheckInDays)
	assert.Equal(t, 2, got.StreakOccurrence)
	// rewards from all three check-ins are kept
	assert.Equal(t, 15, got.Diamonds)
}

func TestCheckInJustBeforeAndAfterMidnight(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "alice")
	r, cc := newCheckInRouter(db, user.ID)

	cc.now = func() time.Time { return time.Date(2026, 3, 10, 23, 59, 0, 0, utils.AppZone()) }
	w, _ := doRequest(t, r, http.MethodPost, "/api/checkin", nil)
	requireStatus(t, w, http.StatusOK)

	// two minutes later it is a new local day
	cc.now = func() time.Time { return time.Date(2026, 3, 11, 0, 1, 0, 0, utils.AppZone()) }
	w, env := doRequest(t, r, http.MethodPost, "/api/checkin", nil)
	requireStatus(t, w, http.StatusOK)
	assert.Equal(t, float64(2), dataMap(t, env)["consecutiveDays"])
}

func TestCheckInUsesRewardCatalog(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "alice")
	require.NoError(t, db.Create(&models.CheckInRewardConfig{ConsecutiveDays: 1, DiamondReward: 3, XPReward: 6, IsActive: true}).Error)
	require.NoError(t, db.Create(&models.CheckInRewardConfig{ConsecutiveDays: 3, DiamondReward: 9, XPReward: 18, IsActive: true}).Error)

	r, cc := newCheckInRouter(db, user.ID)

	// streak 1 and 2 resolve to the day-1 entry, streak 3 to the day-3 entry
	wantDiamonds := []int{3, 3, 9}
	total := 0
	for i, want := range wantDiamonds {
		d := at(2026, 3, 10+i, 9)
		cc.now = func() time.Time { return d }
		w, env := doRequest(t, r, http.MethodPost, "/api/checkin", nil)
		requireStatus(t, w, http.StatusOK)
		total += want
		assert.Equal(t, float64(total), dataMap(t, env)["newTotalDiamonds"])
	}

	got := reloadUser(t, db, user.ID)
	assert.Equal(t, 15, got.Diamonds)
	assert.Equal(t, 30, got.XP)
}

func TestCheckInIgnoresInactiveCatalogEntries(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "alice")
	require.NoError(t, db.Create(&models.CheckInRewardConfig{ConsecutiveDays: 1, DiamondReward: 100, XPReward: 100, IsActive: false}).Error)

	r, cc := newCheckInRouter(db, user.ID)
	cc.now = func() time.Time { return at(2026, 3, 10, 9) }
	w, env := doRequest(t, r, http.MethodPost, "/api/checkin", nil)
	requireStatus(t, w, http.StatusOK)

	// falls back to the configured defaults
	assert.Equal(t, float64(5), dataMap(t, env)["newTotalDiamonds"])
}

func TestCheckInAbortsWhenCatalogUnreadable(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "alice")
	r, cc := newCheckInRouter(db, user.ID)
	cc.now = func() time.Time { return at(2026, 3, 10, 9) }

	// a broken catalog read must fail the check-in, not pay the default
	require.NoError(t, db.Migrator().DropTable(&models.CheckInRewardConfig{}))

	w, env := doRequest(t, r, http.MethodPost, "/api/checkin", nil)
	requireStatus(t, w, http.StatusInternalServerError)
	assert.Equal(t, 50030, env.Code)

	got := reloadUser(t, db, user.ID)
	assert.Equal(t, 0, got.Diamonds)
	assert.Equal(t, 0, got.ConsecutiveCheckInDays)
	assert.Nil(t, got.LastCheckInAt)

	var count int64
	require.NoError(t, db.Model(&models.DiamondTransaction{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestCheckInStatus(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "alice")
	r, cc := newCheckInRouter(db, user.ID)
	cc.now = func() time.Time { return at(2026, 3, 10, 9) }

	w, env := doRequest(t, r, http.MethodGet, "/api/checkin/status", nil)
	requireStatus(t, w, http.StatusOK)
	data := dataMap(t, env)
	assert.Equal(t, false, data["hasCheckedInToday"])
	assert.Equal(t, float64(0), data["consecutiveDays"])

	w, _ = doRequest(t, r, http.MethodPost, "/api/checkin", nil)
	requireStatus(t, w, http.StatusOK)

	w, env = doRequest(t, r, http.MethodGet, "/api/checkin/status", nil)
	requireStatus(t, w, http.StatusOK)
	data = dataMap(t, env)
	assert.Equal(t, true, data["hasCheckedInToday"])
	assert.Equal(t, float64(1), data["consecutiveDays"])
	assert.Equal(t, float64(1), data["level"])

	// next local day flips the flag back
	cc.now = func() time.Time { return at(2026, 3, 11, 9) }
	w, env = doRequest(t, r, http.MethodGet, "/api/checkin/status", nil)
	requireStatus(t, w, http.StatusOK)
	assert.Equal(t, false, dataMap(t, env)["hasCheckedInToday"])
}

func seedStreak(t *testing.T, db *gorm.DB, userID uint, streak, occurrence int, last time.Time) {
	t.Helper()
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", userID).
		Updates(map[string]interface{}{
			"consecutive_check_in_days": streak,
			"streak_occurrence":         occurrence,
			"last_check_in_at":          last,
		}).Error)
}

func TestClaimMilestoneSuccess(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "alice")
	require.NoError(t, db.Create(&models.CheckInRewardConfig{ConsecutiveDays: 7, DiamondReward: 50, XPReward: 100, IsActive: true}).Error)

	r, cc := newCheckInRouter(db, user.ID)
	now := at(2026, 3, 16, 10)
	cc.now = func() time.Time { return now }
	seedStreak(t, db, user.ID, 7, 1, now)

	w, env := doRequest(t, r, http.MethodPost, "/api/checkin/milestone", gin.H{"milestoneDays": 7})
	requireStatus(t, w, http.StatusOK)
	data := dataMap(t, env)
	assert.Equal(t, true, data["success"])
	assert.Equal(t, float64(50), data["newDiamonds"])

	got := reloadUser(t, db, user.ID)
	assert.Equal(t, 50, got.Diamonds)
	assert.Equal(t, 100, got.XP)

	var entry models.DiamondTransaction
	require.NoError(t, db.Where("user_id = ? AND type = ?", user.ID, models.MilestoneTxType(7)).First(&entry).Error)
	assert.Equal(t, 50, entry.Amount)
	assert.Equal(t, 100, entry.XPAmount)
}

func TestClaimMilestoneTwiceRejected(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "alice")
	require.NoError(t, db.Create(&models.CheckInRewardConfig{ConsecutiveDays: 7, DiamondReward: 50, XPReward: 100, IsActive: true}).Error)

	r, cc := newCheckInRouter(db, user.ID)
	now := at(2026, 3, 16, 10)
	cc.now = func() time.Time { return now }
	seedStreak(t, db, user.ID, 7, 1, now)

	w, _ := doRequest(t, r, http.MethodPost, "/api/checkin/milestone", gin.H{"milestoneDays": 7})
	requireStatus(t, w, http.StatusOK)

	// day 8 of the same streak: still claimed
	seedStreak(t, db, user.ID, 8, 1, now.AddDate(0, 0, 1))
	w, env := doRequest(t, r, http.MethodPost, "/api/checkin/milestone", gin.H{"milestoneDays": 7})
	requireStatus(t, w, http.StatusConflict)
	assert.Equal(t, 40932, env.Code)

	got := reloadUser(t, db, user.ID)
	assert.Equal(t, 50, got.Diamonds)
}

func TestClaimMilestoneAgainAfterStreakReset(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "alice")
	require.NoError(t, db.Create(&models.CheckInRewardConfig{ConsecutiveDays: 7, DiamondReward: 50, XPReward: 100, IsActive: true}).Error)

	r, cc := newCheckInRouter(db, user.ID)
	now := at(2026, 3, 16, 10)
	cc.now = func() time.Time { return now }

	seedStreak(t, db, user.ID, 7, 1, now)
	w, _ := doRequest(t, r, http.MethodPost, "/api/checkin/milestone", gin.H{"milestoneDays": 7})
	requireStatus(t, w, http.StatusOK)

	// the streak broke and was rebuilt to 7: a new occurrence, claimable again
	seedStreak(t, db, user.ID, 7, 2, now.AddDate(0, 0, 20))
	w, _ = doRequest(t, r, http.MethodPost, "/api/checkin/milestone", gin.H{"milestoneDays": 7})
	requireStatus(t, w, http.StatusOK)

	got := reloadUser(t, db, user.ID)
	assert.Equal(t, 100, got.Diamonds)

	var claims int64
	require.NoError(t, db.Model(&models.MilestoneClaim{}).Where("user_id = ?", user.ID).Count(&claims).Error)
	assert.Equal(t, int64(2), claims)
}

func TestClaimMilestoneStreakTooShort(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "alice")
	require.NoError(t, db.Create(&models.CheckInRewardConfig{ConsecutiveDays: 7, DiamondReward: 50, XPReward: 100, IsActive: true}).Error)

	r, cc := newCheckInRouter(db, user.ID)
	now := at(2026, 3, 16, 10)
	cc.now = func() time.Time { return now }
	seedStreak(t, db, user.ID, 5, 1, now)

	w, env := doRequest(t, r, http.MethodPost, "/api/checkin/milestone", gin.H{"milestoneDays": 7})
	requireStatus(t, w, http.StatusForbidden)
	assert.Equal(t, 40330, env.Code)

	got := reloadUser(t, db, user.ID)
	assert.Equal(t, 0, got.Diamonds)
}

func TestClaimMilestoneInvalidThreshold(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "alice")
	r, _ := newCheckInRouter(db, user.ID)

	w, env := doRequest(t, r, http.MethodPost, "/api/checkin/milestone", gin.H{"milestoneDays": 10})
	requireStatus(t, w, http.StatusBadRequest)
	assert.Equal(t, 40032, env.Code)

	w, env = doRequest(t, r, http.MethodPost, "/api/checkin/milestone", gin.H{})
	requireStatus(t, w, http.StatusBadRequest)
	assert.Equal(t, 40031, env.Code)
}

func TestClaimMilestoneWithoutCatalogEntry(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "alice")

	r, cc := newCheckInRouter(db, user.ID)
	now := at(2026, 3, 16, 10)
	cc.now = func() time.Time { return now }
	seedStreak(t, db, user.ID, 14, 1, now)

	w, env := doRequest(t, r, http.MethodPost, "/api/checkin/milestone", gin.H{"milestoneDays": 14})
	requireStatus(t, w, http.StatusNotFound)
	assert.Equal(t, 40430, env.Code)
}
