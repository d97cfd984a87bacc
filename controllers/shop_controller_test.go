package controllers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/auditionai/audition-studio/models"
)

func newShopRouter(db *gorm.DB, userID uint, username string) *gin.Engine {
	s := NewShopController(db)
	r := gin.New()
	r.GET("/api/shop/items", s.ListItems)
	grp := r.Group("/api", authAs(userID, username))
	grp.POST("/shop/purchase", s.Purchase)
	grp.GET("/shop/owned", s.ListOwned)
	grp.POST("/admin/shop/items", s.CreateItem)
	return r
}

func seedItem(t *testing.T, db *gorm.DB, item models.CosmeticItem) *models.CosmeticItem {
	t.Helper()
	if item.MinLevel == 0 {
		item.MinLevel = 1
	}
	item.IsActive = true
	require.NoError(t, db.Create(&item).Error)
	return &item
}

func giveDiamonds(t *testing.T, db *gorm.DB, userID uint, diamonds, xp int) {
	t.Helper()
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", userID).
		Updates(map[string]interface{}{"diamonds": diamonds, "xp": xp}).Error)
}

func TestShopPurchase(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "bob")
	giveDiamonds(t, db, user.ID, 100, 0)
	item := seedItem(t, db, models.CosmeticItem{Name: "Golden Frame", Kind: models.CosmeticKindFrame, PriceDiamonds: 40})
	r := newShopRouter(db, user.ID, "bob")

	w, _ := doRequest(t, r, http.MethodPost, "/api/shop/purchase", gin.H{"item_id": item.ID})
	requireStatus(t, w, http.StatusOK)

	got := reloadUser(t, db, user.ID)
	assert.Equal(t, 60, got.Diamonds)

	var owned models.UserCosmetic
	require.NoError(t, db.Where("user_id = ? AND cosmetic_item_id = ?", user.ID, item.ID).First(&owned).Error)

	var entry models.DiamondTransaction
	require.NoError(t, db.Where("user_id = ? AND type = ?", user.ID, models.TxTypeShopPurchase).First(&entry).Error)
	assert.Equal(t, -40, entry.Amount)
}

func TestShopPurchaseInsufficientDiamonds(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "bob")
	giveDiamonds(t, db, user.ID, 10, 0)
	item := seedItem(t, db, models.CosmeticItem{Name: "Golden Frame", Kind: models.CosmeticKindFrame, PriceDiamonds: 40})
	r := newShopRouter(db, user.ID, "bob")

	w, env := doRequest(t, r, http.MethodPost, "/api/shop/purchase", gin.H{"item_id": item.ID})
	requireStatus(t, w, http.StatusForbidden)
	assert.Equal(t, 40361, env.Code)

	// the aborted purchase leaves neither ownership nor a ledger entry
	got := reloadUser(t, db, user.ID)
	assert.Equal(t, 10, got.Diamonds)
	var count int64
	require.NoError(t, db.Model(&models.UserCosmetic{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestShopPurchaseTwiceRejected(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "bob")
	giveDiamonds(t, db, user.ID, 100, 0)
	item := seedItem(t, db, models.CosmeticItem{Name: "Golden Frame", Kind: models.CosmeticKindFrame, PriceDiamonds: 40})
	r := newShopRouter(db, user.ID, "bob")

	w, _ := doRequest(t, r, http.MethodPost, "/api/shop/purchase", gin.H{"item_id": item.ID})
	requireStatus(t, w, http.StatusOK)

	w, env := doRequest(t, r, http.MethodPost, "/api/shop/purchase", gin.H{"item_id": item.ID})
	requireStatus(t, w, http.StatusConflict)
	assert.Equal(t, 40960, env.Code)

	got := reloadUser(t, db, user.ID)
	assert.Equal(t, 60, got.Diamonds)
}

func TestShopPurchaseGates(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "bob")
	giveDiamonds(t, db, user.ID, 1000, 150) // level 2
	r := newShopRouter(db, user.ID, "bob")

	levelGated := seedItem(t, db, models.CosmeticItem{Name: "Veteran Title", Kind: models.CosmeticKindTitle, PriceDiamonds: 10, MinLevel: 5})
	w, env := doRequest(t, r, http.MethodPost, "/api/shop/purchase", gin.H{"item_id": levelGated.ID})
	requireStatus(t, w, http.StatusForbidden)
	assert.Equal(t, 40360, env.Code)

	streakGated := seedItem(t, db, models.CosmeticItem{Name: "Loyal Frame", Kind: models.CosmeticKindFrame, PriceDiamonds: 10, MinStreak: 7})
	w, env = doRequest(t, r, http.MethodPost, "/api/shop/purchase", gin.H{"item_id": streakGated.ID})
	requireStatus(t, w, http.StatusForbidden)
	assert.Equal(t, 40360, env.Code)

	creationGated := seedItem(t, db, models.CosmeticItem{Name: "Artist Effect", Kind: models.CosmeticKindNameEffect, PriceDiamonds: 10, MinCreations: 3})
	w, env = doRequest(t, r, http.MethodPost, "/api/shop/purchase", gin.H{"item_id": creationGated.ID})
	requireStatus(t, w, http.StatusForbidden)
	assert.Equal(t, 40360, env.Code)

	// meeting the gates unlocks the purchase
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", user.ID).
		Updates(map[string]interface{}{"xp": 500, "consecutive_check_in_days": 10, "creation_count": 5}).Error)
	for _, item := range []*models.CosmeticItem{levelGated, streakGated, creationGated} {
		w, _ = doRequest(t, r, http.MethodPost, "/api/shop/purchase", gin.H{"item_id": item.ID})
		requireStatus(t, w, http.StatusOK)
	}
}

func TestShopPurchaseInactiveItem(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "bob")
	giveDiamonds(t, db, user.ID, 100, 0)
	item := models.CosmeticItem{Name: "Retired Frame", Kind: models.CosmeticKindFrame, PriceDiamonds: 10, MinLevel: 1, IsActive: false}
	require.NoError(t, db.Create(&item).Error)
	r := newShopRouter(db, user.ID, "bob")

	w, env := doRequest(t, r, http.MethodPost, "/api/shop/purchase", gin.H{"item_id": item.ID})
	requireStatus(t, w, http.StatusNotFound)
	assert.Equal(t, 40460, env.Code)
}

func TestShopListItemsAndOwned(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "bob")
	giveDiamonds(t, db, user.ID, 100, 0)
	cheap := seedItem(t, db, models.CosmeticItem{Name: "Cheap", Kind: models.CosmeticKindTitle, PriceDiamonds: 5})
	seedItem(t, db, models.CosmeticItem{Name: "Pricey", Kind: models.CosmeticKindFrame, PriceDiamonds: 80})
	r := newShopRouter(db, user.ID, "bob")

	w, env := doRequest(t, r, http.MethodGet, "/api/shop/items", nil)
	requireStatus(t, w, http.StatusOK)
	var items []models.CosmeticItem
	require.NoError(t, json.Unmarshal(env.Data, &items))
	require.Len(t, items, 2)
	assert.Equal(t, "Cheap", items[0].Name)

	w, _ = doRequest(t, r, http.MethodPost, "/api/shop/purchase", gin.H{"item_id": cheap.ID})
	requireStatus(t, w, http.StatusOK)

	w, env = doRequest(t, r, http.MethodGet, "/api/shop/owned", nil)
	requireStatus(t, w, http.StatusOK)
	var owned []models.UserCosmetic
	require.NoError(t, json.Unmarshal(env.Data, &owned))
	require.Len(t, owned, 1)
	assert.Equal(t, cheap.ID, owned[0].CosmeticItemID)
}

func TestShopCreateItemValidation(t *testing.T) {
	db := newTestDB(t)
	admin := createTestUser(t, db, "admin")
	r := newShopRouter(db, admin.ID, "admin")

	w, env := doRequest(t, r, http.MethodPost, "/api/admin/shop/items", gin.H{
		"name": "Neon Name", "kind": "name_effect", "price_diamonds": 25,
	})
	requireStatus(t, w, http.StatusOK)
	data := dataMap(t, env)
	assert.Equal(t, float64(1), data["min_level"])

	w, env = doRequest(t, r, http.MethodPost, "/api/admin/shop/items", gin.H{
		"name": "Bad", "kind": "hat",
	})
	requireStatus(t, w, http.StatusBadRequest)
	assert.Equal(t, 40061, env.Code)
}
