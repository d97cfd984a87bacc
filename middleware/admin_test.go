package middleware

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/auditionai/audition-studio/models"
)

func TestMain(m *testing.M) {
	os.Setenv("JWT_SECRET", "test-secret")
	os.Setenv("ADMIN_USERNAMES", "admin,Operator")
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func serveAs(h gin.HandlerFunc, userID uint, username string) *httptest.ResponseRecorder {
	r := gin.New()
	r.GET("/x", func(c *gin.Context) {
		if username != "" {
			c.Set(ContextUserIDKey, userID)
			c.Set(ContextUsernameKey, username)
		}
	}, h, func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	r.ServeHTTP(w, req)
	return w
}

func TestAdminRequired(t *testing.T) {
	assert.Equal(t, http.StatusOK, serveAs(AdminRequired(), 1, "admin").Code)
	// matching is case-insensitive
	assert.Equal(t, http.StatusOK, serveAs(AdminRequired(), 2, "operator").Code)
	assert.Equal(t, http.StatusForbidden, serveAs(AdminRequired(), 3, "bob").Code)
	assert.Equal(t, http.StatusForbidden, serveAs(AdminRequired(), 0, "").Code)
}

func TestActivityRecorderDedupsPerDay(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.DailyActive{}))

	r := gin.New()
	r.Use(ActivityRecorder(db))
	r.GET("/x", func(c *gin.Context) {
		c.Set(ContextUserIDKey, uint(7))
		c.String(http.StatusOK, "ok")
	})
	r.GET("/fail", func(c *gin.Context) {
		c.Set(ContextUserIDKey, uint(8))
		c.String(http.StatusInternalServerError, "boom")
	})
	r.GET("/anon", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
		require.Equal(t, http.StatusOK, w.Code)
	}
	// failed and anonymous requests record nothing
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/fail", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/anon", nil))

	var count int64
	require.NoError(t, db.Model(&models.DailyActive{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	var row models.DailyActive
	require.NoError(t, db.First(&row).Error)
	assert.Equal(t, uint(7), row.UserID)
}
