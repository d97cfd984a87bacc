package controllers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/auditionai/audition-studio/config"
	"github.com/auditionai/audition-studio/middleware"
)

func getUserID(ctx *gin.Context) (uint, bool) {
	v, ok := ctx.Get(middleware.ContextUserIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}

func getUsername(ctx *gin.Context) string {
	v, ok := ctx.Get(middleware.ContextUsernameKey)
	if !ok {
		return ""
	}
	name, _ := v.(string)
	return name
}

func isAdmin(ctx *gin.Context) bool {
	name := getUsername(ctx)
	if name == "" {
		return false
	}
	for _, admin := range config.Get().AdminUsernames {
		if strings.EqualFold(admin, name) {
			return true
		}
	}
	return false
}

func containsInt(s []int, v int) bool {
	for _, it := range s {
		if it == v {
			return true
		}
	}
	return false
}

// parsePagination clamps page/size query values to sane bounds.
func parsePagination(pageStr, sizeStr string) (int, int) {
	page, _ := strconv.Atoi(pageStr)
	if page < 1 {
		page = 1
	}
	size, _ := strconv.Atoi(sizeStr)
	if size < 1 {
		size = 20
	}
	if size > 100 {
		size = 100
	}
	return page, size
}
