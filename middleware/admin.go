package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/auditionai/audition-studio/config"
	"github.com/auditionai/audition-studio/utils"
)

// AdminRequired allows only configured admin usernames past. Must run after
// AuthRequired so the username is present in the context.
func AdminRequired() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		v, ok := ctx.Get(ContextUsernameKey)
		name, _ := v.(string)
		if !ok || name == "" || !isAdminUsername(name) {
			utils.Error(ctx, http.StatusForbidden, 40301, "admin privileges required")
			ctx.Abort()
			return
		}
		ctx.Next()
	}
}

func isAdminUsername(name string) bool {
	for _, admin := range config.Get().AdminUsernames {
		if strings.EqualFold(admin, name) {
			return true
		}
	}
	return false
}
