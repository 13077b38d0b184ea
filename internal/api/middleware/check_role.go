package middleware

import (
	"Blogstone/internal/pkg/consts"
	"Blogstone/internal/pkg/response"
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"
)

// CheckRoles 检查当前用户是否拥有至少一个指定的角色
func CheckRoles(requiredRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		roles := c.GetStringSlice(consts.RoleKey)

		hasPermission := slices.ContainsFunc(requiredRoles, func(required string) bool {
			return slices.Contains(roles, required)
		})
		if !hasPermission {
			response.Fail(c, http.StatusUnauthorized, "Not authorized")
			c.Abort()
			return
		}

		c.Next()
	}
}
