package middleware

import (
	"Blogstone/internal/pkg/consts"
	"Blogstone/internal/pkg/redis"
	"Blogstone/internal/pkg/security"

	"github.com/gin-gonic/gin"
)

// AuthOptionalMiddleware 可选鉴权：解析成功注入身份，失败或缺失则视为匿名
func AuthOptionalMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			c.Next()
			return
		}

		if signature, err := security.ExtractSignature(token); err == nil {
			if revoked, _ := redis.Exists(c.Request.Context(), consts.TokenBlacklistKey+signature); revoked {
				c.Next()
				return
			}
		}

		if id, roles, ok := resolve(token); ok {
			setIdentity(c, id, roles)
		}
		c.Next()
	}
}
