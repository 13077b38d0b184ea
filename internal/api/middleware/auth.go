package middleware

import (
	"Blogstone/internal/pkg/consts"
	"Blogstone/internal/pkg/logger"
	"Blogstone/internal/pkg/redis"
	"Blogstone/internal/pkg/response"
	"Blogstone/internal/pkg/security"
	"Blogstone/internal/service"
	"context"
	log "log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AuthMiddleware 负责验证 JWT 并将用户身份信息注入 Context
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c)
		if !ok {
			response.Fail(c, http.StatusUnauthorized, "Not authorized to access this route")
			c.Abort()
			return
		}

		signature, err := security.ExtractSignature(tokenString)
		if err != nil {
			response.Fail(c, http.StatusUnauthorized, "Not authorized to access this route")
			c.Abort()
			return
		}

		blacklisted, err := redis.Exists(c.Request.Context(), consts.TokenBlacklistKey+signature)
		if err != nil {
			log.ErrorContext(c.Request.Context(), "check token blacklist failed", "err", err)
			response.Fail(c, http.StatusInternalServerError, service.UnExpectedError.Error())
			c.Abort()
			return
		}
		if blacklisted {
			response.Fail(c, http.StatusUnauthorized, "Token is invalid or expired")
			c.Abort()
			return
		}

		id, roles, ok := resolve(tokenString)
		if !ok {
			response.Fail(c, http.StatusUnauthorized, "Token is invalid or expired")
			c.Abort()
			return
		}

		setIdentity(c, id, roles)
		c.Next()
	}
}

// setIdentity 写入 gin.Context，并把 user_id 带入请求 ctx 供日志使用
func setIdentity(c *gin.Context, id primitive.ObjectID, roles []string) {
	c.Set(consts.UserIDKey, id)
	c.Set(consts.RoleKey, roles)
	newCtx := context.WithValue(c.Request.Context(), logger.UserIDKey, id.Hex())
	c.Request = c.Request.WithContext(newCtx)
}

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	return token, token != ""
}

func resolve(token string) (primitive.ObjectID, []string, bool) {
	claims, err := security.ValidateToken(token)
	if err != nil {
		return primitive.NilObjectID, nil, false
	}
	id, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return primitive.NilObjectID, nil, false
	}
	return id, claims.Roles, true
}

// BearerToken 请求携带的原始令牌
func BearerToken(c *gin.Context) string {
	token, _ := bearerToken(c)
	return token
}

// CurrentActor 从 Context 中取出当前身份，未登录时返回匿名
func CurrentActor(c *gin.Context) service.Actor {
	actor := service.Actor{Roles: c.GetStringSlice(consts.RoleKey)}
	if v, ok := c.Get(consts.UserIDKey); ok {
		if id, ok := v.(primitive.ObjectID); ok {
			actor.ID = id
		}
	}
	return actor
}
