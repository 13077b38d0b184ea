package security

import (
	"Blogstone/internal/api/config"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const issuer = "Blogstone"

var (
	jwtSecret        []byte
	refreshSecret    []byte
	accessExpiration = time.Hour * 24
	refreshExpiration = time.Hour * 24 * 7
)

// Init 根据配置设置签名密钥与过期时间
func Init(cfg config.JWTConfig) {
	jwtSecret = []byte(cfg.Secret)
	refreshSecret = []byte(cfg.RefreshSecret)
	if cfg.Expire > 0 {
		accessExpiration = time.Duration(cfg.Expire) * time.Minute
	}
	if cfg.RefreshExpire > 0 {
		refreshExpiration = time.Duration(cfg.RefreshExpire) * time.Minute
	}
}

// UserClaims 访问令牌中携带的业务信息
type UserClaims struct {
	UserID string   `json:"user_id"`
	Roles  []string `json:"roles"`
	jwt.RegisteredClaims
}

// RefreshClaims 刷新令牌，Fingerprint 为密码哈希摘要，改密后旧令牌失效
type RefreshClaims struct {
	UserID      string `json:"user_id"`
	Fingerprint string `json:"fp"`
	jwt.RegisteredClaims
}
