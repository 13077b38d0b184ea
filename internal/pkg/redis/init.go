package redis

import (
	"Blogstone/internal/api/config"
	"Blogstone/internal/pkg/logger"
	"context"
	"fmt"
	log "log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/redis/go-redis/v9/maintnotifications"
)

var Rdb *redis.Client

const defaultDialTimeout = 5 * time.Second

// InitRedis 建立连接并挂载日志钩子，Ping 失败时不替换全局客户端
func InitRedis(cfg config.RedisConfig) error {
	dial := defaultDialTimeout
	if cfg.DialTimeout > 0 {
		dial = time.Duration(cfg.DialTimeout) * time.Millisecond
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.PoolSize / 4,
		DialTimeout:  dial,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,

		MaintNotificationsConfig: &maintnotifications.Config{
			Mode: maintnotifications.ModeDisabled,
		},
	})
	rdb.AddHook(logger.NewRedisLogger())

	ctx, cancel := context.WithTimeout(context.Background(), dial)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return fmt.Errorf("ping redis %s: %w", cfg.Addr, err)
	}

	Rdb = rdb
	log.Info("Redis connected", "addr", cfg.Addr, "db", cfg.DB)
	return nil
}
