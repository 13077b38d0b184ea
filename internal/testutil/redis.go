package testutil

import (
	pkgredis "Blogstone/internal/pkg/redis"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

// SetupRedis 启动 miniredis 并替换全局客户端
func SetupRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	prev := pkgredis.Rdb
	pkgredis.Rdb = redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = pkgredis.Rdb.Close()
		pkgredis.Rdb = prev
	})
	return mr
}
