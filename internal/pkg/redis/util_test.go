package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMiniRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	Rdb = redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = Rdb.Close()
	})
	return mr
}

func TestTryLockAndUnLock(t *testing.T) {
	setupMiniRedis(t)
	ctx := context.Background()

	ok, err := TryLock(ctx, "lock:a", "owner-1", time.Second, 1)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = TryLock(ctx, "lock:a", "owner-2", time.Second, 2)
	require.NoError(t, err)
	assert.False(t, ok)

	// 非持有者释放无效
	require.NoError(t, UnLock(ctx, "lock:a", "owner-2"))
	held, err := Exists(ctx, "lock:a")
	require.NoError(t, err)
	assert.True(t, held)

	require.NoError(t, UnLock(ctx, "lock:a", "owner-1"))
	ok, err = TryLock(ctx, "lock:a", "owner-2", time.Second, 1)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestTryLockHonoursContext(t *testing.T) {
	setupMiniRedis(t)
	require.NoError(t, SetWithExpiration(context.Background(), "lock:b", "x", time.Minute))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ok, err := TryLock(ctx, "lock:b", "y", time.Second, -1)
	assert.False(t, ok)
	assert.Error(t, err)
}

func TestSetHelpers(t *testing.T) {
	setupMiniRedis(t)
	ctx := context.Background()

	require.NoError(t, AddToSet(ctx, "stale", "a.png", "b.png"))
	require.NoError(t, AddToSet(ctx, "stale"))

	popped, err := PopFromSet(ctx, "stale", 10)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a.png", "b.png"}, popped)

	popped, err = PopFromSet(ctx, "stale", 10)
	require.NoError(t, err)
	assert.Empty(t, popped)
}
