package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"campus-gate/config"
)

func newTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c, err := NewClient(&config.RedisConfig{Addr: mr.Addr()}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c, mr
}

func TestCheckRateLimit_BlocksAfterLimit(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		ok, err := c.CheckRateLimit(ctx, "device:gate-1", 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, ok, "第 %d 次请求应放行", i+1)
	}

	ok, err := c.CheckRateLimit(ctx, "device:gate-1", 3, time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	// 不同 key 互不影响
	ok, err = c.CheckRateLimit(ctx, "device:gate-2", 3, time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCheckRateLimit_KeyExpires(t *testing.T) {
	c, mr := newTestClient(t)
	ctx := context.Background()

	ok, err := c.CheckRateLimit(ctx, "device:gate-1", 1, time.Second)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, mr.Exists(rateLimitPrefix+"device:gate-1"))

	mr.FastForward(2 * time.Second)
	assert.False(t, mr.Exists(rateLimitPrefix+"device:gate-1"))
}

func TestNewClient_Unreachable(t *testing.T) {
	_, err := NewClient(&config.RedisConfig{Addr: "127.0.0.1:1"}, zap.NewNop())
	assert.Error(t, err)
}
