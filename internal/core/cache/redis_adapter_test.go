package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisAdapter_Incr(t *testing.T) {
	mr := miniredis.RunT(t)

	adapter, err := NewRedisAdapter("redis://" + mr.Addr())
	require.NoError(t, err)
	defer adapter.Close()

	ctx := context.Background()

	first, err := adapter.Incr(ctx, "seq", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), first)

	second, err := adapter.Incr(ctx, "seq", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(2), second)

	other, err := adapter.Incr(ctx, "other", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), other)
}

func TestRedisAdapter_IncrExpires(t *testing.T) {
	mr := miniredis.RunT(t)

	adapter, err := NewRedisAdapter("redis://" + mr.Addr())
	require.NoError(t, err)
	defer adapter.Close()

	ctx := context.Background()

	_, err = adapter.Incr(ctx, "seq", 10*time.Second)
	require.NoError(t, err)
	assert.Equal(t, 10*time.Second, mr.TTL("seq"))

	mr.FastForward(11 * time.Second)
	assert.False(t, mr.Exists("seq"))

	n, err := adapter.Incr(ctx, "seq", 10*time.Second)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestRedisAdapter_IncrWithoutTTL(t *testing.T) {
	mr := miniredis.RunT(t)

	adapter, err := NewRedisAdapter("redis://" + mr.Addr())
	require.NoError(t, err)
	defer adapter.Close()

	_, err = adapter.Incr(context.Background(), "seq", 0)
	require.NoError(t, err)
	assert.Equal(t, time.Duration(0), mr.TTL("seq"))
}

func TestRedisAdapter_Ping(t *testing.T) {
	mr := miniredis.RunT(t)

	adapter, err := NewRedisAdapter("redis://" + mr.Addr())
	require.NoError(t, err)
	defer adapter.Close()

	assert.NoError(t, adapter.Ping(context.Background()))
}

func TestRedisAdapter_PingFailsWhenServerDown(t *testing.T) {
	mr := miniredis.RunT(t)

	adapter, err := NewRedisAdapter("redis://" + mr.Addr())
	require.NoError(t, err)
	defer adapter.Close()

	mr.Close()

	err = adapter.Ping(context.Background())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "redis ping failed")
}

func TestNewRedisAdapter_InvalidURL(t *testing.T) {
	_, err := NewRedisAdapter("not-a-url")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse Redis URL")
}
