package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoopWithoutRedis(t *testing.T) {
	RDB = nil
	ctx := context.Background()

	assert.False(t, Enabled())
	assert.NoError(t, Set(ctx, "k", map[string]int{"a": 1}, time.Minute))

	var out map[string]int
	assert.False(t, Get(ctx, "k", &out))
	assert.NoError(t, Del(ctx, "k"))
	assert.NoError(t, Close())
}

func TestRoundTripAgainstRedis(t *testing.T) {
	if os.Getenv("REDIS_ADDR") == "" {
		t.Skip("REDIS_ADDR not set")
	}
	ctx := context.Background()
	require.NoError(t, Connect(ctx))
	t.Cleanup(func() { _ = Close() })

	key := "catalog:test:" + t.Name()
	require.NoError(t, Set(ctx, key, map[string]int{"a": 1}, time.Minute))

	var out map[string]int
	require.True(t, Get(ctx, key, &out))
	assert.Equal(t, 1, out["a"])

	require.NoError(t, Del(ctx, key))
	assert.False(t, Get(ctx, key, &out))
}
