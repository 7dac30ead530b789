package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCacheSetGet(t *testing.T) {
	t.Parallel()

	c := NewMemoryCache(time.Minute)
	ctx := context.Background()

	_, ok := c.Get(ctx, "missing")
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "k", "v"))
	got, ok := c.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, "v", got)
}

func TestMemoryCacheExpiry(t *testing.T) {
	t.Parallel()

	c := NewMemoryCache(time.Minute)
	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "k", "v"))

	// Advance the clock past the TTL.
	c.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	_, ok := c.Get(ctx, "k")
	assert.False(t, ok)
}

func TestKeyShape(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "match:pref-1:p2:l20", Key("pref-1", 2, 20))
}
