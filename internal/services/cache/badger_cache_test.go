package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/censeo/internal/common"
)

type payload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func newTestCache(t *testing.T) *BadgerCache {
	t.Helper()
	c, err := NewBadgerCache(common.GetLogger(), &common.BadgerConfig{
		Path: t.TempDir() + "/cache",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestCacheRoundTrip(t *testing.T) {
	c := newTestCache(t)

	require.NoError(t, c.Set("meta:ext", payload{Name: "Example", Count: 3}, time.Hour))

	var got payload
	hit, err := c.Get("meta:ext", &got)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, payload{Name: "Example", Count: 3}, got)
}

func TestCacheMiss(t *testing.T) {
	c := newTestCache(t)

	var got payload
	hit, err := c.Get("missing", &got)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestCacheExpiry(t *testing.T) {
	c := newTestCache(t)
	require.NoError(t, c.Set("short", payload{Name: "x"}, time.Minute))

	// Move the clock past the TTL.
	c.now = func() time.Time { return time.Now().Add(2 * time.Minute) }

	var got payload
	hit, err := c.Get("short", &got)
	require.NoError(t, err)
	assert.False(t, hit, "expired entry should read as a miss")
}

func TestCacheDelete(t *testing.T) {
	c := newTestCache(t)
	require.NoError(t, c.Set("k", payload{}, time.Hour))
	require.NoError(t, c.Delete("k"))
	require.NoError(t, c.Delete("k"), "double delete is not an error")

	var got payload
	hit, err := c.Get("k", &got)
	require.NoError(t, err)
	assert.False(t, hit)
}
