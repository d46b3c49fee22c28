package metadata

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/censeo/internal/common"
	"github.com/ternarybob/censeo/internal/models"
)

// memoryCache is a minimal in-memory CacheService for tests.
type memoryCache struct {
	data map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: make(map[string][]byte)}
}

func (c *memoryCache) Get(key string, dest interface{}) (bool, error) {
	raw, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (c *memoryCache) Set(key string, value interface{}, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.data[key] = raw
	return nil
}

func (c *memoryCache) Delete(key string) error { delete(c.data, key); return nil }
func (c *memoryCache) Close() error            { return nil }

func TestNewServiceProviderSelection(t *testing.T) {
	disabled := NewService(&common.MetadataConfig{Enabled: false}, nil)
	result, err := disabled.Fetch(context.Background(), models.TokenMeta{Name: "X"})
	require.NoError(t, err)
	assert.False(t, result.Enabled)

	noKeys := NewService(&common.MetadataConfig{Enabled: true}, nil)
	result, err = noKeys.Fetch(context.Background(), models.TokenMeta{Name: "X"})
	require.NoError(t, err)
	assert.False(t, result.Enabled)
	assert.Contains(t, result.Error, "no external metadata API keys")

	gecko := NewService(&common.MetadataConfig{Enabled: true, CoinGeckoAPIKey: "k", CacheTTL: "24h"}, newMemoryCache())
	_, isCached := gecko.(*cachedService)
	assert.True(t, isCached, "keyed provider with cache should be wrapped")
}

func TestCoinGeckoResolveCoinID(t *testing.T) {
	coins := []geckoCoin{
		{ID: "example-one", Symbol: "EXT", Name: "Other Project"},
		{ID: "example-token", Symbol: "EXT", Name: "Example Token"},
		{ID: "unrelated", Symbol: "UNR", Name: "Unrelated"},
	}
	svc := &CoinGeckoService{
		logger: common.GetLogger(),
		now:    time.Now,
		client: func(_ context.Context, url string, _ map[string]string, dest interface{}) error {
			raw, _ := json.Marshal(coins)
			return json.Unmarshal(raw, dest)
		},
	}

	tests := []struct {
		name     string
		meta     models.TokenMeta
		wantID   string
		wantNote string
	}{
		{"explicit id wins", models.TokenMeta{CoinGeckoID: "pinned"}, "pinned", "explicit coingecko_id provided"},
		{"exact name and symbol", models.TokenMeta{Name: "Example Token", Ticker: "EXT"}, "example-token", "exact name+symbol match"},
		{"symbol only is ambiguous", models.TokenMeta{Ticker: "EXT"}, "example-one", "symbol-only match (ambiguous)"},
		{"no identity", models.TokenMeta{}, "", "no name/ticker to resolve"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, note, err := svc.resolveCoinID(context.Background(), tt.meta)
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, id)
			assert.Equal(t, tt.wantNote, note)
		})
	}
}

func TestCoinGeckoFetchLookupFailureIsNotFatal(t *testing.T) {
	svc := &CoinGeckoService{
		logger: common.GetLogger(),
		now:    time.Now,
		client: func(_ context.Context, _ string, _ map[string]string, _ interface{}) error {
			return errors.New("upstream unavailable")
		},
	}

	result, err := svc.Fetch(context.Background(), models.TokenMeta{Name: "Example", Ticker: "EXT"})
	require.NoError(t, err, "lookup failures surface in the record, not as errors")
	assert.True(t, result.Enabled)
	assert.NotEmpty(t, result.Error)
}

func TestCachedServiceCachesSuccessOnly(t *testing.T) {
	calls := 0
	inner := fetcherFunc(func(_ context.Context, _ models.TokenMeta) (*models.ExternalTokenMetadata, error) {
		calls++
		if calls == 1 {
			return &models.ExternalTokenMetadata{Provider: "coingecko", Enabled: true, Error: "transient"}, nil
		}
		return &models.ExternalTokenMetadata{Provider: "coingecko", Enabled: true, Name: "Example"}, nil
	})
	svc := &cachedService{inner: inner, cache: newMemoryCache(), ttl: time.Hour}
	meta := models.TokenMeta{Name: "Example", Ticker: "EXT"}

	// First call errors and is not cached.
	first, err := svc.Fetch(context.Background(), meta)
	require.NoError(t, err)
	assert.Equal(t, "transient", first.Error)

	// Second call succeeds and fills the cache.
	second, err := svc.Fetch(context.Background(), meta)
	require.NoError(t, err)
	assert.Equal(t, "Example", second.Name)

	// Third call is served from cache.
	third, err := svc.Fetch(context.Background(), meta)
	require.NoError(t, err)
	assert.Equal(t, "Example", third.Name)
	assert.Equal(t, 2, calls)
}

type fetcherFunc func(ctx context.Context, meta models.TokenMeta) (*models.ExternalTokenMetadata, error)

func (f fetcherFunc) Fetch(ctx context.Context, meta models.TokenMeta) (*models.ExternalTokenMetadata, error) {
	return f(ctx, meta)
}
