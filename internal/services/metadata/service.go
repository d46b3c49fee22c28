package metadata

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ternarybob/censeo/internal/common"
	"github.com/ternarybob/censeo/internal/interfaces"
	"github.com/ternarybob/censeo/internal/models"
)

// disabledService is the no-op provider used when enrichment is off or no
// API key is configured.
type disabledService struct {
	reason string
}

func (s *disabledService) Fetch(_ context.Context, _ models.TokenMeta) (*models.ExternalTokenMetadata, error) {
	return &models.ExternalTokenMetadata{
		Provider: "off",
		Enabled:  false,
		Error:    s.reason,
	}, nil
}

// cachedService wraps a provider with the per-asset result cache.
type cachedService struct {
	inner interfaces.MetadataService
	cache interfaces.CacheService
	ttl   time.Duration
}

func (s *cachedService) Fetch(ctx context.Context, meta models.TokenMeta) (*models.ExternalTokenMetadata, error) {
	key := fmt.Sprintf("metadata:%s:%s", strings.ToLower(meta.Ticker), strings.ToLower(meta.Name))

	var cached models.ExternalTokenMetadata
	if hit, err := s.cache.Get(key, &cached); err == nil && hit {
		return &cached, nil
	}

	result, err := s.inner.Fetch(ctx, meta)
	if err != nil {
		return result, err
	}
	// Cache successful lookups only; transient provider errors should retry
	// on the next run.
	if result != nil && result.Enabled && result.Error == "" {
		if err := s.cache.Set(key, result, s.ttl); err != nil {
			common.GetLogger().Warn().Err(err).Str("key", key).Msg("Failed to cache metadata result")
		}
	}
	return result, nil
}

// NewService selects the metadata provider from config: CoinGecko when its
// key is present, otherwise CoinMarketCap, otherwise a disabled no-op.
// Results are cached for the configured TTL.
func NewService(config *common.MetadataConfig, cacheSvc interfaces.CacheService) interfaces.MetadataService {
	if config == nil || !config.Enabled {
		return &disabledService{reason: "external metadata enrichment disabled"}
	}

	var provider interfaces.MetadataService
	switch {
	case config.CoinGeckoAPIKey != "":
		provider = NewCoinGeckoService(config.CoinGeckoAPIKey, cacheSvc)
	case config.CoinMarketCapAPIKey != "":
		provider = NewCoinMarketCapService(config.CoinMarketCapAPIKey)
	default:
		return &disabledService{reason: "no external metadata API keys configured"}
	}

	if cacheSvc == nil {
		return provider
	}

	ttl, err := time.ParseDuration(config.CacheTTL)
	if err != nil || ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &cachedService{inner: provider, cache: cacheSvc, ttl: ttl}
}
