// Package cache provides the Badger-backed TTL cache used for external
// lookups (token metadata, provider coin lists).
package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/timshannon/badgerhold/v4"

	"github.com/ternarybob/censeo/internal/common"
	"github.com/ternarybob/censeo/internal/interfaces"
)

// entry is the stored cache record. Values are JSON so the cache stays
// agnostic to caller types.
type entry struct {
	Key       string `badgerhold:"key"`
	Data      []byte
	ExpiresAt time.Time
}

// BadgerCache implements interfaces.CacheService on a badgerhold store.
type BadgerCache struct {
	store  *badgerhold.Store
	logger arbor.ILogger
	now    func() time.Time
}

// Compile-time interface check.
var _ interfaces.CacheService = (*BadgerCache)(nil)

// NewBadgerCache opens (or creates) the cache database at the configured path.
func NewBadgerCache(logger arbor.ILogger, config *common.BadgerConfig) (*BadgerCache, error) {
	if config.ResetOnStartup {
		if _, err := os.Stat(config.Path); err == nil {
			logger.Debug().Str("path", config.Path).Msg("Deleting existing cache database (reset_on_startup=true)")
			if err := os.RemoveAll(config.Path); err != nil {
				logger.Warn().Err(err).Str("path", config.Path).Msg("Failed to delete cache directory")
			}
		}
	}

	dir := filepath.Dir(config.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	options := badgerhold.DefaultOptions
	options.Dir = config.Path
	options.ValueDir = config.Path
	options.Logger = nil // arbor handles logging

	store, err := badgerhold.Open(options)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	logger.Debug().Str("path", config.Path).Msg("Cache database initialized")

	return &BadgerCache{
		store:  store,
		logger: logger,
		now:    time.Now,
	}, nil
}

func (c *BadgerCache) Get(key string, dest interface{}) (bool, error) {
	var e entry
	if err := c.store.Get(key, &e); err != nil {
		if err == badgerhold.ErrNotFound {
			return false, nil
		}
		return false, fmt.Errorf("cache get %s: %w", key, err)
	}

	if c.now().After(e.ExpiresAt) {
		// Lazy expiry: drop the stale entry and report a miss.
		if err := c.store.Delete(key, &entry{}); err != nil && err != badgerhold.ErrNotFound {
			c.logger.Warn().Err(err).Str("key", key).Msg("Failed to evict expired cache entry")
		}
		return false, nil
	}

	if err := json.Unmarshal(e.Data, dest); err != nil {
		return false, fmt.Errorf("cache decode %s: %w", key, err)
	}
	return true, nil
}

func (c *BadgerCache) Set(key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache encode %s: %w", key, err)
	}
	e := entry{
		Key:       key,
		Data:      data,
		ExpiresAt: c.now().Add(ttl),
	}
	if err := c.store.Upsert(key, &e); err != nil {
		return fmt.Errorf("cache set %s: %w", key, err)
	}
	return nil
}

func (c *BadgerCache) Delete(key string) error {
	if err := c.store.Delete(key, &entry{}); err != nil && err != badgerhold.ErrNotFound {
		return fmt.Errorf("cache delete %s: %w", key, err)
	}
	return nil
}

func (c *BadgerCache) Close() error {
	if c.store != nil {
		return c.store.Close()
	}
	return nil
}
