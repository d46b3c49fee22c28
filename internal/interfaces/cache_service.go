package interfaces

import "time"

// CacheService is a TTL key/value cache for external lookups (token metadata,
// coin lists). Entries are JSON-serialised by the implementation; a miss and
// an expired entry are indistinguishable to callers.
type CacheService interface {
	// Get unmarshals the cached value for key into dest. Returns false on a
	// miss or an expired entry.
	Get(key string, dest interface{}) (bool, error)

	// Set stores value under key with the given time-to-live.
	Set(key string, value interface{}, ttl time.Duration) error

	// Delete removes an entry. Deleting a missing key is not an error.
	Delete(key string) error

	// Close releases the underlying store.
	Close() error
}
