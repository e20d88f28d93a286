package common

import (
	"strings"
	"time"

	"policereserves/roster/internal/metrics"
)

// CacheInterface defines the contract for cache implementations. Values are
// stored as JSON so both implementations hand back independent copies.
type CacheInterface interface {
	// Set stores a value in cache with the given key and duration
	Set(key string, value interface{}, duration time.Duration)

	// Get decodes the cached value into dest
	// Returns false on a miss or if the value cannot be decoded
	Get(key string, dest interface{}) bool

	// Delete removes a value from cache by key
	Delete(key string)

	// Close closes any underlying connections (for Redis, etc.)
	Close() error
}

// GetOrSet retrieves a value from cache, or loads it using the loader function if not found
func GetOrSet[T any](c CacheInterface, key string, duration time.Duration, loader func() (T, error)) (T, error) {
	var val T
	if c.Get(key, &val) {
		return val, nil
	}

	val, err := loader()
	if err != nil {
		return val, err
	}

	c.Set(key, val, duration)
	return val, nil
}

// InstrumentedCache counts hits and misses per key prefix
type InstrumentedCache struct {
	CacheInterface
	metrics *metrics.MetricsRegistry
}

func NewInstrumentedCache(c CacheInterface, m *metrics.MetricsRegistry) *InstrumentedCache {
	return &InstrumentedCache{CacheInterface: c, metrics: m}
}

func (c *InstrumentedCache) Get(key string, dest interface{}) bool {
	found := c.CacheInterface.Get(key, dest)
	if found {
		c.metrics.CacheHitsTotal.WithLabelValues(keyPattern(key)).Inc()
	} else {
		c.metrics.CacheMissesTotal.WithLabelValues(keyPattern(key)).Inc()
	}
	return found
}

// keyPattern reduces "IDENTITY_abc" to "IDENTITY_" so label cardinality
// stays bounded
func keyPattern(key string) string {
	if i := strings.IndexByte(key, '_'); i >= 0 {
		return key[:i+1]
	}
	return "other"
}
