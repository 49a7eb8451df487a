// Package cache provides trace caching for headless computation.
//
// Traces are deterministic in (algorithm, input values), so a computed
// trace can be reused indefinitely. The CLI uses a file-backed cache under
// the XDG cache directory; server deployments can point at Redis instead.
// A null implementation disables caching entirely.
package cache

import (
	"context"
	"time"
)

// TTLTrace is how long cached traces are kept. Traces never go stale, but
// a bounded TTL keeps cache directories from growing without limit.
const TTLTrace = 30 * 24 * time.Hour

// Cache stores computed trace artifacts keyed by content hash.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key was
	// present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with a TTL. A zero TTL means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}

// TraceKey builds the cache key for a trace computation.
func TraceKey(algorithm string, values []int) string {
	return hashKey("trace", algorithm, values)
}
