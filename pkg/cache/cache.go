// Package cache provides a TTL cache for registry responses.
//
// The file-backed implementation stores one file per entry under a
// directory, each wrapping the payload with an expiration timestamp.
// A null implementation disables caching entirely.
package cache

import (
	"context"
	"time"
)

// Cache stores byte payloads under string keys with per-entry expiration.
type Cache interface {
	// Get retrieves a value. The second return value reports a hit.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores a value with the given TTL. A zero TTL means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases any resources held by the cache.
	Close() error
}
