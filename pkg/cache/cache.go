// Package cache provides pluggable byte caches for HTTP response caching.
//
// Registry lookups are dominated by repeated identical GETs (package
// metadata, channel listings, formula catalogs). Backends implement the
// Cache interface: a file-based cache for CLI usage, a redis-backed cache
// for shared deployments, and a null cache to disable caching entirely.
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte values under string keys with per-entry TTLs.
//
// Implementations must be safe for concurrent use; the search orchestrator
// drives many workers through the same backend.
type Cache interface {
	// Get retrieves a value. The second return value reports whether the
	// key was present and fresh; expired or missing entries are a miss,
	// not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A ttl of 0 means the entry never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the backend.
	Close() error
}
