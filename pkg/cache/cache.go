// Package cache provides byte-level caching backends for drawkit.
//
// The style-transfer upload client uses a [Cache] to remember successful
// results so that re-running the same prompt over the same exported image
// does not hit the backend again. Caching is off by default.
//
// # Backends
//
//   - [NullCache]: never stores anything (default)
//   - [FileCache]: JSON entry files under a directory, for the CLI
//   - [RedisCache]: shared cache for multiple server instances
//
// # Keys
//
// Keys are built by a [Keyer] so that every backend sees the same key
// layout. [NewScopedKeyer] prefixes keys for tenant isolation.
package cache

import (
	"context"
	"time"
)

// TTLUpload is the default lifetime of cached upload results. Results point
// at stored objects on the backend, which may be garbage collected.
const TTLUpload = 24 * time.Hour

// Cache stores opaque byte values under string keys.
//
// Get reports (data, true, nil) on hit and (nil, false, nil) on miss.
// Implementations treat expired entries as misses.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}
