package cache

import (
	"context"
	"time"
)

// Cache stores JSON-serializable values with a per-key TTL. The GitHub
// proxy uses it to spare the upstream rate limit; the rest of the app
// works without one.
type Cache interface {
	// Get unmarshals the cached value into dst, reporting whether the key
	// was present.
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, val any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}
