package cache

import (
	"context"
	"time"
)

// Cache is a small TTL cache for display-only reads. Values served from it
// may be up to one TTL stale; nothing correctness-critical may consult it.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}
