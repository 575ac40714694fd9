// Package cache provides the transcript cache. Deployments with a Redis
// host use RedisStore; everything else falls back to the in-process
// MemoryStore so the service still deduplicates repeated URLs.
package cache

import (
	"context"
	"time"
)

// Store is the cache interface used by the transcription handlers. Get
// reports whether the key existed; a miss is not an error.
type Store interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}
