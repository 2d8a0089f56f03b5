package cache

import (
	"context"
	"time"
)

// Counter defines the atomic counter operations backed by the cache service.
// This is a port so the waybill allocator does not depend on Redis directly.
type Counter interface {
	// Incr increments the counter at key and returns the new value.
	// The key expires ttl after its last increment. A ttl of 0 means no expiration.
	Incr(ctx context.Context, key string, ttl time.Duration) (int64, error)

	// Ping checks if the cache service is reachable.
	Ping(ctx context.Context) error

	// Close closes the cache connection.
	Close() error
}
