package shared

import (
	"context"
	"time"
)

// StatsCache defines the interface for caching computed report figures.
// Get returns (nil, nil) on a cache miss so callers can distinguish a
// miss from a backend failure.
type StatsCache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
