package cache

import (
	"fmt"

	"github.com/gescom/backend/internal/domain/shared"
	"github.com/gescom/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// NewIdempotencyStore builds the store backing request deduplication.
// It prefers Redis so replayed requests are caught across instances, and
// falls back to the in-memory store when Redis is unreachable.
func NewIdempotencyStore(cfg config.RedisConfig, logger *zap.Logger) shared.IdempotencyStore {
	if logger == nil {
		logger = zap.NewNop()
	}

	store, err := NewRedisIdempotencyStore(RedisConfig{
		Host:     cfg.Host,
		Port:     cfg.Port,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err == nil {
		logger.Info("Using Redis idempotency store",
			zap.String("addr", fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)))
		return store
	}

	logger.Warn("Redis unavailable, falling back to in-memory idempotency store; "+
		"retried requests are only deduplicated within this instance",
		zap.Error(err),
	)
	return NewInMemoryIdempotencyStore()
}
