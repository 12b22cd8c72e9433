package middleware

import (
	"net/http"
	"time"

	"github.com/gescom/backend/internal/domain/shared"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// IdempotencyKeyHeader carries the client-chosen key for request deduplication
const IdempotencyKeyHeader = "Idempotency-Key"

// DefaultIdempotencyTTL is how long an accepted key blocks replays
const DefaultIdempotencyTTL = 24 * time.Hour

// IdempotencyConfig holds configuration for the idempotency guard
type IdempotencyConfig struct {
	// Store records accepted request keys
	Store shared.IdempotencyStore
	// TTL overrides DefaultIdempotencyTTL when positive
	TTL time.Duration
	// Logger for middleware logging
	Logger *zap.Logger
}

// IdempotencyGuard rejects replays of mutating requests that carry an
// Idempotency-Key header. Requests without the header pass through
// unchecked. Keys are scoped to the authenticated user, method, and
// route, so the same key on different endpoints does not collide.
//
// If the store is unreachable the request is allowed through: a retried
// write is preferable to rejecting all writes while Redis is down.
func IdempotencyGuard(cfg IdempotencyConfig) gin.HandlerFunc {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultIdempotencyTTL
	}

	return func(c *gin.Context) {
		key := c.GetHeader(IdempotencyKeyHeader)
		if key == "" {
			c.Next()
			return
		}

		scopedKey := GetJWTUserID(c) + ":" + c.Request.Method + ":" + c.FullPath() + ":" + key

		isNew, err := cfg.Store.MarkProcessed(c.Request.Context(), scopedKey, ttl)
		if err != nil {
			if cfg.Logger != nil {
				cfg.Logger.Warn("Idempotency store unavailable, allowing request",
					zap.String("path", c.Request.URL.Path),
					zap.Error(err))
			}
			c.Next()
			return
		}

		if !isNew {
			if cfg.Logger != nil {
				cfg.Logger.Info("Rejected replayed request",
					zap.String("path", c.Request.URL.Path),
					zap.String("idempotency_key", key))
			}
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DUPLICATE_REQUEST",
					"message": "A request with this idempotency key was already accepted",
				},
			})
			return
		}

		c.Next()
	}
}
