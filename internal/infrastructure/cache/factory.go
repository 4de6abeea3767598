// Package cache provides the idempotency stores behind the Idempotency-Key
// header.
package cache

import (
	"context"

	"github.com/forgeledger/backend/internal/domain/shared"
	"github.com/forgeledger/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// NewIdempotencyStore returns the Redis store when Redis is enabled and the
// in-memory store otherwise. An enabled but unreachable Redis is an error:
// silently falling back would let replicas accept the same key twice.
func NewIdempotencyStore(ctx context.Context, cfg config.RedisConfig, logger *zap.Logger) (shared.IdempotencyStore, error) {
	if !cfg.Enabled {
		logger.Info("Using in-memory idempotency store")
		return NewInMemoryIdempotencyStore(), nil
	}
	store, err := NewRedisIdempotencyStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	logger.Info("Using Redis idempotency store", zap.String("addr", cfg.Addr()))
	return store, nil
}
