// Package cache provides Redis-backed caches for derived data.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	appreorder "github.com/retailops/backend/internal/application/reorder"
	"github.com/retailops/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// RedisVelocityCache caches computed sales velocity maps in Redis.
// Velocity is derived data, so cache failures degrade to recomputation
// and are only logged.
type RedisVelocityCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisClient creates a Redis client from configuration
func NewRedisClient(cfg *config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// NewRedisVelocityCache creates a velocity cache with the given TTL
func NewRedisVelocityCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisVelocityCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &RedisVelocityCache{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

func velocityKey(tenantID uuid.UUID, lookbackWeeks int) string {
	return fmt.Sprintf("velocity:%s:%d", tenantID, lookbackWeeks)
}

// Get returns the cached velocity map for a tenant and lookback window
func (c *RedisVelocityCache) Get(ctx context.Context, tenantID uuid.UUID, lookbackWeeks int) (map[uuid.UUID]appreorder.ProductVelocity, bool) {
	payload, err := c.client.Get(ctx, velocityKey(tenantID, lookbackWeeks)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("velocity cache read failed",
				zap.String("tenant_id", tenantID.String()),
				zap.Error(err),
			)
		}
		return nil, false
	}

	var velocities map[uuid.UUID]appreorder.ProductVelocity
	if err := json.Unmarshal(payload, &velocities); err != nil {
		c.logger.Warn("velocity cache entry corrupt, dropping",
			zap.String("tenant_id", tenantID.String()),
			zap.Error(err),
		)
		c.client.Del(ctx, velocityKey(tenantID, lookbackWeeks))
		return nil, false
	}

	return velocities, true
}

// Set stores the velocity map for a tenant and lookback window
func (c *RedisVelocityCache) Set(ctx context.Context, tenantID uuid.UUID, lookbackWeeks int, velocities map[uuid.UUID]appreorder.ProductVelocity) {
	payload, err := json.Marshal(velocities)
	if err != nil {
		c.logger.Warn("velocity cache encode failed", zap.Error(err))
		return
	}

	if err := c.client.Set(ctx, velocityKey(tenantID, lookbackWeeks), payload, c.ttl).Err(); err != nil {
		c.logger.Warn("velocity cache write failed",
			zap.String("tenant_id", tenantID.String()),
			zap.Error(err),
		)
	}
}

// Invalidate drops the cached entry for a tenant and lookback window
func (c *RedisVelocityCache) Invalidate(ctx context.Context, tenantID uuid.UUID, lookbackWeeks int) {
	if err := c.client.Del(ctx, velocityKey(tenantID, lookbackWeeks)).Err(); err != nil {
		c.logger.Warn("velocity cache invalidation failed",
			zap.String("tenant_id", tenantID.String()),
			zap.Error(err),
		)
	}
}

// Ensure RedisVelocityCache implements the velocity cache contract
var _ appreorder.VelocityCache = (*RedisVelocityCache)(nil)
