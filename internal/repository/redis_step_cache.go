package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"scenario-server/internal/models"
)

// Compile-time check to ensure implementation satisfies the interface.
var _ StepRepository = (*redisStepCache)(nil)

// redisStepCache is a read-through cache in front of a StepRepository.
// Authored steps are effectively immutable at play time, so a plain TTL is
// enough. Cache failures fall back to the inner repository and are never
// surfaced to callers.
type redisStepCache struct {
	inner  StepRepository
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisStepCache wraps inner with a redis read-through cache.
func NewRedisStepCache(inner StepRepository, client *redis.Client, ttl time.Duration, logger *zap.Logger) StepRepository {
	return &redisStepCache{
		inner:  inner,
		client: client,
		ttl:    ttl,
		logger: logger.Named("RedisStepCache"),
	}
}

func stepCacheKey(id uuid.UUID) string {
	return fmt.Sprintf("scenario_step:%s", id)
}

func (c *redisStepCache) GetByID(ctx context.Context, id uuid.UUID) (*models.ScenarioStep, error) {
	key := stepCacheKey(id)

	cached, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		step := &models.ScenarioStep{}
		if unmarshalErr := json.Unmarshal(cached, step); unmarshalErr == nil {
			return step, nil
		}
		// Unreadable entry: drop it and fall through to the source.
		c.logger.Warn("Dropping corrupt step cache entry", zap.String("key", key))
		c.client.Del(ctx, key)
	} else if !errors.Is(err, redis.Nil) {
		c.logger.Warn("Step cache read failed, falling back to source", zap.String("key", key), zap.Error(err))
	}

	step, err := c.inner.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	encoded, err := json.Marshal(step)
	if err != nil {
		c.logger.Warn("Failed to marshal step for cache", zap.Stringer("stepID", id), zap.Error(err))
		return step, nil
	}
	if err := c.client.Set(ctx, key, encoded, c.ttl).Err(); err != nil {
		c.logger.Warn("Step cache write failed", zap.String("key", key), zap.Error(err))
	}

	return step, nil
}
