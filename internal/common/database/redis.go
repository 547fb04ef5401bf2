// internal/common/database/redis.go
package database

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"product-application-workers/internal/common/config"

	"github.com/redis/go-redis/v9"
)

// RedisClient wraps the Redis client
type RedisClient struct {
	Client *redis.Client
}

// NewRedis creates a new Redis client
func NewRedis(cfg config.RedisConfig) (*RedisClient, error) {
	if cfg.Address == "" {
		return nil, fmt.Errorf("redis address is empty")
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 5,
	})

	return &RedisClient{Client: rdb}, nil
}

// Ping tests the Redis connection
func (c *RedisClient) Ping(ctx context.Context) error {
	if err := c.Client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

// Close closes the Redis connection
func (c *RedisClient) Close() error {
	if c.Client != nil {
		return c.Client.Close()
	}
	return nil
}

// SubmissionCache remembers the result code of a submitted job so a
// re-activated job does not reach underwriting twice.
type SubmissionCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewSubmissionCache(client redis.Cmdable, ttl time.Duration) *SubmissionCache {
	return &SubmissionCache{client: client, ttl: ttl}
}

// SubmissionCacheKey identifies one service task execution.
func SubmissionCacheKey(processInstanceKey, elementInstanceKey int64) string {
	return fmt.Sprintf("product-application:submission:%d:%d", processInstanceKey, elementInstanceKey)
}

// Get returns the cached code; found is false on a miss.
func (c *SubmissionCache) Get(ctx context.Context, key string) (code int, found bool, err error) {
	val, err := c.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("submission cache get: %w", err)
	}

	code, err = strconv.Atoi(val)
	if err != nil {
		return 0, false, fmt.Errorf("submission cache value %q: %w", val, err)
	}
	return code, true, nil
}

func (c *SubmissionCache) Set(ctx context.Context, key string, code int) error {
	if err := c.client.Set(ctx, key, strconv.Itoa(code), c.ttl).Err(); err != nil {
		return fmt.Errorf("submission cache set: %w", err)
	}
	return nil
}
