package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/radiocast/backend-go/internal/config"
)

const settingKeyPrefix = "settings:"

// SettingsCache fronts the settings table: read-through by name, explicitly
// invalidated on the admin write path.
type SettingsCache interface {
	Get(ctx context.Context, name string) (string, bool, error)
	Set(ctx context.Context, name, value string) error
	Invalidate(ctx context.Context, name string) error
}

type redisSettingsCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopSettingsCache struct{}

// NewSettingsCache returns a redis-backed cache when caching is enabled and
// reachable, otherwise a noop that always misses.
func NewSettingsCache(cfg config.CacheConfig) (SettingsCache, error) {
	if !cfg.Enabled {
		return &noopSettingsCache{}, nil
	}

	client, ttl, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	return &redisSettingsCache{client: client, ttl: ttl}, nil
}

func NewNoopSettingsCache() SettingsCache {
	return &noopSettingsCache{}
}

func (c *redisSettingsCache) Get(ctx context.Context, name string) (string, bool, error) {
	value, err := c.client.Get(ctx, settingKeyPrefix+name).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get failed: %w", err)
	}
	return value, true, nil
}

func (c *redisSettingsCache) Set(ctx context.Context, name, value string) error {
	if err := c.client.Set(ctx, settingKeyPrefix+name, value, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisSettingsCache) Invalidate(ctx context.Context, name string) error {
	if err := c.client.Del(ctx, settingKeyPrefix+name).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func (c *noopSettingsCache) Get(ctx context.Context, name string) (string, bool, error) {
	return "", false, nil
}

func (c *noopSettingsCache) Set(ctx context.Context, name, value string) error { return nil }

func (c *noopSettingsCache) Invalidate(ctx context.Context, name string) error { return nil }
