// Package cache stores CMS responses for a short time so that page renders
// do not hit the CMS on every request.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/princinho/catalogsite/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Store is a JSON value cache with a fixed TTL.
type Store interface {
	// Get decodes the cached value for key into dest and reports whether it was found.
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}) error
	Delete(ctx context.Context, key string) error
}

// New returns a redis-backed store when cfg.Addr is set and reachable,
// otherwise an in-process store.
func New(ctx context.Context, cfg config.RedisConfig, prefix string, ttl time.Duration) Store {
	if cfg.Addr == "" {
		zap.L().Info("Redis not configured, using in-memory cache")
		return NewMemory(ttl)
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		zap.L().Warn("Redis configured but not reachable, using in-memory cache",
			zap.String("addr", cfg.Addr), zap.Error(err))
		_ = client.Close()
		return NewMemory(ttl)
	}
	zap.L().Info("Redis connection successful", zap.String("addr", cfg.Addr))
	return NewRedis(client, prefix, ttl)
}

// Redis caches values in redis under a key prefix.
type Redis struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedis(client *redis.Client, prefix string, ttl time.Duration) *Redis {
	return &Redis{client: client, prefix: prefix, ttl: ttl}
}

func (c *Redis) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, fmt.Errorf("cache get error: %w", err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("cache unmarshal error: %w", err)
	}
	return true, nil
}

func (c *Redis) Set(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache marshal error: %w", err)
	}
	if err := c.client.Set(ctx, c.prefix+key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set error: %w", err)
	}
	return nil
}

func (c *Redis) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, c.prefix+key).Err(); err != nil {
		return fmt.Errorf("cache delete error: %w", err)
	}
	return nil
}

// Memory is a thread-safe in-process store. Values are kept as JSON so
// callers get the same copy semantics as with redis.
type Memory struct {
	m   sync.Map
	ttl time.Duration
	now func() time.Time
}

type memoryItem struct {
	data      []byte
	expiresAt time.Time
}

func NewMemory(ttl time.Duration) *Memory {
	return &Memory{ttl: ttl, now: time.Now}
}

func (c *Memory) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	v, ok := c.m.Load(key)
	if !ok {
		return false, nil
	}
	item := v.(memoryItem)
	if !item.expiresAt.IsZero() && c.now().After(item.expiresAt) {
		c.m.Delete(key)
		return false, nil
	}
	if err := json.Unmarshal(item.data, dest); err != nil {
		return false, fmt.Errorf("cache unmarshal error: %w", err)
	}
	return true, nil
}

func (c *Memory) Set(_ context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache marshal error: %w", err)
	}
	item := memoryItem{data: data}
	if c.ttl > 0 {
		item.expiresAt = c.now().Add(c.ttl)
	}
	c.m.Store(key, item)
	return nil
}

func (c *Memory) Delete(_ context.Context, key string) error {
	c.m.Delete(key)
	return nil
}
