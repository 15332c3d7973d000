package cached

import (
	"context"
	"log/slog"
	"time"

	"github.com/yourorg/cobranza/internal/infrastructure/redis"
	"github.com/yourorg/cobranza/pkg/cache"
)

// MemoryBackend adapts the in-process TTL cache to the Backend
// interface. This is the default when no Redis URL is configured.
type MemoryBackend struct {
	cache *cache.Cache
}

// NewMemoryBackend creates a memory-backed cache backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{cache: cache.New()}
}

func (b *MemoryBackend) Get(_ context.Context, key string) (string, bool) {
	value, ok := b.cache.Get(key)
	if !ok {
		return "", false
	}
	s, ok := value.(string)
	return s, ok
}

func (b *MemoryBackend) Set(_ context.Context, key, value string, ttl time.Duration) {
	b.cache.Set(key, value, ttl)
}

func (b *MemoryBackend) Delete(_ context.Context, key string) {
	b.cache.Delete(key)
}

// RedisBackend adapts the Redis client to the Backend interface.
// Failures are logged and treated as misses so the store keeps working
// through a Redis outage.
type RedisBackend struct {
	client *redis.Client
	logger *slog.Logger
}

// NewRedisBackend creates a Redis-backed cache backend.
func NewRedisBackend(client *redis.Client, logger *slog.Logger) *RedisBackend {
	return &RedisBackend{client: client, logger: logger}
}

func (b *RedisBackend) Get(ctx context.Context, key string) (string, bool) {
	value, err := b.client.Get(ctx, key)
	if err != nil {
		return "", false
	}
	return value, true
}

func (b *RedisBackend) Set(ctx context.Context, key, value string, ttl time.Duration) {
	if err := b.client.Set(ctx, key, value, ttl); err != nil {
		b.logger.Warn("cache set failed", slog.String("key", key), slog.String("error", err.Error()))
	}
}

func (b *RedisBackend) Delete(ctx context.Context, key string) {
	if err := b.client.Delete(ctx, key); err != nil {
		b.logger.Warn("cache delete failed", slog.String("key", key), slog.String("error", err.Error()))
	}
}
