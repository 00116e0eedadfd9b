package cache

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache is the small key/value surface the reports use.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

type Redis struct {
	client *redis.Client
}

// Connect returns a Redis-backed cache, or a no-op cache when addr is empty or
// the server cannot be reached, so caching never blocks startup.
func Connect(ctx context.Context, addr string) Cache {
	if addr == "" {
		slog.Warn("REDIS_ADDR is not set, report caching is disabled")
		return Noop{}
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	if _, err := client.Ping(ctx).Result(); err != nil {
		slog.Error("could not connect to redis, report caching is disabled", "error", err)
		_ = client.Close()
		return Noop{}
	}

	slog.Info("connected to redis", "addr", addr)
	return &Redis{client: client}
}

func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

func (r *Redis) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (r *Redis) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}

func (r *Redis) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return r.client.Del(ctx, keys...).Err()
}

func (r *Redis) Close() error {
	return r.client.Close()
}

type Noop struct{}

func (Noop) Get(context.Context, string) (string, bool, error)        { return "", false, nil }
func (Noop) Set(context.Context, string, string, time.Duration) error { return nil }
func (Noop) Delete(context.Context, ...string) error                  { return nil }
