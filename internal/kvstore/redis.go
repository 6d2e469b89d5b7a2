package kvstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"
)

const defaultRedisPrefix = "haven:"

// redisCmdable is the slice of the go-redis client used by RedisBackend.
type redisCmdable interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// RedisBackend stores values as plain Redis strings under a key prefix.
type RedisBackend struct {
	cli    redisCmdable
	closer func() error
	prefix string
}

// OpenRedis parses a redis:// URL and connects lazily.
func OpenRedis(url, prefix string) (*RedisBackend, error) {
	if url == "" {
		return nil, fmt.Errorf("redis backend: %w", ErrNotConfigured)
	}
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis parse url: %w", err)
	}
	cli := redis.NewClient(opt)
	b := NewRedisBackend(cli, prefix)
	b.closer = cli.Close
	return b, nil
}

// NewRedisBackend wraps an existing client.
func NewRedisBackend(cli redisCmdable, prefix string) *RedisBackend {
	if prefix == "" {
		prefix = defaultRedisPrefix
	}
	return &RedisBackend{cli: cli, prefix: prefix, closer: func() error { return nil }}
}

func (r *RedisBackend) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := r.cli.Get(ctx, r.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (r *RedisBackend) Set(ctx context.Context, key, value string) error {
	return r.cli.Set(ctx, r.prefix+key, value, 0).Err()
}

func (r *RedisBackend) Delete(ctx context.Context, key string) error {
	return r.cli.Del(ctx, r.prefix+key).Err()
}

// Close closes the client when this backend created it.
func (r *RedisBackend) Close() error {
	return r.closer()
}
