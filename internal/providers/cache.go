package providers

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	redis "github.com/redis/go-redis/v9"

	domaingames "github.com/preston-bernstein/gaming-haven/internal/domain/games"
)

// CacheEntry is a cached catalog response.
type CacheEntry struct {
	Results   []domaingames.SearchResult `json:"results"`
	FetchedAt time.Time                  `json:"fetchedAt"`
}

// Cache stores entries that expire once unused for their retention window.
type Cache interface {
	// Get returns the entry for key and marks it used.
	Get(ctx context.Context, key string, retention time.Duration) (CacheEntry, bool)
	Set(ctx context.Context, key string, entry CacheEntry, retention time.Duration)
}

// MemoryCache keeps entries in process.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

type memoryEntry struct {
	entry    CacheEntry
	lastUsed time.Time
}

// NewMemoryCache constructs an empty MemoryCache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]memoryEntry), now: time.Now}
}

func (c *MemoryCache) Get(_ context.Context, key string, retention time.Duration) (CacheEntry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	e, ok := c.entries[key]
	if !ok {
		return CacheEntry{}, false
	}
	if now.Sub(e.lastUsed) > retention {
		delete(c.entries, key)
		return CacheEntry{}, false
	}
	e.lastUsed = now
	c.entries[key] = e
	return e.entry, true
}

func (c *MemoryCache) Set(_ context.Context, key string, entry CacheEntry, _ time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = memoryEntry{entry: entry, lastUsed: c.now()}
}

// Len returns the number of entries, including ones not yet swept.
func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// redisStringCmdable is the slice of the go-redis client used by RedisCache.
type redisStringCmdable interface {
	GetEx(ctx context.Context, key string, expiration time.Duration) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// RedisCache shares entries between instances. Retention maps onto key TTLs,
// refreshed on every read with GETEX.
type RedisCache struct {
	cli    redisStringCmdable
	prefix string
	onErr  func(error)
}

// NewRedisCache wraps a go-redis client. onErr, if set, observes backend failures, which are
// otherwise treated as misses.
func NewRedisCache(cli redisStringCmdable, prefix string, onErr func(error)) *RedisCache {
	if prefix == "" {
		prefix = "haven:catalog:"
	}
	if onErr == nil {
		onErr = func(error) {}
	}
	return &RedisCache{cli: cli, prefix: prefix, onErr: onErr}
}

func (c *RedisCache) Get(ctx context.Context, key string, retention time.Duration) (CacheEntry, bool) {
	raw, err := c.cli.GetEx(ctx, c.prefix+key, retention).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.onErr(err)
		}
		return CacheEntry{}, false
	}
	var entry CacheEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		c.onErr(err)
		return CacheEntry{}, false
	}
	return entry, true
}

func (c *RedisCache) Set(ctx context.Context, key string, entry CacheEntry, retention time.Duration) {
	data, err := json.Marshal(entry)
	if err != nil {
		c.onErr(err)
		return
	}
	if err := c.cli.Set(ctx, c.prefix+key, data, retention).Err(); err != nil {
		c.onErr(err)
	}
}
