package providers

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	domaingames "github.com/preston-bernstein/gaming-haven/internal/domain/games"
	"github.com/preston-bernstein/gaming-haven/internal/logging"
	"github.com/preston-bernstein/gaming-haven/internal/metrics"
)

// Cache names used for metrics.
const (
	CacheSearch  = "search"
	CachePopular = "popular"
)

// CachePolicy sets how long entries are served without refetching (Fresh) and how long
// they are kept after their last use (Retention).
type CachePolicy struct {
	Fresh     time.Duration
	Retention time.Duration
}

// CacheConfig configures NewCachingProvider.
type CacheConfig struct {
	Search   CachePolicy
	Popular  CachePolicy
	Cache    Cache
	Recorder *metrics.Recorder
	Logger   *slog.Logger
}

// DefaultSearchPolicy and DefaultPopularPolicy match how often each list changes.
var (
	DefaultSearchPolicy  = CachePolicy{Fresh: 5 * time.Minute, Retention: 10 * time.Minute}
	DefaultPopularPolicy = CachePolicy{Fresh: time.Hour, Retention: 24 * time.Hour}
)

// sharedFetchTimeout bounds an upstream call that no caller can cancel on its own.
var sharedFetchTimeout = 30 * time.Second

// cachingProvider serves repeated (query, limit) lookups from a cache while they are fresh.
// Concurrent misses for the same key share one upstream call.
type cachingProvider struct {
	next     CatalogProvider
	cache    Cache
	search   CachePolicy
	popular  CachePolicy
	recorder *metrics.Recorder
	logger   *slog.Logger
	group    singleflight.Group
	now      func() time.Time
}

// NewCachingProvider wraps next with a cache. Zero policy fields use the defaults.
func NewCachingProvider(next CatalogProvider, cfg CacheConfig) CatalogProvider {
	if cfg.Cache == nil {
		cfg.Cache = NewMemoryCache()
	}
	return &cachingProvider{
		next:     next,
		cache:    cfg.Cache,
		search:   withDefaults(cfg.Search, DefaultSearchPolicy),
		popular:  withDefaults(cfg.Popular, DefaultPopularPolicy),
		recorder: cfg.Recorder,
		logger:   cfg.Logger,
		now:      time.Now,
	}
}

func (c *cachingProvider) Name() string {
	return NameOf(c.next)
}

func (c *cachingProvider) Search(ctx context.Context, query string, limit int) ([]domaingames.SearchResult, error) {
	key := SearchCacheKey(query, limit)
	return c.lookup(ctx, CacheSearch, key, c.search, func(ctx context.Context) ([]domaingames.SearchResult, error) {
		return c.next.Search(ctx, strings.TrimSpace(query), limit)
	})
}

func (c *cachingProvider) Popular(ctx context.Context, limit int) ([]domaingames.SearchResult, error) {
	key := PopularCacheKey(limit)
	return c.lookup(ctx, CachePopular, key, c.popular, func(ctx context.Context) ([]domaingames.SearchResult, error) {
		return c.next.Popular(ctx, limit)
	})
}

func (c *cachingProvider) lookup(ctx context.Context, kind, key string, policy CachePolicy, fetch func(context.Context) ([]domaingames.SearchResult, error)) ([]domaingames.SearchResult, error) {
	cached, ok := c.cache.Get(ctx, key, policy.Retention)
	if ok && c.now().Sub(cached.FetchedAt) < policy.Fresh {
		c.recorder.RecordCacheLookup(kind, true)
		return cached.Results, nil
	}
	c.recorder.RecordCacheLookup(kind, false)

	// The shared call outlives any single caller; each caller only waits on its own ctx.
	ch := c.group.DoChan(key, func() (any, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sharedFetchTimeout)
		defer cancel()
		results, err := fetch(fetchCtx)
		if err != nil {
			return nil, err
		}
		c.cache.Set(fetchCtx, key, CacheEntry{Results: results, FetchedAt: c.now()}, policy.Retention)
		return results, nil
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res = <-ch:
	}
	if res.Err != nil {
		if ok {
			logging.Warn(logging.FromContext(ctx, c.logger), "serving stale catalog entry", "cache", kind, logging.FieldKey, key, "err", res.Err)
			return cached.Results, nil
		}
		return nil, res.Err
	}
	return res.Val.([]domaingames.SearchResult), nil
}

// SearchCacheKey identifies a search by its trimmed query and limit.
func SearchCacheKey(query string, limit int) string {
	return fmt.Sprintf("search:%d:%s", limit, strings.TrimSpace(query))
}

// PopularCacheKey identifies the popular list by limit.
func PopularCacheKey(limit int) string {
	return fmt.Sprintf("popular:%d", limit)
}

func withDefaults(p, def CachePolicy) CachePolicy {
	if p.Fresh <= 0 {
		p.Fresh = def.Fresh
	}
	if p.Retention <= 0 {
		p.Retention = def.Retention
	}
	if p.Retention < p.Fresh {
		p.Retention = p.Fresh
	}
	return p
}
