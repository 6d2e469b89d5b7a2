package server

import (
	"log/slog"

	redis "github.com/redis/go-redis/v9"

	"github.com/preston-bernstein/gaming-haven/internal/config"
	"github.com/preston-bernstein/gaming-haven/internal/logging"
	"github.com/preston-bernstein/gaming-haven/internal/metrics"
	"github.com/preston-bernstein/gaming-haven/internal/providers"
)

const cacheDriverRedis = "redis"

// providerFactory assembles the catalog provider with shared wrappers (rate limit, retry, cache).
type providerFactory struct {
	logger  *slog.Logger
	metrics *metrics.Recorder
}

func newProviderFactory(logger *slog.Logger, metrics *metrics.Recorder) providerFactory {
	return providerFactory{logger: logger, metrics: metrics}
}

// build returns the wrapped provider and a closer for any cache connection it opened.
func (f providerFactory) build(cfg config.Config) (providers.CatalogProvider, func() error) {
	return f.wrap(cfg, selectProvider(cfg, f.logger))
}

func (f providerFactory) wrap(cfg config.Config, base providers.CatalogProvider) (providers.CatalogProvider, func() error) {
	// The limiter sits closest to upstream so retries also respect the quota.
	limited := providers.NewRateLimitedProvider(base, cfg.IGDB.RateLimit, f.logger)
	retrying := providers.NewRetryingProvider(limited, f.logger, f.metrics,
		normalizeProviderName(cfg.Provider, base), cfg.Search.RetryAttempts, cfg.Search.RetryBackoff)

	cache, closer := f.buildCache(cfg.Cache)
	cached := providers.NewCachingProvider(retrying, providers.CacheConfig{
		Search:   providers.CachePolicy{Fresh: cfg.Search.StaleTime, Retention: cfg.Search.Retention},
		Popular:  providers.CachePolicy{Fresh: cfg.Search.PopularStaleTime, Retention: cfg.Search.PopularRetention},
		Cache:    cache,
		Recorder: f.metrics,
		Logger:   f.logger,
	})
	return cached, closer
}

func (f providerFactory) buildCache(cfg config.CacheConfig) (providers.Cache, func() error) {
	noop := func() error { return nil }
	if cfg.Driver != cacheDriverRedis {
		return providers.NewMemoryCache(), noop
	}

	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logging.Warn(f.logger, "redis cache url invalid, using memory cache", "err", err)
		return providers.NewMemoryCache(), noop
	}
	cli := redis.NewClient(opt)
	cache := providers.NewRedisCache(cli, "", func(err error) {
		logging.Warn(f.logger, "redis cache error", "err", err)
	})
	return cache, cli.Close
}

// NewCatalog builds the configured catalog provider with the same rate limit, retry and cache
// wrappers the service uses. The closer releases any cache connection.
func NewCatalog(cfg config.Config, logger *slog.Logger) (providers.CatalogProvider, func() error) {
	return newProviderFactory(logger, nil).build(cfg)
}
