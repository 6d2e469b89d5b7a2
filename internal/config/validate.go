package config

import (
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strconv"
)

var (
	knownProviders      = []string{"fixture", "igdb"}
	knownStorageDrivers = []string{"none", "memory", "file", "sql", "sqlite", "postgres", "redis"}
	knownCacheDrivers   = []string{"memory", "redis"}
	knownLogFormats     = []string{"text", "json"}
)

// Validate reports every problem with cfg. A nil result means the service can start with it.
func Validate(cfg Config) error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	if !validPort(cfg.Port) {
		add("port %q is not a valid TCP port", cfg.Port)
	}
	if !slices.Contains(knownProviders, cfg.Provider) {
		add("provider %q is not one of %v", cfg.Provider, knownProviders)
	}
	if cfg.Provider == "igdb" && !cfg.IGDB.Configured() {
		add("provider igdb requires igdb.client_id and igdb.client_secret")
	}
	if !slices.Contains(knownLogFormats, cfg.Log.Format) {
		add("log.format %q is not one of %v", cfg.Log.Format, knownLogFormats)
	}

	switch {
	case !slices.Contains(knownStorageDrivers, cfg.Storage.Driver):
		add("storage.driver %q is not one of %v", cfg.Storage.Driver, knownStorageDrivers)
	case cfg.Storage.Driver == "file" && cfg.Storage.Path == "":
		add("storage.driver file requires storage.path")
	case (cfg.Storage.Driver == "sql" || cfg.Storage.Driver == "sqlite" || cfg.Storage.Driver == "postgres") && cfg.Storage.DSN == "":
		add("storage.driver %s requires storage.dsn", cfg.Storage.Driver)
	case cfg.Storage.Driver == "redis" && cfg.Storage.RedisURL == "":
		add("storage.driver redis requires storage.redis_url")
	}

	if !slices.Contains(knownCacheDrivers, cfg.Cache.Driver) {
		add("cache.driver %q is not one of %v", cfg.Cache.Driver, knownCacheDrivers)
	} else if cfg.Cache.Driver == "redis" && cfg.Cache.RedisURL == "" {
		add("cache.driver redis requires cache.redis_url")
	}

	if cfg.Metrics.Enabled && !validPort(cfg.Metrics.Port) {
		add("metrics.port %q is not a valid TCP port", cfg.Metrics.Port)
	}

	if cfg.Backup.Enabled {
		u, err := url.Parse(cfg.Backup.BucketURL)
		if err != nil || u.Scheme == "" {
			add("backup.bucket_url %q is not a bucket URL", cfg.Backup.BucketURL)
		}
	}

	return errors.Join(errs...)
}

func validPort(raw string) bool {
	n, err := strconv.Atoi(raw)
	return err == nil && n >= 0 && n <= 65535
}
