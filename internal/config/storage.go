package config

import "github.com/spf13/viper"

// StorageConfig selects the durable key-value backend behind the collection.
// Driver is one of file|sqlite|postgres|redis|memory|none.
type StorageConfig struct {
	Driver     string
	Path       string
	DSN        string
	RedisURL   string
	Key        string
	QuotaBytes int
}

// CacheConfig selects where catalog responses are cached (memory|redis).
type CacheConfig struct {
	Driver   string
	RedisURL string
}

func loadStorage(v *viper.Viper) StorageConfig {
	return StorageConfig{
		Driver:     stringOrDefault(v, keyStorageDriver, defaultStorageDriver),
		Path:       stringOrDefault(v, keyStoragePath, defaultStoragePath),
		DSN:        stringOrDefault(v, keyStorageDSN, ""),
		RedisURL:   stringOrDefault(v, keyStorageRedisURL, ""),
		Key:        stringOrDefault(v, keyStorageKey, defaultStorageKey),
		QuotaBytes: intOrDefault(v, keyStorageQuota, defaultStorageQuota),
	}
}

func loadCache(v *viper.Viper) CacheConfig {
	return CacheConfig{
		Driver:   stringOrDefault(v, keyCacheDriver, defaultCacheDriver),
		RedisURL: stringOrDefault(v, keyCacheRedisURL, ""),
	}
}
