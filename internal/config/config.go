package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds runtime configuration for the service and CLI.
type Config struct {
	Port         string
	PollInterval Duration
	Provider     string
	AdminToken   string
	Log          LogConfig
	IGDB         IGDBConfig
	Search       SearchConfig
	Cache        CacheConfig
	Storage      StorageConfig
	Metrics      MetricsConfig
	Backup       BackupConfig
}

// LogConfig controls the structured logger.
type LogConfig struct {
	Level      string
	Format     string
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	return FromViper(newViper())
}

// LoadFile reads an optional YAML/JSON/TOML config file layered under environment variables.
// The returned viper instance can be passed to Watch.
func LoadFile(path string) (Config, *viper.Viper, error) {
	v := newViper()
	if strings.TrimSpace(path) != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	return FromViper(v), v, nil
}

// FromViper resolves a Config from a prepared viper instance.
func FromViper(v *viper.Viper) Config {
	return Config{
		Port:         stringOrDefault(v, keyPort, defaultPort),
		PollInterval: durationOrDefault(v, keyPollInterval, defaultPollInterval),
		Provider:     strings.ToLower(stringOrDefault(v, keyProvider, defaultProvider)),
		AdminToken:   stringOrDefault(v, keyAdminToken, ""),
		Log:          loadLog(v),
		IGDB:         loadIGDB(v),
		Search:       loadSearch(v),
		Cache:        loadCache(v),
		Storage:      loadStorage(v),
		Metrics:      loadMetrics(v),
		Backup:       loadBackup(v),
	}
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv(keyMetricsOtlpEndpoint, envOtelEndpoint)
	_ = v.BindEnv(keyMetricsServiceName, envOtelService)
	_ = v.BindEnv(keyMetricsOtlpInsecure, envOtelInsecure)
	return v
}

func loadLog(v *viper.Viper) LogConfig {
	return LogConfig{
		Level:      stringOrDefault(v, keyLogLevel, defaultLogLevel),
		Format:     stringOrDefault(v, keyLogFormat, defaultLogFormat),
		File:       stringOrDefault(v, keyLogFile, ""),
		MaxSizeMB:  intOrDefault(v, keyLogMaxSize, 100),
		MaxBackups: intOrDefault(v, keyLogMaxBackups, 3),
		MaxAgeDays: intOrDefault(v, keyLogMaxAge, 28),
		Compress:   boolOrDefault(v, keyLogCompress, false),
	}
}
