package config

import "time"

const (
	keyPort         = "port"
	keyPollInterval = "poll_interval"
	keyProvider     = "provider"
	keyAdminToken   = "admin_token"

	keyLogLevel      = "log.level"
	keyLogFormat     = "log.format"
	keyLogFile       = "log.file"
	keyLogMaxSize    = "log.max_size"
	keyLogMaxBackups = "log.max_backups"
	keyLogMaxAge     = "log.max_age"
	keyLogCompress   = "log.compress"

	keyIGDBBaseURL      = "igdb.base_url"
	keyIGDBTokenURL     = "igdb.token_url"
	keyIGDBClientID     = "igdb.client_id"
	keyIGDBClientSecret = "igdb.client_secret"
	keyIGDBRateLimit    = "igdb.rate_limit"
	keyIGDBTimeout      = "igdb.timeout"

	keySearchDebounce      = "search.debounce"
	keySearchLimit         = "search.limit"
	keyPopularLimit        = "search.popular_limit"
	keySearchStaleTime     = "search.stale_time"
	keySearchRetention     = "search.retention"
	keyPopularStaleTime    = "search.popular_stale_time"
	keyPopularRetention    = "search.popular_retention"
	keySearchRetryAttempts = "search.retry_attempts"
	keySearchRetryBackoff  = "search.retry_backoff"
	keyCacheDriver         = "cache.driver"
	keyCacheRedisURL       = "cache.redis_url"
	keyStorageDriver       = "storage.driver"
	keyStoragePath         = "storage.path"
	keyStorageDSN          = "storage.dsn"
	keyStorageRedisURL     = "storage.redis_url"
	keyStorageKey          = "storage.key"
	keyStorageQuota        = "storage.quota_bytes"
	keyMetricsEnabled      = "metrics.enabled"
	keyMetricsPort         = "metrics.port"
	keyMetricsOtlpEndpoint = "metrics.otlp_endpoint"
	keyMetricsServiceName  = "metrics.service_name"
	keyMetricsOtlpInsecure = "metrics.otlp_insecure"
	keyBackupEnabled       = "backup.enabled"
	keyBackupBucketURL     = "backup.bucket_url"
	keyBackupRetentionDays = "backup.retention_days"

	envOtelEndpoint = "OTEL_EXPORTER_OTLP_ENDPOINT"
	envOtelService  = "OTEL_SERVICE_NAME"
	envOtelInsecure = "OTEL_EXPORTER_OTLP_INSECURE"

	defaultPort = "4000"
	// Popular suggestions change rarely; warm them well inside their freshness window.
	defaultPollInterval = 30 * time.Minute
	defaultProvider     = "fixture"
	defaultLogLevel     = "info"
	defaultLogFormat    = "text"

	defaultIGDBBaseURL  = "https://api.igdb.com/v4"
	defaultIGDBTokenURL = "https://id.twitch.tv/oauth2/token"
	// IGDB allows 4 requests per second per client.
	defaultIGDBRateLimit = 4
	defaultIGDBTimeout   = 10 * time.Second

	defaultSearchDebounce      = 300 * time.Millisecond
	defaultSearchLimit         = 10
	defaultPopularLimit        = 8
	defaultSearchStaleTime     = 5 * time.Minute
	defaultSearchRetention     = 10 * time.Minute
	defaultPopularStaleTime    = time.Hour
	defaultPopularRetention    = 24 * time.Hour
	defaultSearchRetryAttempts = 3
	defaultSearchRetryBackoff  = time.Second

	defaultCacheDriver   = "memory"
	defaultStorageDriver = "file"
	defaultStoragePath   = "data/storage"
	defaultStorageKey    = "savedGames"
	// Mirrors the few-MB capacity of browser durable storage.
	defaultStorageQuota = 5 * 1024 * 1024

	defaultMetricsPort    = "9090"
	defaultMetricsService = "gaming-haven"

	defaultBackupEnabled       = false
	defaultBackupBucketURL     = "file:///var/lib/gaming-haven/backups"
	defaultBackupRetentionDays = 14
)
