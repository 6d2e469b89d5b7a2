package kvstore

import (
	"context"
	"errors"
)

var (
	// ErrQuotaExceeded is returned when a write would push the backend past its published capacity.
	ErrQuotaExceeded = errors.New("kvstore: quota exceeded")
	// ErrNotConfigured is returned by factories asked for a driver they cannot build.
	ErrNotConfigured = errors.New("kvstore: backend not configured")
)

// Backend is a string-keyed, string-valued durable map.
type Backend interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Driver names accepted by Open.
const (
	DriverNone     = "none"
	DriverMemory   = "memory"
	DriverFile     = "file"
	DriverSQL      = "sql"
	DriverRedis    = "redis"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Options configures Open.
type Options struct {
	Driver     string
	Path       string
	DSN        string
	RedisURL   string
	QuotaBytes int64
}

// Open builds the backend named by opts.Driver, wrapped with a quota when QuotaBytes > 0.
// The none driver returns a nil Backend, which Value treats as a context without storage.
func Open(opts Options) (Backend, func() error, error) {
	noop := func() error { return nil }

	var (
		backend Backend
		closer  = noop
		err     error
	)
	switch opts.Driver {
	case DriverNone:
		return nil, noop, nil
	case "", DriverMemory:
		backend = NewMemoryBackend()
	case DriverFile:
		backend, err = NewFileBackend(opts.Path)
	case DriverSQL, DriverSQLite, DriverPostgres:
		var sqlBackend *SQLBackend
		sqlBackend, err = OpenSQL(opts.DSN)
		if err == nil {
			backend, closer = sqlBackend, sqlBackend.Close
		}
	case DriverRedis:
		var redisBackend *RedisBackend
		redisBackend, err = OpenRedis(opts.RedisURL, "")
		if err == nil {
			backend, closer = redisBackend, redisBackend.Close
		}
	default:
		return nil, noop, ErrNotConfigured
	}
	if err != nil {
		return nil, noop, err
	}

	if opts.QuotaBytes > 0 {
		backend = WithQuota(backend, opts.QuotaBytes)
	}
	return backend, closer, nil
}
