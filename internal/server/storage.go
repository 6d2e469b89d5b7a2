package server

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/preston-bernstein/gaming-haven/internal/collection"
	"github.com/preston-bernstein/gaming-haven/internal/config"
	"github.com/preston-bernstein/gaming-haven/internal/kvstore"
	"github.com/preston-bernstein/gaming-haven/internal/logging"
	"github.com/preston-bernstein/gaming-haven/internal/metrics"
)

// buildCollection opens the configured storage backend and hydrates the saved-games store from it.
func buildCollection(ctx context.Context, cfg config.StorageConfig, logger *slog.Logger, recorder *metrics.Recorder) (*collection.Store, func() error, error) {
	backend, closer, err := kvstore.Open(kvstore.Options{
		Driver:     cfg.Driver,
		Path:       cfg.Path,
		DSN:        cfg.DSN,
		RedisURL:   cfg.RedisURL,
		QuotaBytes: int64(cfg.QuotaBytes),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("open storage %q: %w", cfg.Driver, err)
	}

	store := collection.New(backend,
		collection.WithKey(cfg.Key),
		collection.WithBus(kvstore.NewBus()),
		collection.WithLogger(logger),
		collection.WithRecorder(recorder),
	)
	store.Hydrate(ctx)
	logging.Info(logger, "collection hydrated",
		slog.String("driver", cfg.Driver),
		slog.Int(logging.FieldCount, store.Len()),
	)
	return store, closer, nil
}

// OpenCollection opens the configured storage and returns a hydrated collection for
// one-shot tools. The closer releases the backend; callers still Close the store.
func OpenCollection(ctx context.Context, cfg config.StorageConfig, logger *slog.Logger) (*collection.Store, func() error, error) {
	return buildCollection(ctx, cfg, logger, nil)
}
