package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"

	"github.com/preston-bernstein/gaming-haven/internal/backup"
	"github.com/preston-bernstein/gaming-haven/internal/config"
	"github.com/preston-bernstein/gaming-haven/internal/logging"
)

// buildBackup opens the backup bucket when backups are enabled. It returns nil when they are
// disabled or the bucket cannot be opened; the service runs without backups in that case.
func buildBackup(ctx context.Context, cfg config.BackupConfig, logger *slog.Logger) *backup.Writer {
	if !cfg.Enabled {
		return nil
	}
	writer, err := OpenBackup(ctx, cfg, logger)
	if err != nil {
		logging.Warn(logger, "backup bucket unavailable, backups disabled", "err", err)
		return nil
	}
	logging.Info(logger, "collection backups enabled",
		slog.String("bucket", cfg.BucketURL),
		slog.Int("retention_days", writer.RetentionDays()),
	)
	return writer
}

// OpenBackup opens the configured bucket whether or not scheduled backups are enabled.
func OpenBackup(ctx context.Context, cfg config.BackupConfig, logger *slog.Logger) (*backup.Writer, error) {
	if err := ensureBucketDir(cfg.BucketURL); err != nil {
		return nil, fmt.Errorf("backup directory: %w", err)
	}
	return backup.Open(ctx, cfg.BucketURL, cfg.RetentionDays, logger)
}

// ensureBucketDir creates the directory behind a file:// bucket, which fileblob requires to exist.
func ensureBucketDir(raw string) error {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme != "file" || u.Path == "" {
		return nil
	}
	return os.MkdirAll(u.Path, 0o755)
}
