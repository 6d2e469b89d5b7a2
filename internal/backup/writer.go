package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
	"time"

	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/memblob"
	_ "gocloud.dev/blob/s3blob"
	"gocloud.dev/gcerrors"

	domaingames "github.com/preston-bernstein/gaming-haven/internal/domain/games"
	"github.com/preston-bernstein/gaming-haven/internal/logging"
	"github.com/preston-bernstein/gaming-haven/internal/timeutil"
)

const defaultRetentionDays = 14

// ErrNotFound is returned by Read when no backup exists for a date.
var ErrNotFound = errors.New("backup not found")

// Snapshot is the payload stored for one day.
type Snapshot struct {
	Date  string                  `json:"date"`
	Count int                     `json:"count"`
	Games []domaingames.SavedGame `json:"games"`
}

// Writer persists daily collection backups and a manifest to a blob bucket,
// pruning backups older than the retention window.
type Writer struct {
	bucket        *blob.Bucket
	retentionDays int
	logger        *slog.Logger
	now           func() time.Time
}

// Open opens the bucket at url (file://, mem:// or s3://) and wraps it in a Writer.
func Open(ctx context.Context, url string, retentionDays int, logger *slog.Logger) (*Writer, error) {
	if strings.TrimSpace(url) == "" {
		return nil, fmt.Errorf("backup bucket url required")
	}
	bucket, err := blob.OpenBucket(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("open backup bucket: %w", err)
	}
	return NewWriter(bucket, retentionDays, logger), nil
}

// NewWriter wraps an already opened bucket. The writer owns the bucket from then on.
func NewWriter(bucket *blob.Bucket, retentionDays int, logger *slog.Logger) *Writer {
	if retentionDays <= 0 {
		retentionDays = defaultRetentionDays
	}
	return &Writer{
		bucket:        bucket,
		retentionDays: retentionDays,
		logger:        logger,
		now:           time.Now,
	}
}

// RetentionDays reports the rolling window size.
func (w *Writer) RetentionDays() int {
	if w == nil {
		return 0
	}
	return w.retentionDays
}

// Close releases the bucket.
func (w *Writer) Close() error {
	if w == nil || w.bucket == nil {
		return nil
	}
	return w.bucket.Close()
}

// WriteCollectionBackup writes the collection for date, refreshes the manifest and
// prunes expired backups. Identical content is not rewritten.
func (w *Writer) WriteCollectionBackup(ctx context.Context, date string, games []domaingames.SavedGame) error {
	if w == nil || w.bucket == nil {
		return fmt.Errorf("backup writer not configured")
	}
	if date == "" {
		return fmt.Errorf("date required")
	}
	if games == nil {
		games = []domaingames.SavedGame{}
	}

	data, err := json.MarshalIndent(Snapshot{Date: date, Count: len(games), Games: games}, "", "  ")
	if err != nil {
		return err
	}

	key := CollectionKey(date)
	existing, err := w.bucket.ReadAll(ctx, key)
	switch {
	case err == nil && bytes.Equal(existing, data):
		logging.Debug(w.logger, "backup unchanged", logging.FieldKey, key)
	case err != nil && gcerrors.Code(err) != gcerrors.NotFound:
		return fmt.Errorf("read backup %s: %w", key, err)
	default:
		if err := w.bucket.WriteAll(ctx, key, data, &blob.WriterOptions{ContentType: "application/json"}); err != nil {
			return fmt.Errorf("write backup %s: %w", key, err)
		}
		logging.Info(w.logger, "backup written", logging.FieldKey, key, logging.FieldCount, len(games))
	}

	return w.updateManifest(ctx, date, len(games))
}

// Read returns the games stored for date.
func (w *Writer) Read(ctx context.Context, date string) ([]domaingames.SavedGame, error) {
	data, err := w.bucket.ReadAll(ctx, CollectionKey(date))
	if err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode backup %s: %w", date, err)
	}
	return snap.Games, nil
}

// Manifest returns the current manifest, or an empty one if none has been written.
func (w *Writer) Manifest(ctx context.Context) Manifest {
	m, _ := readManifest(ctx, w.bucket, w.retentionDays)
	return m
}

func (w *Writer) updateManifest(ctx context.Context, date string, count int) error {
	m, err := readManifest(ctx, w.bucket, w.retentionDays)
	if err != nil && gcerrors.Code(err) != gcerrors.NotFound {
		logging.Warn(w.logger, "backup manifest unreadable, rebuilding", "err", err)
	}

	dates, err := w.listDates(ctx)
	if err != nil {
		return err
	}
	if !slices.Contains(dates, date) {
		dates = append(dates, date)
	}
	kept, err := w.prune(ctx, dates)
	if err != nil {
		return err
	}

	now := w.now()
	m.Collections.Dates = kept
	m.Collections.LastRefreshed = now.UTC()
	m.Collections.LastCount = count
	m.Retention.CollectionsDays = w.retentionDays
	return writeManifest(ctx, w.bucket, m, now)
}

func (w *Writer) listDates(ctx context.Context) ([]string, error) {
	dates := []string{}
	iter := w.bucket.List(&blob.ListOptions{Prefix: collectionsPrefix})
	for {
		obj, err := iter.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list backups: %w", err)
		}
		if obj.IsDir || !strings.HasSuffix(obj.Key, ".json") {
			continue
		}
		date := strings.TrimSuffix(strings.TrimPrefix(obj.Key, collectionsPrefix), ".json")
		if !slices.Contains(dates, date) {
			dates = append(dates, date)
		}
	}
	slices.Sort(dates)
	return dates, nil
}

func (w *Writer) prune(ctx context.Context, dates []string) ([]string, error) {
	now := w.now()
	keep := make([]string, 0, len(dates))
	for _, d := range dates {
		if !timeutil.Expired(d, now, w.retentionDays) {
			keep = append(keep, d)
			continue
		}
		if err := w.bucket.Delete(ctx, CollectionKey(d)); err != nil && gcerrors.Code(err) != gcerrors.NotFound {
			return nil, fmt.Errorf("prune backup %s: %w", d, err)
		}
		logging.Info(w.logger, "backup pruned", logging.FieldKey, CollectionKey(d))
	}
	slices.Sort(keep)
	return keep, nil
}
