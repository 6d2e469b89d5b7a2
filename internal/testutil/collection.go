package testutil

import (
	"context"
	"testing"
	"time"

	"gocloud.dev/blob/memblob"

	"github.com/preston-bernstein/gaming-haven/internal/backup"
	"github.com/preston-bernstein/gaming-haven/internal/collection"
	domaingames "github.com/preston-bernstein/gaming-haven/internal/domain/games"
	"github.com/preston-bernstein/gaming-haven/internal/kvstore"
)

// NewCollection returns a hydrated store over a memory backend preloaded with results.
// Each result is added one second after the previous one.
func NewCollection(t *testing.T, results ...domaingames.SearchResult) (*collection.Store, *kvstore.MemoryBackend) {
	t.Helper()
	backend := kvstore.NewMemoryBackend()
	clock := NewStepClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), time.Second)
	store := collection.New(backend, collection.WithClock(clock.Now))
	store.Hydrate(context.Background())
	for _, r := range results {
		store.Add(r)
	}
	t.Cleanup(store.Close)
	return store, backend
}

// NewMemBackupWriter returns a backup writer over an in-memory bucket.
func NewMemBackupWriter(t *testing.T, retentionDays int) *backup.Writer {
	t.Helper()
	w := backup.NewWriter(memblob.OpenBucket(nil), retentionDays, nil)
	t.Cleanup(func() { _ = w.Close() })
	return w
}
