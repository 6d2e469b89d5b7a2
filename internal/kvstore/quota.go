package kvstore

import (
	"context"
	"fmt"
	"sync"
)

// DefaultQuotaBytes mirrors the few-megabyte capacity typical of origin-scoped storage.
const DefaultQuotaBytes int64 = 5 << 20

// QuotaBackend rejects writes that would grow the tracked usage past max.
// Usage counts len(key)+len(value) for every key written or read through it.
type QuotaBackend struct {
	inner Backend
	max   int64

	mu    sync.Mutex
	sizes map[string]int64
	used  int64
}

// WithQuota wraps backend with a capacity limit. A non-positive max uses DefaultQuotaBytes.
func WithQuota(backend Backend, max int64) *QuotaBackend {
	if max <= 0 {
		max = DefaultQuotaBytes
	}
	return &QuotaBackend{inner: backend, max: max, sizes: make(map[string]int64)}
}

// Used reports the tracked usage in bytes.
func (q *QuotaBackend) Used() int64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.used
}

func (q *QuotaBackend) Get(ctx context.Context, key string) (string, bool, error) {
	v, ok, err := q.inner.Get(ctx, key)
	if err == nil {
		q.mu.Lock()
		if ok {
			q.track(key, entrySize(key, v))
		} else {
			q.track(key, 0)
		}
		q.mu.Unlock()
	}
	return v, ok, err
}

func (q *QuotaBackend) Set(ctx context.Context, key, value string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if _, known := q.sizes[key]; !known {
		existing, ok, err := q.inner.Get(ctx, key)
		if err != nil {
			return err
		}
		if ok {
			q.track(key, entrySize(key, existing))
		}
	}

	size := entrySize(key, value)
	if q.used-q.sizes[key]+size > q.max {
		return fmt.Errorf("set %q (%d bytes, limit %d): %w", key, size, q.max, ErrQuotaExceeded)
	}
	if err := q.inner.Set(ctx, key, value); err != nil {
		return err
	}
	q.track(key, size)
	return nil
}

func (q *QuotaBackend) Delete(ctx context.Context, key string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if err := q.inner.Delete(ctx, key); err != nil {
		return err
	}
	q.track(key, 0)
	return nil
}

// track must be called with q.mu held.
func (q *QuotaBackend) track(key string, size int64) {
	q.used += size - q.sizes[key]
	if size == 0 {
		delete(q.sizes, key)
		return
	}
	q.sizes[key] = size
}

func entrySize(key, value string) int64 {
	return int64(len(key) + len(value))
}
