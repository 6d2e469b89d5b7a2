package providers

import (
	"context"
	"errors"
	"testing"
	"time"

	redis "github.com/redis/go-redis/v9"

	domaingames "github.com/preston-bernstein/gaming-haven/internal/domain/games"
)

type fakeRedisCache struct {
	data    map[string]string
	ttls    map[string]time.Duration
	failGet error
}

func newFakeRedisCache() *fakeRedisCache {
	return &fakeRedisCache{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeRedisCache) GetEx(_ context.Context, key string, expiration time.Duration) *redis.StringCmd {
	if f.failGet != nil {
		return redis.NewStringResult("", f.failGet)
	}
	v, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	f.ttls[key] = expiration
	return redis.NewStringResult(v, nil)
}

func (f *fakeRedisCache) Set(_ context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	f.data[key] = string(value.([]byte))
	f.ttls[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func TestRedisCacheRoundTripAndTTL(t *testing.T) {
	fake := newFakeRedisCache()
	c := NewRedisCache(fake, "", nil)
	entry := CacheEntry{Results: []domaingames.SearchResult{{ID: "1", Title: "Halo"}}, FetchedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}

	c.Set(context.Background(), "search:10:halo", entry, 10*time.Minute)
	if fake.ttls["haven:catalog:search:10:halo"] != 10*time.Minute {
		t.Fatalf("expected retention as ttl, got %v", fake.ttls)
	}

	got, ok := c.Get(context.Background(), "search:10:halo", 10*time.Minute)
	if !ok || len(got.Results) != 1 || got.Results[0].Title != "Halo" || !got.FetchedAt.Equal(entry.FetchedAt) {
		t.Fatalf("unexpected entry %+v ok=%v", got, ok)
	}
}

func TestRedisCacheErrorsAreMisses(t *testing.T) {
	fake := newFakeRedisCache()
	fake.failGet = errors.New("connection refused")
	var seen []error
	c := NewRedisCache(fake, "p:", func(err error) { seen = append(seen, err) })

	if _, ok := c.Get(context.Background(), "k", time.Minute); ok {
		t.Fatalf("expected miss on error")
	}
	if len(seen) != 1 {
		t.Fatalf("expected error observed, got %v", seen)
	}

	fake.failGet = nil
	if _, ok := c.Get(context.Background(), "absent", time.Minute); ok {
		t.Fatalf("expected miss")
	}
	if len(seen) != 1 {
		t.Fatalf("expected redis.Nil not reported as error")
	}
}
