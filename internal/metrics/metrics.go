package metrics

import (
	"sync"
	"time"
)

type providerStats struct {
	calls           int
	errors          int
	rateLimitHits   int
	lastRetryAfter  time.Duration
	lastCallLatency time.Duration
}

type cacheStats struct {
	hits   int
	misses int
}

type storeStats struct {
	mutations int
	failures  int
}

// Recorder captures lightweight, in-memory metrics about catalog calls, caching, and storage,
// mirroring them to OpenTelemetry instruments when configured.
type Recorder struct {
	mu     sync.Mutex
	stats  map[string]*providerStats
	caches map[string]*cacheStats
	stores map[string]*storeStats
	otel   *otelInstruments
}

func NewRecorder() *Recorder {
	return newRecorder(nil)
}

func newRecorder(otel *otelInstruments) *Recorder {
	return &Recorder{
		stats:  make(map[string]*providerStats),
		caches: make(map[string]*cacheStats),
		stores: make(map[string]*storeStats),
		otel:   otel,
	}
}

// RecordProviderAttempt increments counters for a provider call and stores the last observed latency.
func (r *Recorder) RecordProviderAttempt(provider string, duration time.Duration, err error) {
	if r == nil {
		return
	}

	r.mu.Lock()
	stats := r.ensureStats(provider)
	stats.calls++
	stats.lastCallLatency = duration
	if err != nil {
		stats.errors++
	}
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordProviderAttempt(provider, duration, err)
	}
}

// RecordRateLimit tracks that a provider response hit a rate limit and stores the last Retry-After.
func (r *Recorder) RecordRateLimit(provider string, retryAfter time.Duration) {
	if r == nil {
		return
	}

	r.mu.Lock()
	stats := r.ensureStats(provider)
	stats.rateLimitHits++
	if retryAfter > 0 {
		stats.lastRetryAfter = retryAfter
	}
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordRateLimit(provider, retryAfter)
	}
}

// RecordCacheLookup tracks a cache hit or miss for the named cache (e.g. "search", "popular").
func (r *Recorder) RecordCacheLookup(cache string, hit bool) {
	if r == nil {
		return
	}

	r.mu.Lock()
	stats, ok := r.caches[cache]
	if !ok {
		stats = &cacheStats{}
		r.caches[cache] = stats
	}
	if hit {
		stats.hits++
	} else {
		stats.misses++
	}
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordCacheLookup(cache, hit)
	}
}

// RecordStoreMutation tracks a durable write (add/remove/clear) and whether persisting it failed.
func (r *Recorder) RecordStoreMutation(op string, err error) {
	if r == nil {
		return
	}

	r.mu.Lock()
	stats, ok := r.stores[op]
	if !ok {
		stats = &storeStats{}
		r.stores[op] = stats
	}
	stats.mutations++
	if err != nil {
		stats.failures++
	}
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordStoreMutation(op, err)
	}
}

// ProviderCalls returns the total attempts recorded for a provider.
func (r *Recorder) ProviderCalls(provider string) int {
	return r.Snapshot(provider).Calls
}

// ProviderErrors returns the total failed attempts recorded for a provider.
func (r *Recorder) ProviderErrors(provider string) int {
	return r.Snapshot(provider).Errors
}

// RateLimitHits returns the number of rate limit events seen for a provider.
func (r *Recorder) RateLimitHits(provider string) int {
	return r.Snapshot(provider).RateLimitHits
}

// LastRetryAfter returns the most recent Retry-After recorded for a provider.
func (r *Recorder) LastRetryAfter(provider string) time.Duration {
	return r.Snapshot(provider).LastRetryAfter
}

// LastCallLatency returns the last recorded latency for a provider call.
func (r *Recorder) LastCallLatency(provider string) time.Duration {
	return r.Snapshot(provider).LastCallLatency
}

// CacheHits returns hits recorded for a cache.
func (r *Recorder) CacheHits(cache string) int {
	hits, _ := r.cacheCounts(cache)
	return hits
}

// CacheMisses returns misses recorded for a cache.
func (r *Recorder) CacheMisses(cache string) int {
	_, misses := r.cacheCounts(cache)
	return misses
}

// StoreMutations returns the mutations and persist failures recorded for an operation.
func (r *Recorder) StoreMutations(op string) (mutations, failures int) {
	if r == nil {
		return 0, 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if stats, ok := r.stores[op]; ok {
		return stats.mutations, stats.failures
	}
	return 0, 0
}

// Snapshot returns a copy of the current stats for the provider.
type Snapshot struct {
	Calls           int
	Errors          int
	RateLimitHits   int
	LastRetryAfter  time.Duration
	LastCallLatency time.Duration
}

func (r *Recorder) Snapshot(provider string) Snapshot {
	if r == nil {
		return Snapshot{}
	}
	stats := r.snapshot(provider)
	return Snapshot{
		Calls:           stats.calls,
		Errors:          stats.errors,
		RateLimitHits:   stats.rateLimitHits,
		LastRetryAfter:  stats.lastRetryAfter,
		LastCallLatency: stats.lastCallLatency,
	}
}

// RecordHTTPRequest tracks basic HTTP metrics.
func (r *Recorder) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	if r == nil || r.otel == nil {
		return
	}
	r.otel.recordHTTPRequest(method, path, status, duration)
}

// RecordPollerCycle tracks poller cycles and errors.
func (r *Recorder) RecordPollerCycle(duration time.Duration, err error) {
	if r == nil || r.otel == nil {
		return
	}
	r.otel.recordPoller(duration, err)
}

// RecordSearchSession tracks websocket search sessions opening (+1) and closing (-1).
func (r *Recorder) RecordSearchSession(delta int64) {
	if r == nil || r.otel == nil {
		return
	}
	r.otel.recordSearchSession(delta)
}

// ensureStats must be called with r.mu held.
func (r *Recorder) ensureStats(provider string) *providerStats {
	stats, ok := r.stats[provider]
	if !ok {
		stats = &providerStats{}
		r.stats[provider] = stats
	}
	return stats
}

func (r *Recorder) snapshot(provider string) providerStats {
	r.mu.Lock()
	defer r.mu.Unlock()

	if stats, ok := r.stats[provider]; ok && stats != nil {
		return *stats
	}
	return providerStats{}
}

func (r *Recorder) cacheCounts(cache string) (int, int) {
	if r == nil {
		return 0, 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if stats, ok := r.caches[cache]; ok {
		return stats.hits, stats.misses
	}
	return 0, 0
}
