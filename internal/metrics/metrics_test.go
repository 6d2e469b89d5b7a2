package metrics

import (
	"errors"
	"testing"
	"time"
)

func TestRecorderTracksProviderAttemptsAndErrors(t *testing.T) {
	rec := NewRecorder()
	rec.RecordProviderAttempt("igdb", 10*time.Millisecond, nil)
	rec.RecordProviderAttempt("igdb", 15*time.Millisecond, errors.New("boom"))

	if got := rec.ProviderCalls("igdb"); got != 2 {
		t.Fatalf("expected 2 calls, got %d", got)
	}
	if got := rec.ProviderErrors("igdb"); got != 1 {
		t.Fatalf("expected 1 error, got %d", got)
	}
	if got := rec.LastCallLatency("igdb"); got != 15*time.Millisecond {
		t.Fatalf("expected last latency to be 15ms, got %s", got)
	}

	snap := rec.Snapshot("igdb")
	if snap.Calls != 2 || snap.Errors != 1 {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
}

func TestRecorderTracksRateLimits(t *testing.T) {
	rec := NewRecorder()
	rec.RecordRateLimit("igdb", 5*time.Second)
	rec.RecordRateLimit("igdb", 0)

	if got := rec.RateLimitHits("igdb"); got != 2 {
		t.Fatalf("expected 2 rate limit hits, got %d", got)
	}
	if got := rec.LastRetryAfter("igdb"); got != 5*time.Second {
		t.Fatalf("expected last retry-after to be 5s, got %s", got)
	}
}

func TestRecorderTracksCacheLookups(t *testing.T) {
	rec := NewRecorder()
	rec.RecordCacheLookup("search", true)
	rec.RecordCacheLookup("search", false)
	rec.RecordCacheLookup("search", true)
	rec.RecordCacheLookup("popular", false)

	if got := rec.CacheHits("search"); got != 2 {
		t.Fatalf("expected 2 search hits, got %d", got)
	}
	if got := rec.CacheMisses("search"); got != 1 {
		t.Fatalf("expected 1 search miss, got %d", got)
	}
	if got := rec.CacheMisses("popular"); got != 1 {
		t.Fatalf("expected 1 popular miss, got %d", got)
	}
}

func TestRecorderTracksStoreMutations(t *testing.T) {
	rec := NewRecorder()
	rec.RecordStoreMutation("add", nil)
	rec.RecordStoreMutation("add", errors.New("quota"))

	mutations, failures := rec.StoreMutations("add")
	if mutations != 2 || failures != 1 {
		t.Fatalf("expected 2 mutations/1 failure, got %d/%d", mutations, failures)
	}
}

func TestNilRecorderIsSafe(t *testing.T) {
	var rec *Recorder
	rec.RecordProviderAttempt("igdb", time.Millisecond, nil)
	rec.RecordCacheLookup("search", true)
	rec.RecordStoreMutation("clear", nil)
	rec.RecordSearchSession(1)
	if rec.CacheHits("search") != 0 || rec.ProviderCalls("igdb") != 0 {
		t.Fatalf("expected zero values from nil recorder")
	}
}
