package search

import (
	"context"
	"errors"
	"testing"

	domaingames "github.com/preston-bernstein/gaming-haven/internal/domain/games"
	"github.com/preston-bernstein/gaming-haven/internal/providers"
	"github.com/preston-bernstein/gaming-haven/internal/teststubs"
)

func TestSearchShortQueryNeverCallsProvider(t *testing.T) {
	sp := &teststubs.StubProvider{Results: []domaingames.SearchResult{{ID: "1"}}}
	c := NewClient(sp, ClientConfig{}, nil)

	for _, q := range []string{"", "a", "  b  ", "é"} {
		results, err := c.Search(context.Background(), q, 10)
		if err != nil || results == nil || len(results) != 0 {
			t.Fatalf("expected empty result for %q, got %v err=%v", q, results, err)
		}
	}
	if sp.Calls.Load() != 0 {
		t.Fatalf("expected no provider calls, got %d", sp.Calls.Load())
	}
}

func TestSearchTrimsQueryAndClampsLimit(t *testing.T) {
	sp := &teststubs.StubProvider{Results: []domaingames.SearchResult{{ID: "1"}}}
	c := NewClient(sp, ClientConfig{Limit: 12}, nil)

	if _, err := c.Search(context.Background(), "  zelda ", 0); err != nil {
		t.Fatalf("search: %v", err)
	}
	if _, err := c.Search(context.Background(), "zelda", 500); err != nil {
		t.Fatalf("search: %v", err)
	}
	if q := sp.Queries(); q[0] != "zelda" {
		t.Fatalf("expected trimmed query, got %v", q)
	}
	if l := sp.Limits(); l[0] != 12 || l[1] != MaxLimit {
		t.Fatalf("expected default then clamped limit, got %v", l)
	}
}

func TestPopularDefaultsLimit(t *testing.T) {
	sp := &teststubs.StubProvider{}
	c := NewClient(sp, ClientConfig{}, nil)

	results, err := c.Popular(context.Background(), 0)
	if err != nil || results == nil {
		t.Fatalf("expected empty non-nil results, got %v err=%v", results, err)
	}
	if l := sp.Limits(); len(l) != 1 || l[0] != DefaultPopularLimit {
		t.Fatalf("expected default popular limit, got %v", l)
	}
}

func TestErrorsAreCatalogUnavailable(t *testing.T) {
	sp := &teststubs.StubProvider{Err: errors.New("dial tcp: refused")}
	c := NewClient(sp, ClientConfig{}, nil)

	_, err := c.Search(context.Background(), "zelda", 10)
	if !errors.Is(err, providers.ErrCatalogUnavailable) {
		t.Fatalf("expected catalog unavailable, got %v", err)
	}

	sp.Err = context.Canceled
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := c.Popular(ctx, 8); !errors.Is(err, context.Canceled) || errors.Is(err, providers.ErrCatalogUnavailable) {
		t.Fatalf("expected own cancellation passthrough, got %v", err)
	}
}

func TestUpstreamContextErrorsOnLiveCallerAreCatalogUnavailable(t *testing.T) {
	sp := &teststubs.StubProvider{Err: context.Canceled}
	c := NewClient(sp, ClientConfig{}, nil)

	if _, err := c.Search(context.Background(), "zelda", 10); !errors.Is(err, providers.ErrCatalogUnavailable) {
		t.Fatalf("expected catalog unavailable for foreign cancellation, got %v", err)
	}
	sp.Err = context.DeadlineExceeded
	if _, err := c.Popular(context.Background(), 8); !errors.Is(err, providers.ErrCatalogUnavailable) {
		t.Fatalf("expected catalog unavailable for upstream deadline, got %v", err)
	}
}
