package testutil

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/preston-bernstein/gaming-haven/internal/poller"
	"github.com/preston-bernstein/gaming-haven/internal/providers"
)

func TestClockHelpers(t *testing.T) {
	at := MustParseRFC3339("2024-01-02T03:04:05Z")
	if got := NowAt(at)(); !got.Equal(at) {
		t.Fatalf("expected fixed clock, got %v", got)
	}

	c := NewStepClock(at, time.Minute)
	first, second := c.Now(), c.Now()
	if !first.Equal(at) || second.Sub(first) != time.Minute {
		t.Fatalf("expected stepping clock, got %v then %v", first, second)
	}

	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for invalid timestamp")
		}
	}()
	MustParseRFC3339("nope")
}

func TestFixtureHelpers(t *testing.T) {
	results := SampleResults(3)
	if len(results) != 3 || results[2].ID != "3" || results[2].Slug != "game-3" {
		t.Fatalf("unexpected results %+v", results)
	}
	g := SampleSavedGame("9", "2024-01-01T00:00:00Z", nil)
	if g.ImageURL == "" || g.FirstReleaseDate != nil {
		t.Fatalf("unexpected saved game %+v", g)
	}
}

func TestServeHelpers(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"method":"` + r.Method + `"}`))
	})

	rr := ServeJSON(t, h, http.MethodPost, "/x", map[string]string{"a": "b"})
	AssertStatus(t, rr, http.StatusCreated)
	var body map[string]string
	DecodeJSON(t, rr, &body)
	if body["method"] != http.MethodPost {
		t.Fatalf("unexpected body %v", body)
	}

	rr = Serve(h, http.MethodGet, "/x", nil)
	AssertStatus(t, rr, http.StatusCreated)
}

func TestCollectionHelpers(t *testing.T) {
	store, backend := NewCollection(t, SampleResults(2)...)
	if store.Len() != 2 || !store.Hydrated() {
		t.Fatalf("expected hydrated store with two games, got %d", store.Len())
	}
	games := store.Games()
	if games[0].AddedAt == games[1].AddedAt {
		t.Fatalf("expected distinct addedAt stamps")
	}
	if _, ok, _ := backend.Get(context.Background(), "savedGames"); !ok {
		t.Fatalf("expected collection persisted to backend")
	}

	w := NewMemBackupWriter(t, 3)
	if w.RetentionDays() != 3 {
		t.Fatalf("expected retention passthrough")
	}
}

func TestFakePollerAndHTTPServer(t *testing.T) {
	p := &FakePoller{StopErr: errors.New("stop"), Current: poller.Status{LastBackup: "2024-01-15"}}
	p.Start(context.Background())
	if err := p.Stop(context.Background()); !errors.Is(err, p.StopErr) {
		t.Fatalf("expected stop error")
	}
	if starts, stops := p.Calls(); starts != 1 || stops != 1 {
		t.Fatalf("unexpected call counts starts=%d stops=%d", starts, stops)
	}
	if p.Status().LastBackup != "2024-01-15" {
		t.Fatalf("expected status passthrough")
	}

	s := &FakeHTTPServer{ShutdownErr: errors.New("down")}
	if err := s.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		t.Fatalf("expected ErrServerClosed by default, got %v", err)
	}
	if err := s.Shutdown(context.Background()); !errors.Is(err, s.ShutdownErr) {
		t.Fatalf("expected shutdown error, got %v", err)
	}
	if listens, shutdowns := s.Calls(); listens != 1 || shutdowns != 1 {
		t.Fatalf("expected listen/shutdown calls, got %d/%d", listens, shutdowns)
	}
	if s.Addr() != ":0" || s.Handler() == nil {
		t.Fatalf("expected default addr and handler")
	}

	failing := &FakeHTTPServer{ListenErr: errors.New("listen failure")}
	if err := failing.ListenAndServe(); !errors.Is(err, failing.ListenErr) {
		t.Fatalf("expected listen failure, got %v", err)
	}

	held := &FakeHTTPServer{Hold: make(chan struct{})}
	done := make(chan error, 1)
	go func() { done <- held.Shutdown(context.Background()) }()
	close(held.Hold)
	if err := <-done; err != nil {
		t.Fatalf("expected nil shutdown err, got %v", err)
	}
}

func TestLoggerAndMetricsHelpers(t *testing.T) {
	logger, buf := NewBufferLogger()
	logger.Info("hello", "k", "v")
	if buf.Len() == 0 {
		t.Fatalf("expected buffered log output")
	}
	rec, shutdown := NewRecorderWithShutdown()
	if rec == nil || shutdown == nil {
		t.Fatalf("expected recorder and shutdown")
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("expected nil shutdown error, got %v", err)
	}
}

func TestProviderHelpers(t *testing.T) {
	ctx := context.Background()

	p := GoodProvider{Results: SampleResults(5)}
	if got, _ := p.Search(ctx, "q", 2); len(got) != 2 {
		t.Fatalf("expected truncated results, got %d", len(got))
	}
	if got, _ := p.Popular(ctx, 0); len(got) != 5 {
		t.Fatalf("expected all results, got %d", len(got))
	}

	errProv := ErrProvider{Err: errors.New("boom")}
	if _, err := errProv.Search(ctx, "q", 1); !errors.Is(err, errProv.Err) {
		t.Fatalf("expected error passthrough")
	}

	if _, err := (UnavailableProvider{}).Popular(ctx, 1); !errors.Is(err, providers.ErrProviderUnavailable) {
		t.Fatalf("expected provider unavailable")
	}
}
