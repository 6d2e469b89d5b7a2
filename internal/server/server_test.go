package server

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/preston-bernstein/gaming-haven/internal/config"
	domaingames "github.com/preston-bernstein/gaming-haven/internal/domain/games"
	"github.com/preston-bernstein/gaming-haven/internal/poller"
	"github.com/preston-bernstein/gaming-haven/internal/teststubs"
	"github.com/preston-bernstein/gaming-haven/internal/testutil"
)

func testConfig() config.Config {
	return config.Config{
		Port:         "0",
		PollInterval: 5 * time.Millisecond,
		Provider:     "fixture",
		Storage:      config.StorageConfig{Driver: "memory"},
		Search: config.SearchConfig{
			RetryAttempts: 1,
			RetryBackoff:  time.Millisecond,
		},
	}
}

func newTestServer(t *testing.T, cfg config.Config, provider *teststubs.StubProvider) *Server {
	t.Helper()
	srv, err := newServerWithProvider(cfg, nil, provider)
	if err != nil {
		t.Fatalf("unexpected error building server: %v", err)
	}
	t.Cleanup(func() {
		_ = srv.poller.Stop(context.Background())
		srv.Collection().Close()
	})
	return srv
}

func TestServerServesHealthSearchAndSaved(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	provider := &teststubs.StubProvider{
		Results:        testutil.SampleResults(2),
		PopularResults: testutil.SampleResults(3),
		Notify:         make(chan struct{}),
	}
	srv := newTestServer(t, testConfig(), provider)
	srv.poller.Start(ctx)

	select {
	case <-provider.Notify:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("timed out waiting for poller to fetch")
	}

	router := srv.Handler()

	health := testutil.Serve(router, http.MethodGet, "/health", nil)
	testutil.AssertStatus(t, health, http.StatusOK)

	searchRec := testutil.Serve(router, http.MethodGet, "/api/search?q=game", nil)
	testutil.AssertStatus(t, searchRec, http.StatusOK)
	var searchBody struct {
		Query   string                     `json:"query"`
		Results []domaingames.SearchResult `json:"results"`
	}
	testutil.DecodeJSON(t, searchRec, &searchBody)
	if searchBody.Query != "game" || len(searchBody.Results) != 2 {
		t.Fatalf("unexpected search response %+v", searchBody)
	}

	added := testutil.ServeJSON(t, router, http.MethodPost, "/api/saved", searchBody.Results[0])
	testutil.AssertStatus(t, added, http.StatusCreated)

	list := testutil.Serve(router, http.MethodGet, "/api/saved?filter=newest", nil)
	testutil.AssertStatus(t, list, http.StatusOK)
	var listBody struct {
		Filter string                  `json:"filter"`
		Games  []domaingames.SavedGame `json:"games"`
	}
	testutil.DecodeJSON(t, list, &listBody)
	if listBody.Filter != "newest" || len(listBody.Games) != 1 || listBody.Games[0].ID != searchBody.Results[0].ID {
		t.Fatalf("unexpected saved list %+v", listBody)
	}
}

func TestServerReadyReportsProviderFailure(t *testing.T) {
	provider := &teststubs.StubProvider{Err: errors.New("upstream down")}
	srv := newTestServer(t, testConfig(), provider)

	plr, ok := srv.poller.(*poller.Poller)
	if !ok {
		t.Fatalf("expected concrete poller, got %T", srv.poller)
	}
	plr.RunOnce(context.Background())

	ready := testutil.Serve(srv.Handler(), http.MethodGet, "/ready", nil)
	testutil.AssertStatus(t, ready, http.StatusServiceUnavailable)
}

func TestServerReadyAfterSuccessfulCycle(t *testing.T) {
	provider := &teststubs.StubProvider{PopularResults: testutil.SampleResults(1)}
	srv := newTestServer(t, testConfig(), provider)

	srv.poller.(*poller.Poller).RunOnce(context.Background())

	ready := testutil.Serve(srv.Handler(), http.MethodGet, "/ready", nil)
	testutil.AssertStatus(t, ready, http.StatusOK)
}

func TestServerMountsAdminOnlyWithToken(t *testing.T) {
	provider := &teststubs.StubProvider{}

	withoutToken := newTestServer(t, testConfig(), provider)
	rec := testutil.Serve(withoutToken.Handler(), http.MethodPost, "/admin/backup", nil)
	testutil.AssertStatus(t, rec, http.StatusNotFound)

	cfg := testConfig()
	cfg.AdminToken = "secret"
	withToken := newTestServer(t, cfg, provider)
	rec = testutil.Serve(withToken.Handler(), http.MethodPost, "/admin/backup", nil)
	testutil.AssertStatus(t, rec, http.StatusUnauthorized)
}

func TestNewConstructsServer(t *testing.T) {
	cfg := testConfig()
	srv, err := New(cfg, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer srv.Collection().Close()

	if srv.Handler() == nil {
		t.Fatalf("expected server with handler")
	}
	if !srv.Collection().Hydrated() {
		t.Fatalf("expected hydrated collection")
	}
	if srv.backup != nil {
		t.Fatalf("expected backups disabled by default")
	}
}

func TestNewFailsOnUnknownStorageDriver(t *testing.T) {
	cfg := testConfig()
	cfg.Storage.Driver = "floppy"
	if _, err := New(cfg, nil); err == nil {
		t.Fatalf("expected storage error")
	}
}

func TestGracefulShutdownCallsStopAndShutdown(t *testing.T) {
	p := &testutil.FakePoller{}
	httpSrv := &testutil.FakeHTTPServer{}

	srv := newServerWithDeps(config.Config{}, nil, nil, httpSrv, p)
	srv.gracefulShutdown()

	if _, stops := p.Calls(); stops != 1 {
		t.Fatalf("expected poller Stop to be called once, got %d", stops)
	}
	if _, shutdowns := httpSrv.Calls(); shutdowns != 1 {
		t.Fatalf("expected server Shutdown to be called once, got %d", shutdowns)
	}
}

func TestGracefulShutdownClosesResources(t *testing.T) {
	store, _ := testutil.NewCollection(t)
	srv := newServerWithDeps(config.Config{}, nil, store, &testutil.FakeHTTPServer{}, &testutil.FakePoller{})

	var closed []string
	srv.closers = []namedCloser{
		{name: "cache", close: func() error { closed = append(closed, "cache"); return nil }},
		{name: "storage", close: func() error { closed = append(closed, "storage"); return errors.New("busy") }},
		{name: "empty"},
	}
	tracingCalls := 0
	srv.tracingStop = func(context.Context) error { tracingCalls++; return nil }

	srv.gracefulShutdown()

	if len(closed) != 2 || closed[0] != "cache" || closed[1] != "storage" {
		t.Fatalf("expected closers run in order despite errors, got %v", closed)
	}
	if tracingCalls != 1 {
		t.Fatalf("expected tracing shutdown once, got %d", tracingCalls)
	}
}

func TestGracefulShutdownTimesOutLongRunningShutdown(t *testing.T) {
	p := &testutil.FakePoller{}
	blocking := &testutil.FakeHTTPServer{Hold: make(chan struct{})}

	original := shutdownTimeout
	shutdownTimeout = 5 * time.Millisecond
	defer func() { shutdownTimeout = original }()

	srv := newServerWithDeps(config.Config{}, nil, nil, blocking, p)

	start := time.Now()
	srv.gracefulShutdown()
	elapsed := time.Since(start)

	if _, shutdowns := blocking.Calls(); shutdowns != 1 {
		t.Fatalf("expected server Shutdown to be called once, got %d", shutdowns)
	}
	if _, stops := p.Calls(); stops != 1 {
		t.Fatalf("expected poller Stop to be called once, got %d", stops)
	}
	if elapsed > 200*time.Millisecond {
		t.Fatalf("shutdown took too long: %s", elapsed)
	}
}

func TestGracefulShutdownContinuesWhenPollerStopErrors(t *testing.T) {
	p := &testutil.FakePoller{StopErr: errors.New("stop failure")}
	httpSrv := &testutil.FakeHTTPServer{}

	srv := newServerWithDeps(config.Config{}, nil, nil, httpSrv, p)
	srv.gracefulShutdown()

	if _, stops := p.Calls(); stops != 1 {
		t.Fatalf("expected poller Stop to be called once, got %d", stops)
	}
	if _, shutdowns := httpSrv.Calls(); shutdowns != 1 {
		t.Fatalf("expected server Shutdown to be called once, got %d", shutdowns)
	}
}

func TestServerStartHandlesListenErrorAndStops(t *testing.T) {
	srv := newServerWithDeps(config.Config{}, nil, nil, &testutil.FakeHTTPServer{ListenErr: errors.New("address in use")}, &testutil.FakePoller{})

	var wg sync.WaitGroup
	wg.Add(1)
	stopCalled := make(chan struct{})
	stop := func() {
		close(stopCalled)
		wg.Done()
	}

	srv.startServer(stop)

	select {
	case <-stopCalled:
	case <-time.After(200 * time.Millisecond):
		t.Fatal("expected stop to be called on listen failure")
	}

	wg.Wait()
}

func TestRunCancelsAndStopsComponents(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	plr := &testutil.FakePoller{}
	httpSrv := &testutil.FakeHTTPServer{}
	srv := newServerWithDeps(config.Config{}, nil, nil, httpSrv, plr)

	done := make(chan struct{})
	go func() {
		srv.Run(ctx, cancel)
		close(done)
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("run did not return after cancel")
	}

	if starts, stops := plr.Calls(); starts != 1 || stops != 1 {
		t.Fatalf("expected poller started and stopped once, got %d/%d", starts, stops)
	}
	if _, shutdowns := httpSrv.Calls(); shutdowns != 1 {
		t.Fatalf("expected server Shutdown called once, got %d", shutdowns)
	}
}
