package testutil

import (
	"context"
	"net/http"
	"sync"

	"github.com/preston-bernstein/gaming-haven/internal/poller"
)

// FakePoller records the lifecycle calls the service makes on its warm-up poller and
// reports a fixed status to /ready.
type FakePoller struct {
	StopErr error
	Current poller.Status

	mu     sync.Mutex
	starts int
	stops  int
}

func (p *FakePoller) Start(context.Context) {
	p.mu.Lock()
	p.starts++
	p.mu.Unlock()
}

func (p *FakePoller) Stop(context.Context) error {
	p.mu.Lock()
	p.stops++
	p.mu.Unlock()
	return p.StopErr
}

func (p *FakePoller) Status() poller.Status {
	return p.Current
}

// Calls returns how many times Start and Stop ran.
func (p *FakePoller) Calls() (starts, stops int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.starts, p.stops
}

// FakeHTTPServer stands in for the service listener.
//
// ListenAndServe returns ListenErr, or http.ErrServerClosed when it is nil. When Hold
// is set, Shutdown waits until it is closed or ctx ends.
type FakeHTTPServer struct {
	Address     string
	Routes      http.Handler
	ListenErr   error
	ShutdownErr error
	Hold        chan struct{}

	mu        sync.Mutex
	listens   int
	shutdowns int
}

func (s *FakeHTTPServer) ListenAndServe() error {
	s.mu.Lock()
	s.listens++
	s.mu.Unlock()
	if s.ListenErr != nil {
		return s.ListenErr
	}
	return http.ErrServerClosed
}

func (s *FakeHTTPServer) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.shutdowns++
	s.mu.Unlock()
	if s.Hold != nil {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.Hold:
		}
	}
	return s.ShutdownErr
}

func (s *FakeHTTPServer) Addr() string {
	if s.Address == "" {
		return ":0"
	}
	return s.Address
}

func (s *FakeHTTPServer) Handler() http.Handler {
	if s.Routes == nil {
		return http.NotFoundHandler()
	}
	return s.Routes
}

// Calls returns how many times ListenAndServe and Shutdown ran.
func (s *FakeHTTPServer) Calls() (listens, shutdowns int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listens, s.shutdowns
}
