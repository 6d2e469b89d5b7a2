package teststubs

import (
	"context"
	"sync"
	"sync/atomic"

	domaingames "github.com/preston-bernstein/gaming-haven/internal/domain/games"
)

// StubProvider is a test double for providers.CatalogProvider.
type StubProvider struct {
	Results        []domaingames.SearchResult
	PopularResults []domaingames.SearchResult
	Err            error
	// Errs, when set, is consumed one error per call before falling back to Err.
	Errs []error
	// SearchFunc overrides Search entirely when set.
	SearchFunc func(ctx context.Context, query string, limit int) ([]domaingames.SearchResult, error)

	Calls        atomic.Int32
	SearchCalls  atomic.Int32
	PopularCalls atomic.Int32
	Notify       chan struct{}

	mu      sync.Mutex
	queries []string
	limits  []int
}

// Name reports the stub provider name.
func (s *StubProvider) Name() string {
	return "stub"
}

// Search returns configured results and error while tracking calls.
func (s *StubProvider) Search(ctx context.Context, query string, limit int) ([]domaingames.SearchResult, error) {
	s.track()
	s.SearchCalls.Add(1)
	s.mu.Lock()
	s.queries = append(s.queries, query)
	s.limits = append(s.limits, limit)
	s.mu.Unlock()

	if s.SearchFunc != nil {
		return s.SearchFunc(ctx, query, limit)
	}
	if err := s.nextErr(); err != nil {
		return nil, err
	}
	return s.Results, nil
}

// Popular returns configured popular results and error while tracking calls.
func (s *StubProvider) Popular(ctx context.Context, limit int) ([]domaingames.SearchResult, error) {
	_ = ctx
	s.track()
	s.PopularCalls.Add(1)
	s.mu.Lock()
	s.limits = append(s.limits, limit)
	s.mu.Unlock()

	if err := s.nextErr(); err != nil {
		return nil, err
	}
	return s.PopularResults, nil
}

// Queries returns the search queries received so far.
func (s *StubProvider) Queries() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.queries...)
}

// Limits returns the limits received so far across both operations.
func (s *StubProvider) Limits() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]int(nil), s.limits...)
}

func (s *StubProvider) track() {
	if s.Notify != nil {
		select {
		case <-s.Notify:
		default:
			close(s.Notify)
		}
	}
	s.Calls.Add(1)
}

func (s *StubProvider) nextErr() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.Errs) > 0 {
		err := s.Errs[0]
		s.Errs = s.Errs[1:]
		return err
	}
	return s.Err
}

// StubBackupWriter is a test double for poller.BackupWriter.
type StubBackupWriter struct {
	mu      sync.Mutex
	Written map[string][]domaingames.SavedGame // keyed by date
	Err     error
}

// WriteCollectionBackup records the backup for verification in tests.
func (w *StubBackupWriter) WriteCollectionBackup(ctx context.Context, date string, games []domaingames.SavedGame) error {
	_ = ctx
	if w.Err != nil {
		return w.Err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.Written == nil {
		w.Written = make(map[string][]domaingames.SavedGame)
	}
	w.Written[date] = games
	return nil
}

// Dates returns how many distinct dates were written.
func (w *StubBackupWriter) Dates() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.Written)
}

// Games returns the games written for date.
func (w *StubBackupWriter) Games(date string) []domaingames.SavedGame {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.Written[date]
}
