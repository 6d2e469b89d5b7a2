package search

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	domaingames "github.com/preston-bernstein/gaming-haven/internal/domain/games"
	"github.com/preston-bernstein/gaming-haven/internal/providers"
	"github.com/preston-bernstein/gaming-haven/internal/teststubs"
)

const testDebounce = 20 * time.Millisecond

type fakeSearcher struct {
	mu       sync.Mutex
	queries  []string
	populars int
	results  map[string][]domaingames.SearchResult
	popular  []domaingames.SearchResult
	err      error
	gates    map[string]chan struct{}
}

func newFakeSearcher() *fakeSearcher {
	return &fakeSearcher{
		results: map[string][]domaingames.SearchResult{},
		gates:   map[string]chan struct{}{},
	}
}

func (f *fakeSearcher) Search(ctx context.Context, query string, limit int) ([]domaingames.SearchResult, error) {
	f.mu.Lock()
	f.queries = append(f.queries, query)
	gate := f.gates[query]
	res, err := f.results[query], f.err
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return res, err
}

func (f *fakeSearcher) Popular(ctx context.Context, limit int) ([]domaingames.SearchResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.populars++
	return f.popular, f.err
}

func (f *fakeSearcher) Queries() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.queries...)
}

func games(ids ...string) []domaingames.SearchResult {
	out := make([]domaingames.SearchResult, 0, len(ids))
	for _, id := range ids {
		out = append(out, domaingames.SearchResult{ID: id, Title: "Game " + id, Slug: "game-" + id})
	}
	return out
}

func newController(t *testing.T, s Searcher, cfg ControllerConfig) *Controller {
	t.Helper()
	if cfg.Debounce == 0 {
		cfg.Debounce = testDebounce
	}
	c := NewController(context.Background(), s, cfg)
	t.Cleanup(c.Close)
	return c
}

func waitFor(t *testing.T, c *Controller, desc string, pred func(State) bool) State {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if s := c.State(); pred(s) {
			return s
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s; state %+v", desc, c.State())
	return State{}
}

func phaseIs(p Phase) func(State) bool {
	return func(s State) bool { return s.Phase == p }
}

func TestInputUpdatesQueryImmediatelyThenLoadsResults(t *testing.T) {
	fs := newFakeSearcher()
	fs.results["zelda"] = games("1", "2")
	c := newController(t, fs, ControllerConfig{})

	c.Input("zelda")
	s := c.State()
	if s.Query != "zelda" || s.Phase != PhaseTyping || s.Mode != ModeResults || !s.Open {
		t.Fatalf("expected typing state right after input, got %+v", s)
	}

	s = waitFor(t, c, "results", phaseIs(PhaseResults))
	if len(s.Results) != 2 || s.Highlight != -1 {
		t.Fatalf("unexpected results state %+v", s)
	}
}

func TestRapidInputOnlySearchesLastValue(t *testing.T) {
	fs := newFakeSearcher()
	fs.results["abc"] = games("1")
	c := newController(t, fs, ControllerConfig{})

	c.Input("a")
	c.Input("ab")
	c.Input("abc")
	waitFor(t, c, "results", phaseIs(PhaseResults))
	time.Sleep(3 * testDebounce)

	if q := fs.Queries(); len(q) != 1 || q[0] != "abc" {
		t.Fatalf("expected a single search for abc, got %v", q)
	}
}

func TestEmptyQueryShowsSuggestions(t *testing.T) {
	fs := newFakeSearcher()
	fs.popular = games("p1", "p2", "p3")
	c := newController(t, fs, ControllerConfig{})

	c.Focus()
	s := waitFor(t, c, "suggestions", phaseIs(PhaseResults))
	if s.Mode != ModeSuggestions || len(s.Results) != 3 || !s.Open {
		t.Fatalf("expected popular suggestions, got %+v", s)
	}
	if len(fs.Queries()) != 0 {
		t.Fatalf("expected no search for empty query")
	}
}

func TestSingleCharacterQueryIsEmptyWithoutUpstreamCall(t *testing.T) {
	sp := &teststubs.StubProvider{Results: games("1")}
	c := newController(t, NewClient(sp, ClientConfig{}, nil), ControllerConfig{})

	c.Input("z")
	waitFor(t, c, "empty", phaseIs(PhaseEmpty))
	if sp.SearchCalls.Load() != 0 {
		t.Fatalf("expected no upstream search, got %d", sp.SearchCalls.Load())
	}
}

func TestKeyboardNavigationWrapsAndEnterSelects(t *testing.T) {
	fs := newFakeSearcher()
	fs.results["halo"] = games("a", "b", "c")
	var selected []domaingames.SearchResult
	c := newController(t, fs, ControllerConfig{OnSelect: func(r domaingames.SearchResult) {
		selected = append(selected, r)
	}})

	c.Input("halo")
	waitFor(t, c, "results", phaseIs(PhaseResults))

	if !c.Key(KeyArrowDown) || c.State().Highlight != 0 {
		t.Fatalf("expected down from none to highlight 0, got %d", c.State().Highlight)
	}
	c.Key(KeyArrowDown)
	c.Key(KeyArrowDown)
	if c.State().Highlight != 2 {
		t.Fatalf("expected highlight 2, got %d", c.State().Highlight)
	}
	c.Key(KeyArrowDown)
	if c.State().Highlight != 0 {
		t.Fatalf("expected wrap to 0, got %d", c.State().Highlight)
	}
	c.Key(KeyArrowUp)
	if c.State().Highlight != 2 {
		t.Fatalf("expected up from 0 to wrap to last, got %d", c.State().Highlight)
	}
	c.Key(KeyArrowUp)

	if !c.Key(KeyEnter) {
		t.Fatalf("expected enter to be handled")
	}
	if len(selected) != 1 || selected[0].ID != "b" {
		t.Fatalf("expected selection of b, got %+v", selected)
	}
	s := c.State()
	if s.Query != "" || s.Open || len(s.Results) != 0 {
		t.Fatalf("expected cleared and closed after selection, got %+v", s)
	}
}

func TestArrowUpFromNoneHighlightsLast(t *testing.T) {
	fs := newFakeSearcher()
	fs.results["halo"] = games("a", "b", "c")
	c := newController(t, fs, ControllerConfig{})

	c.Input("halo")
	waitFor(t, c, "results", phaseIs(PhaseResults))
	c.Key(KeyArrowUp)
	if c.State().Highlight != 2 {
		t.Fatalf("expected last index, got %d", c.State().Highlight)
	}
}

func TestKeysIgnoredWithoutResults(t *testing.T) {
	c := newController(t, newFakeSearcher(), ControllerConfig{})
	for _, k := range []string{KeyArrowDown, KeyArrowUp, KeyEnter, "Tab"} {
		if c.Key(k) {
			t.Fatalf("expected %s not handled without results", k)
		}
	}
}

func TestSelectWithoutCallbackNavigates(t *testing.T) {
	fs := newFakeSearcher()
	fs.results["halo"] = games("a")
	var path string
	c := newController(t, fs, ControllerConfig{Navigate: func(p string) { path = p }})

	c.Input("halo")
	waitFor(t, c, "results", phaseIs(PhaseResults))
	if _, ok := c.Select(0); !ok {
		t.Fatalf("expected select to succeed")
	}
	if path != "/game/game-a" {
		t.Fatalf("expected navigation to detail route, got %q", path)
	}
	if _, ok := c.Select(5); ok {
		t.Fatalf("expected out of range select to fail")
	}
}

func TestErrorsRenderInlineAndKeepDropdownOpen(t *testing.T) {
	fs := newFakeSearcher()
	fs.err = &providers.CatalogUnavailableError{Provider: "igdb", Attempts: 3, Err: errors.New("down")}
	c := newController(t, fs, ControllerConfig{})

	c.Input("zelda")
	s := waitFor(t, c, "error", phaseIs(PhaseError))
	if !s.Open || s.Err != catalogErrorMessage || s.Query != "zelda" {
		t.Fatalf("expected inline error with open dropdown, got %+v", s)
	}
}

func TestRawErrorTextNeverRenders(t *testing.T) {
	fs := newFakeSearcher()
	fs.err = context.Canceled
	c := newController(t, fs, ControllerConfig{})

	c.Input("zelda")
	s := waitFor(t, c, "error", phaseIs(PhaseError))
	if s.Err != catalogErrorMessage {
		t.Fatalf("expected generic catalog message, got %q", s.Err)
	}
}

func TestSupersededResponseIsDropped(t *testing.T) {
	fs := newFakeSearcher()
	fs.results["ab"] = games("old")
	fs.results["abc"] = games("new")
	gate := make(chan struct{})
	fs.gates["ab"] = gate
	c := newController(t, fs, ControllerConfig{})

	c.Input("ab")
	waitFor(t, c, "loading ab", phaseIs(PhaseLoading))
	c.Input("abc")
	waitFor(t, c, "abc results", phaseIs(PhaseResults))
	close(gate)
	time.Sleep(20 * time.Millisecond)

	s := c.State()
	if s.Query != "abc" || len(s.Results) != 1 || s.Results[0].ID != "new" {
		t.Fatalf("expected stale response dropped, got %+v", s)
	}
}

func TestClickOutsideAndClearDoNotSelect(t *testing.T) {
	fs := newFakeSearcher()
	fs.results["halo"] = games("a")
	selected := 0
	c := newController(t, fs, ControllerConfig{OnSelect: func(domaingames.SearchResult) { selected++ }})

	c.Input("halo")
	waitFor(t, c, "results", phaseIs(PhaseResults))
	c.Key(KeyArrowDown)

	c.ClickOutside()
	s := c.State()
	if s.Open || s.Query != "halo" || s.Highlight != -1 {
		t.Fatalf("expected closed dropdown keeping the query, got %+v", s)
	}

	c.Clear()
	s = c.State()
	if s.Open || s.Query != "" || s.Phase != PhaseIdle {
		t.Fatalf("expected cleared state, got %+v", s)
	}
	if selected != 0 {
		t.Fatalf("expected no selection, got %d", selected)
	}
	if c.Key(KeyEscape) {
		t.Fatalf("expected escape on closed dropdown to be unhandled")
	}
}

func TestEscapeCloses(t *testing.T) {
	fs := newFakeSearcher()
	fs.results["halo"] = games("a")
	c := newController(t, fs, ControllerConfig{})

	c.Input("halo")
	waitFor(t, c, "results", phaseIs(PhaseResults))
	if !c.Key(KeyEscape) || c.State().Open {
		t.Fatalf("expected escape to close the dropdown")
	}
}

func TestSubscribeReceivesTransitions(t *testing.T) {
	fs := newFakeSearcher()
	fs.results["halo"] = games("a")
	c := newController(t, fs, ControllerConfig{})

	var mu sync.Mutex
	var phases []Phase
	unsubscribe := c.Subscribe(func(s State) {
		mu.Lock()
		phases = append(phases, s.Phase)
		mu.Unlock()
	})
	defer unsubscribe()

	c.Input("halo")
	deadline := time.Now().Add(2 * time.Second)
	for {
		mu.Lock()
		n := len(phases)
		mu.Unlock()
		if n >= 3 || time.Now().After(deadline) {
			break
		}
		time.Sleep(2 * time.Millisecond)
	}

	mu.Lock()
	defer mu.Unlock()
	want := []Phase{PhaseTyping, PhaseLoading, PhaseResults}
	if len(phases) != len(want) {
		t.Fatalf("expected %v, got %v", want, phases)
	}
	for i := range want {
		if phases[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, phases)
		}
	}
}
