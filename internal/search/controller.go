package search

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/preston-bernstein/gaming-haven/internal/debounce"
	domaingames "github.com/preston-bernstein/gaming-haven/internal/domain/games"
	"github.com/preston-bernstein/gaming-haven/internal/logging"
)

// Phase is the controller's position in the search state machine.
type Phase string

const (
	PhaseIdle    Phase = "idle"
	PhaseTyping  Phase = "typing"
	PhaseLoading Phase = "loading"
	PhaseResults Phase = "results"
	PhaseEmpty   Phase = "empty"
	PhaseError   Phase = "error"
)

// Mode tells a renderer whether the list holds query matches or popular suggestions.
type Mode string

const (
	ModeSuggestions Mode = "suggestions"
	ModeResults     Mode = "results"
)

// Keys understood by Controller.Key.
const (
	KeyArrowDown = "ArrowDown"
	KeyArrowUp   = "ArrowUp"
	KeyEnter     = "Enter"
	KeyEscape    = "Escape"
)

const (
	DefaultDebounce     = 300 * time.Millisecond
	catalogErrorMessage = "Catalog unavailable. Please try again."
)

// State is a snapshot of the dropdown.
type State struct {
	Query     string                     `json:"query"`
	Phase     Phase                      `json:"phase"`
	Mode      Mode                       `json:"mode"`
	Open      bool                       `json:"open"`
	Results   []domaingames.SearchResult `json:"results"`
	Highlight int                        `json:"highlight"`
	Err       string                     `json:"error,omitempty"`
}

// ControllerConfig configures a Controller.
type ControllerConfig struct {
	Debounce     time.Duration
	Limit        int
	PopularLimit int
	// OnSelect receives the chosen result. When nil, Navigate is called with its detail path.
	OnSelect func(domaingames.SearchResult)
	Navigate func(path string)
	Logger   *slog.Logger
}

// Controller drives an autocomplete dropdown from input and key events.
//
// Input updates the query immediately but only reaches the catalog once it has been
// stable for the debounce delay. Every request carries a sequence number; a response
// whose sequence or query no longer matches the current state is dropped.
type Controller struct {
	searcher  Searcher
	cfg       ControllerConfig
	debouncer *debounce.Debouncer[string]
	logger    *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu    sync.Mutex
	state State
	seq   uint64

	listenersMu  sync.Mutex
	listeners    map[int]func(State)
	nextListener int
}

// NewController starts a controller bound to ctx. Close releases it.
func NewController(ctx context.Context, searcher Searcher, cfg ControllerConfig) *Controller {
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}
	ctx, cancel := context.WithCancel(ctx)
	c := &Controller{
		searcher:  searcher,
		cfg:       cfg,
		debouncer: debounce.New[string](cfg.Debounce),
		logger:    cfg.Logger,
		ctx:       ctx,
		cancel:    cancel,
		state:     State{Phase: PhaseIdle, Mode: ModeSuggestions, Highlight: -1},
		listeners: make(map[int]func(State)),
	}
	c.wg.Add(1)
	go c.loop()
	return c
}

// State returns a copy of the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot()
}

// Subscribe registers fn for every state change.
func (c *Controller) Subscribe(fn func(State)) func() {
	c.listenersMu.Lock()
	id := c.nextListener
	c.nextListener++
	c.listeners[id] = fn
	c.listenersMu.Unlock()

	return func() {
		c.listenersMu.Lock()
		delete(c.listeners, id)
		c.listenersMu.Unlock()
	}
}

// Focus opens the dropdown, loading suggestions when the query is empty.
func (c *Controller) Focus() {
	c.mu.Lock()
	if strings.TrimSpace(c.state.Query) != "" {
		c.state.Open = true
		snap := c.snapshot()
		c.mu.Unlock()
		c.notify(snap)
		return
	}
	c.mu.Unlock()
	c.Input("")
}

// Input records a new raw query.
func (c *Controller) Input(query string) {
	c.mu.Lock()
	c.state.Query = query
	c.state.Open = true
	c.state.Highlight = -1
	c.state.Err = ""

	if strings.TrimSpace(query) == "" {
		c.seq++
		seq := c.seq
		c.state.Mode = ModeSuggestions
		c.state.Phase = PhaseLoading
		snap := c.snapshot()
		c.mu.Unlock()

		c.notify(snap)
		c.fetch(seq, "", true)
		return
	}

	c.state.Mode = ModeResults
	c.state.Phase = PhaseTyping
	snap := c.snapshot()
	c.mu.Unlock()

	c.notify(snap)
	c.debouncer.Set(query)
}

// Key handles a navigation key and reports whether it was consumed, in which case the
// caller should suppress the key's default action.
func (c *Controller) Key(key string) bool {
	c.mu.Lock()
	n := len(c.state.Results)
	switch key {
	case KeyArrowDown, KeyArrowUp:
		if !c.state.Open || n == 0 {
			c.mu.Unlock()
			return false
		}
		h := c.state.Highlight
		if key == KeyArrowDown {
			h = (h + 1) % n
		} else if h <= 0 {
			h = n - 1
		} else {
			h--
		}
		c.state.Highlight = h
		snap := c.snapshot()
		c.mu.Unlock()
		c.notify(snap)
		return true
	case KeyEnter:
		h := c.state.Highlight
		c.mu.Unlock()
		if h < 0 || h >= n {
			return false
		}
		_, ok := c.Select(h)
		return ok
	case KeyEscape:
		wasOpen := c.state.Open
		c.state.Open = false
		c.state.Highlight = -1
		snap := c.snapshot()
		c.mu.Unlock()
		if wasOpen {
			c.notify(snap)
		}
		return wasOpen
	}
	c.mu.Unlock()
	return false
}

// Select commits the result at index i: it clears the query, closes the dropdown, then
// hands the result to OnSelect or navigates to its detail page.
func (c *Controller) Select(i int) (domaingames.SearchResult, bool) {
	c.mu.Lock()
	if i < 0 || i >= len(c.state.Results) {
		c.mu.Unlock()
		return domaingames.SearchResult{}, false
	}
	chosen := c.state.Results[i]
	c.reset()
	snap := c.snapshot()
	c.mu.Unlock()

	c.notify(snap)
	switch {
	case c.cfg.OnSelect != nil:
		c.cfg.OnSelect(chosen)
	case c.cfg.Navigate != nil:
		c.cfg.Navigate(domaingames.DetailPath(chosen.Slug))
	}
	return chosen, true
}

// ClickOutside closes the dropdown and keeps the query.
func (c *Controller) ClickOutside() {
	c.mu.Lock()
	c.state.Open = false
	c.state.Highlight = -1
	snap := c.snapshot()
	c.mu.Unlock()
	c.notify(snap)
}

// Clear empties the query and closes the dropdown without selecting anything.
func (c *Controller) Clear() {
	c.mu.Lock()
	c.reset()
	snap := c.snapshot()
	c.mu.Unlock()
	c.notify(snap)
}

// Close stops the debouncer and waits for the event loop to exit. In-flight responses are dropped.
func (c *Controller) Close() {
	c.cancel()
	c.debouncer.Stop()
	c.wg.Wait()
}

func (c *Controller) loop() {
	defer c.wg.Done()
	for {
		select {
		case <-c.ctx.Done():
			return
		case query, ok := <-c.debouncer.C():
			if !ok {
				return
			}
			c.settled(query)
		}
	}
}

func (c *Controller) settled(query string) {
	c.mu.Lock()
	if query != c.state.Query || c.state.Mode != ModeResults {
		c.mu.Unlock()
		return
	}
	c.seq++
	seq := c.seq
	c.state.Phase = PhaseLoading
	snap := c.snapshot()
	c.mu.Unlock()

	c.notify(snap)
	c.fetch(seq, query, false)
}

func (c *Controller) fetch(seq uint64, query string, popular bool) {
	if c.ctx.Err() != nil {
		return
	}
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()

		var (
			results []domaingames.SearchResult
			err     error
		)
		if popular {
			results, err = c.searcher.Popular(c.ctx, c.cfg.PopularLimit)
		} else {
			results, err = c.searcher.Search(c.ctx, query, c.cfg.Limit)
		}
		c.apply(seq, query, popular, results, err)
	}()
}

func (c *Controller) apply(seq uint64, query string, popular bool, results []domaingames.SearchResult, err error) {
	c.mu.Lock()
	current := c.state.Query
	if popular {
		current = strings.TrimSpace(current)
	}
	if seq != c.seq || query != current || c.ctx.Err() != nil {
		c.mu.Unlock()
		logging.Debug(c.logger, "superseded search response dropped", logging.FieldQuery, query)
		return
	}

	c.state.Highlight = -1
	switch {
	case err != nil:
		c.state.Phase = PhaseError
		c.state.Results = nil
		c.state.Err = catalogErrorMessage
		logging.Warn(c.logger, "search failed", logging.FieldQuery, query, "err", err)
	case len(results) == 0:
		c.state.Phase = PhaseEmpty
		c.state.Results = []domaingames.SearchResult{}
	default:
		c.state.Phase = PhaseResults
		c.state.Results = slices.Clone(results)
	}
	snap := c.snapshot()
	c.mu.Unlock()

	c.notify(snap)
}

// reset must be called with c.mu held.
func (c *Controller) reset() {
	c.seq++
	c.state = State{Phase: PhaseIdle, Mode: ModeSuggestions, Highlight: -1}
}

// snapshot must be called with c.mu held.
func (c *Controller) snapshot() State {
	s := c.state
	s.Results = slices.Clone(c.state.Results)
	if s.Results == nil {
		s.Results = []domaingames.SearchResult{}
	}
	return s
}

func (c *Controller) notify(s State) {
	c.listenersMu.Lock()
	fns := make([]func(State), 0, len(c.listeners))
	for _, fn := range c.listeners {
		fns = append(fns, fn)
	}
	c.listenersMu.Unlock()

	for _, fn := range fns {
		fn(s)
	}
}
