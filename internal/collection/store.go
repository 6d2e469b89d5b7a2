package collection

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	domaingames "github.com/preston-bernstein/gaming-haven/internal/domain/games"
	"github.com/preston-bernstein/gaming-haven/internal/kvstore"
	"github.com/preston-bernstein/gaming-haven/internal/logging"
	"github.com/preston-bernstein/gaming-haven/internal/metrics"
)

// DefaultKey is the storage key of the saved-games list.
const DefaultKey = "savedGames"

// Mutation names used for logging and metrics.
const (
	OpAdd    = "add"
	OpRemove = "remove"
	OpClear  = "clear"
)

// Store is the saved-games collection. Insertion order is kept in storage;
// display order always comes from FilteredAndSorted.
type Store struct {
	mu       sync.Mutex
	value    *kvstore.Value[[]domaingames.SavedGame]
	logger   *slog.Logger
	recorder *metrics.Recorder
	now      func() time.Time
	timeout  time.Duration
}

// Option configures a Store.
type Option func(*options)

type options struct {
	key      string
	bus      *kvstore.Bus
	logger   *slog.Logger
	recorder *metrics.Recorder
	now      func() time.Time
	timeout  time.Duration
}

func WithKey(key string) Option {
	return func(o *options) {
		if key != "" {
			o.key = key
		}
	}
}

func WithBus(bus *kvstore.Bus) Option {
	return func(o *options) { o.bus = bus }
}

func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

func WithRecorder(rec *metrics.Recorder) Option {
	return func(o *options) { o.recorder = rec }
}

// WithClock overrides the addedAt clock.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// New builds a Store over backend. A nil backend yields a store that never persists.
func New(backend kvstore.Backend, opts ...Option) *Store {
	o := options{key: DefaultKey, now: time.Now, timeout: 5 * time.Second}
	for _, opt := range opts {
		opt(&o)
	}

	value := kvstore.NewValue(o.key, []domaingames.SavedGame{}, backend,
		kvstore.WithBus(o.bus),
		kvstore.WithLogger(o.logger),
		kvstore.WithTimeout(o.timeout),
		kvstore.WithDeserializer(decoder(o.logger)),
	)

	return &Store{
		value:    value,
		logger:   o.logger,
		recorder: o.recorder,
		now:      o.now,
		timeout:  o.timeout,
	}
}

// Hydrate loads the stored collection.
func (s *Store) Hydrate(ctx context.Context) {
	s.value.Hydrate(ctx)
	logging.Debug(s.logger, "collection hydrated", logging.FieldCount, s.Len())
}

// Hydrated reports whether the collection has been loaded from storage.
func (s *Store) Hydrated() bool {
	return s.value.Hydrated()
}

// Add saves result stamped with the current time. It returns false without
// changing anything when a game with the same id is already saved.
func (s *Store) Add(result domaingames.SearchResult) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.value.Get()
	if containsID(current, result.ID) {
		return false
	}

	next := make([]domaingames.SavedGame, 0, len(current)+1)
	next = append(next, current...)
	next = append(next, result.ToSavedGame(s.now()))
	s.persist(OpAdd, result.ID, next)
	return true
}

// Remove deletes id from the collection. Absent ids are ignored and nothing is written.
func (s *Store) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.value.Get()
	if !containsID(current, id) {
		return
	}
	next := slices.DeleteFunc(slices.Clone(current), func(g domaingames.SavedGame) bool {
		return g.ID == id
	})
	s.persist(OpRemove, id, next)
}

// Clear removes the stored list entirely.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	err := s.value.Delete(ctx)
	s.recorder.RecordStoreMutation(OpClear, err)
	if err != nil {
		logging.Warn(s.logger, "collection clear not persisted", "err", err)
	}
}

// IsSaved reports whether id is in the collection.
func (s *Store) IsSaved(id string) bool {
	return containsID(s.value.Get(), id)
}

// Find returns the saved game with id.
func (s *Store) Find(id string) (domaingames.SavedGame, bool) {
	for _, g := range s.value.Get() {
		if g.ID == id {
			return g, true
		}
	}
	return domaingames.SavedGame{}, false
}

// Games returns a copy of the collection in insertion order.
func (s *Store) Games() []domaingames.SavedGame {
	out := slices.Clone(s.value.Get())
	if out == nil {
		out = []domaingames.SavedGame{}
	}
	return out
}

// Len returns the number of saved games.
func (s *Store) Len() int {
	return len(s.value.Get())
}

// FilteredAndSorted returns a new ordered copy of the collection.
func (s *Store) FilteredAndSorted(filter domaingames.FilterType) []domaingames.SavedGame {
	return domaingames.FilteredAndSorted(s.value.Get(), filter)
}

// Subscribe registers fn for every change to the collection.
func (s *Store) Subscribe(fn func([]domaingames.SavedGame)) func() {
	return s.value.Subscribe(fn)
}

// Close detaches the store from its bus.
func (s *Store) Close() {
	s.value.Close()
}

// persist must be called with s.mu held.
func (s *Store) persist(op, id string, next []domaingames.SavedGame) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	err := s.value.Store(ctx, next)
	s.recorder.RecordStoreMutation(op, err)
	if err != nil {
		logging.Warn(s.logger, "collection change not persisted", "op", op, logging.FieldGameID, id, "err", err)
		return
	}
	logging.Debug(s.logger, "collection updated", "op", op, logging.FieldGameID, id, logging.FieldCount, len(next))
}

func containsID(list []domaingames.SavedGame, id string) bool {
	return slices.ContainsFunc(list, func(g domaingames.SavedGame) bool { return g.ID == id })
}
