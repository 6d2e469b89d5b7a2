package kvstore

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/preston-bernstein/gaming-haven/internal/logging"
)

const defaultOpTimeout = 5 * time.Second

type valueConfig struct {
	bus         *Bus
	logger      *slog.Logger
	timeout     time.Duration
	serialize   any
	deserialize any
}

// Option configures a Value.
type Option func(*valueConfig)

// WithBus shares change events with other Values on the same bus.
func WithBus(bus *Bus) Option {
	return func(c *valueConfig) { c.bus = bus }
}

// WithLogger sets the logger used for swallowed storage failures.
func WithLogger(logger *slog.Logger) Option {
	return func(c *valueConfig) { c.logger = logger }
}

// WithTimeout bounds backend calls made without a caller context.
func WithTimeout(d time.Duration) Option {
	return func(c *valueConfig) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithSerializer overrides JSON encoding. fn must match the Value's type parameter.
func WithSerializer[T any](fn func(T) (string, error)) Option {
	return func(c *valueConfig) { c.serialize = fn }
}

// WithDeserializer overrides JSON decoding. fn must match the Value's type parameter.
func WithDeserializer[T any](fn func(string) (T, error)) Option {
	return func(c *valueConfig) { c.deserialize = fn }
}

// Value is a typed view over one key of a Backend.
//
// It starts at the caller's initial value and only reflects storage after Hydrate.
// A nil backend behaves like a context with no storage at all: reads return the
// initial value and writes are logged no-ops. Storage failures never reach callers
// of Write or Remove.
type Value[T any] struct {
	key         string
	initial     T
	backend     Backend
	bus         *Bus
	logger      *slog.Logger
	timeout     time.Duration
	serialize   func(T) (string, error)
	deserialize func(string) (T, error)

	mu       sync.RWMutex
	current  T
	hydrated bool

	busID       uint64
	unsubscribe func()

	listenersMu  sync.Mutex
	listeners    map[int]func(T)
	nextListener int
}

// NewValue builds a Value for key. It subscribes to the bus (if any) immediately.
func NewValue[T any](key string, initial T, backend Backend, opts ...Option) *Value[T] {
	cfg := valueConfig{timeout: defaultOpTimeout}
	for _, opt := range opts {
		opt(&cfg)
	}

	v := &Value[T]{
		key:         key,
		initial:     initial,
		backend:     backend,
		bus:         cfg.bus,
		logger:      cfg.logger,
		timeout:     cfg.timeout,
		serialize:   jsonSerialize[T],
		deserialize: jsonDeserialize[T],
		current:     initial,
		unsubscribe: func() {},
		listeners:   make(map[int]func(T)),
	}
	if fn, ok := cfg.serialize.(func(T) (string, error)); ok && fn != nil {
		v.serialize = fn
	} else if cfg.serialize != nil {
		logging.Warn(v.logger, "serializer type mismatch, using json", logging.FieldKey, key)
	}
	if fn, ok := cfg.deserialize.(func(string) (T, error)); ok && fn != nil {
		v.deserialize = fn
	} else if cfg.deserialize != nil {
		logging.Warn(v.logger, "deserializer type mismatch, using json", logging.FieldKey, key)
	}

	if v.bus != nil {
		v.busID, v.unsubscribe = v.bus.Subscribe(v.onEvent)
	}
	return v
}

// Key returns the storage key.
func (v *Value[T]) Key() string {
	return v.key
}

// Get returns the in-memory value.
func (v *Value[T]) Get() T {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.current
}

// Hydrated reports whether the value has been reconciled with storage.
func (v *Value[T]) Hydrated() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.hydrated
}

// Hydrate loads the stored value. Missing, unreadable, or malformed data leaves the initial value.
func (v *Value[T]) Hydrate(ctx context.Context) {
	val := v.load(ctx)

	v.mu.Lock()
	v.current = val
	v.hydrated = true
	v.mu.Unlock()

	v.notify(val)
}

// Write applies val in memory, persists it, then broadcasts the change.
func (v *Value[T]) Write(val T) {
	ctx, cancel := context.WithTimeout(context.Background(), v.timeout)
	defer cancel()
	if err := v.Store(ctx, val); err != nil {
		logging.Warn(v.logger, "storage write failed", logging.FieldKey, v.key, "err", err)
	}
}

// Remove deletes the key and resets the in-memory value to the initial value.
func (v *Value[T]) Remove() {
	ctx, cancel := context.WithTimeout(context.Background(), v.timeout)
	defer cancel()
	if err := v.Delete(ctx); err != nil {
		logging.Warn(v.logger, "storage remove failed", logging.FieldKey, v.key, "err", err)
	}
}

// Store is Write with the persistence error exposed. The in-memory value is updated even when
// persisting fails; the broadcast only happens after a successful write.
func (v *Value[T]) Store(ctx context.Context, val T) error {
	v.mu.Lock()
	v.current = val
	v.mu.Unlock()
	v.notify(val)

	if v.backend == nil {
		logging.Warn(v.logger, "storage unavailable, write ignored", logging.FieldKey, v.key)
		return nil
	}

	raw, err := v.serialize(val)
	if err != nil {
		return err
	}
	if err := v.backend.Set(ctx, v.key, raw); err != nil {
		return err
	}
	v.publish(raw)
	return nil
}

// Delete is Remove with the persistence error exposed.
func (v *Value[T]) Delete(ctx context.Context) error {
	v.mu.Lock()
	v.current = v.initial
	v.mu.Unlock()
	v.notify(v.initial)

	if v.backend == nil {
		logging.Warn(v.logger, "storage unavailable, remove ignored", logging.FieldKey, v.key)
		return nil
	}
	if err := v.backend.Delete(ctx, v.key); err != nil {
		return err
	}
	v.publish("")
	return nil
}

// Subscribe registers fn for every in-memory change, local or from the bus.
func (v *Value[T]) Subscribe(fn func(T)) func() {
	v.listenersMu.Lock()
	id := v.nextListener
	v.nextListener++
	v.listeners[id] = fn
	v.listenersMu.Unlock()

	return func() {
		v.listenersMu.Lock()
		delete(v.listeners, id)
		v.listenersMu.Unlock()
	}
}

// Close detaches the value from its bus.
func (v *Value[T]) Close() {
	v.unsubscribe()
}

func (v *Value[T]) onEvent(e Event) {
	if e.Key != v.key {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), v.timeout)
	defer cancel()
	v.Hydrate(ctx)
}

func (v *Value[T]) load(ctx context.Context) T {
	if v.backend == nil {
		return v.initial
	}
	raw, ok, err := v.backend.Get(ctx, v.key)
	if err != nil {
		logging.Warn(v.logger, "storage read failed", logging.FieldKey, v.key, "err", err)
		return v.initial
	}
	if !ok {
		return v.initial
	}
	val, err := v.deserialize(raw)
	if err != nil {
		logging.Warn(v.logger, "stored value malformed, using initial value", logging.FieldKey, v.key, "err", err)
		return v.initial
	}
	return val
}

func (v *Value[T]) publish(raw string) {
	if v.bus == nil {
		return
	}
	v.bus.Publish(Event{Key: v.key, NewValue: raw, Source: v.busID})
}

func (v *Value[T]) notify(val T) {
	v.listenersMu.Lock()
	fns := make([]func(T), 0, len(v.listeners))
	for _, fn := range v.listeners {
		fns = append(fns, fn)
	}
	v.listenersMu.Unlock()

	for _, fn := range fns {
		fn(val)
	}
}

func jsonSerialize[T any](val T) (string, error) {
	data, err := json.Marshal(val)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func jsonDeserialize[T any](raw string) (T, error) {
	var val T
	err := json.Unmarshal([]byte(raw), &val)
	return val, err
}
