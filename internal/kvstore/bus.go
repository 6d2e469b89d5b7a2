package kvstore

import "sync"

// Event announces that key changed. NewValue is the serialized value, empty after a remove.
type Event struct {
	Key      string
	NewValue string
	Source   uint64
}

// Bus fans out change events to every Value sharing it. Delivery is synchronous and in-process only.
type Bus struct {
	mu   sync.RWMutex
	next uint64
	subs map[uint64]func(Event)
}

// NewBus constructs an empty Bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[uint64]func(Event))}
}

// Subscribe registers fn and returns its subscriber id plus an unsubscribe func.
func (b *Bus) Subscribe(fn func(Event)) (uint64, func()) {
	b.mu.Lock()
	b.next++
	id := b.next
	b.subs[id] = fn
	b.mu.Unlock()

	var once sync.Once
	return id, func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
		})
	}
}

// Publish delivers e to every subscriber except its source.
func (b *Bus) Publish(e Event) {
	b.mu.RLock()
	targets := make([]func(Event), 0, len(b.subs))
	for id, fn := range b.subs {
		if id == e.Source {
			continue
		}
		targets = append(targets, fn)
	}
	b.mu.RUnlock()

	for _, fn := range targets {
		fn(e)
	}
}
