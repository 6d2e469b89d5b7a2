// Package debounce delays a rapidly changing value until it has been stable for a fixed interval.
package debounce

import (
	"sync"
	"time"
)

// Debouncer emits the last value passed to Set once no further Set arrives within delay.
type Debouncer[T any] struct {
	delay time.Duration
	out   chan T

	mu      sync.Mutex
	timer   *time.Timer
	gen     uint64
	latest  T
	emitted bool
	stopped bool
}

// New returns a Debouncer with the given delay. Non-positive delays emit on the next timer tick.
func New[T any](delay time.Duration) *Debouncer[T] {
	if delay < 0 {
		delay = 0
	}
	return &Debouncer[T]{
		delay: delay,
		out:   make(chan T, 1),
	}
}

// Set records v and restarts the delay. Calls after Stop are ignored.
func (d *Debouncer[T]) Set(v T) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	d.gen++
	gen := d.gen
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, func() { d.fire(gen, v) })
}

// C delivers settled values. Only the most recent settled value is buffered.
// The channel is closed by Stop.
func (d *Debouncer[T]) C() <-chan T {
	return d.out
}

// Latest returns the most recently settled value.
func (d *Debouncer[T]) Latest() (T, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.latest, d.emitted
}

// Stop cancels any pending emission and closes C. It is safe to call more than once.
func (d *Debouncer[T]) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	d.stopped = true
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
	}
	close(d.out)
}

func (d *Debouncer[T]) fire(gen uint64, v T) {
	d.mu.Lock()
	defer d.mu.Unlock()

	// A newer Set or a Stop superseded this timer.
	if d.stopped || gen != d.gen {
		return
	}
	d.latest = v
	d.emitted = true

	select {
	case <-d.out:
	default:
	}
	d.out <- v
}
