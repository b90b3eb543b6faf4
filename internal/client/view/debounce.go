package view

import (
	"sync"
	"time"
)

// DefaultSearchDelay тишина после последнего ввода перед применением поиска
const DefaultSearchDelay = 300 * time.Millisecond

// Debouncer delays fn until no new value has arrived for delay.
// A new value cancels the pending call; only the latest value is applied.
type Debouncer[T any] struct {
	mu      sync.Mutex
	delay   time.Duration
	fn      func(T)
	timer   *time.Timer
	pending T
	armed   bool
	seq     uint64 // отличает актуальный таймер от отмененного
}

// NewDebouncer creates a debouncer calling fn after delay of quiet
func NewDebouncer[T any](delay time.Duration, fn func(T)) *Debouncer[T] {
	return &Debouncer[T]{delay: delay, fn: fn}
}

// Trigger schedules fn(value), replacing any pending value
func (d *Debouncer[T]) Trigger(value T) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.seq++
	seq := d.seq
	d.pending = value
	d.armed = true
	d.timer = time.AfterFunc(d.delay, func() { d.fire(seq) })
}

// Cancel drops the pending value. Returns whether something was pending.
func (d *Debouncer[T]) Cancel() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.disarm()
}

// Flush applies the pending value immediately.
// Returns whether something was pending.
func (d *Debouncer[T]) Flush() bool {
	d.mu.Lock()
	value := d.pending
	had := d.disarm()
	d.mu.Unlock()

	if had {
		d.fn(value)
	}
	return had
}

// Pending returns the value waiting to be applied
func (d *Debouncer[T]) Pending() (T, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending, d.armed
}

func (d *Debouncer[T]) fire(seq uint64) {
	d.mu.Lock()
	if !d.armed || seq != d.seq {
		// Таймер был отменен или заменен после срабатывания
		d.mu.Unlock()
		return
	}
	value := d.pending
	d.disarm()
	d.mu.Unlock()

	d.fn(value)
}

// disarm вызывается под d.mu
func (d *Debouncer[T]) disarm() bool {
	had := d.armed
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	var zero T
	d.pending = zero
	d.armed = false
	d.seq++
	return had
}
