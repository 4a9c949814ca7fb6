// Package debounce provides a trailing-edge single-shot scheduler:
// bursts of triggers coalesce into one run of the wrapped function after
// a quiet period. Interactive surfaces use it to fold rapid refresh
// requests or keystroke-driven refilters into a single pass.
package debounce

import (
	"sync"
	"time"
)

const defaultDelay = time.Second

// Debouncer runs fn once the delay has elapsed with no new triggers.
// Each Trigger cancels any pending run and starts the wait over, so only
// the last trigger of a burst fires. A trigger arriving while fn is
// running schedules a follow-up run instead of being dropped.
type Debouncer struct {
	delay time.Duration
	fn    func()

	mu      sync.Mutex
	timer   *time.Timer
	pending bool
	running bool
}

// New returns a Debouncer that runs fn delay after the last Trigger.
// Non-positive delays fall back to one second.
func New(delay time.Duration, fn func()) *Debouncer {
	if delay <= 0 {
		delay = defaultDelay
	}
	return &Debouncer{delay: delay, fn: fn}
}

// Trigger marks work pending and arms (or re-arms) the timer. Safe to
// call on a nil Debouncer.
func (d *Debouncer) Trigger() {
	if d == nil {
		return
	}
	d.mu.Lock()
	d.pending = true
	if d.timer == nil {
		d.timer = time.AfterFunc(d.delay, d.onTimer)
		d.mu.Unlock()
		return
	}
	d.timer.Reset(d.delay)
	d.mu.Unlock()
}

func (d *Debouncer) onTimer() {
	d.mu.Lock()
	if d.running {
		// A run is in flight; try again after it finishes.
		if d.timer != nil {
			d.timer.Reset(d.delay)
		}
		d.mu.Unlock()
		return
	}
	if !d.pending {
		d.mu.Unlock()
		return
	}
	d.pending = false
	d.running = true
	d.mu.Unlock()

	d.fn()

	d.mu.Lock()
	d.running = false
	// A trigger landed while running; schedule the follow-up.
	if d.pending && d.timer != nil {
		d.timer.Reset(d.delay)
	}
	d.mu.Unlock()
}

// Flush runs any pending action now, on the caller's goroutine, instead
// of waiting out the delay. If a run is already in flight the pending
// trigger is left for the in-flight run's follow-up scheduling.
func (d *Debouncer) Flush() {
	if d == nil {
		return
	}
	d.mu.Lock()
	if d.running || !d.pending {
		d.mu.Unlock()
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.pending = false
	d.running = true
	d.mu.Unlock()

	d.fn()

	d.mu.Lock()
	d.running = false
	if d.pending && d.timer != nil {
		d.timer.Reset(d.delay)
	}
	d.mu.Unlock()
}

// Stop cancels any pending run without firing it. The Debouncer stays
// usable; a later Trigger arms it again.
func (d *Debouncer) Stop() {
	if d == nil {
		return
	}
	d.mu.Lock()
	d.pending = false
	if d.timer != nil {
		d.timer.Stop()
	}
	d.mu.Unlock()
}
