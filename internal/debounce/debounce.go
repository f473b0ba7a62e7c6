// Package debounce collapses bursts of calls into one trailing call.
package debounce

import (
	"sync"
	"time"
)

// Debouncer invokes fn once the configured window elapses without a new
// Trigger. Safe for concurrent use.
type Debouncer struct {
	window time.Duration
	fn     func()

	mu      sync.Mutex
	timer   *time.Timer
	stopped bool
}

// New returns a Debouncer that runs fn on the trailing edge of window.
func New(window time.Duration, fn func()) *Debouncer {
	return &Debouncer{window: window, fn: fn}
}

// Trigger schedules fn after the window, resetting any pending schedule.
// Calls after Stop are ignored.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.window, d.fire)
}

// fire runs the callback unless Stop won the race with the timer.
func (d *Debouncer) fire() {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	d.timer = nil
	d.mu.Unlock()
	d.fn()
}

// Stop cancels any pending invocation and prevents future ones.
// Idempotent.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
