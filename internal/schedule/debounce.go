package schedule

import "time"

// Debouncer runs fn once activity has been idle for wait. Every Trigger
// restarts the wait.
type Debouncer struct {
	clock   Clock
	wait    time.Duration
	fn      func()
	pending Timer
}

// NewDebouncer creates a debouncer for fn
func NewDebouncer(clock Clock, wait time.Duration, fn func()) *Debouncer {
	return &Debouncer{clock: clock, wait: wait, fn: fn}
}

// Trigger (re)starts the idle wait
func (d *Debouncer) Trigger() {
	d.Cancel()
	d.pending = d.clock.AfterFunc(d.wait, func() {
		d.pending = nil
		d.fn()
	})
}

// Pending reports whether a call is waiting to fire
func (d *Debouncer) Pending() bool {
	return d.pending != nil
}

// Cancel drops the pending call, if any
func (d *Debouncer) Cancel() {
	if d.pending != nil {
		d.pending.Stop()
		d.pending = nil
	}
}

// SetWait changes the idle duration. A pending call keeps its old deadline
// until the next Trigger.
func (d *Debouncer) SetWait(wait time.Duration) {
	d.wait = wait
}
