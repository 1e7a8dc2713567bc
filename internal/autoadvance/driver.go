// Package autoadvance moves a carousel forward on a timer. The timer restarts
// whenever the carousel scrolls, pauses while the user is touching it and
// stops for good once the user takes over.
package autoadvance

import (
	"log"
	"math"
	"time"

	"reel/internal/domain"
	"reel/internal/schedule"
)

// MinInterval is the shortest allowed time between advances
const MinInterval = time.Second

// DefaultInterval is used until UpdateInterval is called
const DefaultInterval = 5 * time.Second

// Unlimited means there is no cap on the number of advances
const Unlimited = math.MaxInt

// AdvanceFunc moves the carousel by count slides
type AdvanceFunc func(count int)

// Driver schedules automatic advances
type Driver struct {
	advance     AdvanceFunc
	timer       *schedule.Debouncer
	onStop      func(reason string)
	enabled     bool
	paused      bool
	stopped     bool
	count       int
	maxAdvances int
	advances    int
}

// New creates a disabled driver
func New(clock schedule.Clock, advance AdvanceFunc) *Driver {
	d := &Driver{
		advance:     advance,
		count:       1,
		maxAdvances: Unlimited,
	}
	d.timer = schedule.NewDebouncer(clock, DefaultInterval, d.fire)
	return d
}

// SetOnStop registers a callback for when autoplay stops permanently
func (d *Driver) SetOnStop(fn func(reason string)) {
	d.onStop = fn
}

// Update turns autoplay on or off. Turning it on clears a previous stop.
func (d *Driver) Update(enabled bool) {
	d.enabled = enabled
	if enabled {
		d.stopped = false
		d.advances = 0
	}
	d.reset()
}

// UpdateCount sets how many slides each advance moves. Zero means one.
func (d *Driver) UpdateCount(count int) {
	if count == 0 {
		count = 1
	}
	d.count = count
	d.reset()
}

// UpdateInterval sets the idle time between advances, floored at MinInterval
func (d *Driver) UpdateInterval(interval time.Duration) {
	if interval < MinInterval {
		interval = MinInterval
	}
	d.timer.SetWait(interval)
	d.reset()
}

// UpdateMaxAdvances caps the number of advances, in slides
func (d *Driver) UpdateMaxAdvances(max int) {
	d.maxAdvances = max
	d.reset()
}

// Pause suspends autoplay until Resume
func (d *Driver) Pause() {
	d.paused = true
	d.reset()
}

// Resume undoes Pause
func (d *Driver) Resume() {
	d.paused = false
	d.reset()
}

// Stop ends autoplay until it is enabled again
func (d *Driver) Stop(reason string) {
	if d.stopped {
		return
	}
	d.stopped = true
	d.reset()
	log.Printf("autoadvance: stopped (%s)", reason)
	if d.onStop != nil {
		d.onStop(reason)
	}
}

// Running reports whether an advance is scheduled
func (d *Driver) Running() bool {
	return d.timer.Pending()
}

// Enabled reports whether autoplay is switched on and not stopped
func (d *Driver) Enabled() bool {
	return d.enabled && !d.stopped
}

// Advances returns how many slides autoplay has moved so far
func (d *Driver) Advances() int {
	return d.advances
}

// HandleScroll restarts the interval
func (d *Driver) HandleScroll() {
	d.reset()
}

// HandleTouchStart pauses while the user holds the carousel
func (d *Driver) HandleTouchStart() {
	d.Pause()
}

// HandleTouchEnd resumes after a touch
func (d *Driver) HandleTouchEnd() {
	d.Resume()
}

// HandleIndexChange stops autoplay once the user has moved the carousel
func (d *Driver) HandleIndexChange(ev domain.IndexChangedEvent) {
	if ev.ActionSource.IsUserInteraction() {
		d.Stop("user interaction")
	}
}

func (d *Driver) shouldAdvance() bool {
	return d.enabled && !d.paused && !d.stopped && d.advances < d.maxAdvances
}

func (d *Driver) reset() {
	if d.shouldAdvance() {
		d.timer.Trigger()
		return
	}
	d.timer.Cancel()
}

func (d *Driver) fire() {
	if !d.shouldAdvance() {
		return
	}
	d.advances += abs(d.count)
	d.advance(d.count)
	d.reset()
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
