package schedule

import (
	"sort"
	"time"
)

// Timer is a pending callback that can be cancelled.
type Timer interface {
	// Stop cancels the callback. It reports whether the timer was still pending.
	Stop() bool
}

// Clock schedules callbacks after a delay.
type Clock interface {
	AfterFunc(d time.Duration, fn func()) Timer
}

// ManualClock is a Clock whose time only moves when Advance is called.
// Callbacks run on the goroutine calling Advance.
type ManualClock struct {
	now    time.Duration
	seq    int
	timers []*manualTimer
}

type manualTimer struct {
	clock    *ManualClock
	deadline time.Duration
	seq      int
	fn       func()
	done     bool
}

// NewManualClock creates a manual clock at time zero
func NewManualClock() *ManualClock {
	return &ManualClock{}
}

// Now returns the elapsed manual time
func (c *ManualClock) Now() time.Duration {
	return c.now
}

// AfterFunc schedules fn to run once the clock has advanced by d
func (c *ManualClock) AfterFunc(d time.Duration, fn func()) Timer {
	c.seq++
	t := &manualTimer{clock: c, deadline: c.now + d, seq: c.seq, fn: fn}
	c.timers = append(c.timers, t)
	return t
}

// Pending returns the number of timers that have not fired or been stopped
func (c *ManualClock) Pending() int {
	n := 0
	for _, t := range c.timers {
		if !t.done {
			n++
		}
	}
	return n
}

// Advance moves time forward by d, firing due timers in deadline order.
// Timers scheduled by callbacks fire too if they fall inside the window.
func (c *ManualClock) Advance(d time.Duration) {
	target := c.now + d
	for {
		next := c.nextDue(target)
		if next == nil {
			break
		}
		c.now = next.deadline
		next.done = true
		next.fn()
	}
	c.now = target
	c.compact()
}

func (c *ManualClock) nextDue(target time.Duration) *manualTimer {
	var due []*manualTimer
	for _, t := range c.timers {
		if !t.done && t.deadline <= target {
			due = append(due, t)
		}
	}
	if len(due) == 0 {
		return nil
	}
	sort.Slice(due, func(i, j int) bool {
		if due[i].deadline != due[j].deadline {
			return due[i].deadline < due[j].deadline
		}
		return due[i].seq < due[j].seq
	})
	return due[0]
}

func (c *ManualClock) compact() {
	live := c.timers[:0]
	for _, t := range c.timers {
		if !t.done {
			live = append(live, t)
		}
	}
	c.timers = live
}

func (t *manualTimer) Stop() bool {
	if t.done {
		return false
	}
	t.done = true
	return true
}

// PostingClock uses real timers but hands each callback to post, which must
// run it on the event-loop goroutine.
type PostingClock struct {
	post func(fn func())
}

// NewPostingClock creates a clock that delivers callbacks through post
func NewPostingClock(post func(fn func())) *PostingClock {
	return &PostingClock{post: post}
}

type postedTimer struct {
	timer *time.Timer
	// stopped is only touched on the event-loop goroutine
	stopped bool
}

// AfterFunc schedules fn to be posted after d
func (c *PostingClock) AfterFunc(d time.Duration, fn func()) Timer {
	t := &postedTimer{}
	t.timer = time.AfterFunc(d, func() {
		c.post(func() {
			if t.stopped {
				return
			}
			t.stopped = true
			fn()
		})
	})
	return t
}

func (t *postedTimer) Stop() bool {
	if t.stopped {
		return false
	}
	t.stopped = true
	t.timer.Stop()
	return true
}
