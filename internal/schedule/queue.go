// Package schedule holds the deferred-mutation and timer capabilities the
// carousel runs on. Everything here assumes a single event-loop goroutine.
package schedule

// Scheduler defers a mutating callback to the next safe point.
type Scheduler interface {
	Mutate(fn func())
}

// Queue collects mutations until Flush is called.
type Queue struct {
	pending []func()
}

// NewQueue creates an empty mutation queue
func NewQueue() *Queue {
	return &Queue{}
}

// Mutate queues fn to run on the next Flush
func (q *Queue) Mutate(fn func()) {
	q.pending = append(q.pending, fn)
}

// Len returns the number of queued mutations
func (q *Queue) Len() int {
	return len(q.pending)
}

// Flush runs queued mutations in order, including any queued while
// flushing. It returns how many ran.
func (q *Queue) Flush() int {
	ran := 0
	for len(q.pending) > 0 {
		fn := q.pending[0]
		q.pending = q.pending[1:]
		fn()
		ran++
	}
	q.pending = nil
	return ran
}

// Immediate runs mutations synchronously.
type Immediate struct{}

// Mutate runs fn right away
func (Immediate) Mutate(fn func()) { fn() }
