package carousel

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"reel/internal/domain"
	"reel/internal/schedule"
	"reel/internal/strip"
)

const slideLength = 10.0

// countingSurface records how often the carousel touches the strip
type countingSurface struct {
	*strip.Strip
	attributes     int
	spacersCreated int
	translations   int
}

func (s *countingSurface) SetAttributes(attrs domain.Attributes) {
	s.attributes++
	s.Strip.SetAttributes(attrs)
}

func (s *countingSurface) CreateSpacer(axis domain.Axis, length float64) Element {
	s.spacersCreated++
	return s.Strip.CreateSpacer(axis, length)
}

func (s *countingSurface) SetTranslation(axis domain.Axis, el Element, delta float64) {
	s.translations++
	s.Strip.SetTranslation(axis, el, delta)
}

type harness struct {
	t       *testing.T
	surface *countingSurface
	strip   *strip.Strip
	queue   *schedule.Queue
	clock   *schedule.ManualClock
	c       *Carousel
	nodes   []*strip.Node
	events  []domain.IndexChangedEvent
	settles int
}

type harnessOption func(*harness)

func withLoop() harnessOption {
	return func(h *harness) { h.c.UpdateLoop(true) }
}

func withAlignment(a domain.Alignment) harnessOption {
	return func(h *harness) { h.c.UpdateAlignment(a) }
}

// withRightToLeft mirrors the strip and lays slides out backwards
func withRightToLeft() harnessOption {
	return func(h *harness) {
		h.strip.SetReverse(true)
		h.c.UpdateForwards(false)
	}
}

// newHarness builds a carousel of count slides, each slideLength long, in a
// viewport that fits visible of them, and lets it settle
func newHarness(t *testing.T, count, visible int, opts ...harnessOption) *harness {
	t.Helper()
	s := strip.New(slideLength * float64(visible))
	h := &harness{
		t:       t,
		surface: &countingSurface{Strip: s},
		strip:   s,
		queue:   schedule.NewQueue(),
		clock:   schedule.NewManualClock(),
	}
	h.c = New(Options{
		Surface:   h.surface,
		Scheduler: h.queue,
		Clock:     h.clock,
		OnIndexChange: func(ev domain.IndexChangedEvent) {
			h.events = append(h.events, ev)
		},
		OnScrollPositionChange: func() { h.settles++ },
	})
	s.SetSink(h.c)

	h.nodes = make([]*strip.Node, count)
	slides := make([]Element, count)
	for i := range h.nodes {
		h.nodes[i] = s.AppendSlide(slideLength, i)
		slides[i] = h.nodes[i]
	}

	h.c.UpdateVisibleCount(visible)
	for _, opt := range opts {
		opt(h)
	}
	h.c.UpdateSlides(slides)
	h.settle()
	return h
}

// pump runs queued mutations and delivers strip events until both are quiet
func (h *harness) pump() {
	h.t.Helper()
	for i := 0; ; i++ {
		require.Less(h.t, i, 1000, "carousel never went quiet")
		ran := h.queue.Flush()
		delivered := h.strip.Dispatch()
		if ran == 0 && !delivered {
			return
		}
	}
}

// settle runs animations to completion and lets the idle timer fire
func (h *harness) settle() {
	h.t.Helper()
	h.pump()
	for i := 0; h.strip.Step(16 * time.Millisecond); i++ {
		require.Less(h.t, i, 10000, "animation never finished")
		h.pump()
	}
	h.pump()
	h.clock.Advance(ResetScrollReferencePointWait)
	h.pump()
}

// goTo jumps straight to index and settles there
func (h *harness) goTo(index int) {
	h.t.Helper()
	h.c.GoToSlide(index, GoToOptions{Instant: true, ActionSource: domain.SourceGenericHighTrust})
	h.settle()
	require.Equal(h.t, index, h.c.RestingIndex())
}

func (h *harness) advance(delta int, allowWrap bool) {
	h.t.Helper()
	h.c.Advance(delta, AdvanceOptions{ActionSource: domain.SourceGenericHighTrust, AllowWrap: allowWrap})
	h.settle()
}

// slideAtScroll returns the slide whose visual start is at the scroll
// position
func (h *harness) slideAtScroll() int {
	h.t.Helper()
	pos := h.strip.ScrollPosition(domain.AxisX)
	for _, n := range h.nodes {
		if n.VisualStart() == pos {
			return n.Payload.(int)
		}
	}
	h.t.Fatalf("no slide starts at scroll position %v", pos)
	return -1
}
