// Package carousel maps a logical slide index onto a scroll position. When
// looping it surrounds the slides with spacers and shifts slides by whole
// revolutions so a finite list scrolls like an endless one.
package carousel

import (
	"log"
	"time"

	"reel/internal/autoadvance"
	"reel/internal/domain"
	"reel/internal/schedule"
)

// ResetScrollReferencePointWait is how long scrolling must be idle before the
// carousel settles
const ResetScrollReferencePointWait = 200 * time.Millisecond

// noIndex marks an unset resting or requested index
const noIndex = -1

type recomputeState int

const (
	recomputeIdle recomputeState = iota
	recomputePending
)

// Options wires a carousel to its collaborators
type Options struct {
	Surface   Surface
	Scheduler schedule.Scheduler
	Clock     schedule.Clock

	// OnIndexChange is called whenever the resting index is updated
	OnIndexChange func(domain.IndexChangedEvent)
	// OnScrollPositionChange is called whenever scrolling settles
	OnScrollPositionChange func()
}

// Carousel is the scroll/index state machine. All methods must be called
// from a single goroutine.
type Carousel struct {
	surface                Surface
	scheduler              schedule.Scheduler
	onIndexChange          func(domain.IndexChangedEvent)
	onScrollPositionChange func()
	autoAdvance            *autoadvance.Driver
	settle                 *schedule.Debouncer

	slides      []Element
	revolutions []int
	spacers     spacerPools

	// generation counts slide list replacements; queued moves from an
	// older list are dropped
	generation int

	recompute recomputeState

	advanceCount     int
	autoAdvanceLoops int
	mixedLength      bool
	userScrollable   bool

	alignment    domain.Alignment
	axis         domain.Axis
	forwards     bool
	loop         bool
	snap         bool
	snapBy       int
	visibleCount int

	currentIndex         int
	restingIndex         int
	requestedIndex       int
	currentElementOffset float64
	actionSource         domain.ActionSource
	ignoreNextScroll     bool
	scrolling            bool
	touching             bool
}

// New creates a carousel with no slides. Scheduler defaults to running
// mutations immediately.
func New(opts Options) *Carousel {
	scheduler := opts.Scheduler
	if scheduler == nil {
		scheduler = schedule.Immediate{}
	}
	c := &Carousel{
		surface:                opts.Surface,
		scheduler:              scheduler,
		onIndexChange:          opts.OnIndexChange,
		onScrollPositionChange: opts.OnScrollPositionChange,
		advanceCount:           1,
		userScrollable:         true,
		alignment:              domain.AlignStart,
		axis:                   domain.AxisX,
		forwards:               true,
		snap:                   true,
		snapBy:                 1,
		visibleCount:           1,
		restingIndex:           noIndex,
		requestedIndex:         noIndex,
	}
	c.autoAdvance = autoadvance.New(opts.Clock, func(count int) {
		c.Advance(count, AdvanceOptions{ActionSource: domain.SourceAutoplay, AllowWrap: true})
	})
	c.settle = schedule.NewDebouncer(opts.Clock, ResetScrollReferencePointWait, func() {
		c.resetScrollReferencePoint(false)
	})
	return c
}

// UpdateSlides replaces the slide collection and recomputes everything
// derived from it
func (c *Carousel) UpdateSlides(slides []Element) {
	c.slides = append([]Element(nil), slides...)
	c.revolutions = make([]int, len(c.slides))
	c.generation++
	if n := len(c.slides); n > 0 && c.currentIndex >= n {
		c.currentIndex = n - 1
	} else if n == 0 {
		c.currentIndex = 0
	}
	if c.requestedIndex >= len(c.slides) {
		c.requestedIndex = noIndex
	}
	c.UpdateUI()
}

// UpdateAdvanceCount sets how many slides Next and Prev move
func (c *Carousel) UpdateAdvanceCount(count int) {
	c.advanceCount = count
}

// UpdateAlignment sets where the current slide lands in the viewport
func (c *Carousel) UpdateAlignment(alignment domain.Alignment) {
	c.alignment = alignment
	c.UpdateUI()
}

// UpdateHorizontal switches between the horizontal and vertical axis
func (c *Carousel) UpdateHorizontal(horizontal bool) {
	if horizontal {
		c.axis = domain.AxisX
	} else {
		c.axis = domain.AxisY
	}
	c.UpdateUI()
}

// UpdateForwards sets the layout direction. false is right-to-left.
func (c *Carousel) UpdateForwards(forwards bool) {
	c.forwards = forwards
	c.UpdateUI()
}

// UpdateLoop requests looping. It only takes effect when there are enough
// slides, see IsLooping.
func (c *Carousel) UpdateLoop(loop bool) {
	c.loop = loop
	c.UpdateUI()
}

// UpdateMixedLength marks slides as having differing lengths
func (c *Carousel) UpdateMixedLength(mixedLength bool) {
	c.mixedLength = mixedLength
	c.UpdateUI()
}

// UpdateSnap turns scroll snapping on or off
func (c *Carousel) UpdateSnap(snap bool) {
	c.snap = snap
	c.UpdateUI()
}

// UpdateSnapBy makes only every snapBy-th slide a snap target. Values below
// one are treated as one.
func (c *Carousel) UpdateSnapBy(snapBy int) {
	c.snapBy = max(1, snapBy)
	c.UpdateUI()
}

// UpdateUserScrollable controls whether the user may scroll directly
func (c *Carousel) UpdateUserScrollable(userScrollable bool) {
	c.userScrollable = userScrollable
	c.UpdateUI()
}

// UpdateVisibleCount sets how many slides fit in the viewport. Values below
// one are treated as one.
func (c *Carousel) UpdateVisibleCount(visibleCount int) {
	c.visibleCount = max(1, visibleCount)
	c.UpdateUI()
}

// UpdateAutoAdvance turns autoplay on or off
func (c *Carousel) UpdateAutoAdvance(enabled bool) {
	c.autoAdvance.Update(enabled)
}

// UpdateAutoAdvanceCount sets how many slides each autoplay step moves
func (c *Carousel) UpdateAutoAdvanceCount(count int) {
	c.autoAdvance.UpdateCount(count)
}

// UpdateAutoAdvanceInterval sets the autoplay interval
func (c *Carousel) UpdateAutoAdvanceInterval(interval time.Duration) {
	c.autoAdvance.UpdateInterval(interval)
}

// UpdateAutoAdvanceLoops caps autoplay at this many passes through the
// slides. Zero is unlimited.
func (c *Carousel) UpdateAutoAdvanceLoops(loops int) {
	c.autoAdvanceLoops = loops
	c.UpdateUI()
}

// SetOnAutoAdvanceStop registers a callback for when autoplay gives up
func (c *Carousel) SetOnAutoAdvanceStop(fn func(reason string)) {
	c.autoAdvance.SetOnStop(fn)
}

// PauseAutoAdvance suspends autoplay
func (c *Carousel) PauseAutoAdvance() {
	c.autoAdvance.Pause()
}

// ResumeAutoAdvance undoes PauseAutoAdvance
func (c *Carousel) ResumeAutoAdvance() {
	c.autoAdvance.Resume()
}

// StopAutoAdvance turns autoplay off until it is enabled again
func (c *Carousel) StopAutoAdvance() {
	c.autoAdvance.Stop("stopped")
}

// AutoAdvancing reports whether autoplay is on
func (c *Carousel) AutoAdvancing() bool {
	return c.autoAdvance.Enabled()
}

// CurrentIndex is the slide under the alignment anchor right now
func (c *Carousel) CurrentIndex() int {
	return c.currentIndex
}

// RestingIndex is the settled index, or -1 before the first settle
func (c *Carousel) RestingIndex() int {
	return c.restingIndex
}

// VisibleCount returns the configured visible count
func (c *Carousel) VisibleCount() int {
	return c.visibleCount
}

// Alignment returns the configured alignment
func (c *Carousel) Alignment() domain.Alignment {
	return c.alignment
}

// Loop reports whether looping was requested, not whether it is active
func (c *Carousel) Loop() bool {
	return c.loop
}

// MixedLength reports whether slides may differ in length
func (c *Carousel) MixedLength() bool {
	return c.mixedLength
}

// Slides returns the slide handles
func (c *Carousel) Slides() []Element {
	return c.slides
}

// IsLooping reports whether looping is requested and there are at least
// three viewports' worth of slides
func (c *Carousel) IsLooping() bool {
	return c.loop && float64(len(c.slides))/float64(c.visibleCount) >= 3
}

// IsAtStart reports whether the viewport is at the first slide. Never true
// while looping.
func (c *Carousel) IsAtStart() bool {
	if c.IsLooping() {
		return false
	}
	return c.surface.ScrollPosition(c.axis) <= 0
}

// IsAtEnd reports whether the viewport shows the end of the slides. Never
// true while looping.
func (c *Carousel) IsAtEnd() bool {
	if c.IsLooping() {
		return false
	}
	pos := c.surface.ScrollPosition(c.axis)
	container := c.surface.ContainerDimension(c.axis)
	return pos+container.Length >= c.surface.ScrollLength(c.axis)
}

// UpdateUI schedules a full recompute. Calls made before the scheduled pass
// runs are folded into it.
func (c *Carousel) UpdateUI() {
	if c.recompute == recomputePending {
		return
	}
	c.recompute = recomputePending
	c.scheduler.Mutate(func() {
		c.recompute = recomputeIdle
		c.surface.SetAttributes(domain.Attributes{
			Loop:           c.IsLooping(),
			Snap:           c.snap,
			Horizontal:     c.axis == domain.AxisX,
			UserScrollable: c.userScrollable,
			MixedLength:    c.mixedLength,
			Forwards:       c.forwards,
			VisibleCount:   c.visibleCount,
		})
		if len(c.slides) == 0 {
			return
		}
		c.autoAdvance.UpdateMaxAdvances(c.maxAutoAdvances())
		c.updateSpacers()
		c.setChildrenSnapAlign()
		c.hideSpacersAndSlides()
		c.resetScrollReferencePoint(true)
	})
}

func (c *Carousel) maxAutoAdvances() int {
	if c.autoAdvanceLoops <= 0 {
		return autoadvance.Unlimited
	}
	return c.autoAdvanceLoops*len(c.slides) - 1
}

func (c *Carousel) updateRestingIndex(index int) {
	c.restingIndex = index
	log.Printf("carousel: resting index %d (%s)", index, c.actionSource)
	if c.onIndexChange != nil {
		c.onIndexChange(domain.IndexChangedEvent{Index: index, ActionSource: c.actionSource})
	}
	c.autoAdvance.HandleIndexChange(domain.IndexChangedEvent{Index: index, ActionSource: c.actionSource})
}

func (c *Carousel) notifyScrollPositionChanged() {
	if c.onScrollPositionChange != nil {
		c.onScrollPositionChange()
	}
}

// totalLength is one revolution: the summed length of every slide
func (c *Carousel) totalLength() float64 {
	return sum(c.slideLengths())
}

func (c *Carousel) direction() float64 {
	if c.forwards {
		return 1
	}
	return -1
}

