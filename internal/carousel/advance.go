package carousel

import (
	"reel/internal/domain"
	"reel/internal/wrap"
)

// AdvanceOptions controls Advance
type AdvanceOptions struct {
	ActionSource domain.ActionSource
	// AllowWrap lets a non-looping carousel jump to the opposite end when
	// it is already at an edge
	AllowWrap bool
}

// GoToOptions controls GoToSlide
type GoToOptions struct {
	// Instant jumps without smooth scrolling
	Instant      bool
	ActionSource domain.ActionSource
}

// Next moves forward by the advance count
func (c *Carousel) Next(source domain.ActionSource) {
	c.Advance(c.advanceCount, AdvanceOptions{ActionSource: source})
}

// Prev moves backward by the advance count
func (c *Carousel) Prev(source domain.ActionSource) {
	c.Advance(-c.advanceCount, AdvanceOptions{ActionSource: source})
}

// Advance moves by delta slides from the pending request, or from the
// current index when nothing is in flight.
//
// When not looping and AllowWrap is set, an advance that would cross an
// edge caps at that edge first and only wraps to the other end once the
// carousel is already there. Moving forward inside the last window goes
// back to the start, since the tail is already fully shown.
func (c *Carousel) Advance(delta int, opts AdvanceOptions) {
	if len(c.slides) == 0 {
		return
	}
	index := c.currentIndex
	if c.requestedIndex != noIndex {
		index = c.requestedIndex
	}
	newIndex := index + delta
	endIndex := len(c.slides) - 1
	atStart := index == 0
	atEnd := index == endIndex
	passingStart := newIndex < 0
	passingEnd := newIndex > endIndex

	var slideIndex int
	switch {
	case c.IsLooping():
		slideIndex = wrap.Mod(newIndex, endIndex+1)
	case !opts.AllowWrap:
		slideIndex = wrap.Clamp(newIndex, 0, endIndex)
	case delta > 0 && c.inLastWindow(index) && c.inLastWindow(newIndex):
		slideIndex = 0
	case (passingStart && atStart) || (passingEnd && !atEnd):
		slideIndex = endIndex
	case (passingStart && !atStart) || (passingEnd && atEnd):
		slideIndex = 0
	default:
		slideIndex = newIndex
	}

	c.GoToSlide(slideIndex, GoToOptions{ActionSource: opts.ActionSource})
}

// GoToSlide scrolls to index. Out-of-range indices, the current index and
// any request made while the user is touching or flinging are ignored.
func (c *Carousel) GoToSlide(index int, opts GoToOptions) {
	if index < 0 || index > len(c.slides)-1 {
		return
	}
	if index == c.currentIndex {
		return
	}
	if c.touching || c.isUserScrolling() {
		return
	}

	c.requestedIndex = index
	c.actionSource = opts.ActionSource
	c.surface.ScrollIntoView(c.slides[index], c.axis, c.alignment, !opts.Instant)
}

// inLastWindow reports whether index is among the trailing items that are
// already visible when the carousel is scrolled to its end
func (c *Carousel) inLastWindow(index int) bool {
	lastWindowSize := float64(c.visibleCount)
	if c.alignment != domain.AlignStart {
		lastWindowSize /= 2
	}
	return float64(index) >= float64(len(c.slides))-lastWindowSize
}
