package carousel

import (
	"math"

	"reel/internal/domain"
)

// HandleScroll tracks the slide under the anchor and restarts the settle
// timer. The scroll caused by restoring the reference point is skipped.
func (c *Carousel) HandleScroll() {
	if c.ignoreNextScroll {
		c.ignoreNextScroll = false
		return
	}
	c.autoAdvance.HandleScroll()
	c.scrolling = true
	c.updateCurrent()
	c.settle.Trigger()
}

// HandleScrollEnd settles right away instead of waiting for the idle timer
func (c *Carousel) HandleScrollEnd() {
	c.settle.Cancel()
	c.resetScrollReferencePoint(false)
}

// HandleTouchStart blocks settling until the touch ends. Touch takes
// priority over any programmatic request in flight.
func (c *Carousel) HandleTouchStart() {
	c.touching = true
	c.actionSource = domain.SourceTouch
	c.requestedIndex = noIndex
	c.autoAdvance.HandleTouchStart()
}

// HandleTouchEnd lets the carousel settle once scrolling goes idle
func (c *Carousel) HandleTouchEnd() {
	c.touching = false
	c.settle.Trigger()
	c.autoAdvance.HandleTouchEnd()
}

// HandleWheel records the wheel as the source and drops any pending request
func (c *Carousel) HandleWheel() {
	c.actionSource = domain.SourceWheel
	c.requestedIndex = noIndex
}

// Touching reports whether a touch is in progress
func (c *Carousel) Touching() bool {
	return c.touching
}

func (c *Carousel) isUserScrolling() bool {
	return c.scrolling &&
		(c.actionSource == domain.SourceTouch || c.actionSource == domain.SourceWheel)
}

// updateCurrent finds the slide under the anchor. While spacers exist they
// are searched instead, since slides are translated around them.
func (c *Carousel) updateCurrent() {
	n := len(c.slides)
	if n == 0 {
		return
	}
	total := c.totalLength()
	items := c.slides
	startIndex := c.currentIndex
	if all := c.spacers.all(); len(all) > 0 {
		items = all
		startIndex = c.currentIndex + n
	}

	overlapping, ok := c.findOverlappingIndex(items, startIndex)
	if !ok {
		// over the overscroll area
		return
	}

	newIndex := overlapping % n
	elementStart := c.surface.Dimension(c.axis, c.slides[newIndex]).Start
	containerStart := c.surface.ContainerDimension(c.axis).Start
	c.currentElementOffset = elementStart - containerStart

	if newIndex == c.currentIndex {
		return
	}
	generation := c.generation
	c.scheduler.Mutate(func() {
		if generation != c.generation {
			return
		}
		c.currentIndex = newIndex
		c.moveSlides(total)
	})
}

// findOverlappingIndex searches outward from startIndex for the item that
// covers the alignment anchor
func (c *Carousel) findOverlappingIndex(items []Element, startIndex int) (int, bool) {
	container := c.surface.ContainerDimension(c.axis)
	anchor := container.Start
	if c.alignment == domain.AlignCenter {
		anchor = container.Center()
	}
	overlaps := func(i int) bool {
		return i >= 0 && i < len(items) && c.surface.Dimension(c.axis, items[i]).Overlaps(anchor)
	}

	if overlaps(startIndex) {
		return startIndex, true
	}
	for i := 1; i <= len(items)/2; i++ {
		next := startIndex + i
		prev := startIndex - i
		if overlaps(next) {
			return next, true
		}
		if overlaps(prev) {
			return prev, true
		}
	}
	return 0, false
}

// resetScrollReferencePoint settles the carousel around the current index.
// Unless forced it does nothing when already settled there.
func (c *Carousel) resetScrollReferencePoint(force bool) {
	c.scrolling = false
	c.scheduler.Mutate(c.notifyScrollPositionChanged)

	if c.touching {
		return
	}
	if c.restingIndex == c.currentIndex && c.requestedIndex == noIndex && !force {
		return
	}
	if len(c.slides) == 0 {
		return
	}

	// a programmatic scroll may have ended short of its target
	if c.requestedIndex != noIndex {
		c.currentIndex = c.requestedIndex
		c.requestedIndex = noIndex
	}

	total := c.totalLength()
	c.scheduler.Mutate(func() {
		c.updateRestingIndex(c.currentIndex)
		c.resetSlideTransforms(total)
		c.hideSpacersAndSlides()
		c.moveSlides(total)
		c.restoreScrollStart()
	})
}

// restoreScrollStart keeps the same offset within the current slide as
// before the layout changed
func (c *Carousel) restoreScrollStart() {
	if c.currentIndex >= len(c.slides) {
		return
	}
	container := c.surface.ContainerDimension(c.axis)
	elementStart := c.surface.Dimension(c.axis, c.slides[c.currentIndex]).Start
	scrollPos := c.surface.ScrollPosition(c.axis)
	offset := c.currentElementOffset
	if math.Abs(offset) > container.Length {
		offset = 0
	}
	pos := elementStart - offset - container.Start + scrollPos
	if pos == scrollPos {
		return
	}

	c.ignoreNextScroll = true
	c.surface.SetScrollPosition(c.axis, pos)
	if c.surface.ScrollPosition(c.axis) == scrollPos {
		// the write was clamped away, no scroll will arrive
		c.ignoreNextScroll = false
	}
}
