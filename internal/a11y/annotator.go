// Package a11y decides how a carousel is exposed to assistive technology:
// as a single live item or as a list.
package a11y

import "fmt"

// LiveRegion is how eagerly changes are announced
type LiveRegion string

const (
	LivePolite LiveRegion = "polite"
	LiveOff    LiveRegion = "off"
)

// Annotation describes the exposed state for one index
type Annotation struct {
	// SingleItem is set when only the current slide is exposed
	SingleItem bool
	Live       LiveRegion
	// Exposed has one entry per slide
	Exposed []bool
	Current int
	Count   int
}

// Annotator tracks the inputs an Annotation is computed from
type Annotator struct {
	count        int
	current      int
	visibleCount int
	mixedLength  bool
}

// New creates an annotator for a single visible slide
func New() *Annotator {
	return &Annotator{visibleCount: 1}
}

// UpdateSlideCount sets how many slides there are, resetting a current index past the end.
func (a *Annotator) UpdateSlideCount(count int) {
	a.count = count
	if a.current >= count {
		a.current = 0
	}
}

// UpdateVisibleCount sets how many slides are shown at once.
func (a *Annotator) UpdateVisibleCount(visibleCount int) {
	a.visibleCount = max(1, visibleCount)
}

// UpdateMixedLength switches list mode on for slides of differing lengths.
func (a *Annotator) UpdateMixedLength(mixedLength bool) {
	a.mixedLength = mixedLength
}

// UpdateCurrentIndex records the resting index. Out-of-range values are ignored.
func (a *Annotator) UpdateCurrentIndex(index int) {
	if index < 0 || index >= a.count {
		return
	}
	a.current = index
}

// singleItem is true when one slide fills the viewport
func (a *Annotator) singleItem() bool {
	return a.visibleCount == 1 && !a.mixedLength
}

// Annotation computes the current exposure
func (a *Annotator) Annotation() Annotation {
	single := a.singleItem()
	ann := Annotation{
		SingleItem: single,
		Live:       LiveOff,
		Exposed:    make([]bool, a.count),
		Current:    a.current,
		Count:      a.count,
	}
	if single {
		ann.Live = LivePolite
	}
	for i := range ann.Exposed {
		ann.Exposed[i] = !single || i == a.current
	}
	return ann
}

// Describe returns the position as a screen reader would announce it
func (a *Annotator) Describe() string {
	if a.count == 0 {
		return "No slides"
	}
	return fmt.Sprintf("Slide %d of %d", a.current+1, a.count)
}
