package carousel

import "reel/internal/wrap"

// spacerPools hold the filler elements that extend the scroll range by one
// revolution on each side of the slides. All three have one spacer per
// slide while looping and are empty otherwise.
type spacerPools struct {
	before      []Element
	replacement []Element
	after       []Element
}

func (p spacerPools) all() []Element {
	all := make([]Element, 0, len(p.before)+len(p.replacement)+len(p.after))
	all = append(all, p.before...)
	all = append(all, p.replacement...)
	return append(all, p.after...)
}

// updateSpacers throws away the old pools and builds new ones matching the
// current slide lengths
func (c *Carousel) updateSpacers() {
	lengths := c.slideLengths()
	total := sum(lengths)
	count := 0
	if c.IsLooping() {
		count = len(c.slides)
	}

	c.removeSpacers(c.spacers.before)
	c.spacers.before = c.createSpacers(count, lengths)
	for _, spacer := range c.spacers.before {
		c.surface.InsertBefore(spacer, c.slides[0])
	}

	// replacement spacers sit on top of the slides
	c.removeSpacers(c.spacers.replacement)
	c.spacers.replacement = c.createSpacers(count, lengths)
	for _, spacer := range c.spacers.replacement {
		c.setSpacerTransform(spacer, -1, total)
		c.surface.Append(spacer)
	}

	// after spacers take the place the replacement spacers would have had
	c.removeSpacers(c.spacers.after)
	c.spacers.after = c.createSpacers(count, lengths)
	for _, spacer := range c.spacers.after {
		c.setSpacerTransform(spacer, -1, total)
		c.surface.Append(spacer)
	}
}

func (c *Carousel) createSpacers(count int, lengths []float64) []Element {
	spacers := make([]Element, count)
	for i := range spacers {
		spacers[i] = c.surface.CreateSpacer(c.axis, lengths[i])
	}
	return spacers
}

func (c *Carousel) removeSpacers(spacers []Element) {
	for _, spacer := range spacers {
		c.surface.Remove(spacer)
	}
}

// setChildrenSnapAlign gives each spacer the same snap setting as the slide
// it stands in for. Only every snapBy-th slide snaps.
func (c *Carousel) setChildrenSnapAlign() {
	n := len(c.slides)
	children := make([]Element, 0, n+len(c.spacers.before)*3)
	children = append(children, c.spacers.before...)
	children = append(children, c.slides...)
	children = append(children, c.spacers.replacement...)
	children = append(children, c.spacers.after...)

	for i, child := range children {
		slideIndex := wrap.Mod(i, n)
		shouldSnap := wrap.Mod(slideIndex, c.snapBy) == 0
		c.surface.SetSnap(child, c.alignment, shouldSnap)
	}
}

// hideSpacersAndSlides leaves exactly one revolution of spacers visible
// before and after the current slide
func (c *Carousel) hideSpacersAndSlides() {
	n := len(c.slides)
	numBefore := max(0, n-c.currentIndex-1)
	numAfter := max(0, c.currentIndex-1)

	for i, el := range c.spacers.before {
		distance := wrap.Backward(c.currentIndex, i, len(c.spacers.before))
		tooFar := distance > n-1
		c.surface.SetHidden(el, tooFar || i < n-numBefore)
	}
	for i, el := range c.spacers.after {
		distance := wrap.Forward(c.currentIndex, i, len(c.spacers.after))
		tooFar := distance > n-1
		c.surface.SetHidden(el, tooFar || i > numAfter)
	}
}

func (c *Carousel) setSpacerTransform(el Element, revolutions int, total float64) {
	c.surface.SetTranslation(c.axis, el, float64(revolutions)*total*c.direction())
}

func sum(values []float64) float64 {
	total := 0.0
	for _, v := range values {
		total += v
	}
	return total
}

