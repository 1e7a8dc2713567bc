package carousel

import (
	"math"

	"reel/internal/domain"
	"reel/internal/wrap"
)

// moveSlides places enough slides before and after the current one that a
// swipe either way lands on a neighbour. Only applies while looping.
func (c *Carousel) moveSlides(total float64) {
	if !c.IsLooping() {
		return
	}
	n := len(c.slides)
	// start alignment shows the whole window after the current slide,
	// center alignment splits evenly
	windowSlideCount := 0
	if c.alignment == domain.AlignStart {
		windowSlideCount = c.visibleCount - 1
	}
	beforeCount := float64(n-1-windowSlideCount) / 2
	afterCount := float64(n-1+windowSlideCount) / 2

	c.moveSlidesBeforeOrAfter(total, int(math.Round(beforeCount)), false)
	c.moveSlidesBeforeOrAfter(total, int(math.Round(afterCount)), true)
}

func (c *Carousel) moveSlidesBeforeOrAfter(total float64, count int, isAfter bool) {
	n := len(c.slides)
	currentRevolutions := c.revolutions[c.currentIndex]
	dir := -1
	if isAfter {
		dir = 1
	}

	for i := 1; i <= count; i++ {
		elIndex := wrap.Mod(c.currentIndex+i*dir, n)
		// leave the slide this epoch started on where it is
		if elIndex == c.restingIndex && c.currentIndex != c.restingIndex {
			break
		}
		needsMove := (elIndex > c.currentIndex) != isAfter
		revolutions := currentRevolutions
		if needsMove {
			revolutions += dir
		}
		c.setSlideTransform(elIndex, revolutions, total)
	}
}

// resetSlideTransforms puts every slide back in its natural position
func (c *Carousel) resetSlideTransforms(total float64) {
	for i := range c.slides {
		c.setSlideTransform(i, 0, total)
	}
}

func (c *Carousel) setSlideTransform(index, revolutions int, total float64) {
	c.surface.SetTranslation(c.axis, c.slides[index], float64(revolutions)*total*c.direction())
	c.revolutions[index] = revolutions
}

func (c *Carousel) slideLengths() []float64 {
	lengths := make([]float64, len(c.slides))
	for i, el := range c.slides {
		lengths[i] = c.surface.Dimension(c.axis, el).Length
	}
	return lengths
}
