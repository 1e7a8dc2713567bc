package carousel

import "reel/internal/domain"

// Element is an opaque handle to a slide or spacer owned by the Surface
type Element = any

// Surface measures and moves elements inside the scroll container. The
// carousel never touches rendering directly.
type Surface interface {
	Dimension(axis domain.Axis, el Element) domain.Dimension
	ContainerDimension(axis domain.Axis) domain.Dimension
	ScrollPosition(axis domain.Axis) float64
	SetScrollPosition(axis domain.Axis, pos float64)
	ScrollLength(axis domain.Axis) float64
	SetTranslation(axis domain.Axis, el Element, delta float64)
	ScrollIntoView(el Element, axis domain.Axis, align domain.Alignment, smooth bool)

	CreateSpacer(axis domain.Axis, length float64) Element
	InsertBefore(el, ref Element)
	Append(el Element)
	Remove(el Element)
	SetHidden(el Element, hidden bool)
	SetSnap(el Element, align domain.Alignment, snap bool)
	SetAttributes(attrs domain.Attributes)
}
