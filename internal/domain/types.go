package domain

import "fmt"

// Axis is the direction slides are laid out along
type Axis int

const (
	AxisX Axis = iota // horizontal
	AxisY             // vertical
)

func (a Axis) String() string {
	if a == AxisY {
		return "vertical"
	}
	return "horizontal"
}

// Alignment is where in the viewport the current slide lands
type Alignment int

const (
	AlignStart Alignment = iota
	AlignCenter
)

func (a Alignment) String() string {
	if a == AlignCenter {
		return "center"
	}
	return "start"
}

// ParseAlignment converts "start" or "center" into an Alignment
func ParseAlignment(s string) (Alignment, error) {
	switch s {
	case "start", "":
		return AlignStart, nil
	case "center":
		return AlignCenter, nil
	default:
		return AlignStart, fmt.Errorf("unknown alignment %q", s)
	}
}

// ActionSource describes what caused the carousel to change index
type ActionSource int

const (
	SourceNone ActionSource = iota
	SourceGenericHighTrust
	SourceGenericLowTrust
	SourceWheel
	SourceTouch
	SourceAutoplay
)

var actionSourceNames = map[ActionSource]string{
	SourceNone:             "none",
	SourceGenericHighTrust: "generic-high-trust",
	SourceGenericLowTrust:  "generic-low-trust",
	SourceWheel:            "wheel",
	SourceTouch:            "touch",
	SourceAutoplay:         "autoplay",
}

func (s ActionSource) String() string {
	if name, ok := actionSourceNames[s]; ok {
		return name
	}
	return fmt.Sprintf("ActionSource(%d)", int(s))
}

// IsUserInteraction reports whether the source came directly from the user.
// Autoplay and low-trust sources are not user interaction.
func (s ActionSource) IsUserInteraction() bool {
	switch s {
	case SourceGenericHighTrust, SourceWheel, SourceTouch:
		return true
	}
	return false
}

// Dimension is the extent of an item along one axis, in viewport coordinates
type Dimension struct {
	Start  float64
	End    float64
	Length float64
}

// Center returns the midpoint of the dimension
func (d Dimension) Center() float64 {
	return (d.Start + d.End) / 2
}

// Overlaps reports whether pos falls inside the dimension. The end point is
// excluded since it is shared with the adjacent item.
func (d Dimension) Overlaps(pos float64) bool {
	return d.Start <= pos && pos < d.End
}

// Attributes are the container-level settings a surface is told about on
// every recompute
type Attributes struct {
	Loop           bool
	Snap           bool
	Horizontal     bool
	UserScrollable bool
	MixedLength    bool
	Forwards       bool
	VisibleCount   int
}
