package views

import (
	"sort"
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// Placement is one rendered slide positioned along the scroll axis
type Placement struct {
	// Offset is the slide's start in cells from the viewport start. It may
	// be negative or past the end for partly visible slides.
	Offset int
	Length int
	Lines  []string
}

// ComposeHorizontal lays placements out side by side in a width×height
// viewport. Each placement's lines must be Length cells wide. Earlier
// placements win where two overlap.
func ComposeHorizontal(placements []Placement, width, height int) string {
	sorted := sortByOffset(placements)
	rows := make([]string, height)
	for row := range rows {
		var b strings.Builder
		cursor := 0
		for _, p := range sorted {
			start := max(p.Offset, cursor)
			end := min(p.Offset+p.Length, width)
			if end <= start || row >= len(p.Lines) {
				continue
			}
			b.WriteString(strings.Repeat(" ", start-cursor))
			seg := ansi.Cut(p.Lines[row], start-p.Offset, end-p.Offset)
			b.WriteString(padRight(seg, end-start))
			cursor = end
		}
		b.WriteString(strings.Repeat(" ", max(width-cursor, 0)))
		rows[row] = b.String()
	}
	return strings.Join(rows, "\n")
}

// ComposeVertical stacks placements top to bottom in a width×height
// viewport. Each placement must have Length lines.
func ComposeVertical(placements []Placement, width, height int) string {
	rows := make([]string, height)
	filled := make([]bool, height)
	for _, p := range sortByOffset(placements) {
		for i, line := range p.Lines {
			y := p.Offset + i
			if y < 0 || y >= height || i >= p.Length || filled[y] {
				continue
			}
			rows[y] = line
			filled[y] = true
		}
	}
	for y := range rows {
		if !filled[y] {
			rows[y] = strings.Repeat(" ", width)
		}
	}
	return strings.Join(rows, "\n")
}

func sortByOffset(placements []Placement) []Placement {
	sorted := append([]Placement(nil), placements...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Offset < sorted[j].Offset })
	return sorted
}
