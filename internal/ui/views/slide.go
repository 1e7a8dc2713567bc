package views

import (
	"strings"

	"github.com/charmbracelet/x/ansi"

	"reel/internal/deck"
)

// minBox is the smallest slide that still gets a border
const minBox = 4

// SlideRenderer draws one slide as a fixed-size block of lines
type SlideRenderer struct {
	styles *Styles
	cache  map[slideKey][]string
}

type slideKey struct {
	index   int
	width   int
	height  int
	current bool
}

// NewSlideRenderer creates a slide renderer
func NewSlideRenderer(styles *Styles) *SlideRenderer {
	return &SlideRenderer{styles: styles, cache: make(map[slideKey][]string)}
}

// Invalidate drops every cached rendering
func (r *SlideRenderer) Invalidate() {
	clear(r.cache)
}

// Render returns exactly height lines, each exactly width cells wide
func (r *SlideRenderer) Render(s deck.Slide, width, height int, current bool) []string {
	key := slideKey{index: s.Index, width: width, height: height, current: current}
	if lines, ok := r.cache[key]; ok {
		return lines
	}
	lines := r.render(s, width, height, current)
	r.cache[key] = lines
	return lines
}

func (r *SlideRenderer) render(s deck.Slide, width, height int, current bool) []string {
	if width <= 0 || height <= 0 {
		return make([]string, max(height, 0))
	}
	if width < minBox || height < minBox-1 {
		return Fit(nil, width, height)
	}

	style := r.styles.Slide
	if current {
		style = r.styles.SlideCurrent
	}
	// Width and Height exclude the border in lipgloss
	inner := width - style.GetHorizontalBorderSize()
	box := style.
		Width(inner).
		Height(height - style.GetVerticalBorderSize()).
		MaxWidth(width).
		MaxHeight(height)

	content := make([]string, 0, len(s.Lines))
	textWidth := inner - style.GetHorizontalPadding()
	for _, l := range s.Lines {
		content = append(content, r.styleLine(l, textWidth))
	}
	return Fit(strings.Split(box.Render(strings.Join(content, "\n")), "\n"), width, height)
}

func (r *SlideRenderer) styleLine(l deck.Line, width int) string {
	text := ansi.Truncate(l.Text, max(width, 0), "…")
	switch l.Kind {
	case deck.LineHeading:
		return r.styles.Heading.Render(text)
	case deck.LineBullet:
		return r.styles.Bullet.Render(text)
	case deck.LineQuote:
		return r.styles.Quote.Render(text)
	case deck.LineCode:
		return r.styles.Code.Render(text)
	case deck.LineBlank:
		return ""
	default:
		return text
	}
}

// Fit pads or truncates lines to exactly height lines of width cells
func Fit(lines []string, width, height int) []string {
	out := make([]string, height)
	for i := range out {
		line := ""
		if i < len(lines) {
			line = lines[i]
		}
		out[i] = padRight(ansi.Truncate(line, width, ""), width)
	}
	return out
}

func padRight(s string, width int) string {
	if w := ansi.StringWidth(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}
