package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// helpEntry is one key line of the help popup
type helpEntry struct {
	keys string
	desc string
}

// helpSection groups related help entries
type helpSection struct {
	title   string
	entries []helpEntry
}

var helpSections = []helpSection{
	{"Navigation", []helpEntry{
		{"←/h, PgUp", "Previous slide"},
		{"→/l, PgDn, Space", "Next slide"},
		{"g", "Go to slide number"},
		{"wheel/drag", "Scroll freely, snaps on release"},
	}},
	{"Layout", []helpEntry{
		{"L", "Toggle looping"},
		{"+/-", "Show more/fewer slides at once"},
		{"c", "Toggle start/center alignment"},
	}},
	{"Other", []helpEntry{
		{"p", "Toggle autoplay"},
		{"o", "Open slide text in pager"},
		{"?", "Toggle this help"},
		{"q", "Quit"},
	}},
}

// HelpRenderer handles help content rendering
type HelpRenderer struct{}

// NewHelpRenderer creates a new help renderer
func NewHelpRenderer() *HelpRenderer {
	return &HelpRenderer{}
}

// renderHelpContent renders the help information, scrolled to fit height
func (r *HelpRenderer) renderHelpContent(height int, scrollOffset int) string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("99")).
		MarginBottom(1)

	sectionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("39")).
		MarginTop(1)

	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("220"))

	descStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("252"))

	keyWidth := 0
	for _, s := range helpSections {
		for _, e := range s.entries {
			keyWidth = max(keyWidth, lipgloss.Width(e.keys))
		}
	}

	var help strings.Builder
	help.WriteString(titleStyle.Render("reel Help"))
	help.WriteString("\n")
	for i, s := range helpSections {
		if i > 0 {
			help.WriteString("\n")
		}
		help.WriteString(sectionStyle.Render(s.title))
		help.WriteString("\n")
		for _, e := range s.entries {
			pad := strings.Repeat(" ", keyWidth-lipgloss.Width(e.keys))
			help.WriteString(fmt.Sprintf("  %s%s  %s\n", keyStyle.Render(e.keys), pad, descStyle.Render(e.desc)))
		}
	}

	content := strings.TrimRight(help.String(), "\n")
	lines := strings.Split(content, "\n")
	totalLines := len(lines)

	// Account for popup border and padding
	visibleHeight := height - 4
	if visibleHeight < 5 {
		visibleHeight = 5
	}
	if totalLines <= visibleHeight {
		return content
	}

	maxOffset := totalLines - visibleHeight
	scrollOffset = max(0, min(scrollOffset, maxOffset))
	endLine := scrollOffset + visibleHeight
	visibleLines := append([]string(nil), lines[scrollOffset:endLine]...)

	// Add scroll indicators
	more := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	if scrollOffset > 0 {
		visibleLines[0] = more.Render("↑ (more above)")
	}
	if endLine < totalLines {
		visibleLines[len(visibleLines)-1] = more.Render("↓ (more below)")
	}
	return strings.Join(visibleLines, "\n")
}
