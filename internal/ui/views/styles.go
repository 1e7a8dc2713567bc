package views

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles contains all the style definitions for the UI
type Styles struct {
	Title         lipgloss.Style
	Slide         lipgloss.Style
	SlideCurrent  lipgloss.Style
	Heading       lipgloss.Style
	Bullet        lipgloss.Style
	Quote         lipgloss.Style
	Code          lipgloss.Style
	Dim           lipgloss.Style
	Status        lipgloss.Style
	StatusFlag    lipgloss.Style
	StatusError   lipgloss.Style
	StatusSuccess lipgloss.Style
	Prompt        lipgloss.Style
	HelpBox       lipgloss.Style
}

// NewStyles creates a new Styles instance with default values
func NewStyles() *Styles {
	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")),
		Slide: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("241")).
			Padding(0, 1),
		SlideCurrent: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("99")).
			Padding(0, 1),
		Heading:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		Bullet:        lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		Quote:         lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("245")),
		Code:          lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		Dim:           lipgloss.NewStyle().Faint(true),
		Status:        lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		StatusFlag:    lipgloss.NewStyle().Foreground(lipgloss.Color("51")),  // cyan
		StatusError:   lipgloss.NewStyle().Foreground(lipgloss.Color("203")), // red
		StatusSuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("78")),  // green
		Prompt:        lipgloss.NewStyle().Foreground(lipgloss.Color("220")).Bold(true),
		HelpBox: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			Padding(1).
			BorderForeground(lipgloss.Color("241")),
	}
}
