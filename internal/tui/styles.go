package tui

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Styles holds every style the UI renders with. They are built from a
// lipgloss renderer so plain output can be produced without touching the
// global colour profile.
type Styles struct {
	Header    lipgloss.Style
	GameLog   lipgloss.Style
	HandInfo  lipgloss.Style
	Actions   lipgloss.Style
	RedCard   lipgloss.Style
	BlackCard lipgloss.Style
	Hidden    lipgloss.Style
	Current   lipgloss.Style
	Success   lipgloss.Style
	Error     lipgloss.Style
	Warning   lipgloss.Style
	Info      lipgloss.Style
	Prompt    lipgloss.Style
	Input     lipgloss.Style

	renderer *lipgloss.Renderer
}

// NewStyles builds the colour scheme on r
func NewStyles(r *lipgloss.Renderer) Styles {
	return Styles{
		Header: r.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Bold(true),
		GameLog: r.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")),
		HandInfo: r.NewStyle().
			Foreground(lipgloss.Color("#96CEB4")).
			Bold(true),
		Actions: r.NewStyle().
			Foreground(lipgloss.Color("#FFD700")).
			Bold(true),
		RedCard: r.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true),
		BlackCard: r.NewStyle().
			Foreground(lipgloss.Color("#000000")).
			Background(lipgloss.Color("#FAFAFA")).
			Bold(true),
		Hidden: r.NewStyle().
			Foreground(lipgloss.Color("#626262")),
		Current: r.NewStyle().
			Foreground(lipgloss.Color("#04B575")).
			Bold(true),
		Success: r.NewStyle().
			Foreground(lipgloss.Color("#96CEB4")).
			Bold(true),
		Error: r.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true),
		Warning: r.NewStyle().
			Foreground(lipgloss.Color("#FFEAA7")).
			Bold(true),
		Info: r.NewStyle().
			Foreground(lipgloss.Color("#626262")),
		Prompt: r.NewStyle().
			Foreground(lipgloss.Color("#04B575")).
			Bold(true),
		Input: r.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")),

		renderer: r,
	}
}

// DefaultStyles uses the terminal's detected colour profile
func DefaultStyles() Styles {
	return NewStyles(lipgloss.DefaultRenderer())
}

// PlainStyles renders without any escape sequences, for --no-color and tests
func PlainStyles() Styles {
	r := lipgloss.NewRenderer(io.Discard, termenv.WithProfile(termenv.Ascii))
	r.SetColorProfile(termenv.Ascii)
	return NewStyles(r)
}

// pane returns a bordered box style on the same renderer as the other styles
func (s Styles) pane(focused bool) lipgloss.Style {
	border := lipgloss.Color("#626262")
	if focused {
		border = lipgloss.Color("#04B575")
	}
	return s.renderer.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border)
}
