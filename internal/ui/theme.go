package ui

import "github.com/charmbracelet/lipgloss"

// Palette colors.
const (
	ColorPrimary = "#3EAF7C"
	ColorMuted   = "#9CA3AF"
	ColorWarning = "#F59E0B"
	ColorError   = "#EF4444"
)

// Theme carries the CLI styles. With NoColor every style renders plain
// text.
type Theme struct {
	NoColor bool

	Title   lipgloss.Style
	Success lipgloss.Style
	Muted   lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
}

// NewTheme builds the CLI theme.
func NewTheme(noColor bool) *Theme {
	if noColor {
		plain := lipgloss.NewStyle()
		return &Theme{NoColor: true, Title: plain, Success: plain, Muted: plain, Warning: plain, Error: plain}
	}
	return &Theme{
		Title:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorPrimary)),
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPrimary)),
		Muted:   lipgloss.NewStyle().Foreground(lipgloss.Color(ColorMuted)),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color(ColorWarning)),
		Error:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorError)),
	}
}
