// Package tui provides Bubble Tea TUI components for the pesto CLI.
//
// TUI rules:
//   - TUI is opt-in only (--tui flag)
//   - TUI is read-only (runtimes, history, stats views)
//   - TUI uses the same data payloads as non-TUI rendering
package tui

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

var (
	basil  = lipgloss.Color("#65A30D")
	leaf   = lipgloss.Color("#A3E635")
	amber  = lipgloss.Color("#D97706")
	tomato = lipgloss.Color("#DC2626")
	ash    = lipgloss.Color("#78716C")
	cream  = lipgloss.Color("#FAFAF9")
)

// Text styles.
var (
	TitleStyle   = lipgloss.NewStyle().Bold(true).Foreground(basil).MarginBottom(1)
	LabelStyle   = lipgloss.NewStyle().Foreground(ash).Width(12)
	ValueStyle   = lipgloss.NewStyle().Foreground(cream)
	SuccessStyle = lipgloss.NewStyle().Foreground(leaf)
	WarningStyle = lipgloss.NewStyle().Foreground(amber)
	ErrorStyle   = lipgloss.NewStyle().Foreground(tomato)
	HelpStyle    = lipgloss.NewStyle().Foreground(ash).MarginTop(1)
)

// Containers.
var (
	// BoxStyle frames detail panes.
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ash).
			Padding(0, 1)

	// StatBoxStyle frames one counter on the stats view. Width is fixed so
	// a row of boxes lines up.
	StatBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(basil).
			Padding(0, 2).
			Width(20).
			Align(lipgloss.Center)

	StatLabelStyle = lipgloss.NewStyle().Foreground(ash).Align(lipgloss.Center)
	StatValueStyle = lipgloss.NewStyle().Bold(true).Foreground(cream).Align(lipgloss.Center)
)

var outcomeStyles = map[string]lipgloss.Style{
	"success": SuccessStyle,
	"failed":  WarningStyle,
	"error":   ErrorStyle,
}

// OutcomeStyle returns the style for a history outcome.
func OutcomeStyle(outcome string) lipgloss.Style {
	if s, ok := outcomeStyles[outcome]; ok {
		return s
	}
	return ValueStyle
}

// tableStyles is shared by the runtime and history browsers.
func tableStyles() table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.Bold(true).Foreground(basil)
	s.Selected = s.Selected.Foreground(cream).Background(basil)
	return s
}
