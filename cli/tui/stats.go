package tui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/teknologi-umum/pesto/metrics"
)

// StatsModel shows client counters for a finished batch.
type StatsModel struct {
	snap     metrics.Snapshot
	quitting bool
}

// NewStatsModel creates a new stats model.
func NewStatsModel(snap metrics.Snapshot) StatsModel {
	return StatsModel{snap: snap}
}

// Init implements tea.Model.
func (m StatsModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m StatsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && key.Matches(msg, keys.Quit) {
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

// View implements tea.Model.
func (m StatsModel) View() string {
	if m.quitting {
		return ""
	}
	return m.render() + "\n" + helpLine(keys.Quit)
}

func (m StatsModel) render() string {
	s := m.snap
	var apiErrors int64
	for _, n := range s.APIErrors {
		apiErrors += n
	}
	var successes int64
	for _, n := range s.Successes {
		successes += n
	}

	var b strings.Builder
	b.WriteString(TitleStyle.Render("Client Stats"))
	b.WriteString("\n")

	boxes := []string{
		renderStatBox("Requests", s.TotalRequests(), basil),
		renderStatBox("Succeeded", successes, leaf),
		renderStatBox("API errors", apiErrors, amber),
		renderStatBox("Transport", s.TransportFailures+s.MalformedResponses+s.DecodeFailures, tomato),
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, boxes...))

	if len(s.APIErrors) > 0 {
		kinds := make([]string, 0, len(s.APIErrors))
		for k := range s.APIErrors {
			kinds = append(kinds, k)
		}
		sort.Strings(kinds)

		b.WriteString("\n")
		for _, k := range kinds {
			b.WriteString(LabelStyle.Width(28).Render(k))
			b.WriteString(WarningStyle.Render(fmt.Sprintf("%d", s.APIErrors[k])))
			b.WriteString("\n")
		}
	}
	if n := s.TotalRequests(); n > 0 {
		b.WriteString("\n")
		b.WriteString(LabelStyle.Width(28).Render("mean latency"))
		b.WriteString(ValueStyle.Render((s.Latency / time.Duration(n)).Round(time.Millisecond).String()))
	}
	return b.String()
}

func renderStatBox(label string, value int64, color lipgloss.Color) string {
	boxStyle := StatBoxStyle.BorderForeground(color)

	valueStr := StatValueStyle.Foreground(color).Render(fmt.Sprintf("%d", value))
	labelStr := StatLabelStyle.Render(label)

	content := lipgloss.JoinVertical(lipgloss.Center, valueStr, labelStr)

	return boxStyle.Render(content)
}

// RunStatsTUI runs the stats TUI.
func RunStatsTUI(snap metrics.Snapshot) error {
	p := tea.NewProgram(NewStatsModel(snap), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// RenderStatsStatic renders stats without the interactive program.
func RenderStatsStatic(snap metrics.Snapshot) string {
	return lipgloss.NewStyle().Padding(1, 2).Render(NewStatsModel(snap).render())
}
