package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/teknologi-umum/pesto/history"
)

// HistoryModel lists archived executions; enter toggles the output of the
// selected one.
type HistoryModel struct {
	records  []history.Record
	table    table.Model
	detail   bool
	quitting bool
}

var historyColumns = []table.Column{
	{Title: "When", Width: 20},
	{Title: "Runtime", Width: 20},
	{Title: "Outcome", Width: 8},
	{Title: "Exit", Width: 5},
	{Title: "Took", Width: 8},
	{Title: "Files", Width: 24},
}

// NewHistoryModel creates a history browser.
func NewHistoryModel(records []history.Record) HistoryModel {
	rows := make([]table.Row, len(records))
	for i, r := range records {
		rows[i] = historyRow(r)
	}
	t := table.New(
		table.WithColumns(historyColumns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(12),
	)
	t.SetStyles(tableStyles())

	return HistoryModel{records: records, table: t}
}

func historyRow(r history.Record) table.Row {
	exit := fmt.Sprintf("%d", r.RuntimeExitCode)
	if r.CompileExitCode != 0 {
		exit = fmt.Sprintf("c%d", r.CompileExitCode)
	}
	if r.Outcome == history.OutcomeError {
		exit = "-"
	}
	return table.Row{
		r.Timestamp.Local().Format(time.DateTime),
		r.Language + " " + r.Version,
		r.Outcome,
		exit,
		r.Duration.Round(time.Millisecond).String(),
		strings.Join(r.Files, ","),
	}
}

// Init implements tea.Model.
func (m HistoryModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m HistoryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		if h := msg.Height/2 - 4; h > 3 {
			m.table.SetHeight(h)
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, keys.Detail):
			m.detail = !m.detail
			return m, nil
		case key.Matches(msg, keys.Clear):
			m.detail = false
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m HistoryModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(TitleStyle.Render(fmt.Sprintf("History (%d)", len(m.records))))
	b.WriteString("\n")
	if len(m.records) == 0 {
		b.WriteString(ValueStyle.Render("No executions recorded yet."))
		b.WriteString("\n")
		b.WriteString(helpLine(keys.Quit))
		return b.String()
	}

	b.WriteString(BoxStyle.Render(m.table.View()))
	b.WriteString("\n")
	if m.detail {
		if i := m.table.Cursor(); i >= 0 && i < len(m.records) {
			b.WriteString(renderRecordDetail(m.records[i]))
			b.WriteString("\n")
		}
	}
	b.WriteString(helpLine(keys.Detail, keys.Quit))
	return b.String()
}

func renderRecordDetail(r history.Record) string {
	var b strings.Builder
	line := func(label, value string, style lipgloss.Style) {
		b.WriteString(LabelStyle.Render(label))
		b.WriteString(style.Render(value))
		b.WriteString("\n")
	}
	line("ID", r.ID, ValueStyle)
	line("Outcome", r.Outcome, OutcomeStyle(r.Outcome))
	if r.Error != "" {
		line("Error", r.Error, ErrorStyle)
	}
	if r.Stdout != "" {
		line("Stdout", strings.TrimRight(r.Stdout, "\n"), ValueStyle)
	}
	if r.Stderr != "" {
		line("Stderr", strings.TrimRight(r.Stderr, "\n"), ErrorStyle)
	}
	return BoxStyle.Render(strings.TrimRight(b.String(), "\n"))
}

// RunHistoryTUI runs the history browser.
func RunHistoryTUI(records []history.Record) error {
	p := tea.NewProgram(NewHistoryModel(records), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
