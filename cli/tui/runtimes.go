package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/teknologi-umum/pesto/types"
)

// RuntimesModel browses the runtime catalog with a name filter.
type RuntimesModel struct {
	all      []types.Runtime
	shown    []types.Runtime
	table    table.Model
	filter   textinput.Model
	quitting bool
}

var runtimeColumns = []table.Column{
	{Title: "Language", Width: 14},
	{Title: "Version", Width: 10},
	{Title: "Compiled", Width: 9},
	{Title: "Aliases", Width: 30},
}

// NewRuntimesModel creates a runtime browser.
func NewRuntimesModel(rc types.RuntimeCatalog) RuntimesModel {
	ti := textinput.New()
	ti.Placeholder = "language or alias"
	ti.Prompt = "/ "

	t := table.New(
		table.WithColumns(runtimeColumns),
		table.WithFocused(true),
		table.WithHeight(15),
	)
	t.SetStyles(tableStyles())

	m := RuntimesModel{all: rc.Runtimes, table: t, filter: ti}
	m.applyFilter()
	return m
}

func (m *RuntimesModel) applyFilter() {
	q := strings.TrimSpace(m.filter.Value())
	shown := make([]types.Runtime, 0, len(m.all))
	for _, rt := range m.all {
		if q == "" || matchesPrefix(rt, q) {
			shown = append(shown, rt)
		}
	}
	m.shown = shown
	rows := make([]table.Row, len(m.shown))
	for i, rt := range m.shown {
		rows[i] = runtimeRow(rt)
	}
	m.table.SetRows(rows)
	m.table.SetCursor(0)
}

func matchesPrefix(rt types.Runtime, q string) bool {
	q = strings.ToLower(q)
	if strings.HasPrefix(strings.ToLower(rt.Language), q) {
		return true
	}
	for _, a := range rt.Aliases {
		if strings.HasPrefix(strings.ToLower(a), q) {
			return true
		}
	}
	return false
}

func runtimeRow(rt types.Runtime) table.Row {
	compiled := "no"
	if rt.Compiled {
		compiled = "yes"
	}
	return table.Row{rt.Language, rt.Version, compiled, strings.Join(rt.Aliases, ", ")}
}

// Selected returns the runtime under the cursor.
func (m RuntimesModel) Selected() (types.Runtime, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.shown) {
		return types.Runtime{}, false
	}
	return m.shown[i], true
}

// Init implements tea.Model.
func (m RuntimesModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m RuntimesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		if h := msg.Height - 8; h > 3 {
			m.table.SetHeight(h)
		}
		return m, nil

	case tea.KeyMsg:
		if m.filter.Focused() {
			switch {
			case key.Matches(msg, keys.Clear):
				m.filter.SetValue("")
				m.filter.Blur()
				m.table.Focus()
				m.applyFilter()
				return m, nil
			case key.Matches(msg, keys.Detail):
				m.filter.Blur()
				m.table.Focus()
				return m, nil
			}
			m.filter, cmd = m.filter.Update(msg)
			m.applyFilter()
			return m, cmd
		}

		switch {
		case key.Matches(msg, keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, keys.Filter):
			m.table.Blur()
			return m, m.filter.Focus()
		case key.Matches(msg, keys.Clear):
			m.filter.SetValue("")
			m.applyFilter()
			return m, nil
		}
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m RuntimesModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(TitleStyle.Render(fmt.Sprintf("Runtimes (%d of %d)", len(m.shown), len(m.all))))
	b.WriteString("\n")
	if m.filter.Focused() || m.filter.Value() != "" {
		b.WriteString(m.filter.View())
		b.WriteString("\n")
	}
	b.WriteString(BoxStyle.Render(m.table.View()))
	b.WriteString("\n")

	if rt, ok := m.Selected(); ok {
		b.WriteString(LabelStyle.Render("Selected"))
		b.WriteString(ValueStyle.Render(fmt.Sprintf("%s %s", rt.Language, rt.Version)))
		b.WriteString("\n")
	}
	b.WriteString(helpLine(keys.Filter, keys.Clear, keys.Quit))
	return b.String()
}

// RunRuntimesTUI runs the runtime browser.
func RunRuntimesTUI(rc types.RuntimeCatalog) error {
	p := tea.NewProgram(NewRuntimesModel(rc), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
