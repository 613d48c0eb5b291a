package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/teknologi-umum/pesto/history"
	"github.com/teknologi-umum/pesto/metrics"
	"github.com/teknologi-umum/pesto/types"
)

func TestIsTUISupported(t *testing.T) {
	tests := []struct {
		viewType string
		want     bool
	}{
		{"runtimes", true},
		{"history", true},
		{"stats", true},

		{"ping", false},
		{"execute", false},
		{"version", false},
		{"unknown", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.viewType, func(t *testing.T) {
			got := IsTUISupported(tt.viewType)
			if got != tt.want {
				t.Errorf("IsTUISupported(%q) = %v, want %v", tt.viewType, got, tt.want)
			}
		})
	}
}

func TestRun_UnsupportedViewType(t *testing.T) {
	if err := Run("execute", nil); err == nil {
		t.Error("Expected error for unsupported view type")
	}
}

func TestRun_WrongDataType(t *testing.T) {
	err := Run(ViewRuntimes, []history.Record{})
	if err == nil || !strings.Contains(err.Error(), "types.RuntimeCatalog") {
		t.Errorf("Run() error = %v, want type mismatch", err)
	}
}

func testCatalog() types.RuntimeCatalog {
	return types.RuntimeCatalog{Runtimes: []types.Runtime{
		{Language: "Python", Version: "3.10.2", Aliases: []string{"py", "python3"}},
		{Language: "Go", Version: "1.18.0", Aliases: []string{"golang"}, Compiled: true},
		{Language: "Javascript", Version: "16.15.0", Aliases: []string{"js", "node"}},
	}}
}

func typeRunes(t *testing.T, m tea.Model, s string) tea.Model {
	t.Helper()
	for _, r := range s {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func TestRuntimesModel_View(t *testing.T) {
	m := NewRuntimesModel(testCatalog())
	view := m.View()

	for _, want := range []string{"Runtimes (3 of 3)", "Python", "Go", "Javascript", "golang"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}
	rt, ok := m.Selected()
	if !ok || rt.Language != "Python" {
		t.Errorf("Selected() = %v, %v, want Python", rt, ok)
	}
}

func TestRuntimesModel_FilterByAlias(t *testing.T) {
	var m tea.Model = NewRuntimesModel(testCatalog())
	m = typeRunes(t, m, "/no")

	rm := m.(RuntimesModel)
	if len(rm.shown) != 1 {
		t.Fatalf("shown = %d runtimes, want 1", len(rm.shown))
	}
	if rt, _ := rm.Selected(); rt.Language != "Javascript" {
		t.Errorf("Selected() = %s, want Javascript", rt.Language)
	}
	if !strings.Contains(rm.View(), "Runtimes (1 of 3)") {
		t.Error("View() does not show filtered count")
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if got := len(m.(RuntimesModel).shown); got != 3 {
		t.Errorf("after esc shown = %d, want 3", got)
	}
}

func TestRuntimesModel_Quit(t *testing.T) {
	var m tea.Model = NewRuntimesModel(testCatalog())
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("q returned no command")
	}
	if m.View() != "" {
		t.Error("View() after quit is not empty")
	}
}

func TestHistoryModel_Detail(t *testing.T) {
	recs := []history.Record{
		{
			ID:        "a",
			Timestamp: time.Date(2026, 2, 7, 10, 0, 0, 0, time.UTC),
			Language:  "Python",
			Version:   "3.10.2",
			Files:     []string{"main.py"},
			Outcome:   history.OutcomeFailed,
			Stdout:    "partial output\n",
			Stderr:    "Traceback\n",
		},
	}
	var m tea.Model = NewHistoryModel(recs)
	if strings.Contains(m.View(), "Traceback") {
		t.Error("detail shown before enter")
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	view := m.View()
	for _, want := range []string{"History (1)", "partial output", "Traceback", "failed"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}
}

func TestHistoryModel_Empty(t *testing.T) {
	if view := NewHistoryModel(nil).View(); !strings.Contains(view, "No executions recorded") {
		t.Errorf("View() = %q", view)
	}
}

func TestRenderStatsStatic(t *testing.T) {
	c := metrics.NewCollector("https://pesto.example")
	c.IncRequest("execute")
	c.IncRequest("execute")
	c.IncSuccess("execute")
	c.IncAPIError("runtime_not_found")
	c.ObserveLatency(40 * time.Millisecond)

	out := RenderStatsStatic(c.Snapshot())
	for _, want := range []string{"Client Stats", "Requests", "runtime_not_found", "20ms"} {
		if !strings.Contains(out, want) {
			t.Errorf("RenderStatsStatic() missing %q", want)
		}
	}
}
