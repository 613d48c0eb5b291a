package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/teknologi-umum/pesto/history"
	"github.com/teknologi-umum/pesto/types"
)

// Tabular is implemented by values with a fixed column layout.
type Tabular interface {
	Headers() []string
	Rows() [][]string
}

// Reporter is implemented by values rendered as a free-form report.
type Reporter interface {
	Report(noColor bool) string
}

// tableView maps known payloads to their table layout. JSON and YAML
// always see the payload itself.
func tableView(data any) any {
	switch d := data.(type) {
	case types.RuntimeCatalog:
		return runtimesTable(d)
	case []history.Record:
		return historyTable(d)
	case types.ExecutionResult:
		return executionReport{res: d}
	case types.PingResult:
		return pingReport(d)
	}
	return data
}

type runtimesTable types.RuntimeCatalog

func (t runtimesTable) Headers() []string {
	return []string{"LANGUAGE", "VERSION", "COMPILED", "ALIASES"}
}

func (t runtimesTable) Rows() [][]string {
	rows := make([][]string, len(t.Runtimes))
	for i, rt := range t.Runtimes {
		compiled := "no"
		if rt.Compiled {
			compiled = "yes"
		}
		rows[i] = []string{rt.Language, rt.Version, compiled, strings.Join(rt.Aliases, ",")}
	}
	return rows
}

type historyTable []history.Record

func (t historyTable) Headers() []string {
	return []string{"ID", "WHEN", "RUNTIME", "OUTCOME", "EXIT", "TOOK", "ERROR"}
}

func (t historyTable) Rows() [][]string {
	rows := make([][]string, len(t))
	for i, r := range t {
		exit := fmt.Sprintf("%d/%d", r.CompileExitCode, r.RuntimeExitCode)
		if r.Outcome == history.OutcomeError {
			exit = "-"
		}
		id := r.ID
		if len(id) > 8 {
			id = id[:8]
		}
		rows[i] = []string{
			id,
			r.Timestamp.Local().Format(time.DateTime),
			strings.TrimSpace(r.Language + " " + r.Version),
			r.Outcome,
			exit,
			r.Duration.Round(time.Millisecond).String(),
			r.ErrorKind,
		}
	}
	return rows
}

type pingReport types.PingResult

func (p pingReport) Report(noColor bool) string {
	return newPalette(noColor).ok.Render(p.Message) + "\n"
}

type executionReport struct {
	res types.ExecutionResult
}

func (e executionReport) Report(noColor bool) string {
	p := newPalette(noColor)
	var b strings.Builder

	b.WriteString(p.title.Render(fmt.Sprintf("%s %s", e.res.Language, e.res.Version)))
	b.WriteString("\n")

	compile := e.res.Compile
	if compile.ExitCode != 0 || compile.Output != "" {
		p.stage(&b, "compile", compile)
	}
	if compile.ExitCode == 0 {
		p.stage(&b, "runtime", e.res.Runtime)
	}
	return b.String()
}

type palette struct {
	title lipgloss.Style
	label lipgloss.Style
	ok    lipgloss.Style
	bad   lipgloss.Style
}

func newPalette(noColor bool) palette {
	if noColor {
		plain := lipgloss.NewStyle()
		return palette{title: plain, label: plain, ok: plain, bad: plain}
	}
	return palette{
		title: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED")),
		label: lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280")),
		ok:    lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981")),
		bad:   lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")),
	}
}

func (p palette) stage(b *strings.Builder, name string, out types.Output) {
	exit := p.ok
	if out.ExitCode != 0 {
		exit = p.bad
	}
	b.WriteString(p.label.Render("[" + name + "]"))
	b.WriteString(" exit ")
	b.WriteString(exit.Render(fmt.Sprintf("%d", out.ExitCode)))
	b.WriteString("\n")
	if out.Stdout != "" {
		b.WriteString(strings.TrimRight(out.Stdout, "\n"))
		b.WriteString("\n")
	}
	if out.Stderr != "" {
		b.WriteString(p.bad.Render(strings.TrimRight(out.Stderr, "\n")))
		b.WriteString("\n")
	}
}
