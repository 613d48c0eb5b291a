package render

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/teknologi-umum/pesto/history"
	"github.com/teknologi-umum/pesto/types"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Format
		wantErr bool
	}{
		{"json lowercase", "json", FormatJSON, false},
		{"json uppercase", "JSON", FormatJSON, false},
		{"table", "table", FormatTable, false},
		{"yaml", "yaml", FormatYAML, false},
		{"empty", "", "", false},
		{"invalid", "xml", "", true},
		{"invalid with message", "csv", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseFormat(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
				return
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseFormat_InvalidErrorMessage(t *testing.T) {
	_, err := ParseFormat("xml")
	if err == nil {
		t.Fatal("expected error for invalid format")
	}
	if !strings.Contains(err.Error(), "json, table, or yaml") {
		t.Errorf("error message should mention valid formats, got: %v", err)
	}
}

func TestRenderer_JSON(t *testing.T) {
	var buf bytes.Buffer
	r := NewRendererWithWriter(FormatJSON, false, &buf)

	data := map[string]string{"key": "value"}
	if err := r.Render(data); err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	got := buf.String()
	if !strings.Contains(got, `"key"`) || !strings.Contains(got, `"value"`) {
		t.Errorf("JSON output missing expected content: %s", got)
	}
}

func TestRenderer_YAML(t *testing.T) {
	var buf bytes.Buffer
	r := NewRendererWithWriter(FormatYAML, false, &buf)

	data := map[string]string{"key": "value"}
	if err := r.Render(data); err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	got := buf.String()
	if !strings.Contains(got, "key:") || !strings.Contains(got, "value") {
		t.Errorf("YAML output missing expected content: %s", got)
	}
}

func TestRenderer_Table_Struct(t *testing.T) {
	var buf bytes.Buffer
	r := NewRendererWithWriter(FormatTable, false, &buf)

	type TestStruct struct {
		Name  string `json:"name"`
		Value int    `json:"value"`
	}

	data := TestStruct{Name: "test", Value: 42}
	if err := r.Render(data); err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	got := buf.String()
	if !strings.Contains(got, "name:") || !strings.Contains(got, "test") {
		t.Errorf("Table output missing name field: %s", got)
	}
	if !strings.Contains(got, "value:") || !strings.Contains(got, "42") {
		t.Errorf("Table output missing value field: %s", got)
	}
}

func TestRenderer_Table_Slice(t *testing.T) {
	var buf bytes.Buffer
	r := NewRendererWithWriter(FormatTable, false, &buf)

	type Item struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}

	data := []Item{
		{ID: "1", Name: "first"},
		{ID: "2", Name: "second"},
	}

	if err := r.Render(data); err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	got := buf.String()
	if !strings.HasPrefix(got, "ID") || !strings.Contains(got, "NAME") {
		t.Errorf("Table output missing headers: %s", got)
	}
	if !strings.Contains(got, "first") || !strings.Contains(got, "second") {
		t.Errorf("Table output missing data: %s", got)
	}
}

func TestRenderer_Table_EmptySlice(t *testing.T) {
	var buf bytes.Buffer
	r := NewRendererWithWriter(FormatTable, false, &buf)

	data := []string{}
	if err := r.Render(data); err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	got := buf.String()
	if !strings.Contains(got, "(no results)") {
		t.Errorf("Empty slice should show '(no results)', got: %s", got)
	}
}

func TestRenderer_Table_StructFields(t *testing.T) {
	var buf bytes.Buffer
	r := NewRendererWithWriter(FormatTable, true, &buf)

	type withHidden struct {
		Name    string    `json:"name"`
		When    time.Time `json:"when"`
		Tags    []string  `json:"tags"`
		Skipped *int      `json:"skipped"`
		secret  string
	}
	when := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	if err := r.Render(withHidden{Name: "x", When: when, Tags: []string{"a", "b"}, secret: "s3cr3t"}); err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	got := buf.String()
	if strings.Contains(got, "s3cr3t") || strings.Contains(got, "secret") {
		t.Errorf("unexported field rendered: %s", got)
	}
	for _, want := range []string{"2026-03-01T12:00:00Z", "[2 items]", "skipped:"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestRenderer_NoColor_DoesNotAffectJSON(t *testing.T) {
	var bufColor, bufNoColor bytes.Buffer

	rColor := NewRendererWithWriter(FormatJSON, false, &bufColor)
	rNoColor := NewRendererWithWriter(FormatJSON, true, &bufNoColor)

	data := map[string]string{"key": "value"}

	if err := rColor.Render(data); err != nil {
		t.Fatalf("Render with color failed: %v", err)
	}
	if err := rNoColor.Render(data); err != nil {
		t.Fatalf("Render without color failed: %v", err)
	}

	if bufColor.String() != bufNoColor.String() {
		t.Errorf("--no-color should not affect JSON output")
	}
}

func TestRenderer_Table_MapKeysSorted(t *testing.T) {
	var buf bytes.Buffer
	r := NewRendererWithWriter(FormatTable, true, &buf)

	if err := r.Render(map[string]time.Duration{"zeta": time.Second, "alpha": 1500 * time.Millisecond}); err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	got := buf.String()
	if strings.Index(got, "alpha") > strings.Index(got, "zeta") {
		t.Errorf("map keys not sorted: %s", got)
	}
	if !strings.Contains(got, "1.5s") {
		t.Errorf("duration not formatted: %s", got)
	}
}

func TestRenderer_Table_Runtimes(t *testing.T) {
	var buf bytes.Buffer
	r := NewRendererWithWriter(FormatTable, true, &buf)

	rc := types.RuntimeCatalog{Runtimes: []types.Runtime{
		{Language: "Python", Version: "3.10.2", Aliases: []string{"py", "python3"}},
		{Language: "Go", Version: "1.18.3", Aliases: []string{"golang"}, Compiled: true},
	}}
	if err := r.Render(rc); err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want header + 2 rows:\n%s", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[0], "LANGUAGE") {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.Contains(lines[1], "py,python3") || !strings.Contains(lines[2], "yes") {
		t.Errorf("rows = %q", lines[1:])
	}
}

func TestRenderer_JSON_RuntimesKeepsWireShape(t *testing.T) {
	var buf bytes.Buffer
	r := NewRendererWithWriter(FormatJSON, false, &buf)

	rc := types.RuntimeCatalog{Runtimes: []types.Runtime{{Language: "C", Version: "10.2.1", Aliases: []string{"gcc"}, Compiled: true}}}
	if err := r.Render(rc); err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	var back types.RuntimeCatalog
	if err := json.Unmarshal(buf.Bytes(), &back); err != nil {
		t.Fatalf("output is not a runtime catalog: %v\n%s", err, buf.String())
	}
	if len(back.Runtimes) != 1 || back.Runtimes[0].Language != "C" {
		t.Errorf("round trip = %+v", back)
	}
}

func TestRenderer_Table_History(t *testing.T) {
	var buf bytes.Buffer
	r := NewRendererWithWriter(FormatTable, true, &buf)

	recs := []history.Record{
		{ID: "0123456789abcdef", Language: "Python", Version: "3.10.2", Outcome: history.OutcomeSuccess, Duration: 1234 * time.Millisecond},
		{ID: "fedcba9876543210", Language: "Cobol", Outcome: history.OutcomeError, ErrorKind: "runtime_not_found"},
	}
	if err := r.Render(recs); err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	got := buf.String()
	for _, want := range []string{"01234567", "Python 3.10.2", "1.234s", "runtime_not_found"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "0123456789abcdef") {
		t.Error("record ID not shortened")
	}
}

func TestRenderer_Table_ExecutionReport(t *testing.T) {
	tests := []struct {
		name    string
		res     types.ExecutionResult
		want    []string
		notWant []string
	}{
		{
			name: "interpreted",
			res: types.ExecutionResult{
				Language: "Python", Version: "3.10.2",
				Runtime: types.Output{Stdout: "Hello world!\n", ExitCode: 0},
			},
			want:    []string{"Python 3.10.2", "[runtime] exit 0", "Hello world!"},
			notWant: []string{"[compile]"},
		},
		{
			name: "compile failure",
			res: types.ExecutionResult{
				Language: "C", Version: "10.2.1",
				Compile:  types.Output{Stderr: "main.c:1: error", Output: "main.c:1: error", ExitCode: 1},
			},
			want:    []string{"[compile] exit 1", "main.c:1: error"},
			notWant: []string{"[runtime]"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			r := NewRendererWithWriter(FormatTable, true, &buf)
			if err := r.Render(tt.res); err != nil {
				t.Fatalf("Render failed: %v", err)
			}
			got := buf.String()
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("output missing %q:\n%s", w, got)
				}
			}
			for _, w := range tt.notWant {
				if strings.Contains(got, w) {
					t.Errorf("output contains %q:\n%s", w, got)
				}
			}
		})
	}
}

func TestRenderer_Table_Ping(t *testing.T) {
	var buf bytes.Buffer
	r := NewRendererWithWriter(FormatTable, true, &buf)
	if err := r.Render(types.PingResult{Message: "OK"}); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if buf.String() != "OK\n" {
		t.Errorf("got %q, want %q", buf.String(), "OK\n")
	}
}

func TestRenderer_RenderTUI_Unsupported(t *testing.T) {
	r := NewRendererWithWriter(FormatTable, false, &bytes.Buffer{})
	err := r.RenderTUI("execute", types.ExecutionResult{})
	if err == nil || !strings.Contains(err.Error(), "--tui is not supported") {
		t.Errorf("RenderTUI() error = %v", err)
	}
}
