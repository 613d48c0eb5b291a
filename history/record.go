package history

import (
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/teknologi-umum/pesto"
	"github.com/teknologi-umum/pesto/types"
)

// Outcome values.
const (
	// OutcomeSuccess means both stages exited zero.
	OutcomeSuccess = "success"
	// OutcomeFailed means the call succeeded but the program failed to
	// compile or exited non-zero.
	OutcomeFailed = "failed"
	// OutcomeError means the call itself failed.
	OutcomeError = "error"
)

// maxOutputBytes bounds stdout/stderr kept per record.
const maxOutputBytes = 4 << 10

// Record is one archived execution.
type Record struct {
	ID              string    `json:"id" yaml:"id"`
	Timestamp       time.Time `json:"timestamp" yaml:"timestamp"`
	BaseURL         string    `json:"base_url" yaml:"base_url"`
	Language        string    `json:"language" yaml:"language"`
	Version         string    `json:"version" yaml:"version"`
	Files           []string  `json:"files" yaml:"files"`
	Entrypoints     []string  `json:"entrypoints" yaml:"entrypoints"`
	Outcome         string    `json:"outcome" yaml:"outcome"`
	CompileExitCode int       `json:"compile_exit_code" yaml:"compile_exit_code"`
	RuntimeExitCode int       `json:"runtime_exit_code" yaml:"runtime_exit_code"`
	Stdout          string    `json:"stdout,omitempty" yaml:"stdout,omitempty"`
	Stderr          string    `json:"stderr,omitempty" yaml:"stderr,omitempty"`
	// ErrorKind is pesto.KindName of the failure for OutcomeError records.
	ErrorKind string        `json:"error_kind,omitempty" yaml:"error_kind,omitempty"`
	Error     string        `json:"error,omitempty" yaml:"error,omitempty"`
	Duration  time.Duration `json:"duration" yaml:"duration"`
}

// Day returns the UTC date partition of the record.
func (r Record) Day() string {
	return r.Timestamp.UTC().Format(time.DateOnly)
}

// NewRecord builds a record from one Execute call. err is the error the
// call returned, if any.
func NewRecord(baseURL string, sub types.CodeSubmission, res types.ExecutionResult, err error, started time.Time, took time.Duration) Record {
	r := Record{
		ID:          uuid.NewString(),
		Timestamp:   started.UTC(),
		BaseURL:     baseURL,
		Language:    sub.Language,
		Version:     sub.Version,
		Entrypoints: sub.Entrypoints(),
		Duration:    took,
	}
	for _, f := range sub.Files {
		r.Files = append(r.Files, f.Name)
	}

	if err != nil {
		r.Outcome = OutcomeError
		r.ErrorKind = pesto.KindName(err)
		r.Error = err.Error()
		return r
	}

	r.Language = res.Language
	r.Version = res.Version
	r.CompileExitCode = res.Compile.ExitCode
	r.RuntimeExitCode = res.Runtime.ExitCode
	r.Stdout = truncate(res.Compile.Stdout + res.Runtime.Stdout)
	r.Stderr = truncate(res.Compile.Stderr + res.Runtime.Stderr)
	r.Outcome = OutcomeSuccess
	if res.Failed() {
		r.Outcome = OutcomeFailed
	}
	return r
}

// truncate cuts s to at most maxOutputBytes without splitting a rune.
func truncate(s string) string {
	if len(s) <= maxOutputBytes {
		return s
	}
	n := maxOutputBytes
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

// toRecordMap converts a Record to the map written to the dataset.
// Partition keys (day, outcome) are included as fields.
func toRecordMap(r Record) map[string]any {
	return map[string]any{
		"id":                r.ID,
		"ts":                r.Timestamp.Format(time.RFC3339Nano),
		"day":               r.Day(),
		"outcome":           r.Outcome,
		"base_url":          r.BaseURL,
		"language":          r.Language,
		"version":           r.Version,
		"files":             toAnySlice(r.Files),
		"entrypoints":       toAnySlice(r.Entrypoints),
		"compile_exit_code": r.CompileExitCode,
		"runtime_exit_code": r.RuntimeExitCode,
		"stdout":            r.Stdout,
		"stderr":            r.Stderr,
		"error_kind":        r.ErrorKind,
		"error":             r.Error,
		"duration_ms":       r.Duration.Milliseconds(),
	}
}

var errBadRecord = errors.New("malformed history record")

// fromRecordMap converts a dataset row back into a Record.
func fromRecordMap(m map[string]any) (Record, error) {
	id := toString(m["id"])
	if id == "" {
		return Record{}, fmt.Errorf("%w: missing id", errBadRecord)
	}
	ts, err := time.Parse(time.RFC3339Nano, toString(m["ts"]))
	if err != nil {
		return Record{}, fmt.Errorf("%w: %s: ts: %v", errBadRecord, id, err)
	}
	return Record{
		ID:              id,
		Timestamp:       ts,
		BaseURL:         toString(m["base_url"]),
		Language:        toString(m["language"]),
		Version:         toString(m["version"]),
		Files:           toStrings(m["files"]),
		Entrypoints:     toStrings(m["entrypoints"]),
		Outcome:         toString(m["outcome"]),
		CompileExitCode: int(toInt64(m["compile_exit_code"])),
		RuntimeExitCode: int(toInt64(m["runtime_exit_code"])),
		Stdout:          toString(m["stdout"]),
		Stderr:          toString(m["stderr"]),
		ErrorKind:       toString(m["error_kind"]),
		Error:           toString(m["error"]),
		Duration:        time.Duration(toInt64(m["duration_ms"])) * time.Millisecond,
	}, nil
}

func toAnySlice(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

// toString converts a value to string, returning empty string for nil/non-string.
func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

func toStrings(v any) []string {
	var out []string
	switch vs := v.(type) {
	case []any:
		for _, s := range vs {
			out = append(out, toString(s))
		}
	case []string:
		out = append(out, vs...)
	}
	return out
}

// toInt64 accepts the numeric types a codec may hand back.
func toInt64(v any) int64 {
	switch n := v.(type) {
	case float64:
		return int64(n)
	case int64:
		return n
	case int:
		return int64(n)
	case int32:
		return int64(n)
	}
	return 0
}
