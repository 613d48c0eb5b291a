package types

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

const helloWorldBody = `{
	"language": "Python",
	"version": "3.10.2",
	"compile": {"stdout": "", "stderr": "", "output": "", "exitCode": 0},
	"runtime": {"stdout": "Hello World", "stderr": "", "output": "Hello World", "exitCode": 0}
}`

func TestExecutionResult_Unmarshal(t *testing.T) {
	var got ExecutionResult
	if err := json.Unmarshal([]byte(helloWorldBody), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	want := ExecutionResult{
		Language: "Python",
		Version:  "3.10.2",
		Compile:  Output{},
		Runtime:  Output{Stdout: "Hello World", Output: "Hello World"},
	}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
	if got.Failed() {
		t.Error("Failed() = true, want false")
	}
}

func TestExecutionResult_MissingKeys(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantPath string
	}{
		{
			name:     "missing language",
			body:     `{"version":"1","compile":{"stdout":"","stderr":"","output":"","exitCode":0},"runtime":{"stdout":"","stderr":"","output":"","exitCode":0}}`,
			wantPath: "language",
		},
		{
			name:     "missing compile",
			body:     `{"language":"Go","version":"1","runtime":{"stdout":"","stderr":"","output":"","exitCode":0}}`,
			wantPath: "compile",
		},
		{
			name:     "missing runtime exit code",
			body:     `{"language":"Go","version":"1","compile":{"stdout":"","stderr":"","output":"","exitCode":0},"runtime":{"stdout":"","stderr":"","output":""}}`,
			wantPath: "runtime.exitCode",
		},
		{
			name:     "missing compile stderr",
			body:     `{"language":"Go","version":"1","compile":{"stdout":"","output":"","exitCode":0},"runtime":{"stdout":"","stderr":"","output":"","exitCode":0}}`,
			wantPath: "compile.stderr",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var r ExecutionResult
			err := json.Unmarshal([]byte(tt.body), &r)
			if !errors.Is(err, ErrMissingField) {
				t.Fatalf("err = %v, want ErrMissingField", err)
			}
			if !strings.HasSuffix(err.Error(), tt.wantPath) {
				t.Errorf("err = %q, want path %q", err, tt.wantPath)
			}
		})
	}
}

func TestExecutionResult_WrongType(t *testing.T) {
	var r ExecutionResult
	err := json.Unmarshal([]byte(`{"language":1}`), &r)
	if err == nil {
		t.Fatal("expected error for numeric language")
	}
	if errors.Is(err, ErrMissingField) {
		t.Errorf("type mismatch must not be reported as missing field: %v", err)
	}
}

func TestExecutionResult_Null(t *testing.T) {
	var r ExecutionResult
	if err := json.Unmarshal([]byte(`null`), &r); !errors.Is(err, ErrMissingField) {
		t.Errorf("err = %v, want ErrMissingField", err)
	}
}

func TestExecutionResult_FailedOnNonZeroExit(t *testing.T) {
	r := ExecutionResult{Runtime: Output{ExitCode: 1}}
	if !r.Failed() {
		t.Error("Failed() = false for runtime exit code 1")
	}
	r = ExecutionResult{Compile: Output{ExitCode: 2}}
	if !r.Failed() {
		t.Error("Failed() = false for compile exit code 2")
	}
}
