package types

import (
	"encoding/json"
	"testing"
)

func TestCodeSubmission_MarshalKeys(t *testing.T) {
	s := CodeSubmission{
		Language: "Python",
		Version:  "3.10.2",
		Files: []SourceFile{
			{Name: "code.py", Code: "print('Hello World')", Entrypoint: true},
		},
		CompileTimeout: 1000,
		RunTimeout:     2000,
		MemoryLimit:    128000,
	}

	data, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	want := map[string]any{
		"language":       "Python",
		"version":        "3.10.2",
		"compileTimeout": float64(1000),
		"runTimeout":     float64(2000),
		"memoryLimit":    float64(128000),
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("%s = %v, want %v", k, got[k], v)
		}
	}
	if len(got) != 6 {
		t.Errorf("got %d keys, want 6: %v", len(got), got)
	}

	files, ok := got["files"].([]any)
	if !ok || len(files) != 1 {
		t.Fatalf("files = %v, want one element", got["files"])
	}
	file := files[0].(map[string]any)
	if file["name"] != "code.py" {
		t.Errorf("files[0].name = %v, want code.py", file["name"])
	}
	if file["code"] != "print('Hello World')" {
		t.Errorf("files[0].code = %v", file["code"])
	}
	if file["entrypoint"] != true {
		t.Errorf("files[0].entrypoint = %v, want true", file["entrypoint"])
	}
}

func TestCodeSubmission_EmptyPassesThrough(t *testing.T) {
	data, err := json.Marshal(CodeSubmission{})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"language":"","version":"","files":[],"compileTimeout":0,"runTimeout":0,"memoryLimit":0}`
	if string(data) != want {
		t.Errorf("got %s, want %s", data, want)
	}
}

func TestCodeSubmission_NoFilesIsEmptyArray(t *testing.T) {
	cases := map[string]CodeSubmission{
		"literal":       {Language: "Python"},
		"NewSubmission": NewSubmission("Python", "3.10.2"),
	}
	for name, s := range cases {
		t.Run(name, func(t *testing.T) {
			data, err := json.Marshal(s)
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			var m map[string]any
			if err := json.Unmarshal(data, &m); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			files, ok := m["files"].([]any)
			if !ok || len(files) != 0 {
				t.Errorf("files = %#v, want []", m["files"])
			}
		})
	}
}

func TestNewSubmission_Defaults(t *testing.T) {
	files := []SourceFile{{Name: "main.go", Code: "package main", Entrypoint: true}}
	s := NewSubmission(LanguageGo, VersionGo, files...)

	if s.CompileTimeout != DefaultCompileTimeout {
		t.Errorf("CompileTimeout = %d, want %d", s.CompileTimeout, DefaultCompileTimeout)
	}
	if s.RunTimeout != DefaultRunTimeout {
		t.Errorf("RunTimeout = %d, want %d", s.RunTimeout, DefaultRunTimeout)
	}
	if s.MemoryLimit != 0 {
		t.Errorf("MemoryLimit = %d, want 0", s.MemoryLimit)
	}

	files[0].Name = "changed.go"
	if s.Files[0].Name != "main.go" {
		t.Error("NewSubmission must copy files")
	}
}

func TestCodeSubmission_Entrypoints(t *testing.T) {
	s := CodeSubmission{Files: []SourceFile{
		{Name: "a.py", Entrypoint: true},
		{Name: "b.py"},
		{Name: "c.py", Entrypoint: true},
	}}
	got := s.Entrypoints()
	if len(got) != 2 || got[0] != "a.py" || got[1] != "c.py" {
		t.Errorf("Entrypoints() = %v, want [a.py c.py]", got)
	}
}
