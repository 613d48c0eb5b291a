package types

import "encoding/json"

// Default limits applied by NewSubmission, in milliseconds.
const (
	DefaultCompileTimeout = 10000
	DefaultRunTimeout     = 10000
)

// SourceFile is one file of a submission.
type SourceFile struct {
	Name       string `json:"name"`
	Code       string `json:"code"`
	Entrypoint bool   `json:"entrypoint"`
}

// CodeSubmission is the body of POST /api/execute.
//
// Timeouts are milliseconds and MemoryLimit is bytes. Zero values are sent
// as-is and the API applies its own defaults.
type CodeSubmission struct {
	Language       string       `json:"language"`
	Version        string       `json:"version"`
	Files          []SourceFile `json:"files"`
	CompileTimeout int          `json:"compileTimeout"`
	RunTimeout     int          `json:"runTimeout"`
	MemoryLimit    int          `json:"memoryLimit"`
}

// NewSubmission builds a submission with the SDK default limits.
// The files are copied.
func NewSubmission(language, version string, files ...SourceFile) CodeSubmission {
	return CodeSubmission{
		Language:       language,
		Version:        version,
		Files:          append(make([]SourceFile, 0, len(files)), files...),
		CompileTimeout: DefaultCompileTimeout,
		RunTimeout:     DefaultRunTimeout,
	}
}

// MarshalJSON writes a nil Files as an empty array; the API rejects null.
func (s CodeSubmission) MarshalJSON() ([]byte, error) {
	type wire CodeSubmission
	if s.Files == nil {
		s.Files = []SourceFile{}
	}
	return json.Marshal(wire(s))
}

// Entrypoints returns the names of the files flagged as entrypoint.
func (s CodeSubmission) Entrypoints() []string {
	var names []string
	for _, f := range s.Files {
		if f.Entrypoint {
			names = append(names, f.Name)
		}
	}
	return names
}
