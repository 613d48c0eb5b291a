package types

// Output is the captured output of one stage (compile or run).
type Output struct {
	Stdout   string `json:"stdout"`
	Stderr   string `json:"stderr"`
	Output   string `json:"output"`
	ExitCode int    `json:"exitCode"`
}

// UnmarshalJSON decodes an Output, requiring every key.
func (o *Output) UnmarshalJSON(data []byte) error {
	return o.decode(data, "")
}

func (o *Output) decode(data []byte, path string) error {
	f, err := decodeFields(data, path)
	if err != nil {
		return err
	}
	var out Output
	if err := f.decode(path, "stdout", &out.Stdout); err != nil {
		return err
	}
	if err := f.decode(path, "stderr", &out.Stderr); err != nil {
		return err
	}
	if err := f.decode(path, "output", &out.Output); err != nil {
		return err
	}
	if err := f.decode(path, "exitCode", &out.ExitCode); err != nil {
		return err
	}
	*o = out
	return nil
}

// ExecutionResult is the body of a successful POST /api/execute.
type ExecutionResult struct {
	Language string `json:"language"`
	Version  string `json:"version"`
	Compile  Output `json:"compile"`
	Runtime  Output `json:"runtime"`
}

// UnmarshalJSON decodes an ExecutionResult, requiring every key including
// the nested stage outputs.
func (r *ExecutionResult) UnmarshalJSON(data []byte) error {
	f, err := decodeFields(data, "")
	if err != nil {
		return err
	}
	var res ExecutionResult
	if err := f.decode("", "language", &res.Language); err != nil {
		return err
	}
	if err := f.decode("", "version", &res.Version); err != nil {
		return err
	}
	for _, stage := range []struct {
		key string
		dst *Output
	}{
		{"compile", &res.Compile},
		{"runtime", &res.Runtime},
	} {
		raw, err := f.raw("", stage.key)
		if err != nil {
			return err
		}
		if err := stage.dst.decode(raw, stage.key); err != nil {
			return err
		}
	}
	*r = res
	return nil
}

// Failed reports whether either stage exited with a non-zero code.
func (r ExecutionResult) Failed() bool {
	return r.Compile.ExitCode != 0 || r.Runtime.ExitCode != 0
}
