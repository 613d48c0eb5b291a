// Package pestotest runs an in-process fake of the Pesto API for tests.
//
// The fake speaks the same wire protocol as the public service: token
// checks, monthly quota, runtime lookup, parameter validation and the
// entrypoint limit. Execution is simulated: print('...') lines are echoed to
// stdout and exit(N) sets the exit code.
package pestotest

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/teknologi-umum/pesto/types"
)

// DefaultToken is accepted when Options.Tokens is empty.
const DefaultToken = "test-token"

// DefaultRuntimes is the catalog served when Options.Runtimes is nil.
var DefaultRuntimes = []types.Runtime{
	{Language: types.LanguagePython, Version: types.VersionPython, Aliases: []string{"py", "python3"}, Compiled: false},
	{Language: types.LanguageGo, Version: types.VersionGo, Aliases: []string{"go", "golang"}, Compiled: true},
	{Language: types.LanguageJavascript, Version: types.VersionJavascript, Aliases: []string{"js", "node", "nodejs"}, Compiled: false},
	{Language: types.LanguageC, Version: types.VersionC, Aliases: []string{"gcc"}, Compiled: true},
}

// Reply is a canned response returned by the Fail hook.
type Reply struct {
	Status int
	// Body is written verbatim, so it may be invalid JSON.
	Body string
}

// Options configures a Server.
type Options struct {
	// Tokens are the registered tokens. Defaults to DefaultToken.
	Tokens []string
	// Revoked tokens are registered but rejected.
	Revoked []string
	// MonthlyLimit is the number of requests allowed per token across all
	// routes. Zero means unlimited.
	MonthlyLimit int
	// Runtimes is the served catalog. Defaults to DefaultRuntimes.
	Runtimes []types.Runtime
	// MaxEntrypoints is the per-submission entrypoint limit. Defaults to 1.
	MaxEntrypoints int
	// Fail, when set, is consulted before anything else. A non-nil Reply is
	// written as-is.
	Fail func(r *http.Request) *Reply
}

// Recorded is one request as received by the fake.
type Recorded struct {
	Method string
	Path   string
	Header http.Header
	Body   []byte
}

// Server is a running fake API.
type Server struct {
	*httptest.Server

	opts Options

	mu       sync.Mutex
	usage    map[string]int
	requests []Recorded
}

// NewServer starts a fake API. Call Close when done.
func NewServer(opts Options) *Server {
	if len(opts.Tokens) == 0 {
		opts.Tokens = []string{DefaultToken}
	}
	if opts.Runtimes == nil {
		opts.Runtimes = DefaultRuntimes
	}
	if opts.MaxEntrypoints <= 0 {
		opts.MaxEntrypoints = 1
	}

	s := &Server{
		opts:  opts,
		usage: make(map[string]int),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/ping", s.route(http.MethodGet, s.handlePing))
	mux.HandleFunc("/api/list-runtimes", s.route(http.MethodGet, s.handleListRuntimes))
	mux.HandleFunc("/api/execute", s.route(http.MethodPost, s.handleExecute))
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		s.record(r, nil)
		if s.fail(w, r) {
			return
		}
		writeMessage(w, http.StatusNotFound, "Not found")
	})

	s.Server = httptest.NewServer(mux)
	return s
}

// Requests returns a copy of every request received so far.
func (s *Server) Requests() []Recorded {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.requests)
}

// Usage returns how many requests counted against token's quota.
func (s *Server) Usage(token string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.usage[token]
}

func (s *Server) route(method string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		s.record(r, body)

		if s.fail(w, r) {
			return
		}
		if r.Method != method {
			writeMessage(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}
		if !s.authenticate(w, r.Header.Get("X-Pesto-Token")) {
			return
		}

		r.Body = io.NopCloser(strings.NewReader(string(body)))
		h(w, r)
	}
}

func (s *Server) record(r *http.Request, body []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, Recorded{
		Method: r.Method,
		Path:   r.URL.Path,
		Header: r.Header.Clone(),
		Body:   body,
	})
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request) bool {
	if s.opts.Fail == nil {
		return false
	}
	reply := s.opts.Fail(r)
	if reply == nil {
		return false
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(reply.Status)
	_, _ = io.WriteString(w, reply.Body)
	return true
}

// authenticate mirrors the API's auth layer: presence, registration,
// revocation, then the monthly counter.
func (s *Server) authenticate(w http.ResponseWriter, token string) bool {
	switch {
	case token == "":
		writeMessage(w, http.StatusUnauthorized, "Token must be supplied")
		return false
	case slices.Contains(s.opts.Revoked, token):
		writeMessage(w, http.StatusUnauthorized, "Token has been revoked")
		return false
	case !slices.Contains(s.opts.Tokens, token):
		writeMessage(w, http.StatusUnauthorized, "Token not registered")
		return false
	}

	s.mu.Lock()
	s.usage[token]++
	used := s.usage[token]
	s.mu.Unlock()

	if s.opts.MonthlyLimit > 0 && used > s.opts.MonthlyLimit {
		writeMessage(w, http.StatusTooManyRequests, "Monthly limit exceeded")
		return false
	}
	return true
}

func (s *Server) handlePing(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, types.PingResult{Message: "OK"})
}

func (s *Server) handleListRuntimes(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, types.RuntimeCatalog{Runtimes: s.opts.Runtimes})
}

func (s *Server) handleExecute(w http.ResponseWriter, r *http.Request) {
	var sub types.CodeSubmission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		writeMessage(w, http.StatusBadRequest, "Missing parameters: invalid body")
		return
	}

	if missing := missingParams(sub); len(missing) > 0 {
		writeMessage(w, http.StatusBadRequest, "Missing parameters: "+strings.Join(missing, ", "))
		return
	}

	rt, ok := s.lookup(sub.Language, sub.Version)
	if !ok {
		writeMessage(w, http.StatusBadRequest, "Runtime not found")
		return
	}

	if n := len(sub.Entrypoints()); n > s.opts.MaxEntrypoints {
		writeMessage(w, http.StatusBadRequest,
			fmt.Sprintf("Maximum allowed entrypoint exceeded: expected at most %d, got %d", s.opts.MaxEntrypoints, n))
		return
	}

	writeJSON(w, http.StatusOK, types.ExecutionResult{
		Language: rt.Language,
		Version:  rt.Version,
		Runtime:  simulate(entryFile(sub.Files).Code),
	})
}

func (s *Server) lookup(language, version string) (types.Runtime, bool) {
	for _, rt := range s.opts.Runtimes {
		if rt.Matches(language) && rt.Version == version {
			return rt, true
		}
	}
	return types.Runtime{}, false
}

func missingParams(sub types.CodeSubmission) []string {
	var missing []string
	if sub.Language == "" {
		missing = append(missing, "language")
	}
	if sub.Version == "" {
		missing = append(missing, "version")
	}
	if len(sub.Files) == 0 {
		missing = append(missing, "files")
	}
	for i, f := range sub.Files {
		if f.Name == "" {
			missing = append(missing, fmt.Sprintf("files[%d].name", i))
		}
		if f.Code == "" {
			missing = append(missing, fmt.Sprintf("files[%d].code", i))
		}
	}
	return missing
}

func entryFile(files []types.SourceFile) types.SourceFile {
	for _, f := range files {
		if f.Entrypoint {
			return f
		}
	}
	return files[0]
}

var (
	printLine = regexp.MustCompile(`^print\((?:'([^']*)'|"([^"]*)")\)$`)
	exitLine  = regexp.MustCompile(`^exit\((\d+)\)$`)
	raiseLine = regexp.MustCompile(`^raise (.+)$`)
)

// simulate runs a tiny subset of Python line by line.
func simulate(code string) types.Output {
	var stdout, stderr strings.Builder
	exitCode := 0

	for _, line := range strings.Split(code, "\n") {
		line = strings.TrimSpace(line)
		if m := printLine.FindStringSubmatch(line); m != nil {
			stdout.WriteString(m[1] + m[2] + "\n")
			continue
		}
		if m := exitLine.FindStringSubmatch(line); m != nil {
			exitCode, _ = strconv.Atoi(m[1])
			break
		}
		if m := raiseLine.FindStringSubmatch(line); m != nil {
			stderr.WriteString(m[1] + "\n")
			exitCode = 1
			break
		}
	}

	return types.Output{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Output:   stdout.String() + stderr.String(),
		ExitCode: exitCode,
	}
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
