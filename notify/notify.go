// Package notify publishes execution results to downstream systems.
//
// A Notifier receives one ExecutionCompleted event per finished execute or
// batch item. Notification is best-effort: the CLI logs failures and never
// changes its exit code because of them.
package notify

import (
	"context"
	"errors"
	"time"

	"github.com/teknologi-umum/pesto/history"
)

// EventType is the event_type of every published event.
const EventType = "execution_completed"

// ExecutionCompleted is the payload published when an execution finishes.
type ExecutionCompleted struct {
	EventType       string   `json:"event_type"`
	ID              string   `json:"id"`
	Timestamp       string   `json:"timestamp"` // RFC 3339
	BaseURL         string   `json:"base_url"`
	Language        string   `json:"language"`
	Version         string   `json:"version"`
	Files           []string `json:"files"`
	Outcome         string   `json:"outcome"`
	ErrorKind       string   `json:"error_kind,omitempty"`
	CompileExitCode int      `json:"compile_exit_code"`
	RuntimeExitCode int      `json:"runtime_exit_code"`
	DurationMs      int64    `json:"duration_ms"`
}

// FromRecord builds the event for an archived record. Program output is not
// included.
func FromRecord(r history.Record) *ExecutionCompleted {
	return &ExecutionCompleted{
		EventType:       EventType,
		ID:              r.ID,
		Timestamp:       r.Timestamp.UTC().Format(time.RFC3339),
		BaseURL:         r.BaseURL,
		Language:        r.Language,
		Version:         r.Version,
		Files:           r.Files,
		Outcome:         r.Outcome,
		ErrorKind:       r.ErrorKind,
		CompileExitCode: r.CompileExitCode,
		RuntimeExitCode: r.RuntimeExitCode,
		DurationMs:      r.Duration.Milliseconds(),
	}
}

// Notifier publishes execution events.
type Notifier interface {
	// Notify sends one event. Must respect context cancellation.
	Notify(ctx context.Context, event *ExecutionCompleted) error

	// Close releases resources.
	Close() error
}

// Multi fans an event out to several notifiers.
type Multi []Notifier

// Notify sends to every notifier and joins their errors.
func (m Multi) Notify(ctx context.Context, event *ExecutionCompleted) error {
	var errs []error
	for _, n := range m {
		if err := n.Notify(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close closes every notifier.
func (m Multi) Close() error {
	var errs []error
	for _, n := range m {
		if err := n.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

var _ Notifier = Multi(nil)
