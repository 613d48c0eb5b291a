package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/teknologi-umum/pesto/history"
)

func TestFromRecord(t *testing.T) {
	r := history.Record{
		ID:              "abc",
		Timestamp:       time.Date(2026, 2, 7, 12, 0, 0, 0, time.FixedZone("WIB", 7*3600)),
		BaseURL:         "https://pesto.example",
		Language:        "Python",
		Version:         "3.10.2",
		Files:           []string{"main.py"},
		Outcome:         history.OutcomeFailed,
		RuntimeExitCode: 3,
		Stdout:          "secret output",
		Duration:        1500 * time.Millisecond,
	}

	e := FromRecord(r)
	if e.EventType != EventType || e.ID != "abc" || e.Outcome != "failed" {
		t.Errorf("event = %+v", e)
	}
	if e.Timestamp != "2026-02-07T05:00:00Z" {
		t.Errorf("Timestamp = %q, want UTC", e.Timestamp)
	}
	if e.DurationMs != 1500 || e.RuntimeExitCode != 3 {
		t.Errorf("DurationMs = %d, RuntimeExitCode = %d", e.DurationMs, e.RuntimeExitCode)
	}
}

type fakeNotifier struct {
	got    []*ExecutionCompleted
	err    error
	closed bool
}

func (f *fakeNotifier) Notify(_ context.Context, e *ExecutionCompleted) error {
	f.got = append(f.got, e)
	return f.err
}

func (f *fakeNotifier) Close() error {
	f.closed = true
	return nil
}

func TestMulti(t *testing.T) {
	ok := &fakeNotifier{}
	failing := &fakeNotifier{err: errors.New("down")}
	m := Multi{failing, ok}

	err := m.Notify(t.Context(), &ExecutionCompleted{ID: "x"})
	if err == nil || err.Error() != "down" {
		t.Errorf("Notify() error = %v, want down", err)
	}
	if len(ok.got) != 1 {
		t.Error("a failing notifier stopped the fan-out")
	}

	if err := m.Close(); err != nil {
		t.Errorf("Close() = %v", err)
	}
	if !ok.closed || !failing.closed {
		t.Error("not every notifier was closed")
	}
}
