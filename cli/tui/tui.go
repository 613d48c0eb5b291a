package tui

import (
	"fmt"
	"slices"

	"github.com/teknologi-umum/pesto/history"
	"github.com/teknologi-umum/pesto/metrics"
	"github.com/teknologi-umum/pesto/types"
)

// View names accepted by Run.
const (
	ViewRuntimes = "runtimes"
	ViewHistory  = "history"
	ViewStats    = "stats"
)

// Run starts the TUI for viewType over data.
// Returns an error if the view type doesn't support TUI or data has the
// wrong type.
func Run(viewType string, data any) error {
	if !IsTUISupported(viewType) {
		return fmt.Errorf("TUI mode is not supported for %s", viewType)
	}

	switch viewType {
	case ViewRuntimes:
		rc, ok := data.(types.RuntimeCatalog)
		if !ok {
			return fmt.Errorf("expected types.RuntimeCatalog, got %T", data)
		}
		return RunRuntimesTUI(rc)
	case ViewHistory:
		recs, ok := data.([]history.Record)
		if !ok {
			return fmt.Errorf("expected []history.Record, got %T", data)
		}
		return RunHistoryTUI(recs)
	case ViewStats:
		snap, ok := data.(metrics.Snapshot)
		if !ok {
			return fmt.Errorf("expected metrics.Snapshot, got %T", data)
		}
		return RunStatsTUI(snap)
	}

	return fmt.Errorf("unknown view type: %s", viewType)
}

// IsTUISupported returns true if the view type supports TUI mode.
// Only the read-only browsers do; ping and execute never do.
func IsTUISupported(viewType string) bool {
	return slices.Contains(SupportedTUIViews(), viewType)
}

// SupportedTUIViews returns a list of view types that support TUI.
func SupportedTUIViews() []string {
	return []string{ViewRuntimes, ViewHistory, ViewStats}
}
