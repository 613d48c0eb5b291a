package cmd

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/teknologi-umum/pesto/cli/tui"
)

// DefaultHistoryLimit is the number of records shown by default.
const DefaultHistoryLimit = 20

// HistoryCommand returns the history command.
// It reads the local or S3 archive and never contacts the API.
func HistoryCommand() *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Show recent executions, newest first",
		Flags: append(ReadOnlyFlags(),
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"n"},
				Usage:   "Maximum records to show",
				Value:   DefaultHistoryLimit,
			},
		),
		Action: historyAction,
	}
}

func historyAction(c *cli.Context) error {
	limit := c.Int("limit")
	if limit < 1 {
		return cli.Exit(fmt.Sprintf("--limit must be >= 1, got %d", limit), exitUsage)
	}

	s, err := newSession(c)
	if err != nil {
		return err
	}
	defer s.Close()

	r, err := s.renderer(c)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext(c)
	defer cancel()

	rec, err := s.recorder(ctx)
	if err != nil {
		return cli.Exit(fmt.Sprintf("cannot open history: %v", err), exitUsage)
	}
	if rec == nil {
		return cli.Exit("history is disabled (history.backend: none)", exitUsage)
	}

	recs, err := rec.Recent(ctx, limit)
	if err != nil {
		return cli.Exit(fmt.Sprintf("cannot read history: %v", err), exitUsage)
	}

	if c.Bool("tui") {
		return r.RenderTUI(tui.ViewHistory, recs)
	}
	return r.Render(recs)
}
