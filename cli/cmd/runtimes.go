package cmd

import (
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/teknologi-umum/pesto/catalog"
	"github.com/teknologi-umum/pesto/cli/tui"
)

// RuntimesCommand returns the runtimes command.
func RuntimesCommand() *cli.Command {
	return &cli.Command{
		Name:  "runtimes",
		Usage: "List the languages and versions the API can run",
		Flags: append(ReadOnlyFlags(),
			&cli.BoolFlag{
				Name:  "refresh",
				Usage: "Bypass the local runtime cache",
			},
		),
		Action: runtimesAction,
	}
}

func runtimesAction(c *cli.Context) error {
	s, err := newSession(c)
	if err != nil {
		return err
	}
	defer s.Close()
	if err := s.connect(); err != nil {
		return err
	}

	r, err := s.renderer(c)
	if err != nil {
		return err
	}

	cache, err := s.catalogCache()
	if err != nil {
		return cli.Exit(err.Error(), exitUsage)
	}

	ctx, cancel := signalContext(c)
	defer cancel()

	var (
		entry  catalog.Entry
		cached bool
	)
	if c.Bool("refresh") {
		entry, err = cache.Refresh(ctx)
	} else {
		entry, cached, err = cache.Get(ctx)
	}
	if err != nil {
		return exitError(err)
	}
	s.log.Debug("runtime list loaded",
		zap.Bool("cached", cached),
		zap.Int("runtimes", len(entry.Runtimes)),
	)

	if c.Bool("tui") {
		return r.RenderTUI(tui.ViewRuntimes, entry.Catalog())
	}
	return r.Render(entry.Catalog())
}
