package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/teknologi-umum/pesto"
	"github.com/teknologi-umum/pesto/catalog"
	"github.com/teknologi-umum/pesto/history"
	"github.com/teknologi-umum/pesto/notify"
	"github.com/teknologi-umum/pesto/types"
)

// retryBackoff is the wait before the first retry; it doubles per attempt.
var retryBackoff = time.Second

// ExecuteCommand returns the execute command.
func ExecuteCommand() *cli.Command {
	return &cli.Command{
		Name:      "execute",
		Usage:     "Run source files on the API and print the program output",
		ArgsUsage: "FILE... (use - for stdin)",
		Flags: append(ReadOnlyFlags(), append([]cli.Flag{
			&cli.StringFlag{
				Name:    "language",
				Aliases: []string{"l"},
				Usage:   "Language name or alias (default: inferred from the file extension)",
			},
			&cli.StringFlag{
				Name:  "version",
				Usage: "Runtime version (default: latest listed by the API)",
			},
			&cli.StringFlag{
				Name:  "entrypoint",
				Usage: "File name to run (default: the first file)",
			},
		}, limitFlags()...)...),
		Action: executeAction,
	}
}

// limitFlags are shared by execute and batch.
func limitFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:  "compile-timeout",
			Usage: "Compile stage timeout in milliseconds",
			Value: types.DefaultCompileTimeout,
		},
		&cli.IntFlag{
			Name:  "run-timeout",
			Usage: "Run stage timeout in milliseconds",
			Value: types.DefaultRunTimeout,
		},
		&cli.IntFlag{
			Name:  "memory-limit",
			Usage: "Memory limit in bytes (0: API default)",
		},
		&cli.IntFlag{
			Name:  "retries",
			Usage: "Retries for retryable API errors (default from config)",
		},
		&cli.BoolFlag{
			Name:  "no-history",
			Usage: "Do not archive or publish this execution",
		},
	}
}

func executeAction(c *cli.Context) error {
	if c.Bool("tui") {
		return cli.Exit("--tui is not supported for execute command", exitUsage)
	}

	files, err := readSources(c.Args().Slice(), inReader(c), c.String("entrypoint"))
	if err != nil {
		return cli.Exit(err.Error(), exitUsage)
	}

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

	ctx, cancel := signalContext(c)
	defer cancel()

	language := c.String("language")
	if language == "" {
		entry := files[0]
		for _, f := range files {
			if f.Entrypoint {
				entry = f
			}
		}
		lang, ok := languageForFile(entry.Name)
		if !ok {
			return cli.Exit(fmt.Sprintf("cannot infer the language of %s, pass --language", entry.Name), exitUsage)
		}
		language = lang
	}

	resolver := newResolver(s)
	rt, err := resolver.resolve(ctx, language, c.String("version"))
	if err != nil {
		return resolveExit(err)
	}

	sub := types.NewSubmission(rt.Language, rt.Version, files...)
	applyLimits(c, &sub)

	started := time.Now()
	res, err := executeWithRetry(ctx, s, sub, s.retries(c))
	took := time.Since(started)

	if !c.Bool("no-history") {
		s.archive(ctx, history.NewRecord(s.client.BaseURL(), sub, res, err, started, took))
	}

	if err != nil {
		return exitError(err)
	}
	if err := r.Render(res); err != nil {
		return err
	}
	if res.Failed() {
		return cli.Exit("", exitProgramFailed)
	}
	return nil
}

func applyLimits(c *cli.Context, sub *types.CodeSubmission) {
	sub.CompileTimeout = c.Int("compile-timeout")
	sub.RunTimeout = c.Int("run-timeout")
	sub.MemoryLimit = c.Int("memory-limit")
}

func (s *session) retries(c *cli.Context) int {
	if c.IsSet("retries") {
		return c.Int("retries")
	}
	return s.cfg.Retries
}

// archive writes records to the configured history and publishes them to
// the configured notifiers. Failures are logged; the execution result is
// already known.
func (s *session) archive(ctx context.Context, recs ...history.Record) {
	if rec, err := s.recorder(ctx); err != nil {
		s.log.Warn("history unavailable", zap.Error(err))
	} else if rec != nil {
		if err := rec.Record(ctx, recs...); err != nil {
			s.log.Warn("history write failed",
				zap.String("dataset", rec.Dataset()),
				zap.Error(err),
			)
		}
	}

	n, err := s.notifier()
	if err != nil {
		s.log.Warn("notifier unavailable", zap.Error(err))
		return
	}
	if n == nil {
		return
	}
	defer func() { _ = n.Close() }()
	for _, r := range recs {
		if err := n.Notify(ctx, notify.FromRecord(r)); err != nil {
			s.log.Warn("notify failed", zap.String("id", r.ID), zap.Error(err))
		}
	}
}

// executeWithRetry submits sub, retrying only errors the API marks as
// transient. Backoff doubles from retryBackoff and stops on ctx.
func executeWithRetry(ctx context.Context, s *session, sub types.CodeSubmission, retries int) (types.ExecutionResult, error) {
	log := s.log.With(zap.String("language", sub.Language), zap.String("version", sub.Version))
	wait := retryBackoff
	for attempt := 0; ; attempt++ {
		res, err := s.client.Execute(ctx, sub)
		if err == nil || attempt >= retries || !pesto.IsRetryable(err) {
			return res, err
		}

		log.Info("retrying execute",
			zap.Int("attempt", attempt+1),
			zap.String("kind", pesto.KindName(err)),
			zap.Duration("backoff", wait),
		)
		select {
		case <-ctx.Done():
			return types.ExecutionResult{}, err
		case <-time.After(wait):
		}
		wait *= 2
	}
}

// resolver picks the runtime for a language name, consulting the runtime
// list only when needed.
type resolver struct {
	s     *session
	cache *catalog.Cache
	list  *types.RuntimeCatalog
}

func newResolver(s *session) *resolver {
	return &resolver{s: s}
}

// resolve sends language and version unchanged when both are given and the
// language is a canonical name; otherwise it resolves through the catalog.
func (r *resolver) resolve(ctx context.Context, language, version string) (types.Runtime, error) {
	if version != "" && isPresetLanguage(language) {
		return types.Runtime{Language: language, Version: version}, nil
	}

	if r.list == nil {
		if r.cache == nil {
			cache, err := r.s.catalogCache()
			if err != nil {
				return types.Runtime{}, err
			}
			r.cache = cache
		}
		entry, _, err := r.cache.Get(ctx)
		if err != nil {
			return types.Runtime{}, err
		}
		rc := entry.Catalog()
		r.list = &rc
	}
	return catalog.Resolve(*r.list, language, version)
}

func isPresetLanguage(name string) bool {
	for _, lang := range extLanguages {
		if lang == name {
			return true
		}
	}
	return false
}

func resolveExit(err error) error {
	if errors.Is(err, catalog.ErrUnknownRuntime) {
		return cli.Exit(err.Error(), exitUsage)
	}
	return exitError(err)
}
