package cmd

import (
	"fmt"
	"strconv"
	"time"

	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"github.com/teknologi-umum/pesto"
	"github.com/teknologi-umum/pesto/cli/tui"
	"github.com/teknologi-umum/pesto/history"
	"github.com/teknologi-umum/pesto/types"
)

// DefaultBatchConcurrency bounds parallel submissions. The API rate limits
// bursts, so keep it small.
const DefaultBatchConcurrency = 4

// BatchResult is one line of batch output.
type BatchResult struct {
	File     string        `json:"file" yaml:"file"`
	Language string        `json:"language" yaml:"language"`
	Version  string        `json:"version" yaml:"version"`
	Outcome  string        `json:"outcome" yaml:"outcome"`
	ExitCode int           `json:"exit_code" yaml:"exit_code"`
	Kind     string        `json:"kind,omitempty" yaml:"kind,omitempty"`
	Error    string        `json:"error,omitempty" yaml:"error,omitempty"`
	Duration time.Duration `json:"duration" yaml:"duration"`

	err error
}

// batchTable is the table view of a batch run.
type batchTable []BatchResult

func (t batchTable) Headers() []string {
	return []string{"FILE", "RUNTIME", "OUTCOME", "EXIT", "TOOK", "ERROR"}
}

func (t batchTable) Rows() [][]string {
	rows := make([][]string, len(t))
	for i, res := range t {
		runtime, exit := "-", "-"
		if res.Language != "" {
			runtime = res.Language + " " + res.Version
		}
		if res.err == nil {
			exit = strconv.Itoa(res.ExitCode)
		}
		msg := res.Error
		if res.Kind != "" {
			msg = res.Kind
		}
		rows[i] = []string{res.File, runtime, res.Outcome, exit, res.Duration.Round(time.Millisecond).String(), msg}
	}
	return rows
}

// BatchCommand returns the batch command.
func BatchCommand() *cli.Command {
	return &cli.Command{
		Name:      "batch",
		Usage:     "Run each file as its own submission, in parallel",
		ArgsUsage: "FILE...",
		Flags: append(ReadOnlyFlags(), append([]cli.Flag{
			&cli.StringFlag{
				Name:    "language",
				Aliases: []string{"l"},
				Usage:   "Language for every file (default: inferred per file)",
			},
			&cli.IntFlag{
				Name:  "concurrency",
				Usage: "Maximum submissions in flight",
				Value: DefaultBatchConcurrency,
			},
			&cli.BoolFlag{
				Name:  "stats",
				Usage: "Print client request stats to stderr when done",
			},
		}, limitFlags()...)...),
		Action: batchAction,
	}
}

type batchJob struct {
	path string
	sub  types.CodeSubmission
}

func batchAction(c *cli.Context) error {
	paths := c.Args().Slice()
	if len(paths) == 0 {
		return cli.Exit("at least one FILE is required", exitUsage)
	}
	concurrency := c.Int("concurrency")
	if concurrency < 1 {
		return cli.Exit(fmt.Sprintf("--concurrency must be >= 1, got %d", concurrency), exitUsage)
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

	// Resolve every file before sending anything so a typo fails fast.
	res := newResolver(s)
	jobs := make([]batchJob, len(paths))
	for i, p := range paths {
		if p == "-" {
			return cli.Exit("batch does not read stdin", exitUsage)
		}
		files, err := readSources([]string{p}, nil, "")
		if err != nil {
			return cli.Exit(err.Error(), exitUsage)
		}
		language := c.String("language")
		if language == "" {
			lang, ok := languageForFile(files[0].Name)
			if !ok {
				return cli.Exit(fmt.Sprintf("cannot infer the language of %s, pass --language", p), exitUsage)
			}
			language = lang
		}
		rt, err := res.resolve(ctx, language, "")
		if err != nil {
			return resolveExit(err)
		}
		sub := types.NewSubmission(rt.Language, rt.Version, files...)
		applyLimits(c, &sub)
		jobs[i] = batchJob{path: p, sub: sub}
	}

	retries := s.retries(c)
	results := make([]BatchResult, len(jobs))
	records := make([]history.Record, len(jobs))

	var g errgroup.Group
	g.SetLimit(concurrency)
	for i, job := range jobs {
		g.Go(func() error {
			started := time.Now()
			out, err := executeWithRetry(ctx, s, job.sub, retries)
			took := time.Since(started)

			rec := history.NewRecord(s.client.BaseURL(), job.sub, out, err, started, took)
			result := BatchResult{
				File:     job.path,
				Language: job.sub.Language,
				Version:  job.sub.Version,
				Outcome:  rec.Outcome,
				Duration: took,
				err:      err,
			}
			if err != nil {
				result.Kind = pesto.KindName(err)
				result.Error = err.Error()
			} else {
				result.ExitCode = out.Runtime.ExitCode
				if out.Compile.ExitCode != 0 {
					result.ExitCode = out.Compile.ExitCode
				}
			}

			results[i] = result
			records[i] = rec
			return nil
		})
	}
	_ = g.Wait()

	if !c.Bool("no-history") {
		s.archive(ctx, records...)
	}

	if c.Bool("tui") {
		if err := r.RenderTUI(tui.ViewStats, s.metrics.Snapshot()); err != nil {
			return err
		}
	} else if err := r.Render(batchTable(results)); err != nil {
		return err
	}
	if c.Bool("stats") {
		fmt.Fprintln(errWriter(c), tui.RenderStatsStatic(s.metrics.Snapshot()))
	}

	return batchExit(results)
}

// batchExit reports the first call failure in file order, else exit 4 when
// any program failed.
func batchExit(results []BatchResult) error {
	failed := false
	for _, res := range results {
		if res.err != nil {
			return cli.Exit(fmt.Sprintf("%s: %s", res.File, res.Error), exitCode(res.err))
		}
		if res.Outcome == history.OutcomeFailed {
			failed = true
		}
	}
	if failed {
		return cli.Exit("", exitProgramFailed)
	}
	return nil
}
