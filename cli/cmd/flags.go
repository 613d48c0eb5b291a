// Package cmd provides CLI commands for the pesto binary.
package cmd

import (
	"github.com/urfave/cli/v2"
)

// Environment variables consulted when the matching flag is absent.
const (
	EnvToken    = "PESTO_TOKEN"
	EnvBaseURL  = "PESTO_BASE_URL"
	EnvLogLevel = "PESTO_LOG_LEVEL"
)

// Shared flags for read-only commands.
var (
	// FormatFlag selects output format: json, table, yaml.
	FormatFlag = &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Usage:   "Output format: json, table, yaml",
	}

	// NoColorFlag disables colored output.
	NoColorFlag = &cli.BoolFlag{
		Name:  "no-color",
		Usage: "Disable colored output",
	}

	// TUIFlag enables Bubble Tea interactive mode.
	// Only valid for runtimes, history and batch.
	TUIFlag = &cli.BoolFlag{
		Name:  "tui",
		Usage: "Enable interactive TUI mode (runtimes, history, batch only)",
	}
)

// ReadOnlyFlags returns the shared output flags.
// Includes --tui so that unsupported commands can provide explicit error messages
// instead of generic "flag not defined" errors.
func ReadOnlyFlags() []cli.Flag {
	return []cli.Flag{
		FormatFlag,
		NoColorFlag,
		TUIFlag,
	}
}

// GlobalFlags returns the connection and logging flags accepted before any
// command.
func GlobalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "config",
			Usage: "Path to config.yaml (default $PESTO_CONFIG or the user config dir)",
		},
		&cli.StringFlag{
			Name:    "token",
			Usage:   "API token",
			EnvVars: []string{EnvToken},
		},
		&cli.StringFlag{
			Name:    "base-url",
			Usage:   "API base URL",
			EnvVars: []string{EnvBaseURL},
		},
		&cli.DurationFlag{
			Name:  "timeout",
			Usage: "Per-request timeout",
		},
		&cli.StringFlag{
			Name:    "log-level",
			Usage:   "Log level: debug, info, warn, error",
			EnvVars: []string{EnvLogLevel},
		},
	}
}
