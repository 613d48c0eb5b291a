package cmd

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/teknologi-umum/pesto/types"
)

// NewApp assembles the pesto command tree.
func NewApp(commit string) *cli.App {
	return &cli.App{
		Name:    "pesto",
		Usage:   "Run code on the Pesto remote code execution API",
		Version: fmt.Sprintf("%s (commit: %s)", types.Version, commit),
		Flags:   GlobalFlags(),
		Commands: []*cli.Command{
			PingCommand(),
			RuntimesCommand(),
			ExecuteCommand(),
			BatchCommand(),
			HistoryCommand(),
			VersionCommand(commit),
		},
	}
}
