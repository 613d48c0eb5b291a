package cmd

import (
	"github.com/urfave/cli/v2"

	"github.com/teknologi-umum/pesto"
	"github.com/teknologi-umum/pesto/cli/render"
	"github.com/teknologi-umum/pesto/types"
)

// VersionResponse is the response for the version command.
type VersionResponse struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	UserAgent string `json:"user_agent"`
}

// VersionCommand returns the version command.
// It never contacts the API.
func VersionCommand(commit string) *cli.Command {
	return &cli.Command{
		Name:   "version",
		Usage:  "Show version information",
		Flags:  ReadOnlyFlags(),
		Action: versionAction(commit),
	}
}

func versionAction(commit string) cli.ActionFunc {
	return func(c *cli.Context) error {
		r, err := render.NewRenderer(c, "")
		if err != nil {
			return err
		}

		if c.Bool("tui") {
			return cli.Exit("--tui is not supported for version command", exitUsage)
		}

		return r.Render(VersionResponse{
			Version:   types.Version,
			Commit:    commit,
			UserAgent: pesto.DefaultUserAgent,
		})
	}
}
