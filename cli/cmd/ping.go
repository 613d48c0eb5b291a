package cmd

import (
	"github.com/urfave/cli/v2"
)

// PingCommand returns the ping command.
func PingCommand() *cli.Command {
	return &cli.Command{
		Name:   "ping",
		Usage:  "Check that the API is reachable and the token is accepted",
		Flags:  ReadOnlyFlags(),
		Action: pingAction,
	}
}

func pingAction(c *cli.Context) error {
	if c.Bool("tui") {
		return cli.Exit("--tui is not supported for ping command", exitUsage)
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

	res, err := s.client.Ping(ctx)
	if err != nil {
		return exitError(err)
	}
	return r.Render(res)
}
