package cmd

import (
	"errors"

	"github.com/urfave/cli/v2"

	"github.com/teknologi-umum/pesto"
)

// Exit codes.
const (
	exitSuccess       = 0
	exitUsage         = 1
	exitAPIError      = 2
	exitTransport     = 3
	exitProgramFailed = 4
)

// exitCode maps a client error to the process exit code.
func exitCode(err error) int {
	var apiErr *pesto.APIError
	switch {
	case err == nil:
		return exitSuccess
	case errors.As(err, &apiErr):
		return exitAPIError
	case errors.Is(err, pesto.ErrTransport),
		errors.Is(err, pesto.ErrMalformedResponse),
		errors.Is(err, pesto.ErrDecode):
		return exitTransport
	default:
		return exitUsage
	}
}

// exitError wraps err so urfave/cli exits with the mapped code.
func exitError(err error) error {
	if err == nil {
		return nil
	}
	return cli.Exit(err.Error(), exitCode(err))
}
