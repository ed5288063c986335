package driver

import (
	"context"
	"errors"
	"os/exec"

	"mvdan.cc/sh/v3/interp"
)

// ExitInterrupted is reported when the run was cancelled by a signal.
const ExitInterrupted = 130

// ExitStatus extracts the exit status of the failed command from err.
// Errors that don't carry a status are reported as 1.
func ExitStatus(err error) int {
	if err == nil {
		return 0
	}

	if errors.Is(err, context.Canceled) {
		return ExitInterrupted
	}

	if status, ok := interp.IsExitStatus(err); ok && status != 0 {
		return int(status)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() > 0 {
		return exitErr.ExitCode()
	}

	return 1
}

// statusOf is ExitStatus, except that any failure after ctx was cancelled is reported as ExitInterrupted.
func statusOf(ctx context.Context, err error) int {
	if err != nil && errors.Is(ctx.Err(), context.Canceled) {
		return ExitInterrupted
	}

	return ExitStatus(err)
}
