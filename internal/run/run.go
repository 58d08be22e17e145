// SPDX-License-Identifier: MPL-2.0

package run

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/charmbracelet/log"
)

// ErrCommandFailed is the sentinel error wrapped by CommandError.
var ErrCommandFailed = errors.New("command failed")

type (
	// Runner abstracts subprocess execution. Capture serves the query-style
	// tool invocations of the pipeline (git, nix, nix-store); Stream serves
	// children that own the terminal for their lifetime (hyperfine).
	Runner interface {
		// Capture runs argv and returns its collected output. A non-zero
		// exit status is reported as a *CommandError.
		Capture(ctx context.Context, argv []string) (Output, error)

		// Stream runs argv wired to the runner's stdio and returns the
		// child's exit code. The error is non-nil only when the process
		// could not be spawned at all.
		Stream(ctx context.Context, argv []string) (ExitCode, error)
	}

	// Output holds the collected output of a captured command.
	Output struct {
		Stdout string
		Stderr string
	}

	// ExecRunner is the production Runner backed by os/exec.
	ExecRunner struct {
		// Stdout and Stderr receive streamed child output. Nil values
		// default to the process's own stdio.
		Stdout io.Writer
		Stderr io.Writer

		// Logger, when set, records every spawned command at debug level.
		Logger *log.Logger
	}

	// CommandError reports a subprocess that exited non-zero, carrying
	// enough context to show which tool failed and what it printed.
	CommandError struct {
		Argv     []string
		ExitCode ExitCode
		Stderr   string
	}
)

// Error implements the error interface.
func (e *CommandError) Error() string {
	msg := fmt.Sprintf("command failed: %s", strings.Join(e.Argv, " "))
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg += "\n" + s
	}
	return msg
}

// Unwrap returns ErrCommandFailed so callers can use errors.Is for
// programmatic detection.
func (e *CommandError) Unwrap() error { return ErrCommandFailed }

// Lines splits the trimmed stdout into its non-empty lines.
func (o Output) Lines() []string {
	var lines []string
	for _, line := range strings.Split(o.Stdout, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// Capture runs argv and collects stdout/stderr in memory.
func (r *ExecRunner) Capture(ctx context.Context, argv []string) (Output, error) {
	if len(argv) == 0 {
		return Output{}, errors.New("empty command")
	}
	r.debugf(argv)

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	out := Output{Stdout: stdout.String(), Stderr: stderr.String()}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return out, &CommandError{
				Argv:     argv,
				ExitCode: ExitCode(exitErr.ExitCode()),
				Stderr:   out.Stderr,
			}
		}
		return out, fmt.Errorf("failed to run %s: %w", argv[0], err)
	}
	return out, nil
}

// Stream runs argv with the runner's stdio so interactive output (progress
// bars, spinners) renders as if the child were invoked directly.
func (r *ExecRunner) Stream(ctx context.Context, argv []string) (ExitCode, error) {
	if len(argv) == 0 {
		return 1, errors.New("empty command")
	}
	r.debugf(argv)

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stdout = r.stdout()
	cmd.Stderr = r.stderr()
	cmd.Stdin = os.Stdin

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return ExitCode(exitErr.ExitCode()), nil
		}
		return 1, fmt.Errorf("failed to run %s: %w", argv[0], err)
	}
	return 0, nil
}

func (r *ExecRunner) stdout() io.Writer {
	if r.Stdout != nil {
		return r.Stdout
	}
	return os.Stdout
}

func (r *ExecRunner) stderr() io.Writer {
	if r.Stderr != nil {
		return r.Stderr
	}
	return os.Stderr
}

func (r *ExecRunner) debugf(argv []string) {
	if r.Logger != nil {
		r.Logger.Debug("running command", "argv", strings.Join(argv, " "))
	}
}
