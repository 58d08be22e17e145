// SPDX-License-Identifier: MPL-2.0

package hyperfine

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"mvdan.cc/sh/v3/syntax"

	"github.com/Mic92/nix-hyperfine/internal/run"
)

// DefaultCommand is the benchmark binary looked up on PATH.
const DefaultCommand = "hyperfine"

// ErrNotFound is the sentinel error wrapped by NotFoundError.
var ErrNotFound = errors.New("hyperfine not found")

// lookPath is swapped out in tests.
var lookPath = exec.LookPath

type (
	// Arm is one benchmarked command and the name it carries in
	// hyperfine's output.
	Arm struct {
		Label   string
		Command string
	}

	// NotFoundError reports that the benchmark binary is missing from
	// PATH. The check runs before any Nix work so a missing binary
	// surfaces immediately, not after minutes of dependency builds.
	NotFoundError struct {
		Command string
	}

	// Options configures an Invoker. Zero values fall back to defaults.
	Options struct {
		// Command overrides the hyperfine binary.
		Command string
		// DefaultArgs are config-sourced flags placed before any
		// passthrough flags from the command line.
		DefaultArgs []string
		// Announce, when set, receives the shell-quoted invocation just
		// before it runs.
		Announce func(line string)
	}

	// Invoker launches hyperfine with streaming output.
	Invoker struct {
		runner      run.Runner
		command     string
		defaultArgs []string
		announce    func(string)
	}
)

// Error implements the error interface. The message carries the install
// hint verbatim so it stays useful even outside the styled CLI path.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found in PATH. Install it with: nix-env -iA nixpkgs.hyperfine", e.Command)
}

// Unwrap returns ErrNotFound so callers can use errors.Is for
// programmatic detection.
func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// Check verifies the benchmark binary exists on PATH.
func Check(command string) error {
	if command == "" {
		command = DefaultCommand
	}
	if _, err := lookPath(command); err != nil {
		return &NotFoundError{Command: command}
	}
	return nil
}

// New creates an Invoker running through runner.
func New(runner run.Runner, opts Options) *Invoker {
	if opts.Command == "" {
		opts.Command = DefaultCommand
	}
	return &Invoker{
		runner:      runner,
		command:     opts.Command,
		defaultArgs: opts.DefaultArgs,
		announce:    opts.Announce,
	}
}

// Run benchmarks the arms in one hyperfine invocation and returns
// hyperfine's exit code. Output streams to the invoker's runner
// unfiltered; hyperfine owns the progress display and the result table.
func (v *Invoker) Run(ctx context.Context, extraArgs []string, arms []Arm) (run.ExitCode, error) {
	if len(arms) == 0 {
		return 1, errors.New("no benchmark arms to run")
	}

	argv := make([]string, 0, 1+len(v.defaultArgs)+len(extraArgs)+3*len(arms))
	argv = append(argv, v.command)
	argv = append(argv, v.defaultArgs...)
	argv = append(argv, extraArgs...)
	for _, arm := range arms {
		argv = append(argv, "-n", escapeLabel(arm.Label), arm.Command)
	}

	if v.announce != nil {
		v.announce("Running: " + shellJoin(argv))
	}
	return v.runner.Stream(ctx, argv)
}

// escapeLabel protects dashes so hyperfine never mistakes a label such
// as "my-branch" for one of its own flags.
func escapeLabel(label string) string {
	return strings.ReplaceAll(label, "-", `\-`)
}

// shellJoin renders argv the way a user could paste it into a shell.
func shellJoin(argv []string) string {
	quoted := make([]string, len(argv))
	for i, arg := range argv {
		q, err := syntax.Quote(arg, syntax.LangBash)
		if err != nil {
			q = arg
		}
		quoted[i] = q
	}
	return strings.Join(quoted, " ")
}
