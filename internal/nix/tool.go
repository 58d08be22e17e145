// SPDX-License-Identifier: MPL-2.0

package nix

import (
	"context"
	"fmt"
	"strings"

	"github.com/Mic92/nix-hyperfine/internal/run"
	"github.com/Mic92/nix-hyperfine/internal/spec"
)

const (
	// DefaultCommand is the modern Nix CLI binary.
	DefaultCommand = "nix"
	// DefaultExperimentalFeatures unlocks the flake-aware subcommands on
	// installations that have not enabled them globally.
	DefaultExperimentalFeatures = "nix-command flakes"
)

type (
	// Options configures a Tool. Zero values fall back to the defaults
	// above, so Tool{} behaves like a stock Nix installation.
	Options struct {
		// Command is the modern Nix CLI binary name or path.
		Command string
		// ExperimentalFeatures is the value injected via
		// --extra-experimental-features into every modern CLI call.
		// An empty string after applying defaults disables injection.
		ExperimentalFeatures string
	}

	// Tool issues Nix tool invocations through a run.Runner.
	Tool struct {
		runner run.Runner
		opts   Options
	}
)

// New creates a Tool with defaults applied.
func New(runner run.Runner, opts Options) *Tool {
	if opts.Command == "" {
		opts.Command = DefaultCommand
	}
	if opts.ExperimentalFeatures == "" {
		opts.ExperimentalFeatures = DefaultExperimentalFeatures
	}
	return &Tool{runner: runner, opts: opts}
}

// nixArgv builds a modern CLI invocation with the experimental-features
// flag injected directly after the program name, before the subcommand.
func (t *Tool) nixArgv(args ...string) []string {
	argv := []string{t.opts.Command}
	if t.opts.ExperimentalFeatures != "" {
		argv = append(argv, "--extra-experimental-features", t.opts.ExperimentalFeatures)
	}
	return append(argv, args...)
}

// Instantiate evaluates the locator down to its .drv store path without
// building anything. Flake locators go through "nix path-info --derivation";
// file locators through "nix-instantiate".
func (t *Tool) Instantiate(ctx context.Context, loc spec.Locator) (string, error) {
	var argv []string
	switch l := loc.(type) {
	case spec.Flake:
		argv = t.nixArgv("path-info", "--derivation", l.Ref+"#"+l.Attr)
	case spec.File:
		argv = []string{"nix-instantiate", l.Path}
		if l.Attr != "" {
			argv = append(argv, "-A", l.Attr)
		}
	default:
		return "", fmt.Errorf("cannot instantiate unresolved locator %q", loc)
	}

	out, err := t.runner.Capture(ctx, argv)
	if err != nil {
		return "", err
	}
	lines := out.Lines()
	if len(lines) == 0 {
		return "", fmt.Errorf("%s returned no derivation path for %s", argv[0], loc)
	}
	return lines[0], nil
}

// Requisites returns the derivation closure of drvPath: every .drv in its
// requisites except drvPath itself.
func (t *Tool) Requisites(ctx context.Context, drvPath string) ([]string, error) {
	out, err := t.runner.Capture(ctx, []string{"nix-store", "--query", "--requisites", drvPath})
	if err != nil {
		return nil, err
	}
	var deps []string
	for _, line := range out.Lines() {
		if strings.HasSuffix(line, ".drv") && line != drvPath {
			deps = append(deps, line)
		}
	}
	return deps, nil
}

// Realise forces the given derivations into the store in one nix-store
// invocation. Callers batch the closure themselves to stay under command
// line length limits.
func (t *Tool) Realise(ctx context.Context, drvPaths []string) error {
	if len(drvPaths) == 0 {
		return nil
	}
	argv := append([]string{"nix-store", "--realise"}, drvPaths...)
	_, err := t.runner.Capture(ctx, argv)
	return err
}

// Build runs one full build of the locator with output captured, warming
// every cache the measured builds will hit. Result links are suppressed so
// pre-building leaves no litter in the working directory.
func (t *Tool) Build(ctx context.Context, loc spec.Locator) error {
	var argv []string
	switch l := loc.(type) {
	case spec.Flake:
		argv = t.nixArgv("build", l.Ref+"#"+l.Attr, "--no-link")
	case spec.File:
		argv = []string{"nix-build", l.Path}
		if l.Attr != "" {
			argv = append(argv, "-A", l.Attr)
		}
		argv = append(argv, "--no-out-link")
	default:
		return fmt.Errorf("cannot build unresolved locator %q", loc)
	}
	_, err := t.runner.Capture(ctx, argv)
	return err
}

// EvalExpr evaluates a raw impure Nix expression and returns its trimmed
// result. The revision resolver uses this to pin builtins.fetchGit
// snapshots.
func (t *Tool) EvalExpr(ctx context.Context, expr string) (string, error) {
	out, err := t.runner.Capture(ctx, t.nixArgv("eval", "--impure", "--raw", "--expr", expr))
	if err != nil {
		return "", err
	}
	result := strings.TrimSpace(out.Stdout)
	if result == "" {
		return "", fmt.Errorf("nix eval produced no output for expression %q", expr)
	}
	return result, nil
}
