// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"

	"github.com/Mic92/nix-hyperfine/internal/gitrev"
	"github.com/Mic92/nix-hyperfine/internal/hyperfine"
	"github.com/Mic92/nix-hyperfine/internal/issue"
	"github.com/Mic92/nix-hyperfine/internal/nix"
	"github.com/Mic92/nix-hyperfine/internal/resolve"
	"github.com/Mic92/nix-hyperfine/internal/spec"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

// rootOptions holds the root command's flag values.
type rootOptions struct {
	build      bool
	eval       bool
	verbose    bool
	configFile string
}

// mode returns the benchmark mode selected on the command line. Build is
// the default; cobra rejects --build --eval before this runs.
func (o *rootOptions) mode() spec.Mode {
	if o.eval {
		return spec.ModeEval
	}
	return spec.ModeBuild
}

// runBenchmark drives the whole pipeline: parse every spec token, expand
// revision pins into targets, prepare each target (resolve, instantiate,
// realise dependencies, warm build), then hand all surviving targets to
// hyperfine in a single invocation.
//
// Malformed specs and revision pin failures abort before any build work.
// Per-target preparation failures drop only that target; the run continues
// with the rest and the final exit status reflects the worst outcome.
func runBenchmark(cmd *cobra.Command, app *App, opts *rootOptions, tokens, passthrough []string) error {
	ctx := cmd.Context()
	stdout := cmd.OutOrStdout()
	stderr := cmd.ErrOrStderr()

	cfg, err := loadConfigWithFallback(ctx, app.Config, opts.configFile, stderr, opts.verbose)
	if err != nil {
		return fail(cmd, opts.verbose, err)
	}

	verbose := opts.verbose || cfg.UI.Verbose
	if verbose {
		app.Logger.SetLevel(log.DebugLevel)
	}
	scheme := cfg.UI.ColorScheme.String()

	// Checked before any git or nix work so a missing binary surfaces in
	// milliseconds, not after minutes of dependency builds.
	if err := app.checkBenchTool(cfg.Hyperfine.Command.OrDefault(hyperfine.DefaultCommand)); err != nil {
		renderIssue(stderr, scheme, issue.HyperfineNotFoundId)
		return fail(cmd, verbose, err)
	}

	// All tokens are parsed up front: a typo in the last spec should not
	// cost the user a full build of the first.
	specs := make([]spec.Spec, 0, len(tokens))
	for _, token := range tokens {
		parsed, err := spec.Parse(token)
		if err != nil {
			renderIssue(stderr, scheme, issue.MalformedSpecId)
			return fail(cmd, verbose, err)
		}
		specs = append(specs, parsed)
	}

	tool := nix.New(app.Runner, nix.Options{
		Command:              cfg.Nix.Command.OrDefault(nix.DefaultCommand),
		ExperimentalFeatures: cfg.Nix.ExperimentalFeatures,
	})

	// Revision pin failures are fatal: comparing only the revisions that
	// happened to resolve would produce a misleading benchmark.
	pinner := gitrev.NewResolver(app.Runner, tool)
	var targets []spec.Target
	for _, s := range specs {
		expanded, err := pinner.Expand(ctx, s)
		if err != nil {
			renderIssue(stderr, scheme, issue.RevisionPinFailedId)
			return fail(cmd, verbose, err)
		}
		targets = append(targets, expanded...)
	}
	dedupeLabels(targets)

	mode := opts.mode()
	app.Logger.Debug("benchmark targets expanded", "mode", mode, "specs", len(specs), "targets", len(targets))

	resolver := resolve.NewResolver(tool)
	prebuilder := nix.NewPrebuilder(tool, nix.PrebuildOptions{
		BatchSize: cfg.Nix.BatchSize.Int(),
		Reporter:  &styledReporter{out: stdout},
	})

	arms := make([]hyperfine.Arm, 0, len(targets))
	dropped := 0
	var lastIssue issue.Id
	for _, target := range targets {
		arm, err := prepareTarget(ctx, resolver, prebuilder, tool, target, mode)
		if err != nil {
			fmt.Fprintf(stderr, "%s skipping %s: %s\n",
				WarningStyle.Render("Warning:"), CmdStyle.Render(target.Label),
				formatErrorForDisplay(err, verbose))
			lastIssue = classifyTargetIssue(err)
			dropped++
			continue
		}
		arms = append(arms, arm)
	}

	if len(arms) == 0 {
		if lastIssue != 0 {
			renderIssue(stderr, scheme, lastIssue)
		}
		return fail(cmd, verbose, fmt.Errorf("no targets left to benchmark: all %d failed to prepare", len(targets)))
	}

	invoker := hyperfine.New(app.Runner, hyperfine.Options{
		Command:     cfg.Hyperfine.Command.OrDefault(hyperfine.DefaultCommand),
		DefaultArgs: cfg.Hyperfine.DefaultArgs,
		Announce: func(line string) {
			fmt.Fprintln(stdout, line)
		},
	})

	code, err := invoker.Run(ctx, passthrough, arms)
	if err != nil {
		renderIssue(stderr, scheme, issue.BenchmarkFailedId)
		return fail(cmd, verbose, err)
	}
	if !code.IsSuccess() {
		// hyperfine already printed its own diagnostics.
		silence(cmd)
		return &ExitError{Code: code}
	}
	if dropped > 0 {
		return fail(cmd, verbose, fmt.Errorf("%d of %d targets dropped before measurement", dropped, len(targets)))
	}
	return nil
}

// prepareTarget takes one expanded target through attribute resolution and
// the pre-build pipeline and returns its measurement arm.
func prepareTarget(ctx context.Context, resolver *resolve.Resolver, prebuilder *nix.Prebuilder, tool *nix.Tool, target spec.Target, mode spec.Mode) (hyperfine.Arm, error) {
	resolved, err := resolver.Resolve(ctx, target)
	if err != nil {
		return hyperfine.Arm{}, err
	}
	if err := prebuilder.Prebuild(ctx, resolved, mode); err != nil {
		return hyperfine.Arm{}, err
	}
	command, err := tool.Command(resolved.Locator, mode)
	if err != nil {
		return hyperfine.Arm{}, err
	}
	return hyperfine.Arm{Label: resolved.Label, Command: command}, nil
}

// dedupeLabels rewrites duplicate labels in place so every hyperfine arm
// carries a distinct display name. The first occurrence keeps the bare
// label; later ones get a numeric suffix.
func dedupeLabels(targets []spec.Target) {
	seen := make(map[string]bool, len(targets))
	for i := range targets {
		label := targets[i].Label
		for n := 2; seen[label]; n++ {
			label = fmt.Sprintf("%s (%d)", targets[i].Label, n)
		}
		seen[label] = true
		targets[i].Label = label
	}
}

// classifyTargetIssue picks the issue card shown when every target was
// dropped during preparation. The exec.ErrNotFound check runs first:
// a missing nix binary fails attribute resolution too, and the resolution
// card would point the user at the wrong problem.
func classifyTargetIssue(err error) issue.Id {
	if errors.Is(err, exec.ErrNotFound) {
		return issue.NixNotFoundId
	}
	var resErr *resolve.TargetResolutionError
	if errors.As(err, &resErr) {
		return issue.AttrResolutionFailedId
	}
	return issue.PrebuildFailedId
}

// styledReporter renders pre-build progress through the shared lipgloss
// styles. Detail lines arrive pre-indented from the prebuilder.
type styledReporter struct {
	out io.Writer
}

func (r *styledReporter) Step(format string, args ...any) {
	fmt.Fprintf(r.out, "%s %s\n", SuccessStyle.Render("→"), fmt.Sprintf(format, args...))
}

func (r *styledReporter) Detail(format string, args ...any) {
	fmt.Fprintln(r.out, VerboseStyle.Render(fmt.Sprintf(format, args...)))
}

// fail prints err in the command's styled error format, silences cobra's
// own error echoing, and converts err into an exit-1 ExitError.
func fail(cmd *cobra.Command, verbose bool, err error) error {
	silence(cmd)
	fmt.Fprintf(cmd.ErrOrStderr(), "%s %s\n", ErrorStyle.Render("Error:"), formatErrorForDisplay(err, verbose))
	return &ExitError{Code: 1, Err: err}
}

func silence(cmd *cobra.Command) {
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
}
