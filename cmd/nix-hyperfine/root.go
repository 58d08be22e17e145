// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/Mic92/nix-hyperfine/internal/issue"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// newRootCommand builds the root command. All state lives in app and the
// local rootOptions, so tests can construct isolated command trees.
func newRootCommand(app *App) *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "nix-hyperfine [flags] SPEC... [-- HYPERFINE_ARGS...]",
		Short: "Benchmark Nix builds and evaluations with hyperfine",
		Long: TitleStyle.Render("nix-hyperfine") + SubtitleStyle.Render(" - Benchmark Nix builds and evaluations with hyperfine") + `

nix-hyperfine prepares each derivation before measuring it: the
dependency closure is realised up front so hyperfine times only the work
you asked about, not substituter downloads.

Specs take several forms:
  nixpkgs#hello              flake output attribute
  ./release.nix              nix file (default attribute)
  '-f release.nix -A hello'  attribute in a nix file (quote the token)
  hello                      attribute, tried as flake output then default.nix
  .#app@main,my-branch       one benchmark arm per git revision

` + SubtitleStyle.Render("Examples:") + `
  nix-hyperfine hello
  nix-hyperfine --eval nixpkgs#hello
  nix-hyperfine .#app@main,my-branch -- --runs 10
  nix-hyperfine '-f release.nix -A hello' -- --warmup 3`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tokens, passthrough := splitAtDash(cmd, args)
			if len(tokens) == 0 {
				return fmt.Errorf("at least one derivation spec is required before --")
			}
			return runBenchmark(cmd, app, opts, tokens, passthrough)
		},
	}

	rootCmd.SetOut(app.stdout)
	rootCmd.SetErr(app.stderr)

	rootCmd.Flags().BoolVar(&opts.build, "build", false, "benchmark full builds (default)")
	rootCmd.Flags().BoolVar(&opts.eval, "eval", false, "benchmark evaluation only")
	rootCmd.MarkFlagsMutuallyExclusive("build", "eval")

	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&opts.configFile, "config", "", "config file (default is $HOME/.config/nix-hyperfine/config.cue)")

	rootCmd.AddCommand(newConfigCommand(app, opts))

	return rootCmd
}

// splitAtDash separates spec tokens from arguments that flow through to
// hyperfine verbatim. Cobra strips the "--" itself; ArgsLenAtDash marks
// where it sat.
func splitAtDash(cmd *cobra.Command, args []string) (tokens, passthrough []string) {
	if at := cmd.ArgsLenAtDash(); at >= 0 {
		return args[:at], args[at:]
	}
	return args, nil
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version != "dev" {
		return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
	}
	// Builds installed via `go install` carry the module version in build
	// info instead of ldflags.
	if info, ok := debug.ReadBuildInfo(); ok {
		if v := info.Main.Version; v != "" && v != "(devel)" {
			return v
		}
	}
	return "dev (built from source)"
}

// Execute runs the root command. This is called by main.main().
func Execute() {
	app := NewApp(Dependencies{})

	// fang supplies styled help, errors, and --version; pass the version
	// through fang.WithVersion() since fang overrides rootCmd.Version.
	if err := fang.Execute(
		context.Background(),
		newRootCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(int(exitErr.Code))
		}
		os.Exit(1)
	}
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}
