// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/Mic92/nix-hyperfine/internal/config"
	"github.com/Mic92/nix-hyperfine/internal/hyperfine"
	"github.com/Mic92/nix-hyperfine/internal/issue"
	"github.com/Mic92/nix-hyperfine/internal/run"

	"github.com/charmbracelet/log"
)

type (
	// App wires CLI services and shared dependencies. It is the composition
	// root for the CLI layer: all Cobra command handlers receive an App
	// reference and reach external processes, configuration, and output
	// streams exclusively through it.
	App struct {
		Config ConfigProvider
		Runner run.Runner
		Logger *log.Logger

		checkBenchTool func(command string) error
		stdout         io.Writer
		stderr         io.Writer
	}

	// Dependencies defines the injection points for building an App. Nil
	// fields are replaced with production defaults by NewApp. Tests supply
	// a ScriptedRunner and buffer writers to drive the whole pipeline
	// without git, nix, or hyperfine installed.
	Dependencies struct {
		Config ConfigProvider
		Runner run.Runner
		Logger *log.Logger

		// CheckBenchTool verifies the benchmark binary is usable before
		// any Nix work starts. Defaults to hyperfine.Check (a PATH lookup).
		CheckBenchTool func(command string) error

		Stdout io.Writer
		Stderr io.Writer
	}

	// ConfigProvider loads configuration using explicit options.
	// This abstraction enables testing with custom config sources or mock
	// implementations.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error)
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) *App {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Logger == nil {
		deps.Logger = log.NewWithOptions(deps.Stderr, log.Options{Prefix: "nix-hyperfine"})
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.Runner == nil {
		deps.Runner = &run.ExecRunner{
			Stdout: deps.Stdout,
			Stderr: deps.Stderr,
			Logger: deps.Logger,
		}
	}
	if deps.CheckBenchTool == nil {
		deps.CheckBenchTool = hyperfine.Check
	}

	return &App{
		Config:         deps.Config,
		Runner:         deps.Runner,
		Logger:         deps.Logger,
		checkBenchTool: deps.CheckBenchTool,
		stdout:         deps.Stdout,
		stderr:         deps.Stderr,
	}
}

// loadConfigWithFallback loads configuration via the provider. How a failure
// is handled depends on how the path was chosen:
//   - Explicit --config path: fatal. The user named a file; benchmarking
//     under silently substituted defaults would measure the wrong setup.
//   - Default path: warn and continue with defaults. The loader only errors
//     for files that exist, so the warning points at a real broken file, but
//     a broken user config should not block an otherwise valid run.
func loadConfigWithFallback(ctx context.Context, provider ConfigProvider, configPath string, stderr io.Writer, verbose bool) (*config.Config, error) {
	cfg, err := provider.Load(ctx, config.LoadOptions{ConfigFilePath: configPath})
	if err == nil {
		return cfg, nil
	}

	if configPath != "" {
		renderIssue(stderr, string(config.ColorSchemeAuto), issue.ConfigLoadFailedId)
		return nil, err
	}

	fmt.Fprintln(stderr, WarningStyle.Render("Warning:")+" failed to load config, using defaults: "+formatErrorForDisplay(err, verbose))
	return config.DefaultConfig(), nil
}

// renderIssue writes the styled guidance card for id to w. A rendering
// failure falls back to the raw markdown so the guidance is never lost.
func renderIssue(w io.Writer, colorScheme string, id issue.Id) {
	card := issue.Get(id)
	rendered, err := card.Render(colorScheme)
	if err != nil {
		rendered = string(card.MarkdownMsg())
	}
	fmt.Fprint(w, rendered)
}
