// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Mic92/nix-hyperfine/internal/config"
	"github.com/Mic92/nix-hyperfine/internal/hyperfine"
	"github.com/Mic92/nix-hyperfine/internal/issue"
	"github.com/Mic92/nix-hyperfine/internal/nix"

	"github.com/spf13/cobra"
)

// newConfigCommand creates the `nix-hyperfine config` command tree.
// Subcommands that read configuration go through the App's ConfigProvider
// and honor the persistent --config flag; `set` and `init` always operate
// on the user-level file, which is where Save writes.
func newConfigCommand(app *App, opts *rootOptions) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage nix-hyperfine configuration",
		Long: `Manage nix-hyperfine configuration.

Configuration is stored in:
  - Linux: ~/.config/nix-hyperfine/config.cue
  - macOS: ~/Library/Application Support/nix-hyperfine/config.cue
  - Windows: %APPDATA%\nix-hyperfine\config.cue`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig(cmd, app, opts)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return initConfigFile(cmd)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfigPath(cmd, opts)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return setConfigValue(cmd, app, args[0], args[1])
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output raw configuration as CUE",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.Config.Load(cmd.Context(), config.LoadOptions{ConfigFilePath: opts.configFile})
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), config.GenerateCUE(cfg))
			return nil
		},
	})

	return cfgCmd
}

func showConfig(cmd *cobra.Command, app *App, opts *rootOptions) error {
	stdout := cmd.OutOrStdout()

	cfg, err := app.Config.Load(cmd.Context(), config.LoadOptions{ConfigFilePath: opts.configFile})
	if err != nil {
		renderIssue(cmd.ErrOrStderr(), string(config.ColorSchemeAuto), issue.ConfigLoadFailedId)
		return err
	}

	fmt.Fprintln(stdout, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(stdout)

	path, exists, pathErr := config.ResolveConfigFilePath(config.LoadOptions{ConfigFilePath: opts.configFile})
	if pathErr == nil && exists {
		fmt.Fprintf(stdout, "%s: %s\n", CmdStyle.Render("Config file"), path)
	} else {
		fmt.Fprintf(stdout, "%s: %s\n", CmdStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}
	fmt.Fprintln(stdout)

	fmt.Fprintf(stdout, "%s:\n", CmdStyle.Render("nix"))
	fmt.Fprintf(stdout, "  command: %s\n", SuccessStyle.Render(cfg.Nix.Command.OrDefault(nix.DefaultCommand)))
	fmt.Fprintf(stdout, "  experimental_features: %s\n", SuccessStyle.Render(cfg.Nix.ExperimentalFeatures))
	fmt.Fprintf(stdout, "  batch_size: %s\n", SuccessStyle.Render(strconv.Itoa(cfg.Nix.BatchSize.Int())))

	fmt.Fprintln(stdout)
	fmt.Fprintf(stdout, "%s:\n", CmdStyle.Render("hyperfine"))
	fmt.Fprintf(stdout, "  command: %s\n", SuccessStyle.Render(cfg.Hyperfine.Command.OrDefault(hyperfine.DefaultCommand)))
	if len(cfg.Hyperfine.DefaultArgs) == 0 {
		fmt.Fprintf(stdout, "  default_args: %s\n", SubtitleStyle.Render("(none)"))
	} else {
		fmt.Fprintf(stdout, "  default_args: %s\n", SuccessStyle.Render(strings.Join(cfg.Hyperfine.DefaultArgs, " ")))
	}

	fmt.Fprintln(stdout)
	fmt.Fprintf(stdout, "%s:\n", CmdStyle.Render("ui"))
	fmt.Fprintf(stdout, "  color_scheme: %s\n", SuccessStyle.Render(cfg.UI.ColorScheme.String()))
	fmt.Fprintf(stdout, "  verbose: %s\n", SuccessStyle.Render(strconv.FormatBool(cfg.UI.Verbose)))

	return nil
}

func initConfigFile(cmd *cobra.Command) error {
	// A config.cue in the working directory counts as existing too:
	// creating the user-level file would silently take precedence over it.
	path, exists, err := config.ResolveConfigFilePath(config.LoadOptions{})
	if err != nil {
		return err
	}
	if exists {
		fmt.Fprintf(cmd.OutOrStdout(), "Configuration already exists at %s\n", path)
		return nil
	}

	if err := config.CreateDefaultConfig(); err != nil {
		return fmt.Errorf("failed to create config: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s Created default configuration at %s\n", SuccessStyle.Render("✓"), path)
	return nil
}

func showConfigPath(cmd *cobra.Command, opts *rootOptions) error {
	stdout := cmd.OutOrStdout()

	cfgDir, err := config.ConfigDir()
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Config directory: %s\n", cfgDir)

	path, exists, err := config.ResolveConfigFilePath(config.LoadOptions{ConfigFilePath: opts.configFile})
	if err != nil {
		return err
	}
	if exists {
		fmt.Fprintf(stdout, "Config file: %s\n", path)
	} else {
		fmt.Fprintf(stdout, "Config file: %s %s\n", path, SubtitleStyle.Render("(not created yet)"))
	}

	return nil
}

func setConfigValue(cmd *cobra.Command, app *App, key, value string) error {
	// Loaded via the standard lookup, not --config: Save always writes the
	// user-level file, and mutating a copy of some other file into it would
	// surprise more than it helps.
	cfg, err := app.Config.Load(cmd.Context(), config.LoadOptions{})
	if err != nil {
		return err
	}

	switch key {
	case "nix.command":
		p := config.CommandPath(value)
		if ok, errs := p.IsValid(); !ok {
			return errs[0]
		}
		cfg.Nix.Command = p

	case "nix.experimental_features":
		cfg.Nix.ExperimentalFeatures = value

	case "nix.batch_size":
		n, convErr := strconv.Atoi(value)
		if convErr != nil {
			return fmt.Errorf("invalid nix.batch_size: %q is not an integer", value)
		}
		b := config.BatchSize(n)
		if ok, errs := b.IsValid(); !ok {
			return errs[0]
		}
		cfg.Nix.BatchSize = b

	case "hyperfine.command":
		p := config.CommandPath(value)
		if ok, errs := p.IsValid(); !ok {
			return errs[0]
		}
		cfg.Hyperfine.Command = p

	case "ui.color_scheme":
		cs := config.ColorScheme(value)
		if ok, errs := cs.IsValid(); !ok {
			return errs[0]
		}
		cfg.UI.ColorScheme = cs

	case "ui.verbose":
		cfg.UI.Verbose = value == "true" || value == "1"

	default:
		return fmt.Errorf("unknown configuration key: %s\nValid keys: nix.command, nix.experimental_features, nix.batch_size, hyperfine.command, ui.color_scheme, ui.verbose", key)
	}

	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s Set %s = %s\n", SuccessStyle.Render("✓"), key, value)
	return nil
}
