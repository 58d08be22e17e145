// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with CUE as the file format.
//
// Configuration is loaded from ~/.config/nix-hyperfine/config.cue (or XDG equivalent on
// Linux, ~/Library/Application Support/nix-hyperfine/config.cue on macOS,
// %APPDATA%\nix-hyperfine\config.cue on Windows). A config.cue in the current directory
// is honored when no user-level file exists. The package provides type-safe access to
// the Nix invocation settings, hyperfine defaults, and UI options.
//
// Configuration validation is performed against a CUE schema (config_schema.cue) to ensure
// type safety and provide clear error messages for invalid configurations.
package config
