// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for nix-hyperfine.
//
// This package implements the Cobra command hierarchy: the root command
// that prepares derivations and runs the benchmark, the config subcommand
// family, and the App wiring that lets tests drive every command against
// scripted subprocess runners.
package cmd
