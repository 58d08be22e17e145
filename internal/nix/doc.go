// SPDX-License-Identifier: MPL-2.0

// Package nix speaks to the Nix toolchain on behalf of the benchmark
// pipeline.
//
// Tool constructs and runs the individual tool invocations: the modern CLI
// ("nix path-info", "nix build", "nix eval") for flake locators, with the
// experimental-features flag injected right after the program name, and the
// legacy CLI ("nix-instantiate", "nix-store", "nix-build") for file
// locators. It also renders the shell command strings hyperfine measures.
//
// Prebuilder drives the per-target preparation pipeline so that benchmark
// timings isolate the target itself: instantiate the derivation, enumerate
// its closure, force-realize every dependency in batches, and (in build
// mode) run one warm build. Failures are wrapped in PrebuildError naming
// the step that failed; a failed target never stops the remaining targets.
package nix
