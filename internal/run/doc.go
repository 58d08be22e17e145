// SPDX-License-Identifier: MPL-2.0

// Package run provides subprocess execution for the benchmark pipeline.
//
// Every external tool interaction (git, nix, nix-store, nix-instantiate,
// nix-build, hyperfine) goes through the Runner interface:
//   - Capture: collect stdout/stderr in memory, for query-style calls
//   - Stream: inherit the session's stdio, for children that own the terminal
//
// ExecRunner is the production implementation over os/exec; tests substitute
// a scripted fake so the whole pipeline runs without any of the tools
// installed. Non-zero exits from captured commands surface as *CommandError
// with the child's stderr preserved, since that is usually the only useful
// diagnostic nix produces.
package run
