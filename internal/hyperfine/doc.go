// SPDX-License-Identifier: MPL-2.0

// Package hyperfine assembles and launches hyperfine benchmark runs.
//
// Each benchmark arm pairs a label with the shell command that hyperfine
// measures. The invoker only arranges the invocation; statistics,
// warmup handling, and result export all belong to hyperfine itself and
// are steered by passing hyperfine's own flags through.
package hyperfine
