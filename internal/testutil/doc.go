// SPDX-License-Identifier: MPL-2.0

// Package testutil provides helper functions for tests that handle errors
// appropriately, reducing boilerplate and ensuring consistent error handling.
//
// Common helpers include environment variable management (MustSetenv,
// MustUnsetenv), directory and file operations (MustChdir, MustMkdirAll,
// MustWriteFile), deterministic time (Clock, FakeClock), and ScriptedRunner,
// a run.Runner fake that lets the whole benchmark pipeline execute without
// git, nix, or hyperfine installed.
package testutil
