// SPDX-License-Identifier: MPL-2.0

// Package cueutil provides shared helpers for working with CUE files.
//
// The config package embeds a CUE schema and validates user configuration
// against it before merging the decoded values over the built-in defaults.
// The helpers here cover the parts of that flow that deserve consistent
// treatment everywhere: size limits on untrusted input, and error messages
// that point at the offending field instead of dumping raw CUE internals.
//
// Error format: <file-path>: <json-path>: <message>
//
//	config.cue: nix.batch_size: invalid value 0 (out of bound >0)
//	config.cue: ui.color_scheme: 3 errors in empty disjunction
package cueutil
