// SPDX-License-Identifier: MPL-2.0

// Package resolve turns ambiguous benchmark targets into concrete ones.
//
// A bare attribute name such as "hello" does not say where the
// attribute lives. The resolver probes the candidate locations in a
// fixed order (the current directory's flake, then ./default.nix) by
// instantiating each one, and rewrites the target to the first location
// that evaluates. Targets that are already concrete pass through
// untouched.
package resolve
