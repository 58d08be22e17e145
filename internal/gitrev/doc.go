// SPDX-License-Identifier: MPL-2.0

// Package gitrev pins git revisions to immutable store snapshots.
//
// A spec token such as "hello@HEAD,v1.0" names the same expression at
// several points of the repository's history. For each revision the
// resolver asks git for the full commit hash, snapshots that commit
// into the Nix store with builtins.fetchGit, and rebases the spec's
// locator onto the snapshot. Resolved pins are cached so a revision
// shared by several specs is fetched once per run.
package gitrev
