// SPDX-License-Identifier: MPL-2.0

// Package spec parses user-supplied derivation specifications and holds the
// data model the rest of the pipeline operates on.
//
// A spec token addresses a derivation in one of three ways:
//   - flake:          "nixpkgs#hello", "#hello", ".#checks.x86_64-linux.foo"
//   - file+attribute: "-f release.nix -A hello", or a bare "release.nix"
//   - bare attribute: "hello" (disambiguated later by resolve)
//
// Any token may carry a trailing "@rev1,rev2,..." revision list, which fans
// the spec out into one benchmark arm per revision (see package gitrev).
// The three shapes are modeled as a closed Locator sum type so downstream
// stages switch on structure instead of re-parsing strings.
package spec
