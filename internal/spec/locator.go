// SPDX-License-Identifier: MPL-2.0

package spec

import (
	"fmt"
	"path"
)

type (
	// Locator is the closed sum of the three derivation addressing modes.
	// Exactly Flake, File, and Attr implement it.
	Locator interface {
		// Rebase returns a copy of the locator addressing the same
		// derivation inside snapshot, an immutable store-path checkout
		// of the repository the original locator was relative to.
		Rebase(snapshot string) Locator

		// String renders the locator in its command-line form.
		String() string

		isLocator()
	}

	// Flake addresses a derivation through a flake reference,
	// split at the first '#' into source and attribute path.
	Flake struct {
		// Ref is the flake source ("nixpkgs", ".", "github:foo/bar", a
		// store path). Never empty; a bare "#attr" token normalizes to ".".
		Ref string
		// Attr is the attribute path after the '#'.
		Attr string
	}

	// File addresses a derivation through a Nix file, optionally narrowed
	// to an attribute ("-f release.nix -A hello").
	File struct {
		Path string
		// Attr may be empty, in which case the file's sole derivation
		// (or its full attribute set) is built.
		Attr string
	}

	// Attr is a bare attribute name whose interpretation is still open:
	// it may refer to the current flake or to ./default.nix. Package
	// resolve turns it into one of the concrete forms.
	Attr struct {
		Name string
	}
)

func (Flake) isLocator() {}
func (File) isLocator()  {}
func (Attr) isLocator()  {}

// Rebase substitutes the flake source with the snapshot store path,
// preserving the attribute: "nixpkgs#hello" becomes "/nix/store/...#hello".
func (f Flake) Rebase(snapshot string) Locator {
	return Flake{Ref: snapshot, Attr: f.Attr}
}

// Rebase re-roots the file path inside the snapshot.
func (f File) Rebase(snapshot string) Locator {
	return File{Path: path.Join(snapshot, f.Path), Attr: f.Attr}
}

// Rebase pins a bare attribute to the snapshot's default.nix, the only
// interpretation that exists inside a store-path checkout.
func (a Attr) Rebase(snapshot string) Locator {
	return File{Path: path.Join(snapshot, "default.nix"), Attr: a.Name}
}

// String returns the flake reference as the user would type it.
func (f Flake) String() string {
	return f.Ref + "#" + f.Attr
}

// String returns the "-f PATH -A ATTR" form, or just the path when no
// attribute narrows it.
func (f File) String() string {
	if f.Attr == "" {
		return f.Path
	}
	return fmt.Sprintf("-f %s -A %s", f.Path, f.Attr)
}

// String returns the bare attribute name.
func (a Attr) String() string {
	return a.Name
}
