// SPDX-License-Identifier: MPL-2.0

package spec

type (
	// Spec is one parsed command-line token: a derivation locator plus the
	// git revisions (possibly none) it should be benchmarked at.
	Spec struct {
		// Raw is the original user-supplied token, preserved verbatim.
		Raw string
		// Base is the token with any "@revisions" suffix stripped. Equal
		// to Raw for unpinned specs. Labels derive from it.
		Base string
		// Locator is the parsed addressing form of Base.
		Locator Locator
		// Revisions holds the requested git revision identifiers in user
		// order. Empty means "benchmark the working tree as addressed".
		Revisions []string
	}

	// Target is one concrete benchmark arm: a locator that can be
	// instantiated as-is, plus the label hyperfine reports it under.
	Target struct {
		// Label is the display name, unique across the whole invocation.
		Label string
		// Locator is a Flake or File locator; bare Attr locators never
		// survive resolution.
		Locator Locator
	}
)

// Pinned reports whether the spec requests one or more git revisions.
func (s Spec) Pinned() bool {
	return len(s.Revisions) > 0
}
