// SPDX-License-Identifier: EPL-2.0

package issue

import (
	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type Id int

const (
	HyperfineNotFoundId Id = iota + 1
	NixNotFoundId
	MalformedSpecId
	AttrResolutionFailedId
	RevisionPinFailedId
	PrebuildFailedId
	BenchmarkFailedId
	ConfigLoadFailedId
)

type MarkdownMsg string

type HttpLink string

type Renderer interface {
	Render(in string, stylePath string) (string, error)
}

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink  // must never be empty, because we need to have docs about all issue types
	extLinks []HttpLink  // external links that might be useful for the user
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

func (i *Issue) Render(stylePath string) (string, error) {
	extraMd := ""
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		extraMd += "\n\n"
		extraMd += "## See also: "
		for _, link := range i.docLinks {
			extraMd += "- [" + string(link) + "]"
		}
		for _, link := range i.extLinks {
			extraMd += "- [" + string(link) + "]"
		}
	}
	return render(string(i.mdMsg)+extraMd, stylePath)
}

var (
	render = glamour.Render

	hyperfineNotFoundIssue = &Issue{
		id: HyperfineNotFoundId,
		mdMsg: `
# hyperfine not found!

nix-hyperfine drives hyperfine for the actual measurements, but it is not
on your PATH.

## Things you can try:
- Install it from nixpkgs:
~~~
$ nix-env -iA nixpkgs.hyperfine
~~~

- Or with the flake-style CLI:
~~~
$ nix profile install nixpkgs#hyperfine
~~~

- Or borrow it for one shell session:
~~~
$ nix shell nixpkgs#hyperfine
~~~`,
		extLinks: []HttpLink{"https://github.com/sharkdp/hyperfine"},
	}

	nixNotFoundIssue = &Issue{
		id: NixNotFoundId,
		mdMsg: `
# Nix not found!

Every benchmarked command goes through the Nix CLI, but neither it nor
the configured replacement is on your PATH.

## Things you can try:
- Install Nix: https://nixos.org/download
- Check that the daemon profile is sourced in your shell:
~~~
$ . /etc/profile.d/nix.sh
~~~

- If you pointed nix.command at a custom binary in your config, check
  that the path is correct:
~~~cue
nix: {
  command: "/run/current-system/sw/bin/nix"
}
~~~`,
		extLinks: []HttpLink{"https://nixos.org/download"},
	}

	malformedSpecIssue = &Issue{
		id: MalformedSpecId,
		mdMsg: `
# Malformed benchmark spec!

One of the specs on the command line could not be parsed.

## Spec forms:
- ` + "`nixpkgs#hello`" + `: flake reference and attribute
- ` + "`#hello`" + `: attribute of the current directory's flake
- ` + "`-f release.nix -A hello`" + `: file with an explicit attribute
- ` + "`release.nix`" + `: standalone Nix file
- ` + "`hello`" + `: attribute, resolved against the flake or ./default.nix

## Benchmarking across history:
Any form may carry a revision list after ` + "`@`" + `:
~~~
$ nix-hyperfine '.#hello@HEAD,v1.0,8f3a2b1'
~~~
Each revision becomes one benchmark arm. Remember to quote the spec so
your shell does not eat the ` + "`#`" + `.`,
	}

	attrResolutionFailedIssue = &Issue{
		id: AttrResolutionFailedId,
		mdMsg: `
# Attribute resolved nowhere!

A bare attribute is tried as an output of the current directory's flake
first, then as an attribute of ./default.nix. Both interpretations
failed to evaluate.

## Things you can try:
- Probe the interpretations by hand to see the real error:
~~~
$ nix eval .#<attr>
$ nix-instantiate default.nix -A <attr>
~~~

- Spell the location out instead of relying on resolution:
~~~
$ nix-hyperfine '.#<attr>'
$ nix-hyperfine -f 'release.nix -A <attr>'
~~~

- Check you are in the right directory`,
	}

	revisionPinFailedIssue = &Issue{
		id: RevisionPinFailedId,
		mdMsg: `
# Could not pin git revision!

A spec with an ` + "`@rev`" + ` suffix is benchmarked from an immutable store
snapshot of that revision, but the revision could not be resolved or
snapshotted.

## Things you can try:
- Run nix-hyperfine from inside the git repository
- Check the revision exists:
~~~
$ git rev-parse <rev>
~~~

- Fetch missing tags or branches first:
~~~
$ git fetch --tags origin
~~~

- Remember that fetchGit snapshots committed state only; uncommitted
  changes never appear in an @rev arm`,
	}

	prebuildFailedIssue = &Issue{
		id: PrebuildFailedId,
		mdMsg: `
# Dependency pre-build failed!

Before measuring, every dependency of a target is built so that the
benchmark measures the target alone, not its missing dependencies. One
of those preparation builds failed, and the target was dropped from the
benchmark.

## Things you can try:
- Build the target by hand to see the full Nix output:
~~~
$ nix build .#<attr>
$ nix-build release.nix -A <attr>
~~~

- Check substituters and network access if downloads failed
- Run with --verbose to see each preparation command as it runs`,
	}

	benchmarkFailedIssue = &Issue{
		id: BenchmarkFailedId,
		mdMsg: `
# hyperfine reported an error!

The preparation succeeded but hyperfine itself exited with an error.
Its output above has the specifics; nix-hyperfine passes the exit code
through unchanged.

## Common causes:
- A benchmarked command exits nonzero. Tell hyperfine to tolerate that:
~~~
$ nix-hyperfine nixpkgs#hello -- --ignore-failure
~~~

- A run was too fast or too slow for the defaults. Tune the run count:
~~~
$ nix-hyperfine nixpkgs#hello -- --runs 3 --warmup 1
~~~

Everything after ` + "`--`" + ` goes to hyperfine verbatim.`,
		extLinks: []HttpLink{"https://github.com/sharkdp/hyperfine"},
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

Could not load the nix-hyperfine configuration file.

## Configuration file locations:
- Linux: ~/.config/nix-hyperfine/config.cue
- macOS: ~/Library/Application Support/nix-hyperfine/config.cue
- Windows: %APPDATA%\nix-hyperfine\config.cue

## Things you can try:
- Create a default configuration:
~~~
$ nix-hyperfine config init
~~~

- Check the configuration syntax
- Remove the config file to use defaults:
~~~
$ rm ~/.config/nix-hyperfine/config.cue
~~~

## Example configuration:
~~~cue
nix: {
  command: "nix"
  experimental_features: "nix-command flakes"
  batch_size: 100
}

hyperfine: {
  command: "hyperfine"
  default_args: ["--warmup", "1"]
}

ui: {
  color_scheme: "auto"
  verbose: false
}
~~~`,
	}

	issues = map[Id]*Issue{
		hyperfineNotFoundIssue.Id():    hyperfineNotFoundIssue,
		nixNotFoundIssue.Id():          nixNotFoundIssue,
		malformedSpecIssue.Id():        malformedSpecIssue,
		attrResolutionFailedIssue.Id(): attrResolutionFailedIssue,
		revisionPinFailedIssue.Id():    revisionPinFailedIssue,
		prebuildFailedIssue.Id():       prebuildFailedIssue,
		benchmarkFailedIssue.Id():      benchmarkFailedIssue,
		configLoadFailedIssue.Id():     configLoadFailedIssue,
	}
)

func Values() []*Issue {
	return maps.Values(issues)
}

func Get(id Id) *Issue {
	return issues[id]
}
