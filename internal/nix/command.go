// SPDX-License-Identifier: MPL-2.0

package nix

import (
	"fmt"

	"github.com/Mic92/nix-hyperfine/internal/spec"

	"mvdan.cc/sh/v3/syntax"
)

// BuildCommand renders the shell command hyperfine runs to measure a build.
// Flake builds force a rebuild so repeated runs do real work; the legacy CLI
// has no equivalent flag, so file builds measure the plain nix-build path.
func (t *Tool) BuildCommand(loc spec.Locator) (string, error) {
	switch l := loc.(type) {
	case spec.Flake:
		return fmt.Sprintf("%s build %s --rebuild", t.shellPrefix(), quote(l.Ref+"#"+l.Attr)), nil
	case spec.File:
		if l.Attr != "" {
			return fmt.Sprintf("nix-build %s -A %s", quote(l.Path), quote(l.Attr)), nil
		}
		return "nix-build " + quote(l.Path), nil
	default:
		return "", fmt.Errorf("cannot build command for unresolved locator %q", loc)
	}
}

// EvalCommand renders the shell command hyperfine runs to measure an
// evaluation. Flake evaluations bypass the eval cache and force the full
// .drvPath computation; nix-instantiate has no eval cache to bypass.
func (t *Tool) EvalCommand(loc spec.Locator) (string, error) {
	switch l := loc.(type) {
	case spec.Flake:
		return fmt.Sprintf("%s eval --raw --no-eval-cache %s", t.shellPrefix(), quote(l.Ref+"#"+l.Attr+".drvPath")), nil
	case spec.File:
		if l.Attr != "" {
			return fmt.Sprintf("nix-instantiate %s -A %s", quote(l.Path), quote(l.Attr)), nil
		}
		return "nix-instantiate " + quote(l.Path), nil
	default:
		return "", fmt.Errorf("cannot build command for unresolved locator %q", loc)
	}
}

// Command renders the measured shell command for the given mode.
func (t *Tool) Command(loc spec.Locator, mode spec.Mode) (string, error) {
	if mode == spec.ModeEval {
		return t.EvalCommand(loc)
	}
	return t.BuildCommand(loc)
}

// shellPrefix is the modern CLI invocation prefix as a shell fragment.
func (t *Tool) shellPrefix() string {
	if t.opts.ExperimentalFeatures == "" {
		return quote(t.opts.Command)
	}
	return fmt.Sprintf("%s --extra-experimental-features %s", quote(t.opts.Command), quote(t.opts.ExperimentalFeatures))
}

// quote makes s safe as a single shell word. syntax.Quote only fails on
// control bytes that cannot appear in store paths or attribute names, so
// the input is passed through in that case.
func quote(s string) string {
	quoted, err := syntax.Quote(s, syntax.LangBash)
	if err != nil {
		return s
	}
	return quoted
}
