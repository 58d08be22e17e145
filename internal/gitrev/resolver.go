// SPDX-License-Identifier: MPL-2.0

package gitrev

import (
	"context"
	"fmt"
	"strings"

	"github.com/Mic92/nix-hyperfine/internal/nix"
	"github.com/Mic92/nix-hyperfine/internal/run"
	"github.com/Mic92/nix-hyperfine/internal/spec"
)

type (
	// Pin is one git revision frozen into the Nix store.
	Pin struct {
		// Rev is the revision exactly as the user wrote it (HEAD, a tag,
		// a branch, an abbreviated hash).
		Rev string
		// Commit is the full hash Rev resolved to.
		Commit string
		// StorePath is the store snapshot of the repository at Commit.
		StorePath string
	}

	// ResolutionError reports a revision that could not be pinned. It is
	// fatal: a misspelled revision would silently benchmark the wrong
	// code, so the whole run aborts.
	ResolutionError struct {
		Rev   string
		Cause error
	}

	// Resolver expands revision-carrying specs into concrete targets.
	// It memoizes the repository root and caches pins per (root,
	// revision) pair, so expanding "a@HEAD b@HEAD" snapshots HEAD once.
	Resolver struct {
		runner run.Runner
		tool   *nix.Tool

		root     string
		haveRoot bool
		pins     map[pinKey]Pin
	}

	pinKey struct {
		root string
		rev  string
	}
)

// Error implements the error interface.
func (e *ResolutionError) Error() string {
	return fmt.Sprintf("failed to resolve git revision %q: %v", e.Rev, e.Cause)
}

// Unwrap returns the underlying cause so callers can reach the failed
// command with errors.As.
func (e *ResolutionError) Unwrap() error { return e.Cause }

// NewResolver creates a Resolver running git through runner and Nix
// evaluation through tool.
func NewResolver(runner run.Runner, tool *nix.Tool) *Resolver {
	return &Resolver{
		runner: runner,
		tool:   tool,
		pins:   make(map[pinKey]Pin),
	}
}

// Expand turns one parsed spec into its benchmark targets. A spec
// without revisions yields a single target for the working tree. A spec
// with revisions yields one target per revision, its locator rebased
// onto the store snapshot of that revision and its label suffixed with
// the revision as written.
func (r *Resolver) Expand(ctx context.Context, s spec.Spec) ([]spec.Target, error) {
	if !s.Pinned() {
		return []spec.Target{{Label: s.Base, Locator: s.Locator}}, nil
	}

	targets := make([]spec.Target, 0, len(s.Revisions))
	for _, rev := range s.Revisions {
		pin, err := r.Pin(ctx, rev)
		if err != nil {
			return nil, err
		}
		targets = append(targets, spec.Target{
			Label:   s.Base + "@" + rev,
			Locator: s.Locator.Rebase(pin.StorePath),
		})
	}
	return targets, nil
}

// Pin resolves one revision to a store snapshot, reusing a cached pin
// when the same revision was resolved earlier in this run.
func (r *Resolver) Pin(ctx context.Context, rev string) (Pin, error) {
	root, err := r.repoRoot(ctx)
	if err != nil {
		return Pin{}, &ResolutionError{Rev: rev, Cause: err}
	}

	key := pinKey{root: root, rev: rev}
	if pin, ok := r.pins[key]; ok {
		return pin, nil
	}

	commit, err := r.revParse(ctx, root, rev)
	if err != nil {
		return Pin{}, &ResolutionError{Rev: rev, Cause: err}
	}

	// fetchGit copies the commit's tree into the store, giving the
	// benchmark an immutable snapshot independent of the working tree.
	expr := fmt.Sprintf("builtins.fetchGit { url = %q; rev = %q; }", root, commit)
	storePath, err := r.tool.EvalExpr(ctx, expr)
	if err != nil {
		return Pin{}, &ResolutionError{Rev: rev, Cause: err}
	}

	pin := Pin{Rev: rev, Commit: commit, StorePath: storePath}
	r.pins[key] = pin
	return pin, nil
}

// repoRoot locates the enclosing git repository, memoizing the answer.
func (r *Resolver) repoRoot(ctx context.Context) (string, error) {
	if r.haveRoot {
		return r.root, nil
	}
	out, err := r.runner.Capture(ctx, []string{"git", "rev-parse", "--show-toplevel"})
	if err != nil {
		return "", fmt.Errorf("locating git repository root: %w", err)
	}
	root := strings.TrimSpace(out.Stdout)
	if root == "" {
		return "", fmt.Errorf("git rev-parse --show-toplevel returned no path")
	}
	r.root, r.haveRoot = root, true
	return root, nil
}

// revParse resolves rev to a full commit hash within root.
func (r *Resolver) revParse(ctx context.Context, root, rev string) (string, error) {
	out, err := r.runner.Capture(ctx, []string{"git", "-C", root, "rev-parse", rev})
	if err != nil {
		return "", err
	}
	commit := strings.TrimSpace(out.Stdout)
	if commit == "" {
		return "", fmt.Errorf("git rev-parse %s returned no commit", rev)
	}
	return commit, nil
}
