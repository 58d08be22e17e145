// SPDX-License-Identifier: MPL-2.0

package resolve

import (
	"context"
	"fmt"
	"strings"

	"github.com/Mic92/nix-hyperfine/internal/nix"
	"github.com/Mic92/nix-hyperfine/internal/spec"
)

type (
	// Attempt records one probed candidate location and why it was
	// rejected.
	Attempt struct {
		Locator spec.Locator
		Cause   error
	}

	// TargetResolutionError reports a bare attribute that evaluated
	// nowhere. It names every probed location so the user can see which
	// interpretation failed for which reason. The error is scoped to
	// its target: the run continues with the remaining targets.
	TargetResolutionError struct {
		Name     string
		Attempts []Attempt
	}

	// Resolver probes candidate locations by instantiating them.
	Resolver struct {
		tool *nix.Tool
	}
)

// Error implements the error interface.
func (e *TargetResolutionError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "cannot resolve attribute %q:", e.Name)
	for _, a := range e.Attempts {
		fmt.Fprintf(&b, "\n  %s: %v", a.Locator, a.Cause)
	}
	return b.String()
}

// Unwrap exposes the per-candidate causes to errors.Is and errors.As.
func (e *TargetResolutionError) Unwrap() []error {
	errs := make([]error, len(e.Attempts))
	for i, a := range e.Attempts {
		errs[i] = a.Cause
	}
	return errs
}

// NewResolver creates a Resolver probing through tool.
func NewResolver(tool *nix.Tool) *Resolver {
	return &Resolver{tool: tool}
}

// Resolve rewrites a bare-attribute target to its first evaluating
// candidate location, keeping the label. Concrete targets are returned
// unchanged without touching Nix.
func (r *Resolver) Resolve(ctx context.Context, target spec.Target) (spec.Target, error) {
	attr, ok := target.Locator.(spec.Attr)
	if !ok {
		return target, nil
	}

	var attempts []Attempt
	for _, candidate := range candidates(attr.Name) {
		if _, err := r.tool.Instantiate(ctx, candidate); err != nil {
			attempts = append(attempts, Attempt{Locator: candidate, Cause: err})
			continue
		}
		target.Locator = candidate
		return target, nil
	}
	return spec.Target{}, &TargetResolutionError{Name: attr.Name, Attempts: attempts}
}

// candidates lists the locations a bare attribute may refer to, in
// probe order.
func candidates(name string) []spec.Locator {
	return []spec.Locator{
		spec.Flake{Ref: ".", Attr: name},
		spec.File{Path: "default.nix", Attr: name},
	}
}
