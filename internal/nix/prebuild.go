// SPDX-License-Identifier: MPL-2.0

package nix

import (
	"context"
	"fmt"
	"time"

	"github.com/Mic92/nix-hyperfine/internal/spec"
)

// DefaultBatchSize caps how many derivations one nix-store --realise call
// receives, keeping the command line well under OS argument limits.
const DefaultBatchSize = 100

const (
	// StepInstantiate is the evaluation of the locator to its .drv path.
	StepInstantiate Step = "instantiate"
	// StepRequisites is the closure query on the instantiated derivation.
	StepRequisites Step = "query requisites"
	// StepRealise is the forced realization of the dependency closure.
	StepRealise Step = "realise dependencies"
	// StepWarmBuild is the throwaway full build preceding build benchmarks.
	StepWarmBuild Step = "warm build"
)

type (
	// Step names a stage of the pre-build pipeline for error reporting.
	Step string

	// PrebuildError reports a failed pre-build stage for one target. The
	// run continues with the remaining targets; the failed one is dropped
	// from the benchmark.
	PrebuildError struct {
		Target string
		Step   Step
		Cause  error
	}

	// Reporter receives human-facing progress from the pipeline. The
	// CLI layer implements it with styled output; a nil Reporter keeps
	// the pipeline silent.
	Reporter interface {
		// Step reports top-level progress.
		Step(format string, args ...any)
		// Detail reports supplementary information such as timings.
		Detail(format string, args ...any)
	}

	// Clock abstracts time for step timings. testutil.FakeClock satisfies
	// it for deterministic tests.
	Clock interface {
		Now() time.Time
		Since(t time.Time) time.Duration
	}

	// PrebuildOptions configures a Prebuilder. Zero values fall back to
	// sensible defaults.
	PrebuildOptions struct {
		BatchSize int
		Reporter  Reporter
		Clock     Clock
	}

	// Prebuilder prepares targets for measurement: everything a benchmark
	// run would otherwise spend time on is forced into the store first.
	Prebuilder struct {
		tool      *Tool
		batchSize int
		reporter  Reporter
		clock     Clock
	}

	systemClock struct{}
)

func (systemClock) Now() time.Time                  { return time.Now() }
func (systemClock) Since(t time.Time) time.Duration { return time.Since(t) }

// Error implements the error interface.
func (e *PrebuildError) Error() string {
	return fmt.Sprintf("pre-build of %s failed at step %q: %v", e.Target, e.Step, e.Cause)
}

// Unwrap returns the underlying cause so callers can reach the failed
// command with errors.As.
func (e *PrebuildError) Unwrap() error { return e.Cause }

// NewPrebuilder creates a Prebuilder over the given tool.
func NewPrebuilder(tool *Tool, opts PrebuildOptions) *Prebuilder {
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultBatchSize
	}
	if opts.Clock == nil {
		opts.Clock = systemClock{}
	}
	return &Prebuilder{
		tool:      tool,
		batchSize: opts.BatchSize,
		reporter:  opts.Reporter,
		clock:     opts.Clock,
	}
}

// Prebuild runs the preparation pipeline for one target: instantiate,
// enumerate the dependency closure, realise it in batches, and in build
// mode run one warm build. Eval benchmarks skip the warm build since they
// never build the target itself.
func (p *Prebuilder) Prebuild(ctx context.Context, target spec.Target, mode spec.Mode) error {
	drv, err := p.tool.Instantiate(ctx, target.Locator)
	if err != nil {
		return &PrebuildError{Target: target.Label, Step: StepInstantiate, Cause: err}
	}

	depsStart := p.clock.Now()
	p.step("Getting dependencies for %s...", drv)
	queryStart := p.clock.Now()
	deps, err := p.tool.Requisites(ctx, drv)
	if err != nil {
		return &PrebuildError{Target: target.Label, Step: StepRequisites, Cause: err}
	}
	p.detail("  Dependency query took %s", seconds(p.clock.Since(queryStart)))

	if len(deps) > 0 {
		p.step("Building %d dependencies...", len(deps))
		totalBatches := (len(deps) + p.batchSize - 1) / p.batchSize
		for i := 0; i < len(deps); i += p.batchSize {
			batch := deps[i:min(i+p.batchSize, len(deps))]
			batchNum := i/p.batchSize + 1
			p.detail("  Building batch %d/%d (%d dependencies)...", batchNum, totalBatches, len(batch))
			batchStart := p.clock.Now()
			if err := p.tool.Realise(ctx, batch); err != nil {
				return &PrebuildError{Target: target.Label, Step: StepRealise, Cause: err}
			}
			p.detail("  Batch %d completed in %s", batchNum, seconds(p.clock.Since(batchStart)))
		}
		p.step("Total dependency building took %s", seconds(p.clock.Since(depsStart)))
	}

	if mode != spec.ModeEval {
		p.step("Pre-building %s...", target.Label)
		buildStart := p.clock.Now()
		if err := p.tool.Build(ctx, target.Locator); err != nil {
			return &PrebuildError{Target: target.Label, Step: StepWarmBuild, Cause: err}
		}
		p.detail("  Pre-build completed in %s", seconds(p.clock.Since(buildStart)))
	}

	return nil
}

func (p *Prebuilder) step(format string, args ...any) {
	if p.reporter != nil {
		p.reporter.Step(format, args...)
	}
}

func (p *Prebuilder) detail(format string, args ...any) {
	if p.reporter != nil {
		p.reporter.Detail(format, args...)
	}
}

func seconds(d time.Duration) string {
	return fmt.Sprintf("%.2fs", d.Seconds())
}
