// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"context"
	"strings"
	"sync"

	"github.com/Mic92/nix-hyperfine/internal/run"
)

type (
	// Call records one command dispatched to a ScriptedRunner.
	Call struct {
		// Argv is the full command line.
		Argv []string
		// Streamed is true for Stream calls, false for Capture calls.
		Streamed bool
	}

	// Response scripts the outcome of a matched command.
	Response struct {
		Stdout   string
		Stderr   string
		ExitCode run.ExitCode
		// Err, when set, is returned verbatim instead of the synthesized
		// *run.CommandError (use it to simulate spawn failures).
		Err error
	}

	// ScriptedRunner is a run.Runner for tests. Commands are matched by
	// the longest scripted prefix of their space-joined argv; unmatched
	// commands succeed with empty output. Every dispatched command is
	// recorded, so tests can assert on the exact tool invocations the
	// pipeline produced without any external tool installed.
	ScriptedRunner struct {
		// OnCall, when set, observes every dispatched call before its
		// response is computed (e.g. to advance a FakeClock).
		OnCall func(Call)

		mu        sync.Mutex
		calls     []Call
		responses map[string]Response
	}
)

// NewScriptedRunner creates an empty ScriptedRunner.
func NewScriptedRunner() *ScriptedRunner {
	return &ScriptedRunner{responses: make(map[string]Response)}
}

// Script registers a response for every command line starting with prefix.
// When several prefixes match, the longest one wins.
func (r *ScriptedRunner) Script(prefix string, resp Response) *ScriptedRunner {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.responses[prefix] = resp
	return r
}

// Calls returns a copy of all recorded calls in dispatch order.
func (r *ScriptedRunner) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	calls := make([]Call, len(r.calls))
	copy(calls, r.calls)
	return calls
}

// CommandLines returns the space-joined argv of every recorded call,
// in dispatch order.
func (r *ScriptedRunner) CommandLines() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	lines := make([]string, len(r.calls))
	for i, c := range r.calls {
		lines[i] = strings.Join(c.Argv, " ")
	}
	return lines
}

// Capture implements run.Runner.
func (r *ScriptedRunner) Capture(_ context.Context, argv []string) (run.Output, error) {
	resp := r.dispatch(Call{Argv: argv})
	out := run.Output{Stdout: resp.Stdout, Stderr: resp.Stderr}
	if resp.Err != nil {
		return out, resp.Err
	}
	if resp.ExitCode != 0 {
		return out, &run.CommandError{Argv: argv, ExitCode: resp.ExitCode, Stderr: resp.Stderr}
	}
	return out, nil
}

// Stream implements run.Runner.
func (r *ScriptedRunner) Stream(_ context.Context, argv []string) (run.ExitCode, error) {
	resp := r.dispatch(Call{Argv: argv, Streamed: true})
	if resp.Err != nil {
		return 1, resp.Err
	}
	return resp.ExitCode, nil
}

// dispatch records the call and resolves its scripted response.
func (r *ScriptedRunner) dispatch(call Call) Response {
	r.mu.Lock()
	r.calls = append(r.calls, call)
	line := strings.Join(call.Argv, " ")
	var (
		resp    Response
		longest = -1
	)
	for prefix, candidate := range r.responses {
		if strings.HasPrefix(line, prefix) && len(prefix) > longest {
			resp, longest = candidate, len(prefix)
		}
	}
	onCall := r.OnCall
	r.mu.Unlock()

	if onCall != nil {
		onCall(call)
	}
	return resp
}
