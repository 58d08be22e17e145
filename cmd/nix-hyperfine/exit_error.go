// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/Mic92/nix-hyperfine/internal/run"
)

// ExitError signals a non-zero exit code without forcing os.Exit in RunE
// handlers. Execute unwraps it and exits with the carried code, so
// hyperfine's own exit status (and 130 on interrupt) propagates unchanged.
type ExitError struct {
	Code run.ExitCode
	Err  error
}

// Error returns the error message for ExitError.
func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

// Unwrap returns the underlying error, if any.
func (e *ExitError) Unwrap() error {
	return e.Err
}
