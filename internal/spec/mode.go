// SPDX-License-Identifier: MPL-2.0

package spec

import (
	"errors"
	"fmt"
)

const (
	// ModeBuild benchmarks full derivation builds (the default).
	ModeBuild Mode = "build"
	// ModeEval benchmarks evaluation only, without building.
	ModeEval Mode = "eval"
)

// ErrInvalidMode is the sentinel error wrapped by InvalidModeError.
var ErrInvalidMode = errors.New("invalid benchmark mode")

type (
	// Mode selects what a benchmark run measures: building the derivation
	// or merely evaluating it.
	Mode string

	// InvalidModeError is returned when a Mode value is not recognized.
	// It wraps ErrInvalidMode for errors.Is() compatibility.
	InvalidModeError struct {
		Value Mode
	}
)

// Error implements the error interface for InvalidModeError.
func (e *InvalidModeError) Error() string {
	return fmt.Sprintf("invalid benchmark mode %q (valid: build, eval)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidModeError) Unwrap() error { return ErrInvalidMode }

// String returns the string representation of the Mode.
func (m Mode) String() string { return string(m) }

// IsValid returns whether the Mode is one of the defined benchmark modes,
// and a list of validation errors if it is not.
func (m Mode) IsValid() (bool, []error) {
	switch m {
	case ModeBuild, ModeEval:
		return true, nil
	default:
		return false, []error{&InvalidModeError{Value: m}}
	}
}
