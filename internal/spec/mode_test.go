// SPDX-License-Identifier: MPL-2.0

package spec_test

import (
	"errors"
	"testing"

	"github.com/Mic92/nix-hyperfine/internal/spec"
)

func TestMode_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		mode  spec.Mode
		valid bool
	}{
		{name: "build", mode: spec.ModeBuild, valid: true},
		{name: "eval", mode: spec.ModeEval, valid: true},
		{name: "empty", mode: spec.Mode(""), valid: false},
		{name: "unknown", mode: spec.Mode("bench"), valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			valid, errs := tt.mode.IsValid()
			if valid != tt.valid {
				t.Errorf("Mode(%q).IsValid() = %v, want %v", tt.mode, valid, tt.valid)
			}
			if !tt.valid {
				if len(errs) != 1 {
					t.Fatalf("Mode(%q).IsValid() returned %d errors, want 1", tt.mode, len(errs))
				}
				if !errors.Is(errs[0], spec.ErrInvalidMode) {
					t.Errorf("Mode(%q).IsValid() error does not wrap ErrInvalidMode", tt.mode)
				}
			}
		})
	}
}
