// SPDX-License-Identifier: MPL-2.0

package run_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/Mic92/nix-hyperfine/internal/run"
)

func TestExitCodeIsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		code  run.ExitCode
		valid bool
	}{
		{"success", 0, true},
		{"generic failure", 1, true},
		{"interrupt", 130, true},
		{"upper bound", 255, true},
		{"negative", -1, false},
		{"above posix range", 256, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			valid, errs := tt.code.IsValid()
			if valid != tt.valid {
				t.Errorf("IsValid() = %v, want %v", valid, tt.valid)
			}
			if tt.valid {
				if len(errs) != 0 {
					t.Errorf("valid code returned errors: %v", errs)
				}
				return
			}
			if len(errs) != 1 {
				t.Fatalf("invalid code returned %d errors, want 1", len(errs))
			}
			if !errors.Is(errs[0], run.ErrInvalidExitCode) {
				t.Errorf("error %v does not wrap ErrInvalidExitCode", errs[0])
			}
			var icErr *run.InvalidExitCodeError
			if !errors.As(errs[0], &icErr) {
				t.Fatalf("error %v is not an *InvalidExitCodeError", errs[0])
			}
			if icErr.Value != tt.code {
				t.Errorf("InvalidExitCodeError.Value = %d, want %d", icErr.Value, tt.code)
			}
		})
	}
}

func TestExitCodePredicates(t *testing.T) {
	t.Parallel()

	if !run.ExitCode(0).IsSuccess() {
		t.Error("ExitCode(0).IsSuccess() = false")
	}
	if run.ExitCode(1).IsSuccess() {
		t.Error("ExitCode(1).IsSuccess() = true")
	}
	if !run.ExitCode(130).IsInterrupt() {
		t.Error("ExitCode(130).IsInterrupt() = false")
	}
	if run.ExitCode(1).IsInterrupt() {
		t.Error("ExitCode(1).IsInterrupt() = true")
	}
	if got := run.ExitCode(42).String(); got != "42" {
		t.Errorf("ExitCode(42).String() = %q, want %q", got, "42")
	}
}

func TestCommandErrorMessage(t *testing.T) {
	t.Parallel()

	t.Run("includes command and stderr", func(t *testing.T) {
		t.Parallel()

		err := &run.CommandError{
			Argv:     []string{"nix-store", "--realise", "/nix/store/x.drv"},
			ExitCode: 1,
			Stderr:   "error: builder failed\n",
		}
		msg := err.Error()
		if !strings.Contains(msg, "nix-store --realise /nix/store/x.drv") {
			t.Errorf("message %q missing the failed command", msg)
		}
		if !strings.Contains(msg, "error: builder failed") {
			t.Errorf("message %q missing stderr", msg)
		}
		if strings.HasSuffix(msg, "\n") {
			t.Errorf("message %q carries a trailing newline", msg)
		}
		if !errors.Is(err, run.ErrCommandFailed) {
			t.Error("CommandError does not wrap ErrCommandFailed")
		}
	})

	t.Run("whitespace-only stderr omitted", func(t *testing.T) {
		t.Parallel()

		err := &run.CommandError{Argv: []string{"git", "rev-parse", "HEAD"}, ExitCode: 128, Stderr: "  \n"}
		if got, want := err.Error(), "command failed: git rev-parse HEAD"; got != want {
			t.Errorf("Error() = %q, want %q", got, want)
		}
	})
}

func TestOutputLines(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		stdout string
		want   []string
	}{
		{"empty", "", nil},
		{"single line with newline", "/nix/store/a.drv\n", []string{"/nix/store/a.drv"}},
		{
			name:   "blank lines and padding dropped",
			stdout: "/nix/store/a.drv\n\n  /nix/store/b.drv  \n\n",
			want:   []string{"/nix/store/a.drv", "/nix/store/b.drv"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := run.Output{Stdout: tt.stdout}.Lines()
			if len(got) != len(tt.want) {
				t.Fatalf("Lines() = %q, want %q", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Lines()[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}
