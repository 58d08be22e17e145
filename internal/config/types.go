// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"

	// defaultBatchSize caps how many store paths one nix-store --realise call
	// receives. Defined locally to avoid coupling config to internal/nix.
	defaultBatchSize BatchSize = 100

	// defaultExperimentalFeatures is the feature set required by the
	// flake-style nix subcommands. Defined locally to avoid coupling config
	// to internal/nix.
	defaultExperimentalFeatures = "nix-command flakes"
)

var (
	// ErrInvalidCommandPath is returned when a CommandPath value is whitespace-only.
	ErrInvalidCommandPath = errors.New("invalid command path")
	// ErrInvalidBatchSize is returned when a BatchSize value is not positive.
	ErrInvalidBatchSize = errors.New("invalid batch size")
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidNixConfig is the sentinel error wrapped by InvalidNixConfigError.
	ErrInvalidNixConfig = errors.New("invalid nix config")
	// ErrInvalidHyperfineConfig is the sentinel error wrapped by InvalidHyperfineConfigError.
	ErrInvalidHyperfineConfig = errors.New("invalid hyperfine config")
	// ErrInvalidUIConfig is the sentinel error wrapped by InvalidUIConfigError.
	ErrInvalidUIConfig = errors.New("invalid UI config")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// CommandPath names the executable used to invoke an external tool,
	// resolved through PATH when not absolute. The zero value ("") is valid
	// and means "use the built-in default for that tool".
	CommandPath string

	// InvalidCommandPathError is returned when a CommandPath value is
	// non-empty but whitespace-only.
	InvalidCommandPathError struct {
		Value CommandPath
	}

	// BatchSize bounds how many store paths are realised per nix-store
	// invocation. A valid batch size is positive.
	BatchSize int

	// InvalidBatchSizeError is returned when a BatchSize value is zero or
	// negative. It wraps ErrInvalidBatchSize for errors.Is() compatibility.
	InvalidBatchSizeError struct {
		Value BatchSize
	}

	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	// It wraps ErrInvalidColorScheme for errors.Is() compatibility.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// InvalidNixConfigError is returned when a NixConfig has invalid fields.
	// It wraps ErrInvalidNixConfig for errors.Is() compatibility and collects
	// field-level validation errors.
	InvalidNixConfigError struct {
		FieldErrors []error
	}

	// InvalidHyperfineConfigError is returned when a HyperfineConfig has invalid
	// fields. It wraps ErrInvalidHyperfineConfig for errors.Is() compatibility
	// and collects field-level validation errors.
	InvalidHyperfineConfigError struct {
		FieldErrors []error
	}

	// InvalidUIConfigError is returned when a UIConfig has invalid fields.
	// It wraps ErrInvalidUIConfig for errors.Is() compatibility and collects
	// field-level validation errors.
	InvalidUIConfigError struct {
		FieldErrors []error
	}

	// InvalidConfigError is returned when a Config has invalid fields.
	// It wraps ErrInvalidConfig for errors.Is() compatibility and collects
	// field-level validation errors from all sub-components.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		// Nix configures how the Nix tools are invoked.
		Nix NixConfig `json:"nix" mapstructure:"nix"`
		// Hyperfine configures the benchmark runner.
		Hyperfine HyperfineConfig `json:"hyperfine" mapstructure:"hyperfine"`
		// UI configures the user interface.
		UI UIConfig `json:"ui" mapstructure:"ui"`
	}

	// NixConfig configures the Nix side of a benchmark run.
	NixConfig struct {
		// Command is the executable used for flake-style invocations.
		Command CommandPath `json:"command" mapstructure:"command"`
		// ExperimentalFeatures is the space-separated feature list passed via
		// --extra-experimental-features on every flake-style invocation.
		ExperimentalFeatures string `json:"experimental_features" mapstructure:"experimental_features"`
		// BatchSize caps how many dependency derivations are realised per
		// nix-store call.
		BatchSize BatchSize `json:"batch_size" mapstructure:"batch_size"`
	}

	// HyperfineConfig configures the hyperfine invocation.
	HyperfineConfig struct {
		// Command is the hyperfine executable to run.
		Command CommandPath `json:"command" mapstructure:"command"`
		// DefaultArgs are placed before any passthrough arguments on every
		// hyperfine invocation.
		DefaultArgs []string `json:"default_args" mapstructure:"default_args"`
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		// ColorScheme sets the color scheme
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme"`
		// Verbose enables verbose output
		Verbose bool `json:"verbose" mapstructure:"verbose"`
	}
)

// IsValid returns whether the NixConfig has valid fields.
// It delegates to Command.IsValid() and BatchSize.IsValid();
// ExperimentalFeatures is free-form and needs no validation.
func (c NixConfig) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.Command.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.BatchSize.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidNixConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidNixConfigError.
func (e *InvalidNixConfigError) Error() string {
	return fmt.Sprintf("invalid nix config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidNixConfig for errors.Is() compatibility.
func (e *InvalidNixConfigError) Unwrap() error { return ErrInvalidNixConfig }

// IsValid returns whether the HyperfineConfig has valid fields.
// It delegates to Command.IsValid(); DefaultArgs entries are passed to
// hyperfine verbatim and need no validation here.
func (c HyperfineConfig) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.Command.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidHyperfineConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidHyperfineConfigError.
func (e *InvalidHyperfineConfigError) Error() string {
	return fmt.Sprintf("invalid hyperfine config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidHyperfineConfig for errors.Is() compatibility.
func (e *InvalidHyperfineConfigError) Unwrap() error { return ErrInvalidHyperfineConfig }

// IsValid returns whether the UIConfig has valid fields.
// It delegates to ColorScheme.IsValid(); bool fields need no validation.
func (c UIConfig) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.ColorScheme.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidUIConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidUIConfigError.
func (e *InvalidUIConfigError) Error() string {
	return fmt.Sprintf("invalid UI config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidUIConfig for errors.Is() compatibility.
func (e *InvalidUIConfigError) Unwrap() error { return ErrInvalidUIConfig }

// IsValid returns whether the Config has valid fields.
// It delegates to Nix.IsValid(), Hyperfine.IsValid(), and UI.IsValid().
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.Nix.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Hyperfine.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.UI.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidConfig for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

// String returns the string representation of the CommandPath.
func (p CommandPath) String() string { return string(p) }

// OrDefault returns the CommandPath as a plain string, substituting def for
// the zero value.
func (p CommandPath) OrDefault(def string) string {
	if p == "" {
		return def
	}
	return string(p)
}

// IsValid returns whether the CommandPath is valid.
// The zero value ("") is valid (means "use the built-in default").
// Non-zero values must not be whitespace-only.
func (p CommandPath) IsValid() (bool, []error) {
	if p == "" {
		return true, nil
	}
	if strings.TrimSpace(string(p)) == "" {
		return false, []error{&InvalidCommandPathError{Value: p}}
	}
	return true, nil
}

// Error implements the error interface for InvalidCommandPathError.
func (e *InvalidCommandPathError) Error() string {
	return fmt.Sprintf("invalid command path %q: non-empty value must not be whitespace-only", e.Value)
}

// Unwrap returns ErrInvalidCommandPath for errors.Is() compatibility.
func (e *InvalidCommandPathError) Unwrap() error { return ErrInvalidCommandPath }

// Int returns the BatchSize as a plain int.
func (b BatchSize) Int() int { return int(b) }

// IsValid returns whether the BatchSize is valid.
// A valid batch size is positive.
func (b BatchSize) IsValid() (bool, []error) {
	if b <= 0 {
		return false, []error{&InvalidBatchSizeError{Value: b}}
	}
	return true, nil
}

// Error implements the error interface for InvalidBatchSizeError.
func (e *InvalidBatchSizeError) Error() string {
	return fmt.Sprintf("invalid batch size %d: must be positive", e.Value)
}

// Unwrap returns ErrInvalidBatchSize for errors.Is() compatibility.
func (e *InvalidBatchSizeError) Unwrap() error { return ErrInvalidBatchSize }

// String returns the string representation of the ColorScheme.
func (cs ColorScheme) String() string { return string(cs) }

// IsValid returns whether the ColorScheme is one of the defined color schemes,
// and a list of validation errors if it is not.
func (cs ColorScheme) IsValid() (bool, []error) {
	switch cs {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return true, nil
	default:
		return false, []error{&InvalidColorSchemeError{Value: cs}}
	}
}

// Error implements the error interface for InvalidColorSchemeError.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidColorSchemeError) Unwrap() error {
	return ErrInvalidColorScheme
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Nix: NixConfig{
			Command:              "nix",
			ExperimentalFeatures: defaultExperimentalFeatures,
			BatchSize:            defaultBatchSize,
		},
		Hyperfine: HyperfineConfig{
			Command:     "hyperfine",
			DefaultArgs: []string{},
		},
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
			Verbose:     false,
		},
	}
}
