// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
)

const (
	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"

	// DefaultToolchain is the toolchain executable looked up in PATH.
	DefaultToolchain = "dotnet"
	// DefaultOutputDir is the bundle output root.
	DefaultOutputDir = "out"
	// DefaultBuildTimeout bounds a single module build.
	DefaultBuildTimeout = 30 * time.Minute
	// DefaultStderrTailLines is the number of stderr lines echoed on failure.
	DefaultStderrTailLines = 20
	// DefaultBinaryInfix is inserted before the binary's extension.
	DefaultBinaryInfix = ".Lux"
)

var (
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidExcludePattern is returned when an exclude pattern is not a valid glob.
	ErrInvalidExcludePattern = errors.New("invalid exclude pattern")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// ExcludePattern is a doublestar glob matched against bundle file paths.
	ExcludePattern string

	// InvalidExcludePatternError is returned when an ExcludePattern does not parse.
	InvalidExcludePatternError struct {
		Value ExcludePattern
	}

	// InvalidConfigError collects field-level validation errors of a Config.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// PackageConfig configures bundle assembly.
	PackageConfig struct {
		Exclude []ExcludePattern `json:"exclude" mapstructure:"exclude"`
	}

	// UIConfig configures console output.
	UIConfig struct {
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme"`
		Verbose     bool        `json:"verbose" mapstructure:"verbose"`
	}

	// Config is the effective application configuration.
	Config struct {
		Toolchain       string        `json:"toolchain" mapstructure:"toolchain"`
		OutputDir       string        `json:"output_dir" mapstructure:"output_dir"`
		LogDir          string        `json:"log_dir" mapstructure:"log_dir"`
		Jobs            int           `json:"jobs" mapstructure:"jobs"`
		BuildTimeout    time.Duration `json:"build_timeout" mapstructure:"build_timeout"`
		StderrTailLines int           `json:"stderr_tail_lines" mapstructure:"stderr_tail_lines"`
		BinaryInfix     string        `json:"binary_infix" mapstructure:"binary_infix"`
		Package         PackageConfig `json:"package" mapstructure:"package"`
		UI              UIConfig      `json:"ui" mapstructure:"ui"`

		// Source is the config file the values were read from; empty when
		// only defaults and environment apply.
		Source string `json:"-" mapstructure:"-"`
	}
)

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Toolchain:       DefaultToolchain,
		OutputDir:       DefaultOutputDir,
		BuildTimeout:    DefaultBuildTimeout,
		StderrTailLines: DefaultStderrTailLines,
		BinaryInfix:     DefaultBinaryInfix,
		Package:         PackageConfig{Exclude: []ExcludePattern{}},
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
		},
	}
}

// ExcludeStrings returns the exclude patterns as plain strings.
func (c PackageConfig) ExcludeStrings() []string {
	out := make([]string, len(c.Exclude))
	for i, p := range c.Exclude {
		out[i] = string(p)
	}
	return out
}

// IsValid returns whether the Config has valid fields, and the field errors
// wrapped in an *InvalidConfigError if it does not.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if strings.TrimSpace(c.Toolchain) == "" {
		errs = append(errs, errors.New("toolchain must not be empty"))
	}
	if strings.TrimSpace(c.OutputDir) == "" {
		errs = append(errs, errors.New("output_dir must not be empty"))
	}
	if c.Jobs < 0 {
		errs = append(errs, fmt.Errorf("jobs must be >= 0, got %d", c.Jobs))
	}
	if c.BuildTimeout < 0 {
		errs = append(errs, fmt.Errorf("build_timeout must not be negative, got %s", c.BuildTimeout))
	}
	if c.StderrTailLines <= 0 {
		errs = append(errs, fmt.Errorf("stderr_tail_lines must be > 0, got %d", c.StderrTailLines))
	}
	if !strings.HasPrefix(c.BinaryInfix, ".") || len(c.BinaryInfix) < 2 || strings.ContainsAny(c.BinaryInfix, `/\`) {
		errs = append(errs, fmt.Errorf("binary_infix must look like \".Lux\", got %q", c.BinaryInfix))
	}
	for _, p := range c.Package.Exclude {
		if valid, fieldErrs := p.IsValid(); !valid {
			errs = append(errs, fieldErrs...)
		}
	}
	if valid, fieldErrs := c.UI.ColorScheme.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	msgs := make([]string, len(e.FieldErrors))
	for i, err := range e.FieldErrors {
		msgs[i] = err.Error()
	}
	return "invalid config: " + strings.Join(msgs, "; ")
}

// Unwrap returns ErrInvalidConfig for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

// Error implements the error interface for InvalidColorSchemeError.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidColorSchemeError) Unwrap() error { return ErrInvalidColorScheme }

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

// Error implements the error interface for InvalidExcludePatternError.
func (e *InvalidExcludePatternError) Error() string {
	return fmt.Sprintf("invalid exclude pattern %q", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidExcludePatternError) Unwrap() error { return ErrInvalidExcludePattern }

// IsValid returns whether the pattern is a valid doublestar glob.
func (p ExcludePattern) IsValid() (bool, []error) {
	if p == "" || !doublestar.ValidatePattern(string(p)) {
		return false, []error{&InvalidExcludePatternError{Value: p}}
	}
	return true, nil
}
