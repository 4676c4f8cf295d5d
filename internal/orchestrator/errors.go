// SPDX-License-Identifier: MPL-2.0

package orchestrator

import (
	"errors"
	"fmt"
)

// EnvironmentError operations.
const (
	OpReadModules    = "read modules directory"
	OpResolveModules = "resolve modules directory"
	OpCreateOutput   = "create output directory"
)

var (
	// ErrEnvironment is the sentinel error wrapped by EnvironmentError.
	ErrEnvironment = errors.New("environment failure")
	// ErrDuplicateName is the sentinel error wrapped by DuplicateNameError.
	ErrDuplicateName = errors.New("duplicate module name")
)

// EnvironmentError aborts a whole run: the modules root cannot be listed or
// the output root cannot be created.
type EnvironmentError struct {
	Op   string
	Path string
	Err  error
}

// Error implements the error interface.
func (e *EnvironmentError) Error() string {
	return fmt.Sprintf("cannot %s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns ErrEnvironment and the underlying cause.
func (e *EnvironmentError) Unwrap() []error { return []error{ErrEnvironment, e.Err} }

// DuplicateNameError fails a module whose manifest name an earlier directory
// already claimed for the batch architecture.
type DuplicateNameError struct {
	Name     string
	Dir      string
	FirstDir string
}

// Error implements the error interface.
func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("module name %q in %s is already used by %s", e.Name, e.Dir, e.FirstDir)
}

// Unwrap returns ErrDuplicateName.
func (e *DuplicateNameError) Unwrap() error { return ErrDuplicateName }
