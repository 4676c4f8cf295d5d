// SPDX-License-Identifier: MPL-2.0

package executor

import (
	"errors"
	"fmt"
	"time"

	"github.com/luxoria/luxmktplacemgr/pkg/types"
)

var (
	// ErrExecutor is the sentinel error wrapped by ExecutorError.
	ErrExecutor = errors.New("toolchain could not be started")
	// ErrBuildFailed is the sentinel error wrapped by BuildFailure.
	ErrBuildFailed = errors.New("build failed")
	// ErrBuildTimeout is the sentinel error wrapped by BuildTimeout.
	ErrBuildTimeout = errors.New("build timed out")
)

type (
	// ExecutorError means the toolchain process never ran: the executable is
	// missing, not runnable, or the module has no runtime for the arch.
	ExecutorError struct {
		Module    string
		Toolchain string
		Err       error
	}

	// BuildFailure means the toolchain ran and exited non-zero.
	BuildFailure struct {
		Module   string
		ExitCode types.ExitCode
		LogPath  string
	}

	// BuildTimeout means the toolchain was killed after exceeding its timeout.
	BuildTimeout struct {
		Module  string
		Timeout time.Duration
		LogPath string
	}
)

// Error implements the error interface.
func (e *ExecutorError) Error() string {
	return fmt.Sprintf("%s: cannot run %q: %v", e.Module, e.Toolchain, e.Err)
}

// Unwrap returns ErrExecutor and the underlying cause.
func (e *ExecutorError) Unwrap() []error { return []error{ErrExecutor, e.Err} }

// Error implements the error interface.
func (e *BuildFailure) Error() string {
	return fmt.Sprintf("%s: build exited with code %d (log: %s)", e.Module, e.ExitCode, e.LogPath)
}

// Unwrap returns ErrBuildFailed for errors.Is() compatibility.
func (e *BuildFailure) Unwrap() error { return ErrBuildFailed }

// Error implements the error interface.
func (e *BuildTimeout) Error() string {
	return fmt.Sprintf("%s: build killed after %s (log: %s)", e.Module, e.Timeout, e.LogPath)
}

// Unwrap returns ErrBuildTimeout for errors.Is() compatibility.
func (e *BuildTimeout) Unwrap() error { return ErrBuildTimeout }
