// SPDX-License-Identifier: MPL-2.0

package executor

import (
	"time"

	"github.com/luxoria/luxmktplacemgr/pkg/platform"
	"github.com/luxoria/luxmktplacemgr/pkg/types"
)

type (
	// Request identifies one build: a module directory and its target.
	Request struct {
		ModuleDir string
		Platform  platform.Platform
		Arch      platform.Arch
	}

	// Result is the outcome of one toolchain run.
	Result struct {
		ExitCode    types.ExitCode
		Stdout      string
		Stderr      string
		LogPath     string
		CommandLine string
		// Launched is false when the process never started.
		Launched bool
		TimedOut bool
		Duration time.Duration
		// Err is nil on success, otherwise *ExecutorError, *BuildTimeout or
		// *BuildFailure. A failure to write the log file is joined to it.
		Err error
	}
)

// Succeeded reports whether the toolchain ran to completion with exit code 0.
func (r *Result) Succeeded() bool {
	return r != nil && r.Launched && !r.TimedOut && r.ExitCode.IsSuccess() && r.Err == nil
}
