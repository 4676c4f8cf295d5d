// SPDX-License-Identifier: MPL-2.0

package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/luxoria/luxmktplacemgr/pkg/luxmod"
	"github.com/luxoria/luxmktplacemgr/pkg/types"
)

const (
	// DefaultToolchain is the toolchain executable looked up in PATH.
	DefaultToolchain = "dotnet"
	// DefaultTailLines is how many stderr lines are echoed on failure.
	DefaultTailLines = 20

	// waitDelay bounds how long Wait keeps draining pipes after the process
	// was killed; grandchildren may hold them open.
	waitDelay = 5 * time.Second

	exitNotStarted = "not started"
)

// Executor runs the toolchain for one module at a time. It holds no
// per-build state and is safe for concurrent use.
type Executor struct {
	// Toolchain is the executable name or path. Defaults to DefaultToolchain.
	Toolchain string
	// Timeout bounds a single build. Zero means no timeout.
	Timeout time.Duration
	// LogDir receives the <name>.<arch>.log files.
	LogDir string
	// TailLines is the number of stderr lines echoed to the logger on failure.
	TailLines int
	Logger    *log.Logger
}

func (e *Executor) toolchain() string {
	if e.Toolchain == "" {
		return DefaultToolchain
	}
	return e.Toolchain
}

func (e *Executor) logger() *log.Logger {
	if e.Logger == nil {
		return log.New(io.Discard)
	}
	return e.Logger
}

func (e *Executor) tailLines() int {
	if e.TailLines <= 0 {
		return DefaultTailLines
	}
	return e.TailLines
}

// Run builds m for req.Arch in req.ModuleDir. It never returns nil; failures
// are reported in Result.Err.
//
// The build is detached from ctx cancellation: a shutdown request lets a
// running build finish, and only Timeout kills it.
func (e *Executor) Run(ctx context.Context, m *luxmod.Manifest, req Request) *Result {
	logger := e.logger().With("module", m.Name, "arch", req.Arch)
	res := &Result{LogPath: filepath.Join(e.LogDir, LogFileName(m.Name, string(req.Arch)))}
	entry := LogEntry{Dir: req.ModuleDir, ExitCode: exitNotStarted}

	argv, err := Command(e.toolchain(), m, req.Arch)
	if err != nil {
		res.Err = &ExecutorError{Module: m.Name, Toolchain: e.toolchain(), Err: err}
		entry.Error = res.Err.Error()
		e.finish(logger, res, entry)
		return res
	}
	res.CommandLine = CommandLine(argv)
	entry.CommandLine = res.CommandLine

	runCtx := context.WithoutCancel(ctx)
	if e.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(runCtx, e.Timeout)
		defer cancel()
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(runCtx, argv[0], argv[1:]...)
	cmd.Dir = req.ModuleDir
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = waitDelay
	setProcessGroup(cmd)

	logger.Debug("running toolchain", "command", res.CommandLine, "dir", req.ModuleDir)
	start := time.Now()
	runErr := cmd.Run()
	res.Duration = time.Since(start)

	res.Stdout = stdout.String()
	res.Stderr = stderr.String()
	res.Launched = cmd.Process != nil
	entry.Stdout = res.Stdout
	entry.Stderr = res.Stderr

	e.classify(runCtx, res, &entry, m.Name, cmd, runErr)
	e.finish(logger, res, entry)
	return res
}

func (e *Executor) classify(runCtx context.Context, res *Result, entry *LogEntry, module string, cmd *exec.Cmd, runErr error) {
	if cmd.ProcessState != nil {
		res.ExitCode = types.ExitCode(cmd.ProcessState.ExitCode())
		entry.ExitCode = res.ExitCode.String()
	}

	switch {
	case runErr == nil:
		return
	case res.Launched && errors.Is(runCtx.Err(), context.DeadlineExceeded):
		res.TimedOut = true
		res.Err = &BuildTimeout{Module: module, Timeout: e.Timeout, LogPath: res.LogPath}
		entry.ExitCode = fmt.Sprintf("killed after %s", e.Timeout)
	case !res.Launched:
		res.Err = &ExecutorError{Module: module, Toolchain: e.toolchain(), Err: runErr}
	default:
		if _, ok := errors.AsType[*exec.ExitError](runErr); ok {
			if res.ExitCode.IsSuccess() {
				// Killed by a signal reports -1; never let that read as success.
				res.ExitCode = 1
			}
			res.Err = &BuildFailure{Module: module, ExitCode: res.ExitCode, LogPath: res.LogPath}
			return
		}
		// I/O errors after the process exited, e.g. exec.ErrWaitDelay.
		res.Err = &ExecutorError{Module: module, Toolchain: e.toolchain(), Err: runErr}
	}
	entry.Error = res.Err.Error()
}

// finish writes the build log and echoes a failure summary.
func (e *Executor) finish(logger *log.Logger, res *Result, entry LogEntry) {
	if err := WriteLog(res.LogPath, entry); err != nil {
		logger.Error("cannot write build log", "path", res.LogPath, "err", err)
		res.Err = errors.Join(res.Err, err)
	}

	if res.Succeeded() {
		logger.Debug("build succeeded", "duration", res.Duration.Round(time.Millisecond))
		return
	}

	logger.Error("build failed", "err", res.Err, "log", res.LogPath)
	for _, line := range Tail(res.Stderr, e.tailLines()) {
		logger.Error("  " + line)
	}
}
