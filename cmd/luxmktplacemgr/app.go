// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/luxoria/luxmktplacemgr/internal/config"
	"github.com/luxoria/luxmktplacemgr/internal/executor"
	"github.com/luxoria/luxmktplacemgr/internal/orchestrator"
	"github.com/luxoria/luxmktplacemgr/internal/packager"
	"github.com/luxoria/luxmktplacemgr/pkg/platform"
)

type (
	// App wires CLI services and shared dependencies. It is the composition root
	// for the CLI layer: Cobra handlers receive an App and delegate through its
	// service interfaces.
	App struct {
		Config  ConfigProvider
		Batches BatchRunner
		stdout  io.Writer
		stderr  io.Writer

		// Presentation settings resolved by the running command.
		verbose     bool
		colorScheme config.ColorScheme
	}

	// Dependencies defines the injection points for building an App. Nil fields
	// are replaced with production defaults by NewApp.
	Dependencies struct {
		Config  ConfigProvider
		Batches BatchRunner
		Stdout  io.Writer
		Stderr  io.Writer
	}

	// ConfigProvider loads configuration using explicit options.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error)
	}

	// BatchRequest is one build run as resolved from arguments, flags and config.
	BatchRequest struct {
		Platform   platform.Platform
		ModulesDir string
		OutputDir  string
		LogDir     string
		Config     *config.Config
		Logger     *log.Logger
	}

	// BatchRunner builds and packages every module of a request.
	BatchRunner interface {
		Run(ctx context.Context, req BatchRequest) (*orchestrator.Report, error)
	}

	// orchestratorRunner is the production BatchRunner.
	orchestratorRunner struct{}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) *App {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.Batches == nil {
		deps.Batches = orchestratorRunner{}
	}

	return &App{
		Config:      deps.Config,
		Batches:     deps.Batches,
		stdout:      deps.Stdout,
		stderr:      deps.Stderr,
		colorScheme: config.ColorSchemeAuto,
	}
}

// Run wires the executor and packager into an orchestrator and builds the batch.
func (orchestratorRunner) Run(ctx context.Context, req BatchRequest) (*orchestrator.Report, error) {
	if err := os.MkdirAll(req.LogDir, 0o755); err != nil {
		return nil, &orchestrator.EnvironmentError{Op: orchestrator.OpCreateOutput, Path: req.LogDir, Err: err}
	}

	if req.Logger == nil {
		req.Logger = log.New(io.Discard)
	}
	cfg := req.Config
	o := &orchestrator.Orchestrator{
		Builder: &executor.Executor{
			Toolchain: cfg.Toolchain,
			Timeout:   cfg.BuildTimeout,
			LogDir:    req.LogDir,
			TailLines: cfg.StderrTailLines,
			Logger:    req.Logger.WithPrefix("build"),
		},
		Exporter: &packager.Packager{
			BinaryInfix: cfg.BinaryInfix,
			Exclude:     cfg.Package.ExcludeStrings(),
			Logger:      req.Logger.WithPrefix("package"),
		},
		Jobs:   cfg.Jobs,
		Logger: req.Logger,
	}
	return o.BuildAll(ctx, req.ModulesDir, req.Platform, req.OutputDir)
}

// resolveDirs returns the absolute output and log directories for cfg.
func resolveDirs(cfg *config.Config) (outputDir, logDir string, err error) {
	outputDir, err = filepath.Abs(cfg.OutputDir)
	if err != nil {
		return "", "", fmt.Errorf("resolve output directory: %w", err)
	}
	logDir = cfg.LogDir
	if logDir == "" {
		logDir = filepath.Join(outputDir, "logs")
	}
	if logDir, err = filepath.Abs(logDir); err != nil {
		return "", "", fmt.Errorf("resolve log directory: %w", err)
	}
	return outputDir, logDir, nil
}

// resolveToolchain makes a relative toolchain path absolute. Builds run inside
// their module directory. Bare names are left for PATH lookup.
func resolveToolchain(toolchain string) (string, error) {
	if !strings.ContainsAny(toolchain, `/\`) || filepath.IsAbs(toolchain) {
		return toolchain, nil
	}
	abs, err := filepath.Abs(toolchain)
	if err != nil {
		return "", fmt.Errorf("resolve toolchain path: %w", err)
	}
	return abs, nil
}
