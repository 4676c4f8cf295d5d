// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/luxoria/luxmktplacemgr/internal/config"
	"github.com/luxoria/luxmktplacemgr/internal/issue"
	"github.com/luxoria/luxmktplacemgr/internal/orchestrator"
	"github.com/luxoria/luxmktplacemgr/pkg/luxmod"
	"github.com/luxoria/luxmktplacemgr/pkg/platform"
	"github.com/luxoria/luxmktplacemgr/pkg/types"
)

// buildFlags override the matching config keys when set.
type buildFlags struct {
	output    string
	jobs      int
	timeout   time.Duration
	logDir    string
	toolchain string
	noReport  bool
}

func (f *buildFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.output, "output", "o", config.DefaultOutputDir, "bundle output directory")
	cmd.Flags().IntVarP(&f.jobs, "jobs", "j", 0, "modules built concurrently (0 = one per CPU)")
	cmd.Flags().DurationVar(&f.timeout, "timeout", config.DefaultBuildTimeout, "per-module build timeout")
	cmd.Flags().StringVar(&f.logDir, "log-dir", "", "build log directory (default <output>/logs)")
	cmd.Flags().StringVar(&f.toolchain, "toolchain", config.DefaultToolchain, "toolchain executable")
	cmd.Flags().BoolVar(&f.noReport, "no-report", false, "do not write "+orchestrator.ReportFileName)
}

// apply copies the flags the user set onto cfg.
func (f *buildFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	changed := cmd.Flags().Changed
	if changed("output") {
		cfg.OutputDir = f.output
	}
	if changed("jobs") {
		cfg.Jobs = f.jobs
	}
	if changed("timeout") {
		cfg.BuildTimeout = f.timeout
	}
	if changed("log-dir") {
		cfg.LogDir = f.logDir
	}
	if changed("toolchain") {
		cfg.Toolchain = f.toolchain
	}
}

// runBuild is the root command: validate inputs, run the batch, report.
func (a *App) runBuild(cmd *cobra.Command, flags *rootFlags, build *buildFlags, args []string) error {
	ctx := cmd.Context()

	plat, err := platform.Parse(args[0])
	if err != nil {
		return &ExitError{
			Code: types.ExitPlatformUnsupported,
			Err: newServiceError(err, issue.PlatformNotSupportedId,
				ErrorStyle.Render("Error: ")+err.Error()+"\n"),
		}
	}

	cfg, err := a.loadConfig(cmd, flags)
	if err != nil {
		return err
	}
	build.apply(cmd, cfg)
	if valid, errs := cfg.IsValid(); !valid {
		return &ExitError{
			Code: types.ExitUsage,
			Err: issue.NewErrorContext().
				WithOperation("validate options").
				WithSuggestion("Check the flag values against '" + config.AppName + " --help'").
				Wrap(errs[0]).
				BuildError(),
		}
	}

	a.verbose = flags.verbose || cfg.UI.Verbose
	logger := newLogger(a.stderr, a.verbose)
	if cfg.Source != "" {
		logger.Debug("loaded configuration", "file", cfg.Source)
	}

	outputDir, logDir, err := resolveDirs(cfg)
	if err != nil {
		return &ExitError{Code: types.ExitEnvironment, Err: err}
	}
	if cfg.Toolchain, err = resolveToolchain(cfg.Toolchain); err != nil {
		return &ExitError{Code: types.ExitEnvironment, Err: err}
	}

	report, err := a.Batches.Run(ctx, BatchRequest{
		Platform:   plat,
		ModulesDir: args[1],
		OutputDir:  outputDir,
		LogDir:     logDir,
		Config:     cfg,
		Logger:     logger,
	})
	if err != nil {
		return a.environmentExit(err)
	}

	var reportPath string
	if !build.noReport {
		reportPath = filepath.Join(outputDir, orchestrator.ReportFileName)
		if writeErr := report.WriteTOML(reportPath); writeErr != nil {
			logger.Warn("could not write batch report", "path", reportPath, "err", writeErr)
			reportPath = ""
		}
	}

	renderSummary(a.stdout, report)
	if a.verbose && reportPath != "" {
		fmt.Fprintln(a.stdout, VerboseStyle.Render("report: "+reportPath))
	}

	if report.OK() {
		if n := countKind(report, orchestrator.KindManifest); n > 0 {
			msg := fmt.Sprintf("%d module(s) skipped with an invalid %s", n, luxmod.FileName)
			a.renderServiceError(a.stderr, newServiceError(errors.New(msg), issue.ManifestInvalidId,
				"\n"+WarningStyle.Render(msg)+"\n"))
		}
		return nil
	}

	failed := report.Failed()
	msg := fmt.Sprintf("%d of %d module(s) failed", len(failed), len(report.Entries))
	return &ExitError{
		Code: types.ExitModuleFailed,
		Err: newServiceError(errors.New(msg), failureIssue(failed),
			"\n"+ErrorStyle.Render(msg)+"\n"),
	}
}

func countKind(report *orchestrator.Report, kind orchestrator.Kind) int {
	n := 0
	for _, e := range report.Entries {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

// failureIssue points at the toolchain guidance when no failed module could
// even start the toolchain.
func failureIssue(failed []orchestrator.Entry) issue.Id {
	for _, e := range failed {
		if e.Kind != orchestrator.KindExecutor {
			return issue.BuildFailedId
		}
	}
	return issue.ToolchainNotFoundId
}

// environmentExit maps a batch abort to exit code 4 with guidance.
func (a *App) environmentExit(err error) error {
	id := issue.OutputDirNotWritableId
	suggestions := []string{"Pass a writable directory with --output or --log-dir"}
	if envErr, ok := errors.AsType[*orchestrator.EnvironmentError](err); ok && envErr.Op != orchestrator.OpCreateOutput {
		id = issue.ModulesDirNotFoundId
		suggestions = []string{"Check that " + envErr.Path + " exists and is a readable directory"}
	}

	ae := issue.NewErrorContext().
		WithOperation("start batch").
		WithSuggestions(suggestions...).
		Wrap(err).
		Build()
	return &ExitError{
		Code: types.ExitEnvironment,
		Err:  newServiceError(ae, id, ErrorStyle.Render("Error: ")+ae.Format(a.verbose)+"\n"),
	}
}
