// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/luxoria/luxmktplacemgr/internal/config"
	"github.com/luxoria/luxmktplacemgr/internal/issue"
	"github.com/luxoria/luxmktplacemgr/internal/orchestrator"
	"github.com/luxoria/luxmktplacemgr/pkg/platform"
	"github.com/luxoria/luxmktplacemgr/pkg/types"
)

type (
	stubConfig struct {
		cfg *config.Config
		err error
	}

	recordingRunner struct {
		called  bool
		req     BatchRequest
		entries []orchestrator.Entry
		err     error
	}
)

func (s stubConfig) Load(context.Context, config.LoadOptions) (*config.Config, error) {
	if s.err != nil {
		return nil, s.err
	}
	cfg := *s.cfg
	return &cfg, nil
}

func (r *recordingRunner) Run(_ context.Context, req BatchRequest) (*orchestrator.Report, error) {
	r.called = true
	r.req = req
	if r.err != nil {
		return nil, r.err
	}
	now := time.Now()
	return &orchestrator.Report{
		RunID:      "test-run",
		Platform:   req.Platform,
		Arch:       req.Platform.Arch(),
		RootDir:    req.ModulesDir,
		OutputRoot: req.OutputDir,
		StartedAt:  now,
		FinishedAt: now,
		Entries:    r.entries,
	}, nil
}

func newTestApp(t *testing.T, runner BatchRunner) (*App, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.OutputDir = filepath.Join(t.TempDir(), "out")
	var stdout, stderr bytes.Buffer
	app := NewApp(Dependencies{
		Config:  stubConfig{cfg: cfg},
		Batches: runner,
		Stdout:  &stdout,
		Stderr:  &stderr,
	})
	return app, &stdout, &stderr
}

func TestGetVersionString(t *testing.T) {
	// Not parallel: subtests mutate package-level Version/Commit/BuildDate vars.

	t.Run("ldflags version takes priority", func(t *testing.T) {
		origVersion, origCommit, origBuildDate := Version, Commit, BuildDate
		t.Cleanup(func() {
			Version, Commit, BuildDate = origVersion, origCommit, origBuildDate
		})

		Version = "v1.2.3"
		Commit = "abc1234"
		BuildDate = "2026-03-01T10:00:00Z"

		want := "v1.2.3 (commit: abc1234, built: 2026-03-01T10:00:00Z)"
		if got := getVersionString(); got != want {
			t.Errorf("getVersionString() = %q, want %q", got, want)
		}
	})

	t.Run("fallback to dev when no build info", func(t *testing.T) {
		origVersion := Version
		t.Cleanup(func() { Version = origVersion })

		// Test binaries report "(devel)" as their main module version.
		Version = "dev"
		if got := getVersionString(); got != "dev (built from source)" {
			t.Errorf("getVersionString() = %q, want dev fallback", got)
		}
	})
}

func TestRun_ExitCodes(t *testing.T) {
	t.Parallel()

	modulesDir := t.TempDir()

	tests := []struct {
		name       string
		args       []string
		runner     *recordingRunner
		config     *stubConfig
		want       types.ExitCode
		wantCalled bool
	}{
		{
			name:   "no arguments",
			args:   nil,
			runner: &recordingRunner{},
			want:   types.ExitUsage,
		},
		{
			name:   "too many arguments",
			args:   []string{"win-x64", modulesDir, "extra"},
			runner: &recordingRunner{},
			want:   types.ExitUsage,
		},
		{
			name:   "bad flag value",
			args:   []string{"--jobs", "many", "win-x64", modulesDir},
			runner: &recordingRunner{},
			want:   types.ExitUsage,
		},
		{
			name:   "negative jobs",
			args:   []string{"--jobs", "-1", "win-x64", modulesDir},
			runner: &recordingRunner{},
			want:   types.ExitUsage,
		},
		{
			name:   "unknown platform",
			args:   []string{"linux-x64", modulesDir},
			runner: &recordingRunner{},
			want:   types.ExitPlatformUnsupported,
		},
		{
			name:   "config failure",
			args:   []string{"win-x64", modulesDir},
			runner: &recordingRunner{},
			config: &stubConfig{err: errors.New("broken config")},
			want:   types.ExitUsage,
		},
		{
			name: "environment failure",
			args: []string{"win-x64", modulesDir},
			runner: &recordingRunner{err: &orchestrator.EnvironmentError{
				Op: orchestrator.OpCreateOutput, Path: "/out", Err: os.ErrPermission,
			}},
			want:       types.ExitEnvironment,
			wantCalled: true,
		},
		{
			name: "module failed",
			args: []string{"win-x64", modulesDir},
			runner: &recordingRunner{entries: []orchestrator.Entry{
				{Module: "A", Status: orchestrator.StatusPackaged},
				{Module: "D", Status: orchestrator.StatusFailed, Kind: orchestrator.KindBuild, Detail: "exit 1"},
			}},
			want:       types.ExitModuleFailed,
			wantCalled: true,
		},
		{
			name: "skips only",
			args: []string{"win-x64", modulesDir},
			runner: &recordingRunner{entries: []orchestrator.Entry{
				{Module: "A", Status: orchestrator.StatusPackaged},
				{Module: "B", Status: orchestrator.StatusSkipped, Kind: orchestrator.KindManifestMissing, Detail: "manifest missing"},
			}},
			want:       types.ExitSuccess,
			wantCalled: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			app, _, _ := newTestApp(t, tt.runner)
			if tt.config != nil {
				app.Config = *tt.config
			}

			if got := run(t.Context(), app, tt.args); got != tt.want {
				t.Errorf("run(%v) = %d, want %d", tt.args, got, tt.want)
			}
			if tt.runner.called != tt.wantCalled {
				t.Errorf("runner called = %v, want %v", tt.runner.called, tt.wantCalled)
			}
		})
	}
}

func TestRun_FlagsOverrideConfig(t *testing.T) {
	t.Parallel()

	runner := &recordingRunner{}
	app, _, _ := newTestApp(t, runner)
	out := filepath.Join(t.TempDir(), "dist")
	logs := filepath.Join(t.TempDir(), "logs")

	args := []string{"-o", out, "-j", "3", "--timeout", "90s", "--log-dir", logs, "--toolchain", "/opt/dotnet", "--no-report", "win-arm64", "mods"}
	if got := run(t.Context(), app, args); got != types.ExitSuccess {
		t.Fatalf("run() = %d, want success", got)
	}

	req := runner.req
	if req.Platform != platform.WinArm64 {
		t.Errorf("Platform = %q, want win-arm64", req.Platform)
	}
	if req.ModulesDir != "mods" {
		t.Errorf("ModulesDir = %q, want mods", req.ModulesDir)
	}
	if req.OutputDir != out || req.LogDir != logs {
		t.Errorf("dirs = %q, %q, want %q, %q", req.OutputDir, req.LogDir, out, logs)
	}
	if req.Config.Jobs != 3 || req.Config.BuildTimeout != 90*time.Second || req.Config.Toolchain != "/opt/dotnet" {
		t.Errorf("config overrides not applied: %+v", req.Config)
	}
	if _, err := os.Stat(filepath.Join(out, orchestrator.ReportFileName)); !os.IsNotExist(err) {
		t.Errorf("--no-report still wrote a report (stat err %v)", err)
	}
}

func TestRun_DefaultLogDirAndReport(t *testing.T) {
	t.Parallel()

	runner := &recordingRunner{entries: []orchestrator.Entry{{Module: "A", Status: orchestrator.StatusPackaged}}}
	app, stdout, _ := newTestApp(t, runner)

	if got := run(t.Context(), app, []string{"win-x64", "mods"}); got != types.ExitSuccess {
		t.Fatalf("run() = %d, want success", got)
	}
	if want := filepath.Join(runner.req.OutputDir, "logs"); runner.req.LogDir != want {
		t.Errorf("LogDir = %q, want %q", runner.req.LogDir, want)
	}
	if _, err := os.Stat(filepath.Join(runner.req.OutputDir, orchestrator.ReportFileName)); err != nil {
		t.Errorf("report not written: %v", err)
	}
	if !strings.Contains(stdout.String(), "1 packaged") {
		t.Errorf("summary missing totals:\n%s", stdout.String())
	}
}

func TestRun_ModuleFailureRendersGuidance(t *testing.T) {
	t.Parallel()

	runner := &recordingRunner{entries: []orchestrator.Entry{
		{Module: "D", Status: orchestrator.StatusFailed, Kind: orchestrator.KindExecutor, Detail: "executable file not found"},
	}}
	app, _, stderr := newTestApp(t, runner)

	if got := run(t.Context(), app, []string{"win-x64", "mods"}); got != types.ExitModuleFailed {
		t.Fatalf("run() = %d, want %d", got, types.ExitModuleFailed)
	}
	out := stderr.String()
	if !strings.Contains(out, "1 of 1 module(s) failed") {
		t.Errorf("stderr missing failure count:\n%s", out)
	}
	if !strings.Contains(out, "toolchain") {
		t.Errorf("stderr missing toolchain guidance:\n%s", out)
	}
}

func TestFailureIssue(t *testing.T) {
	t.Parallel()

	executorOnly := []orchestrator.Entry{{Kind: orchestrator.KindExecutor}, {Kind: orchestrator.KindExecutor}}
	if got := failureIssue(executorOnly); got != issue.ToolchainNotFoundId {
		t.Errorf("failureIssue(executor only) = %d, want ToolchainNotFoundId", got)
	}
	mixed := []orchestrator.Entry{{Kind: orchestrator.KindExecutor}, {Kind: orchestrator.KindBuild}}
	if got := failureIssue(mixed); got != issue.BuildFailedId {
		t.Errorf("failureIssue(mixed) = %d, want BuildFailedId", got)
	}
}

func TestRun_InvalidManifestWarns(t *testing.T) {
	t.Parallel()

	runner := &recordingRunner{entries: []orchestrator.Entry{
		{Module: "A", Status: orchestrator.StatusPackaged},
		{Module: "Broken", Status: orchestrator.StatusSkipped, Kind: orchestrator.KindManifest, Detail: "build.dll: field is required"},
	}}
	app, _, stderr := newTestApp(t, runner)

	if got := run(t.Context(), app, []string{"win-x64", "mods"}); got != types.ExitSuccess {
		t.Fatalf("run() = %d, want success", got)
	}
	if !strings.Contains(stderr.String(), "1 module(s) skipped with an invalid luxmod.json") {
		t.Errorf("stderr missing manifest warning:\n%s", stderr.String())
	}
}

func TestRun_EnvironmentFailureSuggestions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  *orchestrator.EnvironmentError
		want string
	}{
		{
			name: "output not writable",
			err:  &orchestrator.EnvironmentError{Op: orchestrator.OpCreateOutput, Path: "/out", Err: os.ErrPermission},
			want: "--output or --log-dir",
		},
		{
			name: "modules dir unreadable",
			err:  &orchestrator.EnvironmentError{Op: orchestrator.OpReadModules, Path: "/mods", Err: os.ErrNotExist},
			want: "/mods exists and is a readable directory",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			app, _, stderr := newTestApp(t, &recordingRunner{err: tt.err})
			if got := run(t.Context(), app, []string{"win-x64", "mods"}); got != types.ExitEnvironment {
				t.Fatalf("run() = %d, want %d", got, types.ExitEnvironment)
			}
			if !strings.Contains(stderr.String(), tt.want) {
				t.Errorf("stderr missing %q:\n%s", tt.want, stderr.String())
			}
		})
	}
}

func TestResolveToolchain(t *testing.T) {
	t.Parallel()

	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	abs := filepath.Join(wd, "sdk", "dotnet")

	tests := []struct {
		in   string
		want string
	}{
		{in: "dotnet", want: "dotnet"},
		{in: abs, want: abs},
		{in: filepath.Join(".", "sdk", "dotnet"), want: abs},
		{in: "sdk/dotnet", want: abs},
	}
	for _, tt := range tests {
		got, err := resolveToolchain(tt.in)
		if err != nil {
			t.Fatalf("resolveToolchain(%q) returned error: %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("resolveToolchain(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRun_RelativeToolchainIsAbsolute(t *testing.T) {
	t.Parallel()

	runner := &recordingRunner{}
	app, _, _ := newTestApp(t, runner)

	if got := run(t.Context(), app, []string{"--toolchain", "./sdk/dotnet", "--no-report", "win-x64", "mods"}); got != types.ExitSuccess {
		t.Fatalf("run() = %d, want success", got)
	}
	tc := runner.req.Config.Toolchain
	if !filepath.IsAbs(tc) || !strings.HasSuffix(filepath.ToSlash(tc), "sdk/dotnet") {
		t.Errorf("Toolchain = %q, want absolute path ending in sdk/dotnet", tc)
	}
}
