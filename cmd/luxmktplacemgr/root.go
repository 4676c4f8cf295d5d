// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime/debug"
	"strings"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/luxoria/luxmktplacemgr/internal/config"
	"github.com/luxoria/luxmktplacemgr/pkg/platform"
	"github.com/luxoria/luxmktplacemgr/pkg/types"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// rootFlags are the persistent flags shared by every command.
type rootFlags struct {
	configPath string
	verbose    bool
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version != "dev" {
		return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return "dev (built from source)"
}

// NewRootCommand creates the command tree bound to app.
func NewRootCommand(app *App) *cobra.Command {
	flags := &rootFlags{}
	build := &buildFlags{}

	platforms := make([]string, 0, len(platform.Supported()))
	for _, p := range platform.Supported() {
		platforms = append(platforms, string(p))
	}

	rootCmd := &cobra.Command{
		Use:   config.AppName + " [flags] <platform> <modules-dir>",
		Short: "Build and package marketplace modules",
		Long: TitleStyle.Render(config.AppName) + SubtitleStyle.Render(" - marketplace module build orchestrator") + `

Builds every module under <modules-dir> for <platform> with the .NET
toolchain and repackages each successful build into a marketplace bundle:

  <output>/<name>.<arch>/<name>.luxmod/     published files, renamed binary
  <output>/<name>.<arch>/<binary-stem>/     intermediate build tree
  <output>/<name>.<arch>/<name>.readme.md   brochure, when declared

Modules without a luxmod.json, or that do not declare the platform's
architecture, are skipped. A module that fails does not stop the others.

` + SubtitleStyle.Render("Platforms: ") + strings.Join(platforms, ", ") + `

` + SubtitleStyle.Render("Exit codes:") + `
  0  every module packaged or skipped
  1  at least one module failed
  2  usage or configuration error
  3  platform not supported
  4  output or modules directory unusable`,
		Example: `  luxmktplacemgr win-x64 ./modules
  luxmktplacemgr -o dist -j 4 --timeout 10m win-arm64 ./modules`,
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) != 2 {
				return &ExitError{
					Code: types.ExitUsage,
					Err:  fmt.Errorf("expected <platform> and <modules-dir>, got %d argument(s)", len(args)),
				}
			}
			return nil
		},
		PersistentPreRun: func(*cobra.Command, []string) {
			app.verbose = flags.verbose
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.runBuild(cmd, flags, build, args)
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "config file (default is "+defaultConfigHint()+")")
	build.register(rootCmd)

	rootCmd.AddCommand(newConfigCommand(app, flags))

	return rootCmd
}

func defaultConfigHint() string {
	path, err := config.ConfigFilePath("")
	if err != nil {
		return config.ConfigFileName + "." + config.ConfigFileExt
	}
	return path
}

// Execute runs the CLI and exits with the resulting code. It is called by main.main().
func Execute() {
	os.Exit(int(run(context.Background(), NewApp(Dependencies{}), os.Args[1:])))
}

// run executes the command tree with args and maps the outcome to an exit code.
func run(ctx context.Context, app *App, args []string) types.ExitCode {
	rootCmd := NewRootCommand(app)
	rootCmd.SetArgs(args)
	rootCmd.SetOut(app.stdout)
	rootCmd.SetErr(app.stderr)

	err := fang.Execute(
		ctx,
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithErrorHandler(app.handleError),
	)
	if err == nil {
		return types.ExitSuccess
	}
	if exitErr, ok := errors.AsType[*ExitError](err); ok {
		return exitErr.Code
	}
	// Everything else comes from Cobra's argument and flag parsing.
	return types.ExitUsage
}
