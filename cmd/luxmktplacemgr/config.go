// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/luxoria/luxmktplacemgr/internal/config"
	"github.com/luxoria/luxmktplacemgr/internal/issue"
	"github.com/luxoria/luxmktplacemgr/pkg/types"
)

type (
	// configView is the TOML projection of the effective configuration.
	configView struct {
		Source          string        `toml:"source,omitempty"`
		Toolchain       string        `toml:"toolchain"`
		OutputDir       string        `toml:"output_dir"`
		LogDir          string        `toml:"log_dir"`
		Jobs            int           `toml:"jobs"`
		BuildTimeout    string        `toml:"build_timeout"`
		StderrTailLines int           `toml:"stderr_tail_lines"`
		BinaryInfix     string        `toml:"binary_infix"`
		Package         configPackage `toml:"package"`
		UI              configUI      `toml:"ui"`
	}

	configPackage struct {
		Exclude []string `toml:"exclude"`
	}

	configUI struct {
		ColorScheme string `toml:"color_scheme"`
		Verbose     bool   `toml:"verbose"`
	}
)

// newConfigCommand creates the `config` command tree. Subcommands that read
// configuration use the App's ConfigProvider.
func newConfigCommand(app *App, flags *rootFlags) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage " + config.AppName + " configuration",
		Long: `Manage ` + config.AppName + ` configuration.

Configuration is stored in:
  - Linux: ~/.config/` + config.AppName + `/config.cue
  - macOS: ~/Library/Application Support/` + config.AppName + `/config.cue
  - Windows: %APPDATA%\` + config.AppName + `\config.cue

Every key can be overridden with a ` + config.EnvPrefix + `_ environment variable,
for example ` + config.EnvPrefix + `_BUILD_TIMEOUT=45m or ` + config.EnvPrefix + `_UI_VERBOSE=true.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	var asTOML bool
	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := app.loadConfig(cmd, flags)
			if err != nil {
				return err
			}
			if asTOML {
				return writeConfigTOML(app.stdout, cfg)
			}
			showConfig(app.stdout, cfg)
			return nil
		},
	}
	showCmd.Flags().BoolVar(&asTOML, "toml", false, "print as TOML")
	cfgCmd.AddCommand(showCmd)

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output the effective configuration as CUE",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := app.loadConfig(cmd, flags)
			if err != nil {
				return err
			}
			fmt.Fprint(app.stdout, config.GenerateCUE(cfg))
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create the default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			path, created, err := config.CreateDefaultConfig("")
			if err != nil {
				return &ExitError{Code: types.ExitEnvironment, Err: issue.WrapWithContext(err, "create configuration", path)}
			}
			if !created {
				fmt.Fprintf(app.stdout, "%s Configuration already exists at %s\n", WarningStyle.Render("•"), path)
				return nil
			}
			fmt.Fprintf(app.stdout, "%s Created default configuration at %s\n", SuccessStyle.Render("✓"), path)
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show the configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			if flags.configPath != "" {
				fmt.Fprintf(app.stdout, "Config file: %s\n", flags.configPath)
				return nil
			}
			cfgDir, err := config.ConfigDir()
			if err != nil {
				return &ExitError{Code: types.ExitEnvironment, Err: err}
			}
			path, err := config.ConfigFilePath(cfgDir)
			if err != nil {
				return &ExitError{Code: types.ExitEnvironment, Err: err}
			}
			fmt.Fprintf(app.stdout, "Config directory: %s\n", cfgDir)
			fmt.Fprintf(app.stdout, "Config file: %s\n", path)
			return nil
		},
	})

	return cfgCmd
}

// loadConfig loads the configuration honoring --config and maps failures to
// a usage exit with the config guidance.
func (a *App) loadConfig(cmd *cobra.Command, flags *rootFlags) (*config.Config, error) {
	cfg, err := a.Config.Load(cmd.Context(), config.LoadOptions{ConfigFilePath: flags.configPath})
	if err != nil {
		return nil, &ExitError{
			Code: types.ExitUsage,
			Err: newServiceError(err, issue.ConfigLoadFailedId,
				ErrorStyle.Render("Error: ")+formatErrorForDisplay(err, flags.verbose)+"\n"),
		}
	}
	a.colorScheme = cfg.UI.ColorScheme
	return cfg, nil
}

func showConfig(w io.Writer, cfg *config.Config) {
	keyStyle := CmdStyle
	valueStyle := SuccessStyle
	line := func(indent, key string, value any) {
		fmt.Fprintf(w, "%s%s: %s\n", indent, keyStyle.Render(key), valueStyle.Render(fmt.Sprint(value)))
	}

	fmt.Fprintln(w, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(w)
	if cfg.Source != "" {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config file"), cfg.Source)
	} else {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}
	fmt.Fprintln(w)

	line("", "toolchain", cfg.Toolchain)
	line("", "output_dir", cfg.OutputDir)
	if cfg.LogDir == "" {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("log_dir"), SubtitleStyle.Render("(<output_dir>/logs)"))
	} else {
		line("", "log_dir", cfg.LogDir)
	}
	line("", "jobs", cfg.Jobs)
	line("", "build_timeout", cfg.BuildTimeout)
	line("", "stderr_tail_lines", cfg.StderrTailLines)
	line("", "binary_infix", cfg.BinaryInfix)

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("package"))
	if len(cfg.Package.Exclude) == 0 {
		fmt.Fprintf(w, "  exclude: %s\n", SubtitleStyle.Render("(none)"))
	} else {
		fmt.Fprintf(w, "  exclude: %s\n", valueStyle.Render(strings.Join(cfg.Package.ExcludeStrings(), ", ")))
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("ui"))
	line("  ", "color_scheme", cfg.UI.ColorScheme)
	line("  ", "verbose", cfg.UI.Verbose)
}

func writeConfigTOML(w io.Writer, cfg *config.Config) error {
	view := configView{
		Source:          cfg.Source,
		Toolchain:       cfg.Toolchain,
		OutputDir:       cfg.OutputDir,
		LogDir:          cfg.LogDir,
		Jobs:            cfg.Jobs,
		BuildTimeout:    cfg.BuildTimeout.String(),
		StderrTailLines: cfg.StderrTailLines,
		BinaryInfix:     cfg.BinaryInfix,
		Package:         configPackage{Exclude: cfg.Package.ExcludeStrings()},
		UI:              configUI{ColorScheme: cfg.UI.ColorScheme.String(), Verbose: cfg.UI.Verbose},
	}
	if err := toml.NewEncoder(w).Encode(view); err != nil {
		return fmt.Errorf("encode configuration: %w", err)
	}
	return nil
}
