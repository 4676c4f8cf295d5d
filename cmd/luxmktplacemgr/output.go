// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/mattn/go-isatty"

	"github.com/luxoria/luxmktplacemgr/internal/config"
	"github.com/luxoria/luxmktplacemgr/internal/issue"
)

// newLogger returns the progress logger written to w. Verbose output adds
// timestamps and debug records such as the toolchain command lines.
func newLogger(w io.Writer, verbose bool) *log.Logger {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: verbose,
		Level:           level,
	})
}

// isTerminal reports whether w is a character device.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// glamourStyle picks the glamour style for issue guidance written to w.
func (a *App) glamourStyle(w io.Writer) string {
	if !isTerminal(w) {
		return "notty"
	}
	switch a.colorScheme {
	case config.ColorSchemeDark:
		return "dark"
	case config.ColorSchemeLight:
		return "light"
	default:
		if lipgloss.HasDarkBackground() {
			return "dark"
		}
		return "light"
	}
}

// renderServiceError prints the styled message, then the catalogued guidance.
func (a *App) renderServiceError(w io.Writer, svcErr *ServiceError) {
	if svcErr == nil {
		return
	}

	if svcErr.StyledMessage != "" {
		fmt.Fprint(w, svcErr.StyledMessage)
	}

	if svcErr.IssueID == 0 {
		return
	}

	if entry := issue.Get(svcErr.IssueID); entry != nil {
		rendered, err := entry.Render(a.glamourStyle(w))
		if err != nil {
			fmt.Fprintln(w, WarningStyle.Render("Warning: ")+"failed to render guidance: "+err.Error())
			return
		}
		fmt.Fprint(w, rendered)
	}
}

// handleError is the fang error handler. Already-reported exits print
// nothing, service errors print their styled message and guidance, and
// actionable errors with suggestions (or in verbose mode) print them.
func (a *App) handleError(w io.Writer, styles fang.Styles, err error) {
	if exitErr, ok := errors.AsType[*ExitError](err); ok && exitErr.Err == nil {
		return
	}
	if svcErr, ok := errors.AsType[*ServiceError](err); ok {
		a.renderServiceError(w, svcErr)
		return
	}
	if ae, ok := errors.AsType[*issue.ActionableError](err); ok && (ae.HasSuggestions() || a.verbose) {
		fmt.Fprintln(w, ErrorStyle.Render("Error: ")+ae.Format(a.verbose))
		return
	}
	fang.DefaultErrorHandler(w, styles, err)
}

// formatErrorForDisplay formats an error for user display, using the
// ActionableError layout when available.
func formatErrorForDisplay(err error, verbose bool) string {
	if ae, ok := errors.AsType[*issue.ActionableError](err); ok {
		return ae.Format(verbose)
	}
	return err.Error()
}
