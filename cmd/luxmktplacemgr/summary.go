// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/luxoria/luxmktplacemgr/internal/orchestrator"
)

const statusColumn = 1

// renderSummary prints one row per discovered module directory, in discovery
// order, followed by the totals.
func renderSummary(w io.Writer, report *orchestrator.Report) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, TitleStyle.Render("Batch summary")+" "+
		SubtitleStyle.Render(fmt.Sprintf("%s (%s)", report.Platform, report.Arch)))

	if len(report.Entries) == 0 {
		fmt.Fprintln(w, SubtitleStyle.Render("  no module directories found under "+report.RootDir))
		return
	}

	rows := make([][]string, 0, len(report.Entries))
	for _, e := range report.Entries {
		rows = append(rows, []string{e.Module, string(e.Status), entryDetail(e, report.OutputRoot)})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(tableBorderStyle).
		Headers("MODULE", "STATUS", "DETAIL").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return tableHeaderStyle
			}
			if col == statusColumn && row >= 0 && row < len(report.Entries) {
				return tableCellStyle.Inherit(statusStyle(report.Entries[row].Status))
			}
			return tableCellStyle
		})
	fmt.Fprintln(w, t.Render())

	fmt.Fprintf(w, "%s, %s, %s in %s\n",
		SuccessStyle.Render(fmt.Sprintf("%d packaged", report.Count(orchestrator.StatusPackaged))),
		WarningStyle.Render(fmt.Sprintf("%d skipped", report.Count(orchestrator.StatusSkipped))),
		ErrorStyle.Render(fmt.Sprintf("%d failed", report.Count(orchestrator.StatusFailed))),
		report.Duration().Round(time.Millisecond))
}

// entryDetail is the DETAIL cell: the bundle for packaged modules, the reason
// and log for the others, plus any warnings.
func entryDetail(e orchestrator.Entry, outputRoot string) string {
	var parts []string
	switch e.Status {
	case orchestrator.StatusPackaged:
		parts = append(parts, relativeTo(outputRoot, e.BundleDir))
	default:
		parts = append(parts, firstLine(e.Detail))
		if e.Status == orchestrator.StatusFailed && e.LogPath != "" {
			parts = append(parts, "log: "+e.LogPath)
		}
	}
	for _, warn := range e.Warnings {
		parts = append(parts, "warning: "+firstLine(warn))
	}
	return strings.Join(parts, "\n")
}

func relativeTo(base, path string) string {
	if rel, err := filepath.Rel(base, path); err == nil {
		return rel
	}
	return path
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}
