// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/luxoria/luxmktplacemgr/internal/orchestrator"
	"github.com/luxoria/luxmktplacemgr/pkg/platform"
)

func TestRenderSummary(t *testing.T) {
	t.Parallel()

	out := filepath.Join("srv", "out")
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	report := &orchestrator.Report{
		Platform:   platform.WinX64,
		Arch:       platform.ArchX64,
		OutputRoot: out,
		StartedAt:  start,
		FinishedAt: start.Add(1500 * time.Millisecond),
		Entries: []orchestrator.Entry{
			{Module: "Alpha", Status: orchestrator.StatusPackaged, BundleDir: filepath.Join(out, "Alpha.x64"), Warnings: []string{"brochure missing"}},
			{Module: "Beta", Status: orchestrator.StatusSkipped, Detail: "manifest missing"},
			{Module: "Delta", Status: orchestrator.StatusFailed, Detail: "toolchain exited with code 1\nmore", LogPath: "/logs/Delta.x64.log"},
		},
	}

	var buf bytes.Buffer
	renderSummary(&buf, report)
	got := buf.String()

	for _, want := range []string{
		"Batch summary",
		"win-x64 (x64)",
		"Alpha", "Alpha.x64", "warning: brochure missing",
		"Beta", "manifest missing",
		"Delta", "toolchain exited with code 1", "log: /logs/Delta.x64.log",
		"1 packaged", "1 skipped", "1 failed", "1.5s",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("summary missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "more") {
		t.Errorf("summary should show only the first detail line:\n%s", got)
	}
	if strings.Index(got, "Alpha") > strings.Index(got, "Beta") || strings.Index(got, "Beta") > strings.Index(got, "Delta") {
		t.Errorf("rows not in report order:\n%s", got)
	}
}

func TestRenderSummary_Empty(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	renderSummary(&buf, &orchestrator.Report{Platform: platform.WinX86, Arch: platform.ArchX86, RootDir: "/mods"})
	if !strings.Contains(buf.String(), "no module directories found under /mods") {
		t.Errorf("unexpected output:\n%s", buf.String())
	}
}

func TestEntryDetail_RelativeBundle(t *testing.T) {
	t.Parallel()

	e := orchestrator.Entry{Status: orchestrator.StatusPackaged, BundleDir: filepath.Join("/out", "Alpha.x64")}
	if got := entryDetail(e, "/out"); got != "Alpha.x64" {
		t.Errorf("entryDetail() = %q, want Alpha.x64", got)
	}
}
