// SPDX-License-Identifier: MPL-2.0

package executor

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/luxoria/luxmktplacemgr/internal/testutil"
)

func TestWriteLog(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", LogFileName("Alpha", "x64"))
	stdout := strings.Repeat("restore line\n", 5000)
	entry := LogEntry{
		CommandLine: "dotnet publish a.csproj -c Release -r win-x64",
		Dir:         "/src/alpha",
		ExitCode:    "1",
		Stdout:      stdout,
		Stderr:      "boom",
	}

	if err := WriteLog(path, entry); err != nil {
		t.Fatalf("WriteLog() returned error: %v", err)
	}

	text := testutil.MustReadFile(t, path)
	for _, title := range []string{SectionCommand, SectionCwd, SectionExitCode, SectionStdout, SectionStderr} {
		if !strings.Contains(text, "===== "+title+" =====") {
			t.Errorf("log is missing the %s section", title)
		}
	}
	if strings.Contains(text, "===== "+SectionError+" =====") {
		t.Error("log has an ERROR section without an error")
	}
	if got := ReadSection(text, SectionStdout); got != strings.TrimRight(stdout, "\n") {
		t.Errorf("STDOUT section has %d bytes, want %d", len(got), len(stdout)-1)
	}
	if got := ReadSection(text, SectionStderr); got != "boom" {
		t.Errorf("STDERR section = %q, want %q", got, "boom")
	}
}

func TestReadSection_Empty(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "a.log")
	if err := WriteLog(path, LogEntry{CommandLine: "x", ExitCode: "0"}); err != nil {
		t.Fatalf("WriteLog() returned error: %v", err)
	}
	text := testutil.MustReadFile(t, path)

	if got := ReadSection(text, SectionStdout); got != "" {
		t.Errorf("STDOUT section = %q, want empty", got)
	}
	if got := ReadSection(text, SectionError); got != "" {
		t.Errorf("missing ERROR section = %q, want empty", got)
	}
}
