// SPDX-License-Identifier: MPL-2.0

package executor

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Section headers of a build log.
const (
	SectionCommand  = "COMMAND"
	SectionCwd      = "CWD"
	SectionExitCode = "EXIT CODE"
	SectionStdout   = "STDOUT"
	SectionStderr   = "STDERR"
	SectionError    = "ERROR"
)

// LogEntry is the content of one build log.
type LogEntry struct {
	CommandLine string
	Dir         string
	// ExitCode is written verbatim, e.g. "0", "1" or "not started".
	ExitCode string
	Stdout   string
	Stderr   string
	// Error is written as an extra section when non-empty.
	Error string
}

// LogFileName returns "<name>.<arch>.log".
func LogFileName(name, arch string) string {
	return name + "." + arch + ".log"
}

// WriteLog writes entry to path, replacing any previous log. Output is
// written in full.
func WriteLog(path string, entry LogEntry) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create build log: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close build log: %w", closeErr)
		}
	}()

	w := bufio.NewWriter(f)
	writeSection(w, SectionCommand, entry.CommandLine)
	writeSection(w, SectionCwd, entry.Dir)
	writeSection(w, SectionExitCode, entry.ExitCode)
	writeSection(w, SectionStdout, entry.Stdout)
	writeSection(w, SectionStderr, entry.Stderr)
	if entry.Error != "" {
		writeSection(w, SectionError, entry.Error)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to write build log: %w", err)
	}
	return nil
}

func writeSection(w *bufio.Writer, title, body string) {
	// bufio.Writer keeps the first error; Flush reports it.
	_, _ = fmt.Fprintf(w, "===== %s =====\n", title)
	_, _ = w.WriteString(body)
	if body != "" && !strings.HasSuffix(body, "\n") {
		_ = w.WriteByte('\n')
	}
	_ = w.WriteByte('\n')
}

// ReadSection returns the body of the named section of a build log, or ""
// when the section is absent.
func ReadSection(log, title string) string {
	header := "===== " + title + " =====\n"
	start := strings.Index(log, header)
	if start < 0 {
		return ""
	}
	body := log[start+len(header):]
	if end := strings.Index(body, "\n===== "); end >= 0 {
		body = body[:end]
	}
	return strings.TrimRight(body, "\n")
}
