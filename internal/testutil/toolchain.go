// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// InvocationsFile is written next to the fake toolchain; it holds one
// "<cwd>|<args>" line per invocation.
const InvocationsFile = "invocations.log"

const fakeToolchainTemplate = `#!/bin/sh
printf '%s|%s\n' "$PWD" "$*" >> '@LOG@'
echo "fake toolchain: $*"
if [ -f .fake-stderr ]; then cat .fake-stderr >&2; fi
if [ -f .fake-sleep ]; then sleep "$(cat .fake-sleep)"; fi
if [ -f .fake-exit ]; then exit "$(cat .fake-exit)"; fi
exit 0
`

// FakeToolchainScript returns a POSIX shell script standing in for the real
// toolchain. It records its invocation in logPath and then obeys the
// .fake-stderr, .fake-sleep and .fake-exit files of its working directory.
func FakeToolchainScript(logPath string) string {
	return strings.ReplaceAll(fakeToolchainTemplate, "@LOG@", logPath)
}

// WriteFakeToolchain writes an executable fake toolchain named "dotnet" into
// dir and returns its path. Tests using it are skipped on Windows.
func WriteFakeToolchain(t testing.TB, dir string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("skipping: fake toolchain is a POSIX shell script")
	}

	MustMkdirAll(t, dir, 0o755)
	path := filepath.Join(dir, "dotnet")
	script := FakeToolchainScript(filepath.Join(dir, InvocationsFile))
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil { //nolint:gosec // must be executable
		t.Fatalf("failed to write fake toolchain: %v", err)
	}
	return path
}

// Invocations returns the recorded invocations of the fake toolchain at
// toolchainPath, or nil if it was never run.
func Invocations(t testing.TB, toolchainPath string) []string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(filepath.Dir(toolchainPath), InvocationsFile))
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		t.Fatalf("failed to read invocations: %v", err)
	}
	return strings.Split(strings.TrimRight(string(data), "\n"), "\n")
}
