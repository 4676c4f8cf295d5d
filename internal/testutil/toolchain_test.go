// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"errors"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

func TestFakeToolchain_SleepThenExitCode(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	toolchain := WriteFakeToolchain(t, filepath.Join(root, "sdk"))
	dir := WriteModule(t, root, "slow-fail", Module{Name: "SlowFail", Sleep: "0.1", ExitCode: 3, Stderr: "boom"})

	cmd := exec.Command(toolchain, "publish", "SlowFail.csproj")
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()

	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("fake toolchain error = %v, want exit error", err)
	}
	if got := exitErr.ExitCode(); got != 3 {
		t.Errorf("exit code = %d, want 3", got)
	}
	if !strings.Contains(string(out), "boom") {
		t.Errorf("output = %q, want stderr content", out)
	}
	if calls := Invocations(t, toolchain); len(calls) != 1 || !strings.HasSuffix(calls[0], "|publish SlowFail.csproj") {
		t.Errorf("Invocations() = %v, want one publish call", calls)
	}
}
