// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/rogpeppe/go-internal/testscript"

	"github.com/luxoria/luxmktplacemgr/internal/config"
	"github.com/luxoria/luxmktplacemgr/internal/testutil"
)

func TestMain(m *testing.M) {
	os.Exit(testscript.RunMain(m, map[string]func() int{
		config.AppName: func() int {
			Execute()
			return 0
		},
	}))
}

// TestCLI runs the testdata/*.txtar scripts against the real pipeline with a
// fake toolchain on PATH.
func TestCLI(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("skipping: fake toolchain is a POSIX shell script")
	}

	testscript.Run(t, testscript.Params{
		Dir: "testdata",
		Setup: func(env *testscript.Env) error {
			binDir := filepath.Join(env.WorkDir, ".toolchain")
			if err := os.MkdirAll(binDir, 0o755); err != nil {
				return err
			}
			script := testutil.FakeToolchainScript(filepath.Join(binDir, testutil.InvocationsFile))
			if err := os.WriteFile(filepath.Join(binDir, "dotnet"), []byte(script), 0o755); err != nil { //nolint:gosec // must be executable
				return err
			}
			env.Setenv("PATH", binDir+string(os.PathListSeparator)+env.Getenv("PATH"))
			env.Setenv("XDG_CONFIG_HOME", filepath.Join(env.WorkDir, ".config"))
			env.Setenv("INVOCATIONS", filepath.Join(binDir, testutil.InvocationsFile))
			return nil
		},
	})
}
