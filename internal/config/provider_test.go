// SPDX-License-Identifier: MPL-2.0

package config

import (
	"path/filepath"
	"testing"

	"github.com/luxoria/luxmktplacemgr/internal/testutil"
)

func TestProvider_LoadExplicitFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "ci.cue")
	testutil.MustWriteFile(t, path, `output_dir: "dist"`+"\n")

	cfg, err := NewProvider().Load(t.Context(), LoadOptions{ConfigFilePath: path})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.OutputDir != "dist" {
		t.Errorf("OutputDir = %q, want dist", cfg.OutputDir)
	}
	if cfg.Source != path {
		t.Errorf("Source = %q, want %q", cfg.Source, path)
	}
}

func TestProvider_LoadError(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.cue")
	testutil.MustWriteFile(t, path, "jobs: \"many\"\n")

	if _, err := NewProvider().Load(t.Context(), LoadOptions{ConfigFilePath: path}); err == nil {
		t.Fatal("expected error for invalid config")
	}
}
