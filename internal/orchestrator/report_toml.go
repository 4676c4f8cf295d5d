// SPDX-License-Identifier: MPL-2.0

package orchestrator

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// ReportFileName is the report file written into the output root.
const ReportFileName = "batch-report.toml"

type (
	tomlReport struct {
		RunID      string       `toml:"run_id"`
		Platform   string       `toml:"platform"`
		Arch       string       `toml:"arch"`
		RootDir    string       `toml:"modules_dir"`
		OutputRoot string       `toml:"output_dir"`
		StartedAt  time.Time    `toml:"started_at"`
		FinishedAt time.Time    `toml:"finished_at"`
		OK         bool         `toml:"ok"`
		Summary    tomlSummary  `toml:"summary"`
		Modules    []tomlModule `toml:"module"`
	}

	tomlSummary struct {
		Packaged int `toml:"packaged"`
		Skipped  int `toml:"skipped"`
		Failed   int `toml:"failed"`
	}

	tomlModule struct {
		Name      string   `toml:"name"`
		Dir       string   `toml:"dir"`
		Status    string   `toml:"status"`
		Kind      string   `toml:"kind,omitempty"`
		Detail    string   `toml:"detail,omitempty"`
		LogPath   string   `toml:"log,omitempty"`
		BundleDir string   `toml:"bundle,omitempty"`
		Warnings  []string `toml:"warnings,omitempty"`
		Duration  string   `toml:"duration"`
	}
)

// EncodeTOML renders the report as TOML.
func (r *Report) EncodeTOML() ([]byte, error) {
	doc := tomlReport{
		RunID:      r.RunID,
		Platform:   string(r.Platform),
		Arch:       string(r.Arch),
		RootDir:    r.RootDir,
		OutputRoot: r.OutputRoot,
		StartedAt:  r.StartedAt.UTC().Truncate(time.Millisecond),
		FinishedAt: r.FinishedAt.UTC().Truncate(time.Millisecond),
		OK:         r.OK(),
		Summary: tomlSummary{
			Packaged: r.Count(StatusPackaged),
			Skipped:  r.Count(StatusSkipped),
			Failed:   r.Count(StatusFailed),
		},
		Modules: make([]tomlModule, len(r.Entries)),
	}
	for i, e := range r.Entries {
		doc.Modules[i] = tomlModule{
			Name:      e.Module,
			Dir:       e.Dir,
			Status:    string(e.Status),
			Kind:      string(e.Kind),
			Detail:    e.Detail,
			LogPath:   e.LogPath,
			BundleDir: e.BundleDir,
			Warnings:  e.Warnings,
			Duration:  e.Duration.Round(time.Millisecond).String(),
		}
	}

	data, err := toml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode report: %w", err)
	}
	return data, nil
}

// WriteTOML writes the report to path, replacing an existing file.
func (r *Report) WriteTOML(path string) error {
	data, err := r.EncodeTOML()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
