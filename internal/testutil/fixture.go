// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"encoding/json"
	"path/filepath"
	"strconv"
	"testing"
)

// Fixture file names read by the fake toolchain from its working directory.
const (
	FakeExitFile   = ".fake-exit"
	FakeSleepFile  = ".fake-sleep"
	FakeStderrFile = ".fake-stderr"
)

// Module describes an on-disk module fixture. Zero values get sensible
// defaults: configuration "Release", framework "net9.0", bin root "bin",
// binary "<Name>.dll", runtimes {"x64": "win-x64"} and platform "win-x64"
// for the pre-made toolchain output.
type Module struct {
	Name            string
	Runtimes        map[string]string
	Configuration   string
	TargetFramework string
	BinRoot         string
	BinaryName      string
	// Brochure is the declared brochure path; BrochureContent, when non-empty,
	// is written to it.
	Brochure        string
	BrochureContent string

	// RawManifest replaces the generated luxmod.json verbatim.
	RawManifest string
	// NoManifest leaves luxmod.json out entirely.
	NoManifest bool

	// Platform selects the toolchain output directory that is pre-made.
	Platform string
	// Extra files (relative path -> content) added to the publish directory.
	PublishFiles map[string]string

	SkipPublish      bool
	SkipBinary       bool
	SkipIntermediate bool

	// Toolchain behavior for this module.
	ExitCode int
	Stderr   string
	Sleep    string
}

func (m *Module) applyDefaults() {
	if m.Configuration == "" {
		m.Configuration = "Release"
	}
	if m.TargetFramework == "" {
		m.TargetFramework = "net9.0"
	}
	if m.BinRoot == "" {
		m.BinRoot = "bin"
	}
	if m.BinaryName == "" {
		m.BinaryName = m.Name + ".dll"
	}
	if m.Runtimes == nil {
		m.Runtimes = map[string]string{"x64": "win-x64"}
	}
	if m.Platform == "" {
		m.Platform = "win-x64"
	}
}

// ManifestJSON renders the luxmod.json for m.
func ManifestJSON(t testing.TB, m Module) string {
	t.Helper()
	m.applyDefaults()

	doc := map[string]any{
		"name": m.Name,
		"build": map[string]any{
			"csproj":          m.Name + "/" + m.Name + ".csproj",
			"config":          m.Configuration,
			"runtimes":        m.Runtimes,
			"targetFramework": m.TargetFramework,
			"bin":             m.BinRoot,
			"dll":             m.BinaryName,
		},
	}
	if m.Brochure != "" {
		doc["brochure"] = m.Brochure
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		t.Fatalf("failed to marshal manifest: %v", err)
	}
	return string(data)
}

// OutputDir returns <dir>/<bin>/<config>/<tfm>/<platform>, the toolchain
// output directory of the module fixture rooted at dir.
func (m Module) OutputDir(dir string) string {
	m.applyDefaults()
	return filepath.Join(dir, m.BinRoot, m.Configuration, m.TargetFramework, m.Platform)
}

// WriteModule creates <root>/<dirName> for m and returns its path. The
// publish and intermediate trees are created up front so that the fake
// toolchain only has to exit.
func WriteModule(t testing.TB, root, dirName string, m Module) string {
	t.Helper()
	m.applyDefaults()

	dir := filepath.Join(root, dirName)
	MustMkdirAll(t, dir, 0o755)

	switch {
	case m.RawManifest != "":
		MustWriteFile(t, filepath.Join(dir, "luxmod.json"), m.RawManifest)
	case !m.NoManifest:
		MustWriteFile(t, filepath.Join(dir, "luxmod.json"), ManifestJSON(t, m))
	}

	if m.Brochure != "" && m.BrochureContent != "" {
		MustWriteFile(t, filepath.Join(dir, m.Brochure), m.BrochureContent)
	}

	out := m.OutputDir(dir)
	if !m.SkipPublish {
		publish := filepath.Join(out, "publish")
		MustMkdirAll(t, publish, 0o755)
		if !m.SkipBinary {
			MustWriteFile(t, filepath.Join(publish, m.BinaryName), "binary:"+m.Name)
		}
		MustWriteFile(t, filepath.Join(publish, "deps", m.Name+".deps.json"), "{}")
		for rel, content := range m.PublishFiles {
			MustWriteFile(t, filepath.Join(publish, rel), content)
		}
	}
	if !m.SkipIntermediate {
		stem := m.BinaryName[:len(m.BinaryName)-len(filepath.Ext(m.BinaryName))]
		MustWriteFile(t, filepath.Join(out, stem, "obj.txt"), "intermediate:"+m.Name)
	}

	if m.ExitCode != 0 {
		MustWriteFile(t, filepath.Join(dir, FakeExitFile), strconv.Itoa(m.ExitCode))
	}
	if m.Stderr != "" {
		MustWriteFile(t, filepath.Join(dir, FakeStderrFile), m.Stderr)
	}
	if m.Sleep != "" {
		MustWriteFile(t, filepath.Join(dir, FakeSleepFile), m.Sleep)
	}
	return dir
}
