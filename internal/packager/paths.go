// SPDX-License-Identifier: MPL-2.0

package packager

import (
	"path/filepath"
	"strings"

	"github.com/luxoria/luxmktplacemgr/pkg/luxmod"
	"github.com/luxoria/luxmktplacemgr/pkg/platform"
)

// DefaultBinaryInfix is inserted before the binary's extension.
const DefaultBinaryInfix = ".Lux"

// Paths are the toolchain output locations of one module build.
type Paths struct {
	// PublishDir is <bin>/<config>/<tfm>/<platform>/publish.
	PublishDir string
	// BinaryPath is the primary binary inside PublishDir.
	BinaryPath string
	// IntermediateDir is <bin>/<config>/<tfm>/<platform>/<binary stem>.
	IntermediateDir string
}

// DerivePaths computes where the toolchain left its output for m. A
// relative bin root is resolved against moduleDir.
func DerivePaths(m *luxmod.Manifest, moduleDir string, p platform.Platform) Paths {
	binRoot := m.Build.BinRoot
	if !filepath.IsAbs(binRoot) {
		binRoot = filepath.Join(moduleDir, binRoot)
	}
	outDir := filepath.Join(binRoot, m.Build.Configuration, m.Build.TargetFramework, string(p))
	publish := filepath.Join(outDir, "publish")
	return Paths{
		PublishDir:      publish,
		BinaryPath:      filepath.Join(publish, m.Build.BinaryName),
		IntermediateDir: filepath.Join(outDir, m.BinaryStem()),
	}
}

// MarketplaceBinaryName inserts infix before the extension:
// ("LuxEditor.dll", ".Lux") -> "LuxEditor.Lux.dll". Names without an
// extension get the infix appended.
func MarketplaceBinaryName(name, infix string) string {
	ext := filepath.Ext(name)
	return strings.TrimSuffix(name, ext) + infix + ext
}

// BundleDir returns <outputRoot>/<name>.<arch>.
func BundleDir(outputRoot, name string, arch platform.Arch) string {
	return filepath.Join(outputRoot, name+"."+string(arch))
}

// LuxmodDirName is the bundle subdirectory holding the publish tree.
func LuxmodDirName(name string) string { return name + ".luxmod" }

// BrochureFileName is the brochure's name inside the bundle.
func BrochureFileName(name string) string { return name + ".readme.md" }
