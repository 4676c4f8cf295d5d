// SPDX-License-Identifier: MPL-2.0

package packager

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/u-root/u-root/pkg/core/cp"

	"github.com/luxoria/luxmktplacemgr/pkg/luxmod"
	"github.com/luxoria/luxmktplacemgr/pkg/platform"
)

type (
	// Packager builds bundles. It holds no per-module state and is safe for
	// concurrent use on distinct bundles.
	Packager struct {
		// BinaryInfix defaults to DefaultBinaryInfix.
		BinaryInfix string
		// Exclude holds doublestar patterns matched against slash-separated
		// file paths relative to each copied tree. The primary binary is
		// never excluded.
		Exclude []string
		Logger  *log.Logger
	}

	// Artifact describes a finished bundle.
	Artifact struct {
		BundleDir string
		// LuxmodDir is <bundle>/<name>.luxmod.
		LuxmodDir string
		// BinaryPath is the renamed binary inside LuxmodDir.
		BinaryPath string
		// IntermediateDir is <bundle>/<binary stem>.
		IntermediateDir string
		// Source are the toolchain output paths the bundle was copied from.
		Source Paths
	}
)

func (p *Packager) infix() string {
	if p.BinaryInfix == "" {
		return DefaultBinaryInfix
	}
	return p.BinaryInfix
}

func (p *Packager) logger() *log.Logger {
	if p.Logger == nil {
		return log.New(io.Discard)
	}
	return p.Logger
}

// Export copies the toolchain output of m into a new bundle directory under
// outputRoot. All errors are *PackagingError.
func (p *Packager) Export(m *luxmod.Manifest, moduleDir string, arch platform.Arch, plat platform.Platform, outputRoot string) (*Artifact, error) {
	logger := p.logger().With("module", m.Name, "arch", arch)
	bundle := BundleDir(outputRoot, m.Name, arch)

	if _, err := os.Lstat(bundle); err == nil {
		return nil, &PackagingError{Kind: DestinationExists, Path: bundle}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, &PackagingError{Kind: CopyIOError, Path: bundle, Err: err}
	}

	src := DerivePaths(m, moduleDir, plat)
	if !isDir(src.PublishDir) {
		return nil, &PackagingError{Kind: MissingPublishDir, Path: src.PublishDir}
	}
	if info, err := os.Stat(src.BinaryPath); err != nil || !info.Mode().IsRegular() {
		return nil, &PackagingError{Kind: MissingBinary, Path: src.BinaryPath, Err: err}
	}
	if !isDir(src.IntermediateDir) {
		return nil, &PackagingError{Kind: MissingIntermediateDir, Path: src.IntermediateDir}
	}

	if err := os.MkdirAll(outputRoot, 0o755); err != nil {
		return nil, &PackagingError{Kind: CopyIOError, Path: outputRoot, Err: err}
	}
	staging := filepath.Join(outputRoot, ".staging-"+m.Name+"."+string(arch)+"-"+uuid.NewString())
	if err := os.Mkdir(staging, 0o755); err != nil {
		return nil, &PackagingError{Kind: CopyIOError, Path: staging, Err: err}
	}
	committed := false
	defer func() {
		if committed {
			return
		}
		if err := os.RemoveAll(staging); err != nil {
			logger.Warn("cannot remove staging directory", "path", staging, "err", err)
		}
	}()

	luxmodDir := filepath.Join(staging, LuxmodDirName(m.Name))
	logger.Debug("copying publish tree", "from", src.PublishDir)
	if err := p.copyTree(src.PublishDir, luxmodDir, m.Build.BinaryName); err != nil {
		return nil, &PackagingError{Kind: CopyIOError, Path: src.PublishDir, Err: err}
	}

	renamed := MarketplaceBinaryName(m.Build.BinaryName, p.infix())
	if err := os.Rename(filepath.Join(luxmodDir, m.Build.BinaryName), filepath.Join(luxmodDir, renamed)); err != nil {
		return nil, &PackagingError{Kind: CopyIOError, Path: src.BinaryPath, Err: err}
	}

	stem := m.BinaryStem()
	logger.Debug("copying intermediate tree", "from", src.IntermediateDir)
	if err := p.copyTree(src.IntermediateDir, filepath.Join(staging, stem), ""); err != nil {
		return nil, &PackagingError{Kind: CopyIOError, Path: src.IntermediateDir, Err: err}
	}

	if err := os.Rename(staging, bundle); err != nil {
		if errors.Is(err, fs.ErrExist) || isDir(bundle) {
			return nil, &PackagingError{Kind: DestinationExists, Path: bundle, Err: err}
		}
		return nil, &PackagingError{Kind: CopyIOError, Path: bundle, Err: err}
	}
	committed = true

	logger.Debug("bundle ready", "path", bundle)
	return &Artifact{
		BundleDir:       bundle,
		LuxmodDir:       filepath.Join(bundle, LuxmodDirName(m.Name)),
		BinaryPath:      filepath.Join(bundle, LuxmodDirName(m.Name), renamed),
		IntermediateDir: filepath.Join(bundle, stem),
		Source:          src,
	}, nil
}

// copyTree copies src to dst without following symlinks, skipping files
// that match an exclude pattern. keep names a root-level file that is never
// skipped.
func (p *Packager) copyTree(src, dst, keep string) error {
	opts := cp.Options{
		NoFollowSymlinks: true,
		PreCallback: func(path, _ string, info os.FileInfo) error {
			if info.IsDir() || len(p.Exclude) == 0 {
				return nil
			}
			rel, err := filepath.Rel(src, path)
			if err != nil {
				return err
			}
			rel = filepath.ToSlash(rel)
			if rel == keep {
				return nil
			}
			for _, pat := range p.Exclude {
				if matched, matchErr := doublestar.Match(pat, rel); matchErr == nil && matched {
					return cp.ErrSkip
				}
			}
			return nil
		},
	}
	return opts.CopyTree(src, dst)
}

// CopyBrochure copies the declared brochure of m into its bundle as
// <name>.readme.md. An undeclared or absent brochure yields
// *BrochureMissingError; a failed copy yields *PackagingError.
func (p *Packager) CopyBrochure(m *luxmod.Manifest, arch platform.Arch, outputRoot string) error {
	if m.Brochure == "" {
		return &BrochureMissingError{Module: m.Name}
	}

	src := m.Brochure
	if !filepath.IsAbs(src) {
		src = filepath.Join(m.Dir, src)
	}
	info, err := os.Stat(src)
	if err != nil || !info.Mode().IsRegular() {
		return &BrochureMissingError{Module: m.Name, Path: src, Err: err}
	}

	dst := filepath.Join(BundleDir(outputRoot, m.Name, arch), BrochureFileName(m.Name))
	if err := cp.Copy(src, dst); err != nil {
		return &PackagingError{Kind: CopyIOError, Path: dst, Err: err}
	}
	return nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
