// SPDX-License-Identifier: MPL-2.0

package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/luxoria/luxmktplacemgr/internal/executor"
	"github.com/luxoria/luxmktplacemgr/internal/packager"
	"github.com/luxoria/luxmktplacemgr/pkg/luxmod"
	"github.com/luxoria/luxmktplacemgr/pkg/platform"
)

type (
	// Builder runs the toolchain for one module.
	Builder interface {
		Run(ctx context.Context, m *luxmod.Manifest, req executor.Request) *executor.Result
	}

	// Exporter turns a successful build into a bundle.
	Exporter interface {
		Export(m *luxmod.Manifest, moduleDir string, arch platform.Arch, plat platform.Platform, outputRoot string) (*packager.Artifact, error)
		CopyBrochure(m *luxmod.Manifest, arch platform.Arch, outputRoot string) error
	}

	// Candidate is an immediate subdirectory of the modules root.
	Candidate struct {
		Name        string
		Dir         string
		HasManifest bool
	}

	// loaded is a candidate with its manifest read ahead of the pipelines.
	loaded struct {
		Candidate
		manifest *luxmod.Manifest
		loadErr  error
		// duplicateOf is the earlier directory that claimed the same
		// module name for the batch architecture.
		duplicateOf string
	}

	// Orchestrator runs the batch. Use one Orchestrator per run.
	Orchestrator struct {
		Builder  Builder
		Exporter Exporter
		// Jobs bounds concurrent pipelines. Zero means runtime.GOMAXPROCS(0).
		Jobs   int
		Logger *log.Logger

		shutdown atomic.Bool
	}
)

// Shutdown stops new pipelines from starting. Running pipelines finish.
func (o *Orchestrator) Shutdown() {
	o.shutdown.Store(true)
}

func (o *Orchestrator) stopping(ctx context.Context) bool {
	return o.shutdown.Load() || ctx.Err() != nil
}

func (o *Orchestrator) jobs() int {
	if o.Jobs <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return o.Jobs
}

func (o *Orchestrator) logger() *log.Logger {
	if o.Logger == nil {
		return log.New(io.Discard)
	}
	return o.Logger
}

// Discover lists the immediate subdirectories of rootDir sorted by name.
// Symlinks to directories count as directories.
func Discover(rootDir string) ([]Candidate, error) {
	entries, err := os.ReadDir(rootDir)
	if err != nil {
		return nil, &EnvironmentError{Op: OpReadModules, Path: rootDir, Err: err}
	}

	var out []Candidate
	for _, entry := range entries {
		dir := filepath.Join(rootDir, entry.Name())
		if !entry.IsDir() {
			info, statErr := os.Stat(dir)
			if statErr != nil || !info.IsDir() {
				continue
			}
		}
		out = append(out, Candidate{Name: entry.Name(), Dir: dir, HasManifest: luxmod.Exists(dir)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// BuildAll runs the pipeline for every module under rootDir. The returned
// error is non-nil only for environment failures; module failures are
// reported in the Report. Cancelling ctx acts like Shutdown.
func (o *Orchestrator) BuildAll(ctx context.Context, rootDir string, plat platform.Platform, outputRoot string) (*Report, error) {
	if ok, errs := plat.IsValid(); !ok {
		return nil, errors.Join(errs...)
	}

	absRoot, err := filepath.Abs(rootDir)
	if err != nil {
		return nil, &EnvironmentError{Op: OpResolveModules, Path: rootDir, Err: err}
	}
	candidates, err := Discover(absRoot)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(outputRoot, 0o755); err != nil {
		return nil, &EnvironmentError{Op: OpCreateOutput, Path: outputRoot, Err: err}
	}

	report := &Report{
		RunID:      uuid.NewString(),
		Platform:   plat,
		Arch:       plat.Arch(),
		RootDir:    absRoot,
		OutputRoot: outputRoot,
		StartedAt:  time.Now(),
	}
	o.logger().Info("starting batch", "modules", len(candidates), "platform", plat, "jobs", o.jobs())

	modules := loadAll(candidates, plat.Arch())
	results := newCollector(len(modules))
	g := new(errgroup.Group)
	g.SetLimit(o.jobs())
	for i, mod := range modules {
		if o.stopping(ctx) {
			results.set(i, shutdownEntry(mod.Candidate))
			continue
		}
		g.Go(func() error {
			// The pool may have been full when shutdown was requested.
			if o.stopping(ctx) {
				results.set(i, shutdownEntry(mod.Candidate))
				return nil
			}
			results.set(i, o.process(ctx, mod, plat, outputRoot))
			return nil
		})
	}
	_ = g.Wait() // pipelines never return errors

	report.Entries = results.snapshot()
	report.FinishedAt = time.Now()
	return report, nil
}

// loadAll reads every manifest in discovery order. Bundles and logs are keyed
// by module name and architecture, so among modules that declare arch only the
// first directory may use a given name.
func loadAll(candidates []Candidate, arch platform.Arch) []loaded {
	out := make([]loaded, len(candidates))
	claimed := make(map[string]string, len(candidates))
	for i, c := range candidates {
		out[i] = loaded{Candidate: c}
		if !c.HasManifest {
			continue
		}
		out[i].manifest, out[i].loadErr = loadManifest(c.Dir)
		m := out[i].manifest
		if m == nil || !luxmod.Check(m, arch) {
			continue
		}
		if first, ok := claimed[m.Name]; ok {
			out[i].duplicateOf = first
			continue
		}
		claimed[m.Name] = c.Dir
	}
	return out
}

func loadManifest(dir string) (m *luxmod.Manifest, err error) {
	defer func() {
		if r := recover(); r != nil {
			m, err = nil, fmt.Errorf("internal error: %v", r)
		}
	}()
	return luxmod.Load(dir)
}

func shutdownEntry(c Candidate) Entry {
	return Entry{
		Module: c.Name,
		Dir:    c.Dir,
		Status: StatusSkipped,
		Kind:   KindShutdown,
		Detail: "shutdown requested",
	}
}

// process runs one module to its terminal state.
func (o *Orchestrator) process(ctx context.Context, c loaded, plat platform.Platform, outputRoot string) (entry Entry) {
	logger := o.logger().With("module", c.Name)
	start := time.Now()
	entry = Entry{Module: c.Name, Dir: c.Dir}

	defer func() {
		if r := recover(); r != nil {
			logger.Error("pipeline panicked", "panic", r)
			entry.Status = StatusFailed
			entry.Kind = KindPanic
			entry.Detail = fmt.Sprintf("internal error: %v", r)
		}
		entry.Duration = time.Since(start)
	}()

	skip := func(kind Kind, detail string) Entry {
		logger.Info("[ ] Skipping", "reason", detail)
		entry.Status = StatusSkipped
		entry.Kind = kind
		entry.Detail = detail
		return entry
	}
	fail := func(kind Kind, err error) Entry {
		logger.Error("[!] Failed", "kind", kind, "err", err)
		entry.Status = StatusFailed
		entry.Kind = kind
		entry.Detail = err.Error()
		return entry
	}

	if !c.HasManifest {
		return skip(KindManifestMissing, "manifest missing")
	}

	if c.loadErr != nil {
		return skip(KindManifest, c.loadErr.Error())
	}
	m := c.manifest
	entry.Module = m.Name
	logger = o.logger().With("module", m.Name)

	arch := plat.Arch()
	if !luxmod.Check(m, arch) {
		return skip(KindIncompatible, fmt.Sprintf("incompatible: %s not in [%s]", arch, joinArchs(m.Architectures())))
	}
	if c.duplicateOf != "" {
		return fail(KindDuplicateName, &DuplicateNameError{Name: m.Name, Dir: c.Dir, FirstDir: c.duplicateOf})
	}

	logger.Info("[*] Building", "arch", arch)
	res := o.Builder.Run(ctx, m, executor.Request{ModuleDir: c.Dir, Platform: plat, Arch: arch})
	entry.LogPath = res.LogPath
	if !res.Succeeded() {
		return fail(buildKind(res.Err), res.Err)
	}

	art, err := o.Exporter.Export(m, c.Dir, arch, plat, outputRoot)
	if err != nil {
		return fail(KindPackaging, err)
	}
	entry.BundleDir = art.BundleDir

	if err := o.Exporter.CopyBrochure(m, arch, outputRoot); err != nil {
		if !errors.Is(err, packager.ErrBrochureMissing) {
			return fail(KindPackaging, err)
		}
		logger.Warn("brochure not copied", "err", err)
		entry.Warnings = append(entry.Warnings, err.Error())
	}

	logger.Info("[+] Packaged", "bundle", art.BundleDir)
	entry.Status = StatusPackaged
	return entry
}

func buildKind(err error) Kind {
	switch {
	case errors.Is(err, executor.ErrBuildTimeout):
		return KindTimeout
	case errors.Is(err, executor.ErrBuildFailed):
		return KindBuild
	default:
		return KindExecutor
	}
}

func joinArchs(archs []platform.Arch) string {
	s := make([]string, len(archs))
	for i, a := range archs {
		s[i] = string(a)
	}
	return strings.Join(s, ", ")
}
