// SPDX-License-Identifier: MPL-2.0

package orchestrator

import (
	"sync"
	"time"

	"github.com/luxoria/luxmktplacemgr/pkg/platform"
)

const (
	// StatusSkipped means the module was not built.
	StatusSkipped Status = "skipped"
	// StatusFailed means the build or packaging failed.
	StatusFailed Status = "failed"
	// StatusPackaged means the bundle was produced.
	StatusPackaged Status = "packaged"

	// KindManifestMissing marks a directory without luxmod.json.
	KindManifestMissing Kind = "manifest-missing"
	// KindManifest marks an unreadable or invalid luxmod.json.
	KindManifest Kind = "manifest"
	// KindIncompatible marks a module that does not declare the requested arch.
	KindIncompatible Kind = "incompatible"
	// KindShutdown marks a module not started because shutdown was requested.
	KindShutdown Kind = "shutdown"
	// KindExecutor marks a toolchain that could not be started.
	KindExecutor Kind = "executor"
	// KindBuild marks a toolchain that exited non-zero.
	KindBuild Kind = "build"
	// KindTimeout marks a toolchain killed after its timeout.
	KindTimeout Kind = "timeout"
	// KindPackaging marks a successful build whose bundle could not be made.
	KindPackaging Kind = "packaging"
	// KindDuplicateName marks a module whose name an earlier directory
	// already uses for the same architecture. It is not built.
	KindDuplicateName Kind = "duplicate-name"
	// KindPanic marks a pipeline that panicked.
	KindPanic Kind = "panic"
)

type (
	// Status is the terminal state of one module.
	Status string

	// Kind refines a Skipped or Failed status. It is empty for Packaged.
	Kind string

	// Entry is the outcome of one discovered module directory.
	Entry struct {
		// Module is the manifest name, or the directory name when no
		// manifest could be read.
		Module    string
		Dir       string
		Status    Status
		Kind      Kind
		Detail    string
		LogPath   string
		BundleDir string
		Warnings  []string
		Duration  time.Duration
	}

	// Report is the ordered outcome of a batch run.
	Report struct {
		RunID      string
		Platform   platform.Platform
		Arch       platform.Arch
		RootDir    string
		OutputRoot string
		StartedAt  time.Time
		FinishedAt time.Time
		Entries    []Entry
	}

	// collector slots entries at their discovery index. It is the only state
	// shared between pipelines.
	collector struct {
		mu      sync.Mutex
		entries []Entry
	}
)

func newCollector(n int) *collector {
	return &collector{entries: make([]Entry, n)}
}

func (c *collector) set(i int, e Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[i] = e
}

func (c *collector) snapshot() []Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// OK reports whether no module failed.
func (r *Report) OK() bool {
	return r.Count(StatusFailed) == 0
}

// Failed returns the failed entries in report order.
func (r *Report) Failed() []Entry {
	var out []Entry
	for _, e := range r.Entries {
		if e.Status == StatusFailed {
			out = append(out, e)
		}
	}
	return out
}

// Count returns the number of entries with status s.
func (r *Report) Count(s Status) int {
	n := 0
	for _, e := range r.Entries {
		if e.Status == s {
			n++
		}
	}
	return n
}

// Duration is the wall-clock time of the run.
func (r *Report) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}
