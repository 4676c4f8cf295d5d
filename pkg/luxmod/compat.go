// SPDX-License-Identifier: MPL-2.0

package luxmod

import (
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/luxoria/luxmktplacemgr/pkg/platform"
)

// Check reports whether m declares a runtime for arch. The lookup is an exact
// key match; there is no default architecture. A false result means the module
// is skipped, not failed.
func Check(m *Manifest, arch platform.Arch) bool {
	_, ok := m.RuntimeFor(arch)
	return ok
}

// RuntimeFor returns the toolchain runtime identifier declared for arch.
func (m *Manifest) RuntimeFor(arch platform.Arch) (string, bool) {
	if m == nil || arch == "" {
		return "", false
	}
	rid, ok := m.Build.Runtimes[string(arch)]
	return rid, ok
}

// Architectures returns the declared architecture keys, sorted.
func (m *Manifest) Architectures() []platform.Arch {
	keys := maps.Keys(m.Build.Runtimes)
	slices.Sort(keys)
	out := make([]platform.Arch, len(keys))
	for i, k := range keys {
		out[i] = platform.Arch(k)
	}
	return out
}
