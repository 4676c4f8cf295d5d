// SPDX-License-Identifier: MPL-2.0

package luxmod

import (
	"slices"
	"testing"

	"pgregory.net/rapid"

	"github.com/luxoria/luxmktplacemgr/pkg/platform"
)

func TestCheck(t *testing.T) {
	t.Parallel()

	m := &Manifest{
		Name: "A",
		Build: Build{
			Runtimes: map[string]string{"x64": "win-x64", "arm64": "win-arm64"},
		},
	}

	tests := []struct {
		arch platform.Arch
		want bool
	}{
		{platform.ArchX64, true},
		{platform.ArchArm64, true},
		{platform.ArchX86, false},
		{"X64", false},
		{"x6", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := Check(m, tt.arch); got != tt.want {
			t.Errorf("Check(%q) = %v, want %v", tt.arch, got, tt.want)
		}
	}
}

func TestCheck_NilManifest(t *testing.T) {
	t.Parallel()

	if Check(nil, platform.ArchX64) {
		t.Error("Check(nil) = true, want false")
	}
}

func TestRuntimeFor(t *testing.T) {
	t.Parallel()

	m := &Manifest{Build: Build{Runtimes: map[string]string{"x86": "win-x86"}}}

	rid, ok := m.RuntimeFor(platform.ArchX86)
	if !ok || rid != "win-x86" {
		t.Errorf("RuntimeFor(x86) = (%q, %v), want (win-x86, true)", rid, ok)
	}
	if _, ok := m.RuntimeFor(platform.ArchX64); ok {
		t.Error("RuntimeFor(x64) found a runtime that was not declared")
	}
}

func TestArchitectures(t *testing.T) {
	t.Parallel()

	m := &Manifest{Build: Build{Runtimes: map[string]string{
		"x86": "win-x86", "arm64": "win-arm64", "x64": "win-x64",
	}}}

	want := []platform.Arch{"arm64", "x64", "x86"}
	if got := m.Architectures(); !slices.Equal(got, want) {
		t.Errorf("Architectures() = %v, want %v", got, want)
	}
}

func TestCheck_Property(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(rt *rapid.T) {
		runtimes := rapid.MapOf(
			rapid.StringMatching(`[a-z0-9]{1,6}`),
			rapid.StringMatching(`[a-z]{3}-[a-z0-9]{2,5}`),
		).Draw(rt, "runtimes")
		arch := platform.Arch(rapid.StringMatching(`[a-zA-Z0-9]{0,6}`).Draw(rt, "arch"))

		m := &Manifest{Name: "M", Build: Build{Runtimes: runtimes}}
		_, declared := runtimes[string(arch)]

		got := Check(m, arch)
		if got != (declared && arch != "") {
			rt.Fatalf("Check(%v, %q) = %v, declared = %v", runtimes, arch, got, declared)
		}
		if got {
			if rid, _ := m.RuntimeFor(arch); rid != runtimes[string(arch)] {
				rt.Fatalf("RuntimeFor(%q) = %q, want %q", arch, rid, runtimes[string(arch)])
			}
		}
	})
}
