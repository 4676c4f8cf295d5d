// SPDX-License-Identifier: MPL-2.0

package platform

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

const (
	// WinX64 targets 64-bit Windows on x86-64.
	WinX64 Platform = "win-x64"
	// WinX86 targets 32-bit Windows on x86.
	WinX86 Platform = "win-x86"
	// WinArm64 targets Windows on ARM64.
	WinArm64 Platform = "win-arm64"

	// ArchX64 is the manifest key for WinX64.
	ArchX64 Arch = "x64"
	// ArchX86 is the manifest key for WinX86.
	ArchX86 Arch = "x86"
	// ArchArm64 is the manifest key for WinArm64.
	ArchArm64 Arch = "arm64"
)

// ErrUnsupportedPlatform is the sentinel error wrapped by UnsupportedPlatformError.
var ErrUnsupportedPlatform = errors.New("platform not supported")

// archByPlatform is the fixed marketplace platform table.
var archByPlatform = map[Platform]Arch{
	WinX64:   ArchX64,
	WinX86:   ArchX86,
	WinArm64: ArchArm64,
}

type (
	// Platform is a toolchain target platform identifier such as "win-x64".
	Platform string

	// Arch is the short architecture key used in module manifests and bundle names.
	Arch string

	// UnsupportedPlatformError is returned when a platform identifier is not
	// part of the marketplace platform table.
	UnsupportedPlatformError struct {
		Value string
	}
)

// Error implements the error interface.
func (e *UnsupportedPlatformError) Error() string {
	return fmt.Sprintf("platform %q not supported (valid: %s)", e.Value, strings.Join(supportedStrings(), ", "))
}

// Unwrap returns ErrUnsupportedPlatform for errors.Is() compatibility.
func (e *UnsupportedPlatformError) Unwrap() error { return ErrUnsupportedPlatform }

// Parse validates s against the platform table.
func Parse(s string) (Platform, error) {
	p := Platform(s)
	if _, ok := archByPlatform[p]; !ok {
		return "", &UnsupportedPlatformError{Value: s}
	}
	return p, nil
}

// Supported returns every known platform, sorted.
func Supported() []Platform {
	out := make([]Platform, 0, len(archByPlatform))
	for p := range archByPlatform {
		out = append(out, p)
	}
	slices.Sort(out)
	return out
}

func supportedStrings() []string {
	ps := Supported()
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = string(p)
	}
	return out
}

// String returns the platform identifier.
func (p Platform) String() string { return string(p) }

// IsValid returns whether p is in the platform table, and a list of
// validation errors if it is not.
func (p Platform) IsValid() (bool, []error) {
	if _, ok := archByPlatform[p]; !ok {
		return false, []error{&UnsupportedPlatformError{Value: string(p)}}
	}
	return true, nil
}

// Arch returns the short architecture key for p, or "" when p is unknown.
func (p Platform) Arch() Arch {
	return archByPlatform[p]
}

// String returns the architecture key.
func (a Arch) String() string { return string(a) }
