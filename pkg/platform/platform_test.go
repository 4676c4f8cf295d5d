// SPDX-License-Identifier: MPL-2.0

package platform

import (
	"errors"
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		wantArch Arch
		wantErr  bool
	}{
		{input: "win-x64", wantArch: ArchX64},
		{input: "win-x86", wantArch: ArchX86},
		{input: "win-arm64", wantArch: ArchArm64},
		{input: "linux-x64", wantErr: true},
		{input: "WIN-X64", wantErr: true},
		{input: "x64", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			p, err := Parse(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Parse(%q) = %q, want error", tt.input, p)
				}
				if !errors.Is(err, ErrUnsupportedPlatform) {
					t.Errorf("error does not wrap ErrUnsupportedPlatform: %v", err)
				}
				var upErr *UnsupportedPlatformError
				if !errors.As(err, &upErr) || upErr.Value != tt.input {
					t.Errorf("errors.As() = %v, want UnsupportedPlatformError{%q}", upErr, tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q) returned error: %v", tt.input, err)
			}
			if got := p.Arch(); got != tt.wantArch {
				t.Errorf("Parse(%q).Arch() = %q, want %q", tt.input, got, tt.wantArch)
			}
		})
	}
}

func TestSupportedIsSorted(t *testing.T) {
	t.Parallel()

	got := Supported()
	want := []Platform{WinArm64, WinX64, WinX86}
	if len(got) != len(want) {
		t.Fatalf("Supported() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Supported()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestUnsupportedPlatformErrorListsValidValues(t *testing.T) {
	t.Parallel()

	err := &UnsupportedPlatformError{Value: "osx-arm64"}
	msg := err.Error()
	for _, p := range Supported() {
		if !strings.Contains(msg, string(p)) {
			t.Errorf("Error() = %q, missing %q", msg, p)
		}
	}
}

func TestPlatformIsValid(t *testing.T) {
	t.Parallel()

	if ok, errs := WinX64.IsValid(); !ok || len(errs) != 0 {
		t.Errorf("WinX64.IsValid() = %v, %v; want true, nil", ok, errs)
	}
	if ok, errs := Platform("win-mips").IsValid(); ok || len(errs) != 1 {
		t.Errorf("IsValid() on unknown platform = %v, %v; want false, 1 error", ok, errs)
	}
	if got := Platform("win-mips").Arch(); got != "" {
		t.Errorf("unknown platform Arch() = %q, want empty", got)
	}
}
