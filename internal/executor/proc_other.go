// SPDX-License-Identifier: MPL-2.0

//go:build !unix

package executor

import "os/exec"

// setProcessGroup is a no-op where process groups are unavailable; the
// default exec.Cmd.Cancel kills the toolchain process itself.
func setProcessGroup(*exec.Cmd) {}
