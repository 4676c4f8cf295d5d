// SPDX-License-Identifier: MPL-2.0

package executor

import (
	"fmt"
	"strconv"
	"strings"

	"mvdan.cc/sh/v3/syntax"

	"github.com/luxoria/luxmktplacemgr/pkg/luxmod"
	"github.com/luxoria/luxmktplacemgr/pkg/platform"
)

// Command returns the toolchain argv for building m for arch:
//
//	<toolchain> publish <csproj> -c <config> -r <runtime identifier>
//
// The runtime identifier comes from the manifest's runtimes map, so a module
// that does not declare arch yields an error instead of a command.
func Command(toolchain string, m *luxmod.Manifest, arch platform.Arch) ([]string, error) {
	rid, ok := m.RuntimeFor(arch)
	if !ok {
		return nil, fmt.Errorf("no runtime declared for architecture %q", arch)
	}
	return []string{
		toolchain,
		"publish",
		m.Build.Project,
		"-c", m.Build.Configuration,
		"-r", rid,
	}, nil
}

// CommandLine renders argv as a single line for logs. Arguments are quoted
// the way bash would need them; the result is never executed.
func CommandLine(argv []string) string {
	quoted := make([]string, len(argv))
	for i, arg := range argv {
		q, err := syntax.Quote(arg, syntax.LangBash)
		if err != nil {
			q = strconv.Quote(arg)
		}
		quoted[i] = q
	}
	return strings.Join(quoted, " ")
}
