// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/slices"
)

// Id identifies a catalogued issue.
//
//nolint:revive // Id matches the catalog naming used across the CLI
type Id int

const (
	// ModulesDirNotFoundId: the modules directory argument does not exist.
	ModulesDirNotFoundId Id = iota + 1
	// PlatformNotSupportedId: the platform argument is not a supported value.
	PlatformNotSupportedId
	// ToolchainNotFoundId: the build toolchain could not be started.
	ToolchainNotFoundId
	// OutputDirNotWritableId: the output directory could not be created.
	OutputDirNotWritableId
	// ConfigLoadFailedId: the config file could not be read or validated.
	ConfigLoadFailedId
	// ManifestInvalidId: a luxmod.json did not parse or failed validation.
	ManifestInvalidId
	// BuildFailedId: one or more modules failed to build or package.
	BuildFailedId
)

type (
	// MarkdownMsg is Markdown rendered to the terminal with glamour.
	MarkdownMsg string

	// HttpLink is a documentation or external URL.
	//
	//nolint:revive // kept in line with Id
	HttpLink string

	// Issue is a catalogued problem with remediation guidance.
	Issue struct {
		id       Id
		mdMsg    MarkdownMsg
		docLinks []HttpLink
		extLinks []HttpLink
	}
)

// Id returns the issue identifier.
func (i *Issue) Id() Id { return i.id }

// MarkdownMsg returns the unrendered guidance.
func (i *Issue) MarkdownMsg() MarkdownMsg { return i.mdMsg }

// DocLinks returns a copy of the documentation links.
func (i *Issue) DocLinks() []HttpLink { return slices.Clone(i.docLinks) }

// ExtLinks returns a copy of the external links.
func (i *Issue) ExtLinks() []HttpLink { return slices.Clone(i.extLinks) }

// Render renders the guidance with the given glamour style ("dark", "light", "notty").
func (i *Issue) Render(stylePath string) (string, error) {
	var md strings.Builder
	md.WriteString(string(i.mdMsg))
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		md.WriteString("\n\n## See also\n")
		for _, link := range append(i.DocLinks(), i.extLinks...) {
			md.WriteString("- <" + string(link) + ">\n")
		}
	}
	return render(md.String(), stylePath)
}

var (
	render = glamour.Render

	modulesDirNotFoundIssue = &Issue{
		id: ModulesDirNotFoundId,
		mdMsg: `
# Modules directory not found!

The second argument must be an existing directory whose subdirectories are modules.

## Things you can try:
- Check the path for typos
- Pass an absolute path:
~~~
$ luxmktplacemgr win-x64 /path/to/modules
~~~`,
	}

	platformNotSupportedIssue = &Issue{
		id: PlatformNotSupportedId,
		mdMsg: `
# Platform not supported!

Modules can only be built for one of the marketplace platforms:
- ` + "`win-x64`" + `
- ` + "`win-x86`" + `
- ` + "`win-arm64`" + `

## Things you can try:
- Use one of the values above as the first argument`,
	}

	toolchainNotFoundIssue = &Issue{
		id: ToolchainNotFoundId,
		mdMsg: `
# Build toolchain not available!

The toolchain executable could not be started, so no module could be built.

## Things you can try:
- Install the .NET SDK and make sure ` + "`dotnet`" + ` is in your PATH
- Point the ` + "`toolchain`" + ` setting at the executable:
~~~cue
toolchain: "/usr/share/dotnet/dotnet"
~~~`,
		extLinks: []HttpLink{"https://learn.microsoft.com/dotnet/core/install/"},
	}

	outputDirNotWritableIssue = &Issue{
		id: OutputDirNotWritableId,
		mdMsg: `
# Output directory not writable!

Bundles and build logs are written under the output directory.

## Things you can try:
- Check the directory permissions
- Choose another location with ` + "`--output`",
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

## Things you can try:
- Check the CUE syntax of your config file
- Print the config file location:
~~~
$ luxmktplacemgr config path
~~~
- Regenerate a default config:
~~~
$ luxmktplacemgr config init
~~~`,
	}

	manifestInvalidIssue = &Issue{
		id: ManifestInvalidId,
		mdMsg: `
# Invalid module manifest!

Each module directory needs a ` + "`luxmod.json`" + ` like:
~~~json
{
  "name": "Lux.Sample",
  "build": {
    "csproj": "Lux.Sample.csproj",
    "config": "Release",
    "runtimes": { "x64": "win-x64" },
    "targetFramework": "net9.0",
    "bin": "bin",
    "dll": "Lux.Sample.dll"
  }
}
~~~`,
	}

	buildFailedIssue = &Issue{
		id: BuildFailedId,
		mdMsg: `
# Some modules were not packaged!

## Things you can try:
- Read the build log listed next to each failed module
- Rerun with ` + "`--verbose`" + ` to see every toolchain invocation
- Raise ` + "`--timeout`" + ` if builds were killed`,
	}

	issues = map[Id]*Issue{
		modulesDirNotFoundIssue.Id():   modulesDirNotFoundIssue,
		platformNotSupportedIssue.Id(): platformNotSupportedIssue,
		toolchainNotFoundIssue.Id():    toolchainNotFoundIssue,
		outputDirNotWritableIssue.Id(): outputDirNotWritableIssue,
		configLoadFailedIssue.Id():     configLoadFailedIssue,
		manifestInvalidIssue.Id():      manifestInvalidIssue,
		buildFailedIssue.Id():          buildFailedIssue,
	}
)

// Values returns every catalogued issue ordered by Id.
func Values() []*Issue {
	out := make([]*Issue, 0, len(issues))
	for _, i := range issues {
		out = append(out, i)
	}
	slices.SortFunc(out, func(a, b *Issue) int { return int(a.id) - int(b.id) })
	return out
}

// Get returns the issue for id, or nil when it is not catalogued.
func Get(id Id) *Issue {
	return issues[id]
}
