// SPDX-License-Identifier: MPL-2.0

// Package luxmod reads and validates luxmod.json module manifests and answers
// whether a module declares support for a target architecture.
//
// A module directory is a buildable unit that carries a luxmod.json at its root:
//
//	{
//	  "name": "LuxEditor",
//	  "build": {
//	    "csproj": "LuxEditor/LuxEditor.csproj",
//	    "config": "Release",
//	    "runtimes": { "x64": "win-x64", "arm64": "win-arm64" },
//	    "targetFramework": "net9.0-windows10.0.26100.0",
//	    "bin": "LuxEditor/bin",
//	    "dll": "LuxEditor.dll"
//	  },
//	  "brochure": "README.md"
//	}
//
// Manifests are parsed as strict JSON and validated against an embedded CUE
// schema. A manifest that parses is immutable; callers only read it.
package luxmod
