// SPDX-License-Identifier: MPL-2.0

// Package platform defines the fixed set of marketplace target platforms and
// their short architecture keys.
//
// A platform identifier (e.g. "win-x64") is what the CLI accepts and what the
// toolchain publishes into. The architecture key (e.g. "x64") is what module
// manifests declare in their runtime map and what bundle directories are
// suffixed with.
package platform
