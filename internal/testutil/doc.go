// SPDX-License-Identifier: MPL-2.0

// Package testutil provides helper functions for tests that handle errors
// appropriately, reducing boilerplate and ensuring consistent error handling.
//
// Besides the Must* helpers it builds on-disk fixtures for the build pipeline:
// module directories with a luxmod.json and pre-made toolchain output
// (WriteModule), and a fake toolchain executable that records every
// invocation (WriteFakeToolchain).
package testutil
