// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the luxmktplacemgr CLI.
//
// The root command builds every module under a directory for one platform and
// packages the successful builds into marketplace bundles. The config
// subcommands inspect and create the CUE configuration file.
package cmd
