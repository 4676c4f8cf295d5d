// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with CUE as the file format.
//
// Configuration is loaded from ~/.config/luxmktplacemgr/config.cue (or the XDG
// equivalent on Linux, ~/Library/Application Support/luxmktplacemgr/config.cue on
// macOS, %APPDATA%\luxmktplacemgr\config.cue on Windows), falling back to
// ./config.cue. Values can be overridden with LUXMKT_* environment variables
// (LUXMKT_BUILD_TIMEOUT, LUXMKT_UI_VERBOSE, ...).
//
// Configuration files are validated against an embedded CUE schema
// (config_schema.cue) to provide clear error messages for invalid values.
package config
