// SPDX-License-Identifier: MPL-2.0

// Package executor runs the toolchain "publish" step for one module and
// records what happened.
//
// The toolchain is started directly from an argument list (never through a
// shell) in the module directory, with stdout and stderr captured separately.
// Every run, successful or not, leaves a <name>.<arch>.log file behind. The
// outcome is classified as a spawn failure (*ExecutorError), a timeout
// (*BuildTimeout) or a non-zero exit (*BuildFailure).
package executor
