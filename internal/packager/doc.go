// SPDX-License-Identifier: MPL-2.0

// Package packager turns successful toolchain output into a marketplace
// bundle:
//
//	<out>/<name>.<arch>/
//	    <name>.luxmod/      publish tree, primary binary renamed X.dll -> X.Lux.dll
//	    <binary stem>/      intermediate build tree
//	    <name>.readme.md    brochure copy
//
// Bundles are assembled in a staging directory next to the final location and
// renamed into place, so a failed export never leaves a partial bundle. The
// toolchain output itself is only read.
package packager
