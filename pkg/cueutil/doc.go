// SPDX-License-Identifier: MPL-2.0

// Package cueutil provides the shared CUE parsing flow used for module
// manifests and the tool configuration file.
//
// Parsing is split into two steps so callers can inspect the raw document
// between them (for example to report which required field is missing before
// schema unification folds that into a generic "incomplete value" error):
//
//  1. Compile the user data (CUE source, or strict JSON) into a Document
//  2. Unify the Document with an embedded schema definition, validate it,
//     and decode it into a Go struct
//
// # Usage
//
//	//go:embed luxmod_schema.cue
//	var schema []byte
//
//	doc, err := cueutil.Compile(data, cueutil.WithFilename("luxmod.json"), cueutil.WithFormat(cueutil.FormatJSON))
//	if err != nil {
//	    return nil, err // *cueutil.SyntaxError
//	}
//	m, err := cueutil.Decode[Manifest](doc, schema, "#Luxmod")
package cueutil
