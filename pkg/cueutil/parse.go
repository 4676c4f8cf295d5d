// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cuejson "cuelang.org/go/encoding/json"
)

// Document is compiled user data that has not yet been checked against a schema.
type Document struct {
	ctx     *cue.Context
	value   cue.Value
	options parseOptions
}

// Compile parses data into a Document. Syntax problems and oversized inputs
// are reported as *SyntaxError.
func Compile(data []byte, opts ...Option) (*Document, error) {
	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}

	if err := CheckFileSize(data, options.maxFileSize); err != nil {
		return nil, &SyntaxError{FilePath: options.filename, Err: err}
	}

	ctx := cuecontext.New()

	var value cue.Value
	switch options.format {
	case FormatJSON:
		expr, err := cuejson.Extract(options.filename, data)
		if err != nil {
			return nil, &SyntaxError{FilePath: options.filename, Err: err}
		}
		value = ctx.BuildExpr(expr)
	default:
		value = ctx.CompileBytes(data, cue.Filename(options.filename))
		if value.Err() != nil {
			return nil, &SyntaxError{FilePath: options.filename, Err: value.Err()}
		}
	}

	// Conflicting duplicate keys surface here, after the syntax was accepted.
	if err := value.Validate(); err != nil {
		return nil, FormatError(err, options.filename)
	}

	return &Document{ctx: ctx, value: value, options: options}, nil
}

// Filename returns the name used for error messages.
func (d *Document) Filename() string { return d.options.filename }

// Has reports whether the dotted path (e.g. "build.runtimes") is present in
// the raw document.
func (d *Document) Has(path string) bool {
	return d.value.LookupPath(cue.ParsePath(path)).Exists()
}

// Value returns the raw compiled value.
func (d *Document) Value() cue.Value { return d.value }

// Decode unifies the document with the schemaPath definition of schema,
// validates the result and decodes it into a T. Validation problems are
// returned as *ValidationError.
func Decode[T any](d *Document, schema []byte, schemaPath string) (*T, error) {
	schemaValue := d.ctx.CompileBytes(schema)
	if schemaValue.Err() != nil {
		return nil, fmt.Errorf("internal error: failed to compile schema: %w", schemaValue.Err())
	}

	root := schemaValue.LookupPath(cue.ParsePath(schemaPath))
	if root.Err() != nil {
		return nil, fmt.Errorf("internal error: schema definition %s not found: %w", schemaPath, root.Err())
	}

	unified := root.Unify(d.value)
	if err := unified.Validate(cue.Concrete(d.options.concrete)); err != nil {
		return nil, FormatError(err, d.options.filename)
	}

	var out T
	if err := unified.Decode(&out); err != nil {
		return nil, FormatError(err, d.options.filename)
	}
	return &out, nil
}

// DecodeMap unifies the document with the schema and decodes it into a
// generic map, which is what viper merges.
func DecodeMap(d *Document, schema []byte, schemaPath string) (map[string]any, error) {
	m, err := Decode[map[string]any](d, schema, schemaPath)
	if err != nil {
		return nil, err
	}
	return *m, nil
}
