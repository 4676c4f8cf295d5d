// SPDX-License-Identifier: MPL-2.0

package cueutil

// DefaultMaxFileSize is the default maximum input size (5MB).
const DefaultMaxFileSize int64 = 5 * 1024 * 1024

const (
	// FormatCUE compiles the input as CUE source.
	FormatCUE Format = iota
	// FormatJSON extracts the input as strict JSON before building a CUE value.
	FormatJSON
)

type (
	// Format selects how Compile interprets the input bytes.
	Format int

	parseOptions struct {
		maxFileSize int64
		concrete    bool
		filename    string
		format      Format
	}

	// Option configures parsing behavior.
	Option func(*parseOptions)
)

func defaultOptions() parseOptions {
	return parseOptions{
		maxFileSize: DefaultMaxFileSize,
		concrete:    true,
		filename:    "<input>",
		format:      FormatCUE,
	}
}

// WithMaxFileSize sets the maximum allowed input size.
func WithMaxFileSize(size int64) Option {
	return func(o *parseOptions) {
		o.maxFileSize = size
	}
}

// WithConcrete sets whether all values must be concrete after unification.
// Config files use false because every field is optional.
func WithConcrete(concrete bool) Option {
	return func(o *parseOptions) {
		o.concrete = concrete
	}
}

// WithFilename sets the filename used in error messages.
func WithFilename(filename string) Option {
	return func(o *parseOptions) {
		if filename != "" {
			o.filename = filename
		}
	}
}

// WithFormat sets the input format. Default is FormatCUE.
func WithFormat(f Format) Option {
	return func(o *parseOptions) {
		o.format = f
	}
}
