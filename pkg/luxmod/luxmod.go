// SPDX-License-Identifier: MPL-2.0

package luxmod

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/luxoria/luxmktplacemgr/pkg/cueutil"
)

const (
	// FileName is the fixed manifest file name inside a module directory.
	FileName = "luxmod.json"

	// MaxFileSize caps the manifest size.
	MaxFileSize int64 = 1 << 20

	// ManifestNotFound means the module directory has no luxmod.json.
	ManifestNotFound ManifestErrorKind = "not-found"
	// ManifestParseError means luxmod.json is not readable JSON.
	ManifestParseError ManifestErrorKind = "parse"
	// ManifestSchemaError means luxmod.json is JSON but misses or mistypes a field.
	ManifestSchemaError ManifestErrorKind = "schema"
)

//go:embed luxmod_schema.cue
var schema []byte

// ErrManifest is the sentinel error wrapped by ManifestError.
var ErrManifest = errors.New("invalid module manifest")

// requiredFields are checked on the raw document before schema unification,
// so a missing field is reported by name.
var requiredFields = []string{
	"name",
	"build",
	"build.csproj",
	"build.config",
	"build.runtimes",
	"build.targetFramework",
	"build.bin",
	"build.dll",
}

type (
	// ManifestErrorKind classifies manifest failures.
	ManifestErrorKind string

	// ManifestError is returned by Load. Field is set for schema errors.
	ManifestError struct {
		Kind  ManifestErrorKind
		Path  string
		Field string
		Err   error
	}

	// Build is the "build" section of a manifest.
	Build struct {
		Project         string            `json:"csproj"`
		Configuration   string            `json:"config"`
		Runtimes        map[string]string `json:"runtimes"`
		TargetFramework string            `json:"targetFramework"`
		BinRoot         string            `json:"bin"`
		BinaryName      string            `json:"dll"`
	}

	// Manifest is a parsed luxmod.json.
	Manifest struct {
		Name     string `json:"name"`
		Build    Build  `json:"build"`
		Brochure string `json:"brochure,omitempty"`

		// Dir is the absolute module directory the manifest was loaded from.
		Dir string `json:"-"`
	}
)

// Error implements the error interface.
func (e *ManifestError) Error() string {
	switch e.Kind {
	case ManifestNotFound:
		return fmt.Sprintf("%s not found in %s", FileName, filepath.Dir(e.Path))
	case ManifestSchemaError:
		if e.Field != "" {
			return fmt.Sprintf("%s: field %q: %v", e.Path, e.Field, e.Err)
		}
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	default:
		return fmt.Sprintf("%s: malformed manifest: %v", e.Path, e.Err)
	}
}

// Unwrap returns ErrManifest and the underlying cause.
func (e *ManifestError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrManifest}
	}
	return []error{ErrManifest, e.Err}
}

// Exists reports whether moduleDir contains a manifest file.
func Exists(moduleDir string) bool {
	info, err := os.Stat(filepath.Join(moduleDir, FileName))
	return err == nil && !info.IsDir()
}

// Load reads and validates the manifest of moduleDir.
func Load(moduleDir string) (*Manifest, error) {
	absDir, err := filepath.Abs(moduleDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve module directory: %w", err)
	}
	path := filepath.Join(absDir, FileName)

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &ManifestError{Kind: ManifestNotFound, Path: path, Err: err}
		}
		return nil, &ManifestError{Kind: ManifestParseError, Path: path, Err: err}
	}

	m, err := Parse(data, path)
	if err != nil {
		return nil, err
	}
	m.Dir = absDir
	return m, nil
}

// Parse validates manifest bytes. filename is used in error messages only.
func Parse(data []byte, filename string) (*Manifest, error) {
	doc, err := cueutil.Compile(data,
		cueutil.WithFormat(cueutil.FormatJSON),
		cueutil.WithFilename(filename),
		cueutil.WithMaxFileSize(MaxFileSize),
	)
	if err != nil {
		return nil, classify(err, filename)
	}

	for _, field := range requiredFields {
		if !doc.Has(field) {
			return nil, &ManifestError{
				Kind:  ManifestSchemaError,
				Path:  filename,
				Field: field,
				Err:   errors.New("required field is missing"),
			}
		}
	}

	m, err := cueutil.Decode[Manifest](doc, schema, "#Luxmod")
	if err != nil {
		return nil, classify(err, filename)
	}
	return m, nil
}

func classify(err error, filename string) error {
	var vErr *cueutil.ValidationError
	if errors.As(err, &vErr) {
		return &ManifestError{
			Kind:  ManifestSchemaError,
			Path:  filename,
			Field: vErr.CUEPath,
			Err:   errors.New(strings.TrimPrefix(vErr.Message, vErr.CUEPath+": ")),
		}
	}
	if errors.Is(err, cueutil.ErrSyntax) {
		var sErr *cueutil.SyntaxError
		if errors.As(err, &sErr) {
			err = sErr.Err
		}
		return &ManifestError{Kind: ManifestParseError, Path: filename, Err: err}
	}
	return &ManifestError{Kind: ManifestParseError, Path: filename, Err: err}
}

// BinaryStem returns the binary file name without its extension
// ("LuxEditor.dll" -> "LuxEditor").
func (m *Manifest) BinaryStem() string {
	return strings.TrimSuffix(m.Build.BinaryName, filepath.Ext(m.Build.BinaryName))
}
