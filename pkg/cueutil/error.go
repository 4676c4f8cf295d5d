// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"errors"
	"fmt"
	"strings"

	cueerrors "cuelang.org/go/cue/errors"
)

var (
	// ErrSyntax is the sentinel error wrapped by SyntaxError.
	ErrSyntax = errors.New("syntax error")
	// ErrValidation is the sentinel error wrapped by ValidationError.
	ErrValidation = errors.New("validation error")
)

type (
	// SyntaxError reports input that could not be parsed at all.
	SyntaxError struct {
		FilePath string
		Err      error
	}

	// ValidationError reports input that parsed but does not satisfy the schema.
	ValidationError struct {
		// FilePath is the file being validated.
		FilePath string
		// CUEPath is the JSON path to the first invalid value (e.g. "build.runtimes.x64").
		CUEPath string
		// Message holds one line per CUE error.
		Message string
	}
)

// Error implements the error interface.
func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s: %v", e.FilePath, e.Err)
}

// Unwrap returns both the sentinel and the underlying cause.
func (e *SyntaxError) Unwrap() []error { return []error{ErrSyntax, e.Err} }

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.FilePath, e.Message)
}

// Unwrap returns ErrValidation for errors.Is() compatibility.
func (e *ValidationError) Unwrap() error { return ErrValidation }

// FormatError converts a CUE error into a *ValidationError whose message
// prefixes every line with the JSON path of the offending value:
//
//	luxmod.json: build.runtimes.x64: conflicting values "win-x64" and "win-x86"
func FormatError(err error, filePath string) error {
	if err == nil {
		return nil
	}

	cueErrs := cueerrors.Errors(err)
	if len(cueErrs) == 0 {
		return &ValidationError{FilePath: filePath, Message: err.Error()}
	}

	var (
		lines     []string
		firstPath string
	)
	for _, e := range cueErrs {
		rawPath := cueerrors.Path(e)
		pathStr := formatPath(rawPath)
		msg := e.Error()

		// CUE sometimes repeats the path in the message.
		for _, prefix := range []string{strings.Join(rawPath, "."), pathStr} {
			if prefix != "" && strings.HasPrefix(msg, prefix) {
				msg = strings.TrimSpace(strings.TrimPrefix(strings.TrimPrefix(msg, prefix), ":"))
				break
			}
		}

		if pathStr != "" {
			if firstPath == "" {
				firstPath = pathStr
			}
			lines = append(lines, pathStr+": "+msg)
		} else {
			lines = append(lines, msg)
		}
	}

	message := lines[0]
	if len(lines) > 1 {
		message = "validation failed:\n  " + strings.Join(lines, "\n  ")
	}
	return &ValidationError{FilePath: filePath, CUEPath: firstPath, Message: message}
}

// formatPath converts a CUE error path (["#Luxmod", "runtimes", "0", "x"]) to
// JSON-path notation ("runtimes[0].x"). A leading definition selector is dropped.
func formatPath(path []string) string {
	if len(path) > 0 && strings.HasPrefix(path[0], "#") {
		path = path[1:]
	}
	var result strings.Builder
	for i, part := range path {
		if i > 0 && isIndex(part) {
			result.WriteString("[" + part + "]")
			continue
		}
		if i > 0 {
			result.WriteString(".")
		}
		result.WriteString(part)
	}
	return result.String()
}

func isIndex(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// CheckFileSize returns an error if data exceeds maxSize bytes.
func CheckFileSize(data []byte, maxSize int64) error {
	if int64(len(data)) > maxSize {
		return fmt.Errorf("file size %d bytes exceeds maximum %d bytes", len(data), maxSize)
	}
	return nil
}
