// SPDX-License-Identifier: MPL-2.0

package packager

import (
	"errors"
	"fmt"
)

const (
	// DestinationExists means the bundle directory is already present.
	DestinationExists PackagingErrorKind = "destination-exists"
	// MissingPublishDir means the derived publish directory does not exist.
	MissingPublishDir PackagingErrorKind = "missing-publish-dir"
	// MissingBinary means the publish directory lacks the primary binary.
	MissingBinary PackagingErrorKind = "missing-binary"
	// MissingIntermediateDir means the derived intermediate directory does not exist.
	MissingIntermediateDir PackagingErrorKind = "missing-intermediate-dir"
	// CopyIOError means copying or renaming failed.
	CopyIOError PackagingErrorKind = "copy-io"
)

var (
	// ErrPackaging is the sentinel error wrapped by PackagingError.
	ErrPackaging = errors.New("packaging failed")
	// ErrBrochureMissing is the sentinel error wrapped by BrochureMissingError.
	ErrBrochureMissing = errors.New("brochure missing")
)

type (
	// PackagingErrorKind classifies packaging failures.
	PackagingErrorKind string

	// PackagingError reports a bundle that could not be produced even though
	// the build succeeded.
	PackagingError struct {
		Kind PackagingErrorKind
		Path string
		Err  error
	}

	// BrochureMissingError reports a brochure that is undeclared or absent.
	// It is a warning; the bundle is still complete.
	BrochureMissingError struct {
		Module string
		// Path is empty when the manifest declares no brochure.
		Path string
		Err  error
	}
)

// Error implements the error interface.
func (e *PackagingError) Error() string {
	var msg string
	switch e.Kind {
	case DestinationExists:
		msg = "bundle directory already exists"
	case MissingPublishDir:
		msg = "publish directory not found"
	case MissingBinary:
		msg = "binary not found in publish directory"
	case MissingIntermediateDir:
		msg = "intermediate build directory not found"
	default:
		msg = "copy failed"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", msg, e.Path, e.Err)
	}
	return fmt.Sprintf("%s: %s", msg, e.Path)
}

// Unwrap returns ErrPackaging and the underlying cause.
func (e *PackagingError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrPackaging}
	}
	return []error{ErrPackaging, e.Err}
}

// Error implements the error interface.
func (e *BrochureMissingError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: no brochure declared", e.Module)
	}
	return fmt.Sprintf("%s: brochure %s not found", e.Module, e.Path)
}

// Unwrap returns ErrBrochureMissing for errors.Is() compatibility.
func (e *BrochureMissingError) Unwrap() error { return ErrBrochureMissing }
