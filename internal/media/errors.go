package media

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/nguyentantai21042004/title-flow/pkg/executor"
)

// ErrorKind classifies extraction failures for the orchestrator's taxonomy.
type ErrorKind string

const (
	KindUnsupportedMedia  ErrorKind = "unsupported_media"
	KindExtractionTimeout ErrorKind = "extraction_timeout"
	KindExtractionFailed  ErrorKind = "extraction_failed"
)

// ExtractionError wraps an ffmpeg/ffprobe failure with its kind and the
// tool's diagnostic output.
type ExtractionError struct {
	Kind       ErrorKind
	Path       string
	Diagnostic string
	Err        error
}

func (e *ExtractionError) Error() string {
	if e.Diagnostic != "" {
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.Path, e.Diagnostic)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Path)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// KindOf extracts the error kind, defaulting to extraction_failed.
func KindOf(err error) ErrorKind {
	var ee *ExtractionError
	if errors.As(err, &ee) {
		return ee.Kind
	}
	return KindExtractionFailed
}

// ffmpeg stderr markers for corrupt or unrecognized input
var unsupportedMarkers = []string{
	"invalid data found",
	"moov atom not found",
	"unknown format",
	"could not find codec",
	"decoder not found",
	"does not contain any stream",
}

// classify maps an executor failure to the extraction error taxonomy.
func classify(err error, path string) *ExtractionError {
	if errors.Is(err, context.DeadlineExceeded) {
		return &ExtractionError{Kind: KindExtractionTimeout, Path: path, Err: err}
	}

	var exitErr *executor.ExitError
	if errors.As(err, &exitErr) {
		lower := strings.ToLower(exitErr.Stderr)
		for _, marker := range unsupportedMarkers {
			if strings.Contains(lower, marker) {
				return &ExtractionError{
					Kind:       KindUnsupportedMedia,
					Path:       path,
					Diagnostic: exitErr.Stderr,
					Err:        err,
				}
			}
		}
		return &ExtractionError{
			Kind:       KindExtractionFailed,
			Path:       path,
			Diagnostic: exitErr.Stderr,
			Err:        err,
		}
	}

	return &ExtractionError{Kind: KindExtractionFailed, Path: path, Err: err}
}
