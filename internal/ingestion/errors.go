package ingestion

import (
	"fmt"
	"strings"
)

// UnsupportedFormatError is returned when a file extension has no text extractor.
type UnsupportedFormatError struct {
	Filename  string
	Extension string
}

func (e *UnsupportedFormatError) Error() string {
	if e.Extension == "" {
		return fmt.Sprintf("unsupported file format for %q: no extension (supported: %s)", e.Filename, supportedList())
	}
	return fmt.Sprintf("unsupported file format %q (supported: %s)", e.Extension, supportedList())
}

// ExtractionError is returned when a supported document could not be read.
type ExtractionError struct {
	Format  Format
	Message string
	Cause   error
}

func (e *ExtractionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to extract text from %s: %s: %v", e.Format, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to extract text from %s: %s", e.Format, e.Message)
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}

func supportedList() string {
	exts := make([]string, 0, len(extensionFormats))
	for _, ext := range supportedExtensions {
		exts = append(exts, "."+ext)
	}
	return strings.Join(exts, ", ")
}
