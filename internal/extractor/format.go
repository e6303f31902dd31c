// Package extractor turns résumé documents into plain text.
package extractor

import (
	"path/filepath"
	"strings"

	"skillscan/internal/errors"
)

// Format is a supported résumé document format.
type Format int

const (
	FormatPDF Format = iota + 1
	FormatDOCX
)

// String returns the lower-case extension name without the dot.
func (f Format) String() string {
	switch f {
	case FormatPDF:
		return "pdf"
	case FormatDOCX:
		return "docx"
	default:
		return "unknown"
	}
}

// Extension returns the file extension for the format, including the dot.
func (f Format) Extension() string {
	return "." + f.String()
}

// Formats lists every supported format in dispatch order.
func Formats() []Format {
	return []Format{FormatPDF, FormatDOCX}
}

// FormatFromPath maps a file path to its Format. The extension comparison
// ignores case. Anything else yields an *errors.UnsupportedFormatError.
func FormatFromPath(path string) (Format, error) {
	ext := filepath.Ext(path)
	switch strings.ToLower(ext) {
	case ".pdf":
		return FormatPDF, nil
	case ".docx":
		return FormatDOCX, nil
	}
	return 0, &errors.UnsupportedFormatError{Extension: strings.TrimPrefix(ext, ".")}
}

// IsSupported reports whether path has a pdf or docx extension.
func IsSupported(path string) bool {
	_, err := FormatFromPath(path)
	return err == nil
}
