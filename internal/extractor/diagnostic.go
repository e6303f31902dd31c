package extractor

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DiagnosticSuffix is appended to the base name of the diagnostic text file.
const DiagnosticSuffix = "_extracted.txt"

// Observer is notified after every successful extraction.
type Observer interface {
	Extracted(path, text string) error
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(path, text string) error

func (f ObserverFunc) Extracted(path, text string) error {
	return f(path, text)
}

// DiagnosticPath returns the sibling text file used for extraction
// diagnostics: "cv/jane.pdf" becomes "cv/jane_extracted.txt".
func DiagnosticPath(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + DiagnosticSuffix
}

// DiagnosticWriter persists extracted text next to the source document,
// overwriting any earlier file.
type DiagnosticWriter struct{}

var _ Observer = DiagnosticWriter{}

func (DiagnosticWriter) Extracted(path, text string) error {
	target := DiagnosticPath(path)
	if err := os.WriteFile(target, []byte(text), 0600); err != nil {
		return fmt.Errorf("failed to write diagnostic file %s: %w", target, err)
	}
	return nil
}
