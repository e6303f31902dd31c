package errors

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"
)

func TestUnsupportedFormatError(t *testing.T) {
	tests := []struct {
		name        string
		extension   string
		expectedMsg string
	}{
		{name: "txt extension", extension: ".txt", expectedMsg: `unsupported format: ".txt"`},
		{name: "no extension", extension: "", expectedMsg: "unsupported format: file has no extension"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := fmt.Errorf("wrapped: %w", &UnsupportedFormatError{Extension: tt.extension})

			if !stderrors.Is(err, ErrUnsupportedFormat) {
				t.Errorf("Expected errors.Is to match ErrUnsupportedFormat")
			}
			if stderrors.Is(err, ErrExtractionFailed) {
				t.Errorf("Did not expect errors.Is to match ErrExtractionFailed")
			}

			var formatErr *UnsupportedFormatError
			if !stderrors.As(err, &formatErr) {
				t.Fatalf("Expected errors.As to find UnsupportedFormatError")
			}
			if formatErr.Extension != tt.extension {
				t.Errorf("Expected extension '%s', got '%s'", tt.extension, formatErr.Extension)
			}
			if formatErr.Error() != tt.expectedMsg {
				t.Errorf("Expected message '%s', got '%s'", tt.expectedMsg, formatErr.Error())
			}
		})
	}
}

func TestExtractionErrorUnwrap(t *testing.T) {
	cause := stderrors.New("not a PDF file")
	err := &ExtractionError{Path: "cv.pdf", Format: "pdf", Err: cause}

	if !stderrors.Is(err, ErrExtractionFailed) {
		t.Errorf("Expected errors.Is to match ErrExtractionFailed")
	}
	if !stderrors.Is(err, cause) {
		t.Errorf("Expected errors.Is to reach the library cause")
	}
	if !strings.Contains(err.Error(), "cv.pdf") {
		t.Errorf("Expected message to contain the path, got '%s'", err.Error())
	}
}

func TestAppErrorWithContext(t *testing.T) {
	cause := stderrors.New("disk full")
	err := NewIOError("FILE_WRITE_FAILED", "Cannot write file", cause).
		WithContext("path", "/tmp/out.json")

	if err.Type != ErrorTypeIO {
		t.Errorf("Expected type '%s', got '%s'", ErrorTypeIO, err.Type)
	}
	if err.Context["path"] != "/tmp/out.json" {
		t.Errorf("Expected context path to be set, got %v", err.Context["path"])
	}
	if !stderrors.Is(err, cause) {
		t.Errorf("Expected AppError to unwrap to its cause")
	}
	expected := "FILE_WRITE_FAILED: Cannot write file (caused by: disk full)"
	if err.Error() != expected {
		t.Errorf("Expected '%s', got '%s'", expected, err.Error())
	}
}

func TestLogErrorFields(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedFields map[string]any
	}{
		{
			name: "app error",
			err:  NewValidationError(ErrCodeInvalidRequest, "bad input", nil).WithContext("field", "skills"),
			expectedFields: map[string]any{
				"error_type":    "validation",
				"error_code":    ErrCodeInvalidRequest,
				"error_message": "bad input",
				"field":         "skills",
			},
		},
		{
			name: "unsupported format",
			err:  &UnsupportedFormatError{Extension: ".txt"},
			expectedFields: map[string]any{
				"error_type": "extraction",
				"error_code": ErrCodeUnsupportedFormat,
				"extension":  ".txt",
			},
		},
		{
			name: "extraction failure",
			err:  &ExtractionError{Path: "a.docx", Format: "docx", Err: stderrors.New("zip: not a valid zip file")},
			expectedFields: map[string]any{
				"error_type": "extraction",
				"error_code": ErrCodeExtractionFailed,
				"path":       "a.docx",
				"format":     "docx",
			},
		},
		{
			name: "plain error",
			err:  stderrors.New("boom"),
			expectedFields: map[string]any{
				"error": "boom",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewLoggerWithHandler(slog.NewJSONHandler(&buf, nil))

			logger.LogError(tt.err, "operation failed", "request_id", "abc")

			var entry map[string]any
			if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
				t.Fatalf("Failed to decode log entry: %v", err)
			}
			if entry["msg"] != "operation failed" {
				t.Errorf("Expected msg 'operation failed', got %v", entry["msg"])
			}
			if entry["request_id"] != "abc" {
				t.Errorf("Expected extra args to be logged, got %v", entry["request_id"])
			}
			for key, want := range tt.expectedFields {
				if entry[key] != want {
					t.Errorf("Expected %s=%v, got %v", key, want, entry[key])
				}
			}
		})
	}
}

func TestNewLogLevels(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error"} {
		if _, err := New(level); err != nil {
			t.Errorf("Expected level '%s' to be valid, got %v", level, err)
		}
	}
	if _, err := New("verbose"); err == nil {
		t.Errorf("Expected error for invalid level")
	}
}

func TestNilLoggerIsSafe(t *testing.T) {
	var logger *Logger
	logger.Info("ignored")
	logger.Debug("ignored")
	logger.Warn("ignored")
	logger.LogError(stderrors.New("ignored"), "ignored")
}
