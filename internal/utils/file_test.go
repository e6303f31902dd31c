package utils

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestValidateInputFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "resume.pdf")
	if err := os.WriteFile(file, []byte("x"), 0600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		path    string
		wantErr string
	}{
		{name: "regular file", path: file},
		{name: "empty name", path: "", wantErr: "cannot be empty"},
		{name: "missing", path: filepath.Join(dir, "nope.pdf"), wantErr: "does not exist"},
		{name: "directory", path: dir, wantErr: "is a directory"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateInputFile(tt.path)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestValidateOutputFileCreatesDirectory(t *testing.T) {
	out := filepath.Join(t.TempDir(), "a", "b", "out.json")
	if err := ValidateOutputFile(out); err != nil {
		t.Fatal(err)
	}
	if info, err := os.Stat(filepath.Dir(out)); err != nil || !info.IsDir() {
		t.Errorf("expected output directory to exist, err=%v", err)
	}
}

func TestUploadFileName(t *testing.T) {
	tests := []struct {
		original string
		suffix   string
	}{
		{"resume.pdf", "-resume.pdf"},
		{"../../etc/passwd.docx", "-passwd.docx"},
		{`C:\Users\ada\cv.docx`, "-cv.docx"},
		{"..", "-upload"},
		{"", "-upload"},
	}

	for _, tt := range tests {
		t.Run(tt.original, func(t *testing.T) {
			name := UploadFileName(tt.original)
			if !strings.HasSuffix(name, tt.suffix) {
				t.Errorf("UploadFileName(%q) = %q, want suffix %q", tt.original, name, tt.suffix)
			}
			if strings.ContainsAny(name, `/\`) {
				t.Errorf("UploadFileName(%q) = %q contains a separator", tt.original, name)
			}
			if _, err := uuid.Parse(name[:36]); err != nil {
				t.Errorf("UploadFileName(%q) = %q does not start with a UUID", tt.original, name)
			}
		})
	}

	if UploadFileName("a.pdf") == UploadFileName("a.pdf") {
		t.Error("names should be unique")
	}
}

func TestFormatFileSize(t *testing.T) {
	tests := map[int64]string{
		512:              "512 B",
		2048:             "2.0 KB",
		10 * 1024 * 1024: "10.0 MB",
	}
	for size, want := range tests {
		if got := FormatFileSize(size); got != want {
			t.Errorf("FormatFileSize(%d) = %q, want %q", size, got, want)
		}
	}
}
