package resume

import (
	"archive/zip"
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"testing"
	"time"

	"skillscan/internal/errors"
	"skillscan/internal/extractor"
	"skillscan/internal/names"
	"skillscan/internal/skills"
)

type fakeExtractor struct {
	text  string
	err   error
	calls int
}

func (f *fakeExtractor) Extract(_ context.Context, _ string) (string, error) {
	f.calls++
	return f.text, f.err
}

type parseRecord struct {
	format     string
	skillCount int
	err        error
}

type fakeRecorder struct {
	mu      sync.Mutex
	records []parseRecord
}

func (r *fakeRecorder) RecordParse(_ context.Context, format string, skillCount int, _ time.Duration, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, parseRecord{format: format, skillCount: skillCount, err: err})
}

func TestParseText(t *testing.T) {
	p := NewParser()

	tests := []struct {
		name           string
		text           string
		expectedName   string
		expectedSkills []string
	}{
		{
			name:           "name and skills",
			text:           "John Smith\n123 Main Street\nPython, SQL",
			expectedName:   "John Smith",
			expectedSkills: []string{"Python", "SQL"},
		},
		{
			name:           "empty document",
			text:           "",
			expectedName:   names.NotFound,
			expectedSkills: []string{},
		},
		{
			name:           "all caps heading and skill line",
			text:           "JOHN SMITH\nSoftware Engineer\nJava Developer",
			expectedName:   "Software Engineer",
			expectedSkills: []string{"Java"},
		},
		{
			name:           "digit stops the name scan",
			text:           "Contact: 9876543210\nJane Doe",
			expectedName:   "Contact: 9876543210",
			expectedSkills: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := p.ParseText(tt.text)
			if got.Name != tt.expectedName {
				t.Errorf("Expected name '%s', got '%s'", tt.expectedName, got.Name)
			}
			if !slices.Equal(got.Skills, tt.expectedSkills) {
				t.Errorf("Expected skills %v, got %v", tt.expectedSkills, got.Skills)
			}
		})
	}
}

func TestParseUsesInjectedSets(t *testing.T) {
	fake := &fakeExtractor{text: "Rust Person\nAda Lovelace\nRust, Go"}
	p := NewParser(
		WithExtractor(fake),
		WithVocabulary(skills.NewVocabulary([]string{"Rust", "Go"})),
		WithKeywords(names.NewKeywords(nil, nil)),
	)

	profile, err := p.Parse(context.Background(), "ada.pdf")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if profile.Name != "Ada Lovelace" {
		t.Errorf("Expected name 'Ada Lovelace', got '%s'", profile.Name)
	}
	if !slices.Equal(profile.Skills, []string{"Rust", "Go"}) {
		t.Errorf("Expected skills [Rust Go], got %v", profile.Skills)
	}
	if profile.File != "ada.pdf" {
		t.Errorf("Expected file 'ada.pdf', got '%s'", profile.File)
	}
}

func TestParsePropagatesExtractorErrorsUnchanged(t *testing.T) {
	unsupported := &errors.UnsupportedFormatError{Extension: "txt"}
	extraction := &errors.ExtractionError{Path: "x.pdf", Format: "pdf", Err: stderrors.New("bad xref")}

	for _, want := range []error{unsupported, extraction} {
		recorder := &fakeRecorder{}
		p := NewParser(WithExtractor(&fakeExtractor{err: want}), WithRecorder(recorder))

		profile, err := p.Parse(context.Background(), "x.pdf")
		if err != want {
			t.Errorf("Expected the extractor error to be returned as is, got %v", err)
		}
		if profile.Name != "" || profile.Skills != nil {
			t.Errorf("Expected zero profile on error, got %+v", profile)
		}
		if len(recorder.records) != 1 || recorder.records[0].err != want {
			t.Errorf("Expected one failed parse record, got %+v", recorder.records)
		}
	}
}

func TestParseDoesNotCache(t *testing.T) {
	fake := &fakeExtractor{text: "Jane Doe\nPython"}
	p := NewParser(WithExtractor(fake))

	for range 3 {
		if _, err := p.Parse(context.Background(), "jane.docx"); err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
	}
	if fake.calls != 3 {
		t.Errorf("Expected 3 extractions, got %d", fake.calls)
	}
}

func TestParseRecordsOutcome(t *testing.T) {
	recorder := &fakeRecorder{}
	p := NewParser(
		WithExtractor(&fakeExtractor{text: "Jane Doe\nPython, SQL, Docker"}),
		WithRecorder(recorder),
	)

	if _, err := p.Parse(context.Background(), "jane.DOCX"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(recorder.records) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(recorder.records))
	}
	got := recorder.records[0]
	if got.format != "docx" || got.skillCount != 3 || got.err != nil {
		t.Errorf("Unexpected record: %+v", got)
	}
}

func TestParseUnsupportedFileEndToEnd(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "resume.txt")
	if err := os.WriteFile(path, []byte("Jane Doe"), 0600); err != nil {
		t.Fatalf("Failed to write input: %v", err)
	}

	p := NewParser(WithExtractor(extractor.New(extractor.WithDiagnostics())))
	_, err := p.Parse(context.Background(), path)

	var unsupported *errors.UnsupportedFormatError
	if !stderrors.As(err, &unsupported) || unsupported.Extension != "txt" {
		t.Fatalf("Expected UnsupportedFormatError for txt, got %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "resume_extracted.txt")); !os.IsNotExist(err) {
		t.Error("Expected no diagnostic file")
	}
}

func TestParseDOCXEndToEnd(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "asha.docx")
	writeDocx(t, path,
		"Asha Rao",
		"Pursuing BTech at Some Institute",
		"Skills: Python, Docker, Teamwork")

	p := NewParser(WithExtractor(extractor.New(extractor.WithDiagnostics())))
	profile, err := p.Parse(context.Background(), path)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if profile.Name != "Asha Rao" {
		t.Errorf("Expected name 'Asha Rao', got '%s'", profile.Name)
	}
	expected := []string{"Python", "Docker", "Teamwork"}
	if !slices.Equal(profile.Skills, expected) {
		t.Errorf("Expected skills %v, got %v", expected, profile.Skills)
	}
	if _, err := os.Stat(filepath.Join(dir, "asha_extracted.txt")); err != nil {
		t.Errorf("Expected diagnostic file: %v", err)
	}
}

func TestParseDOCXNameInHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jane.docx")
	writeDocxWithHeader(t, path, "Jane Doe", "Phone 555 0100", "Skills: Python, SQL")

	profile, err := NewParser(WithExtractor(extractor.New())).Parse(context.Background(), path)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if profile.Name != "Jane Doe" {
		t.Errorf("Expected name from the page header, got '%s'", profile.Name)
	}
	for _, skill := range []string{"Python", "SQL"} {
		if !slices.Contains(profile.Skills, skill) {
			t.Errorf("Expected %s in %v", skill, profile.Skills)
		}
	}
}

// writeDocx creates a minimal docx package with one paragraph per line.
func writeDocx(t *testing.T, path string, paragraphs ...string) {
	t.Helper()
	writeDocxWithHeader(t, path, "", "", paragraphs...)
}

// writeDocxWithHeader is writeDocx with optional one-paragraph header and
// footer parts.
func writeDocxWithHeader(t *testing.T, path, header, footer string, paragraphs ...string) {
	t.Helper()

	const ns = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	paragraph := func(text string) string {
		return "<w:p><w:r><w:t>" + text + "</w:t></w:r></w:p>"
	}
	body := ""
	for _, p := range paragraphs {
		body += paragraph(p)
	}

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create docx: %v", err)
	}
	defer func() { _ = f.Close() }()

	zw := zip.NewWriter(f)
	parts := []struct{ name, content string }{
		{"[Content_Types].xml", `<?xml version="1.0" encoding="UTF-8"?><Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"></Types>`},
		{"word/_rels/document.xml.rels", `<?xml version="1.0" encoding="UTF-8"?><Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`},
		{"word/document.xml", `<?xml version="1.0" encoding="UTF-8"?><w:document xmlns:w="` + ns + `"><w:body>` + body + `</w:body></w:document>`},
	}
	if header != "" {
		parts = append(parts, struct{ name, content string }{"word/header1.xml",
			`<?xml version="1.0" encoding="UTF-8"?><w:hdr xmlns:w="` + ns + `">` + paragraph(header) + `</w:hdr>`})
	}
	if footer != "" {
		parts = append(parts, struct{ name, content string }{"word/footer1.xml",
			`<?xml version="1.0" encoding="UTF-8"?><w:ftr xmlns:w="` + ns + `">` + paragraph(footer) + `</w:ftr>`})
	}
	for _, part := range parts {
		w, err := zw.Create(part.name)
		if err != nil {
			t.Fatalf("Failed to add %s: %v", part.name, err)
		}
		if _, err := w.Write([]byte(part.content)); err != nil {
			t.Fatalf("Failed to write %s: %v", part.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("Failed to finalize docx: %v", err)
	}
}
