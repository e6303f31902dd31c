// Package resume ties extraction, skill matching and name inference together.
package resume

import (
	"context"
	"path/filepath"
	"time"

	"skillscan/internal/errors"
	"skillscan/internal/extractor"
	"skillscan/internal/names"
	"skillscan/internal/skills"
	"skillscan/internal/types"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

// TextExtractor is the extraction dependency of a Parser.
type TextExtractor interface {
	Extract(ctx context.Context, path string) (string, error)
}

// Recorder receives the outcome of every parse. Implementations must be
// safe for concurrent use.
type Recorder interface {
	RecordParse(ctx context.Context, format string, skillCount int, duration time.Duration, err error)
}

// Parser owns the vocabulary, the keyword sets and the extractor used to
// turn a résumé file into a Profile. A Parser holds no mutable state and
// may be shared between goroutines.
type Parser struct {
	vocab     skills.Vocabulary
	keywords  names.Keywords
	extractor TextExtractor
	recorder  Recorder
	logger    *errors.Logger
}

// Option configures a Parser.
type Option func(*Parser)

// WithVocabulary replaces the built-in skill vocabulary.
func WithVocabulary(vocab skills.Vocabulary) Option {
	return func(p *Parser) {
		p.vocab = vocab
	}
}

// WithKeywords replaces the built-in name keyword sets.
func WithKeywords(keywords names.Keywords) Option {
	return func(p *Parser) {
		p.keywords = keywords
	}
}

// WithExtractor replaces the document extractor.
func WithExtractor(e TextExtractor) Option {
	return func(p *Parser) {
		p.extractor = e
	}
}

// WithRecorder attaches a metrics recorder.
func WithRecorder(r Recorder) Option {
	return func(p *Parser) {
		p.recorder = r
	}
}

// WithLogger sets the logger.
func WithLogger(logger *errors.Logger) Option {
	return func(p *Parser) {
		p.logger = logger
	}
}

// NewParser creates a Parser using the default vocabulary, keyword sets and
// an extractor without diagnostics, unless overridden by opts.
func NewParser(opts ...Option) *Parser {
	p := &Parser{
		vocab:    skills.DefaultVocabulary(),
		keywords: names.DefaultKeywords(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.extractor == nil {
		p.extractor = extractor.New(extractor.WithLogger(p.logger))
	}
	return p
}

// Vocabulary returns the vocabulary used for matching.
func (p *Parser) Vocabulary() skills.Vocabulary {
	return p.vocab
}

// Parse extracts the document at path and returns the inferred name and
// the matched skills. Extractor errors are returned unchanged. Every call
// extracts the file again.
func (p *Parser) Parse(ctx context.Context, path string) (types.Profile, error) {
	tracer := otel.Tracer("skillscan.resume")
	ctx, span := tracer.Start(ctx, "resume.parse")
	defer span.End()

	start := time.Now()
	format := formatLabel(path)
	span.SetAttributes(
		attribute.String("file.name", filepath.Base(path)),
		attribute.String("file.format", format),
	)

	text, err := p.extractor.Extract(ctx, path)
	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("success", false))
		p.record(ctx, format, 0, start, err)
		return types.Profile{}, err
	}

	profile := p.ParseText(text)
	profile.File = path

	span.SetAttributes(
		attribute.Bool("success", true),
		attribute.Int("skills.count", len(profile.Skills)),
	)
	p.record(ctx, format, len(profile.Skills), start, nil)

	p.logger.Debug("Parsed resume",
		"file", path,
		"name", profile.Name,
		"skills", len(profile.Skills))

	return profile, nil
}

// ParseText runs skill matching on the full text and name inference on its
// lines.
func (p *Parser) ParseText(text string) types.Profile {
	return types.Profile{
		Name:   names.ExtractName(names.SplitLines(text), p.vocab, p.keywords),
		Skills: skills.ExtractSkills(text, p.vocab),
	}
}

func (p *Parser) record(ctx context.Context, format string, skillCount int, start time.Time, err error) {
	if p.recorder == nil {
		return
	}
	p.recorder.RecordParse(ctx, format, skillCount, time.Since(start), err)
}

func formatLabel(path string) string {
	format, err := extractor.FormatFromPath(path)
	if err != nil {
		return "unsupported"
	}
	return format.String()
}
