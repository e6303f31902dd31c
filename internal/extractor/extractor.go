package extractor

import (
	"context"

	"skillscan/internal/errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

// Strategy extracts plain text from a single document format.
type Strategy func(path string) (string, error)

// Extractor dispatches on the file extension to a per-format Strategy.
// It never modifies the source document.
type Extractor struct {
	strategies map[Format]Strategy
	observers  []Observer
	logger     *errors.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithObserver attaches an observer called after each successful extraction.
func WithObserver(o Observer) Option {
	return func(e *Extractor) {
		e.observers = append(e.observers, o)
	}
}

// WithDiagnostics attaches a DiagnosticWriter.
func WithDiagnostics() Option {
	return WithObserver(DiagnosticWriter{})
}

// WithStrategy replaces the strategy used for a format.
func WithStrategy(f Format, s Strategy) Option {
	return func(e *Extractor) {
		e.strategies[f] = s
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger *errors.Logger) Option {
	return func(e *Extractor) {
		e.logger = logger
	}
}

// New creates an Extractor backed by the pdf and docx strategies.
func New(opts ...Option) *Extractor {
	e := &Extractor{
		strategies: map[Format]Strategy{
			FormatPDF:  extractPDF,
			FormatDOCX: extractDOCX,
		},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract returns the text of the document at path.
//
// An unknown extension yields *errors.UnsupportedFormatError before the file
// is touched. A library failure yields *errors.ExtractionError. Observers run
// only after a successful extraction, in the order they were attached.
func (e *Extractor) Extract(ctx context.Context, path string) (string, error) {
	tracer := otel.Tracer("skillscan.extractor")
	_, span := tracer.Start(ctx, "extractor.extract")
	defer span.End()

	span.SetAttributes(attribute.String("file.path", path))

	format, err := FormatFromPath(path)
	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("success", false))
		return "", err
	}
	span.SetAttributes(attribute.String("file.format", format.String()))

	text, err := e.strategies[format](path)
	if err != nil {
		extractErr := &errors.ExtractionError{Path: path, Format: format.String(), Err: err}
		span.RecordError(extractErr)
		span.SetAttributes(attribute.Bool("success", false))
		return "", extractErr
	}

	for _, o := range e.observers {
		if err := o.Extracted(path, text); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.Bool("success", false))
			return "", errors.NewIOError(errors.ErrCodeFileWrite, "Failed to record extracted text", err).
				WithContext("path", path)
		}
	}

	e.logger.Debug("Extracted document text",
		"path", path,
		"format", format.String(),
		"characters", len(text))

	span.SetAttributes(
		attribute.Bool("success", true),
		attribute.Int("text.length", len(text)),
	)
	return text, nil
}
