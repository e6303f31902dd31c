package observability

import (
	"context"
	"fmt"
	"time"

	"skillscan/internal/config"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds the custom skillscan instruments. The zero value records
// nothing.
type Metrics struct {
	// AI operation metrics
	AIProcessingTime metric.Float64Histogram
	AIRequestCount   metric.Int64Counter
	AIErrorCount     metric.Int64Counter
	AITokenUsage     metric.Int64Histogram

	// Business metrics
	ResumesParsed    metric.Int64Counter
	ParseDuration    metric.Float64Histogram
	SkillsMatched    metric.Int64Histogram
	QuizzesGenerated metric.Int64Counter
	QuizzesScored    metric.Int64Counter
	QuizScoreRatio   metric.Float64Histogram

	// Infrastructure metrics
	RateLimitHits metric.Int64Counter

	custom config.CustomMetricsConfig
}

// TokenUsage is the token accounting of one AI call
type TokenUsage struct {
	InputTokens  int64
	OutputTokens int64
	TotalTokens  int64
}

func newMetrics(meter metric.Meter, custom config.CustomMetricsConfig) (*Metrics, error) {
	m := &Metrics{custom: custom}

	if err := m.createAIMetrics(meter); err != nil {
		return nil, err
	}
	if err := m.createBusinessMetrics(meter); err != nil {
		return nil, err
	}
	if err := m.createInfrastructureMetrics(meter); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Metrics) createAIMetrics(meter metric.Meter) error {
	var err error

	m.AIProcessingTime, err = meter.Float64Histogram(
		"skillscan_ai_processing_duration_seconds",
		metric.WithDescription("Time spent processing AI requests"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return fmt.Errorf("failed to create AI processing time metric: %w", err)
	}

	m.AIRequestCount, err = meter.Int64Counter(
		"skillscan_ai_requests_total",
		metric.WithDescription("Total number of AI requests"),
	)
	if err != nil {
		return fmt.Errorf("failed to create AI request count metric: %w", err)
	}

	m.AIErrorCount, err = meter.Int64Counter(
		"skillscan_ai_errors_total",
		metric.WithDescription("Total number of AI request errors"),
	)
	if err != nil {
		return fmt.Errorf("failed to create AI error count metric: %w", err)
	}

	m.AITokenUsage, err = meter.Int64Histogram(
		"skillscan_ai_token_usage",
		metric.WithDescription("Token usage for AI requests (input, output, total)"),
		metric.WithUnit("{token}"),
	)
	if err != nil {
		return fmt.Errorf("failed to create AI token usage metric: %w", err)
	}

	return nil
}

func (m *Metrics) createBusinessMetrics(meter metric.Meter) error {
	var err error

	m.ResumesParsed, err = meter.Int64Counter(
		"skillscan_resumes_parsed_total",
		metric.WithDescription("Total number of resumes parsed"),
	)
	if err != nil {
		return fmt.Errorf("failed to create resumes parsed metric: %w", err)
	}

	m.ParseDuration, err = meter.Float64Histogram(
		"skillscan_parse_duration_seconds",
		metric.WithDescription("Time spent extracting and parsing a resume"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return fmt.Errorf("failed to create parse duration metric: %w", err)
	}

	m.SkillsMatched, err = meter.Int64Histogram(
		"skillscan_skills_matched",
		metric.WithDescription("Number of vocabulary skills matched per resume"),
		metric.WithExplicitBucketBoundaries(0, 1, 2, 5, 10, 20, 40, 80),
	)
	if err != nil {
		return fmt.Errorf("failed to create skills matched metric: %w", err)
	}

	m.QuizzesGenerated, err = meter.Int64Counter(
		"skillscan_quizzes_generated_total",
		metric.WithDescription("Total number of quizzes generated"),
	)
	if err != nil {
		return fmt.Errorf("failed to create quizzes generated metric: %w", err)
	}

	m.QuizzesScored, err = meter.Int64Counter(
		"skillscan_quizzes_scored_total",
		metric.WithDescription("Total number of quizzes scored"),
	)
	if err != nil {
		return fmt.Errorf("failed to create quizzes scored metric: %w", err)
	}

	m.QuizScoreRatio, err = meter.Float64Histogram(
		"skillscan_quiz_score_ratio",
		metric.WithDescription("Fraction of questions answered correctly"),
		metric.WithExplicitBucketBoundaries(0, 0.25, 0.5, 0.7, 0.9, 1),
	)
	if err != nil {
		return fmt.Errorf("failed to create quiz score metric: %w", err)
	}

	return nil
}

func (m *Metrics) createInfrastructureMetrics(meter metric.Meter) error {
	var err error

	m.RateLimitHits, err = meter.Int64Counter(
		"skillscan_rate_limit_hits_total",
		metric.WithDescription("Total number of rate limit hits"),
	)
	if err != nil {
		return fmt.Errorf("failed to create rate limit hits metric: %w", err)
	}

	return nil
}

// TrackAIOperation runs fn inside an "ai.<operation>" span and records
// request, duration, error and token metrics for it.
func (m *Metrics) TrackAIOperation(ctx context.Context, operation string, fn func(context.Context) (*TokenUsage, error)) error {
	if m.AIProcessingTime == nil {
		_, err := fn(ctx)
		return err
	}

	tracer := otel.Tracer("skillscan.ai")
	ctx, span := tracer.Start(ctx, "ai."+operation)
	defer span.End()

	start := time.Now()
	usage, err := fn(ctx)
	duration := time.Since(start).Seconds()

	if m.custom.AIOperations.Enabled {
		attrs := []attribute.KeyValue{
			attribute.String("operation", operation),
			attribute.Bool("success", err == nil),
		}

		if m.custom.AIOperations.TrackDuration {
			m.AIProcessingTime.Record(ctx, duration, metric.WithAttributes(attrs...))
		}
		m.AIRequestCount.Add(ctx, 1, metric.WithAttributes(attrs...))
		if err != nil {
			m.AIErrorCount.Add(ctx, 1, metric.WithAttributes(attrs...))
		}
		if usage != nil && m.custom.AIOperations.TrackTokenUsage {
			m.recordTokenUsage(ctx, operation, usage)
		}
		span.SetAttributes(attrs...)
	}

	if usage != nil {
		span.SetAttributes(
			attribute.Int64("ai.tokens.input", usage.InputTokens),
			attribute.Int64("ai.tokens.output", usage.OutputTokens),
			attribute.Int64("ai.tokens.total", usage.TotalTokens),
		)
	}
	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("error", true))
	}

	return err
}

func (m *Metrics) recordTokenUsage(ctx context.Context, operation string, usage *TokenUsage) {
	for _, tt := range []struct {
		tokenType string
		value     int64
	}{
		{"input", usage.InputTokens},
		{"output", usage.OutputTokens},
		{"total", usage.TotalTokens},
	} {
		m.AITokenUsage.Record(ctx, tt.value, metric.WithAttributes(
			attribute.String("operation", operation),
			attribute.String("token_type", tt.tokenType),
		))
	}
}

// RecordParse records the outcome of one resume parse
func (m *Metrics) RecordParse(ctx context.Context, format string, skillCount int, duration time.Duration, err error) {
	if m.ResumesParsed == nil || !m.custom.BusinessMetrics.Enabled {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String("format", format),
		attribute.Bool("success", err == nil),
	)
	m.ResumesParsed.Add(ctx, 1, attrs)
	m.ParseDuration.Record(ctx, duration.Seconds(), attrs)
	if err == nil {
		m.SkillsMatched.Record(ctx, int64(skillCount), metric.WithAttributes(attribute.String("format", format)))
	}
}

// RecordQuizGenerated records a quiz build and how many questions it has
func (m *Metrics) RecordQuizGenerated(ctx context.Context, questions int, err error) {
	if m.QuizzesGenerated == nil || !m.custom.BusinessMetrics.Enabled {
		return
	}
	m.QuizzesGenerated.Add(ctx, 1, metric.WithAttributes(
		attribute.Bool("success", err == nil),
		attribute.Bool("empty", err == nil && questions == 0),
	))
}

// RecordQuizScored records a scored submission
func (m *Metrics) RecordQuizScored(ctx context.Context, score, total int) {
	if m.QuizzesScored == nil || !m.custom.BusinessMetrics.Enabled {
		return
	}
	m.QuizzesScored.Add(ctx, 1)
	if total > 0 {
		m.QuizScoreRatio.Record(ctx, float64(score)/float64(total))
	}
}

// RecordRateLimitHit counts a request rejected by the rate limiter
func (m *Metrics) RecordRateLimitHit(ctx context.Context, attrs ...attribute.KeyValue) {
	if m.RateLimitHits == nil {
		return
	}
	infra := m.custom.Infrastructure
	if !infra.Enabled || !infra.TrackRateLimits {
		return
	}
	m.RateLimitHits.Add(ctx, 1, metric.WithAttributes(attrs...))
}
