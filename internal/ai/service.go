package ai

import (
	"context"
	"fmt"

	"skillscan/internal/config"
	"skillscan/internal/errors"
)

// Service generates quiz questions through the configured provider. It
// satisfies quiz.Generator.
type Service struct {
	Provider AIProvider // Exported for access from server package
	config   *config.OperationAIConfig
	track    TrackFunc
	logger   *errors.Logger
}

// ServiceOption configures a Service
type ServiceOption func(*Service)

// WithTracker wraps every provider call with fn, typically metrics recording.
func WithTracker(fn TrackFunc) ServiceOption {
	return func(s *Service) {
		s.track = fn
	}
}

// NewService creates the question generation service for cfg. loaded holds
// prompt content read from files.
func NewService(ctx context.Context, cfg *config.OperationAIConfig, loaded config.LoadedPrompts, logger *errors.Logger, opts ...ServiceOption) (*Service, error) {
	logger.Debug("Initializing AI service",
		"provider", cfg.Provider,
		"model", cfg.Model,
		"temperature", *cfg.Temperature,
		"timeout", *cfg.Timeout,
		"max_retries", *cfg.MaxRetries,
		"use_system_prompts", *cfg.UseSystemPrompts)

	var provider AIProvider
	switch cfg.Provider {
	case "gemini":
		p, err := NewGeminiProvider(ctx, cfg, loaded, logger)
		if err != nil {
			return nil, errors.NewAIError(errors.ErrCodeAIServiceFailed,
				"Failed to create AI provider", err)
		}
		provider = p
	default:
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig,
			fmt.Sprintf("Unsupported AI provider: %s", cfg.Provider), nil)
	}

	return NewServiceWithProvider(provider, cfg, logger, opts...), nil
}

// NewServiceWithProvider builds a Service around an existing provider.
func NewServiceWithProvider(provider AIProvider, cfg *config.OperationAIConfig, logger *errors.Logger, opts ...ServiceOption) *Service {
	s := &Service{
		Provider: provider,
		config:   cfg,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GenerateQuestions returns raw question text for skill
func (s *Service) GenerateQuestions(ctx context.Context, skill string) (string, error) {
	var text string
	call := func(ctx context.Context) (*TokenUsage, error) {
		out, usage, err := s.Provider.GenerateQuestions(ctx, skill)
		if err != nil {
			return nil, err
		}
		text = out
		return usage, nil
	}

	var err error
	if s.track != nil {
		err = s.track(ctx, "generate_questions", call)
	} else {
		_, err = call(ctx)
	}
	if err != nil {
		return "", err
	}

	s.logger.Debug("Questions generated",
		"skill", skill,
		"length", len(text))
	return text, nil
}

// GetModelInfo returns information about the AI model for health checks
func (s *Service) GetModelInfo(ctx context.Context) *ModelInfo {
	return s.Provider.GetModelInfo(ctx)
}

// CircuitBreakerStats returns the provider's breaker state, or nil when the
// provider has none
func (s *Service) CircuitBreakerStats() map[string]any {
	if p, ok := s.Provider.(interface{ GetCircuitBreakerStats() map[string]any }); ok {
		return p.GetCircuitBreakerStats()
	}
	return nil
}

// Close releases the provider
func (s *Service) Close() error {
	return s.Provider.Close()
}
