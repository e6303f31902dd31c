package ai

import (
	"context"
	"errors"
	"testing"

	"skillscan/internal/config"
)

type stubProvider struct {
	text  string
	usage *TokenUsage
	err   error
	skill string
}

func (s *stubProvider) GenerateQuestions(_ context.Context, skill string) (string, *TokenUsage, error) {
	s.skill = skill
	return s.text, s.usage, s.err
}

func (s *stubProvider) GetModelInfo(context.Context) *ModelInfo {
	return &ModelInfo{Name: "stub", Available: true}
}

func (s *stubProvider) Close() error { return nil }

func TestServiceGenerateQuestions(t *testing.T) {
	provider := &stubProvider{text: "Q1. ok", usage: &TokenUsage{TotalTokens: 9}}

	var (
		tracked   string
		seenUsage *TokenUsage
	)
	tracker := func(ctx context.Context, operation string, fn func(context.Context) (*TokenUsage, error)) error {
		tracked = operation
		usage, err := fn(ctx)
		seenUsage = usage
		return err
	}

	svc := NewServiceWithProvider(provider, testOperationConfig(), nil, WithTracker(tracker))
	text, err := svc.GenerateQuestions(context.Background(), "python")
	if err != nil {
		t.Fatalf("GenerateQuestions() error = %v", err)
	}
	if text != "Q1. ok" {
		t.Errorf("Unexpected text %q", text)
	}
	if provider.skill != "python" {
		t.Errorf("Provider got skill %q", provider.skill)
	}
	if tracked != "generate_questions" {
		t.Errorf("Expected tracked operation generate_questions, got %q", tracked)
	}
	if seenUsage == nil || seenUsage.TotalTokens != 9 {
		t.Errorf("Tracker should see token usage, got %+v", seenUsage)
	}
}

func TestServiceGenerateQuestionsError(t *testing.T) {
	boom := errors.New("boom")
	svc := NewServiceWithProvider(&stubProvider{err: boom}, testOperationConfig(), nil)

	_, err := svc.GenerateQuestions(context.Background(), "python")
	if !errors.Is(err, boom) {
		t.Errorf("Expected provider error, got %v", err)
	}
}

func TestNewServiceUnsupportedProvider(t *testing.T) {
	cfg := testOperationConfig()
	cfg.Provider = "openai"

	_, err := NewService(context.Background(), cfg, config.LoadedPrompts{}, nil)
	if err == nil {
		t.Fatal("Expected error for unsupported provider")
	}
}

func TestServiceCircuitBreakerStats(t *testing.T) {
	if stats := NewServiceWithProvider(&stubProvider{}, nil, nil).CircuitBreakerStats(); stats != nil {
		t.Errorf("Expected nil stats for a provider without breakers, got %v", stats)
	}

	cfg := testOperationConfig()
	provider := newGeminiProvider(cfg, config.LoadedPrompts{}, nil, nil, nil)
	stats := NewServiceWithProvider(provider, cfg, nil).CircuitBreakerStats()
	if stats["overall_healthy"] != true {
		t.Errorf("Expected healthy breakers, got %v", stats)
	}
}
