package ai

import (
	"context"
)

// AIProvider generates quiz questions. Token usage is returned for metrics and
// may be nil.
type AIProvider interface {
	GenerateQuestions(ctx context.Context, skill string) (string, *TokenUsage, error)
	GetModelInfo(ctx context.Context) *ModelInfo
	Close() error
}

// TokenUsage represents token usage information from AI responses
type TokenUsage struct {
	InputTokens  int64
	OutputTokens int64
	TotalTokens  int64
}

// ModelInfo represents information about the AI model
type ModelInfo struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName,omitempty"`
	Version     string `json:"version,omitempty"`
	Available   bool   `json:"available"`
	Error       string `json:"error,omitempty"`
}

// TrackFunc wraps a provider call with instrumentation. It must call fn
// exactly once and return its error.
type TrackFunc func(ctx context.Context, operation string, fn func(context.Context) (*TokenUsage, error)) error
