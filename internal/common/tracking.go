package common

import (
	"context"

	"skillscan/internal/ai"
	"skillscan/internal/observability"
)

// AITracker records question generation calls in metrics
func AITracker(metrics *observability.Metrics) ai.TrackFunc {
	return func(ctx context.Context, operation string, fn func(context.Context) (*ai.TokenUsage, error)) error {
		return metrics.TrackAIOperation(ctx, operation, func(ctx context.Context) (*observability.TokenUsage, error) {
			usage, err := fn(ctx)
			if usage == nil {
				return nil, err
			}
			return &observability.TokenUsage{
				InputTokens:  usage.InputTokens,
				OutputTokens: usage.OutputTokens,
				TotalTokens:  usage.TotalTokens,
			}, err
		})
	}
}
