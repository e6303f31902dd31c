package ai

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math"
	"math/big"
	"net"
	"net/http"
	"strings"
	"time"

	"skillscan/internal/config"
	appErrors "skillscan/internal/errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"google.golang.org/api/googleapi"
	"google.golang.org/genai"
)

const (
	maxBackoff        = 30 * time.Second
	modelCheckTimeout = 10 * time.Second
)

type generateFunc func(ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)

type getModelFunc func(ctx context.Context, model string, cfg *genai.GetModelConfig) (*genai.Model, error)

// GeminiProvider implements AIProvider for Google Gemini
type GeminiProvider struct {
	generate       generateFunc
	getModel       getModelFunc
	config         *config.OperationAIConfig
	prompts        Prompts
	circuitBreaker *AICircuitBreaker
	modelBreaker   *ModelCircuitBreaker
	baseDelay      time.Duration
	logger         *appErrors.Logger
}

// Ensure GeminiProvider implements AIProvider
var _ AIProvider = (*GeminiProvider)(nil)

// NewGeminiProvider creates a Gemini provider for question generation.
// loaded holds prompt content read from files and may be empty.
func NewGeminiProvider(ctx context.Context, cfg *config.OperationAIConfig, loaded config.LoadedPrompts, logger *appErrors.Logger) (*GeminiProvider, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{Timeout: *cfg.Timeout},
	})
	if err != nil {
		return nil, appErrors.NewAIError(appErrors.ErrCodeAIServiceFailed,
			"Failed to create Gemini client", err)
	}

	return newGeminiProvider(cfg, loaded, client.Models.GenerateContent, client.Models.Get, logger), nil
}

func newGeminiProvider(cfg *config.OperationAIConfig, loaded config.LoadedPrompts, generate generateFunc, getModel getModelFunc, logger *appErrors.Logger) *GeminiProvider {
	return &GeminiProvider{
		generate: generate,
		getModel: getModel,
		config:   cfg,
		prompts: Prompts{
			System: resolvePrompt(loaded.SystemPrompt, cfg.CustomPrompts.SystemPrompt, DefaultPrompts.System),
			User:   resolvePrompt(loaded.UserPrompt, cfg.CustomPrompts.UserPrompt, DefaultPrompts.User),
		},
		circuitBreaker: NewAICircuitBreaker("questions", cfg, logger),
		modelBreaker:   NewModelCircuitBreaker("questions", cfg, logger),
		baseDelay:      time.Second,
		logger:         logger,
	}
}

// GenerateQuestions asks the model for multiple-choice questions about skill
// and returns the raw response text.
func (g *GeminiProvider) GenerateQuestions(ctx context.Context, skill string) (string, *TokenUsage, error) {
	tracer := otel.Tracer("skillscan.ai.gemini")
	ctx, span := tracer.Start(ctx, "gemini.generate_questions")
	defer span.End()

	span.SetAttributes(
		attribute.String("ai.provider", "gemini"),
		attribute.String("ai.model", g.config.Model),
		attribute.Float64("ai.temperature", float64(*g.config.Temperature)),
		attribute.String("quiz.skill", skill),
	)

	userPrompt := fmt.Sprintf(g.prompts.User, skill)
	genaiConfig := &genai.GenerateContentConfig{}
	if *g.config.Temperature > 0 {
		genaiConfig.Temperature = g.config.Temperature
	}
	if *g.config.UseSystemPrompts && g.prompts.System != "" {
		genaiConfig.SystemInstruction = genai.NewContentFromText(g.prompts.System, genai.RoleUser)
	}

	callCtx, cancel := context.WithTimeout(ctx, *g.config.Timeout)
	defer cancel()

	result, err := g.circuitBreaker.Execute(func() (*genai.GenerateContentResponse, error) {
		return g.executeWithRetry(callCtx, "generate_questions", func() (*genai.GenerateContentResponse, error) {
			return g.generate(callCtx, g.config.Model, genai.Text(userPrompt), genaiConfig)
		})
	})
	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("success", false))
		if errors.Is(err, context.DeadlineExceeded) {
			return "", nil, appErrors.NewAIError(appErrors.ErrCodeAITimeout,
				"Question generation timed out", err).WithContext("skill", skill)
		}
		return "", nil, appErrors.NewAIError(appErrors.ErrCodeAIServiceFailed,
			"Failed to generate questions", err).WithContext("skill", skill)
	}

	text := strings.TrimSpace(result.Text())
	if text == "" {
		err := fmt.Errorf("empty response from model %s", g.config.Model)
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("success", false))
		return "", nil, appErrors.NewAIError(appErrors.ErrCodeAIServiceFailed,
			"Model returned no questions", err).WithContext("skill", skill)
	}

	tokenUsage := extractTokenUsage(result)
	if tokenUsage != nil {
		span.SetAttributes(
			attribute.Int64("ai.tokens.input", tokenUsage.InputTokens),
			attribute.Int64("ai.tokens.output", tokenUsage.OutputTokens),
			attribute.Int64("ai.tokens.total", tokenUsage.TotalTokens),
		)
	}

	span.SetAttributes(
		attribute.Bool("success", true),
		attribute.Int("output.length", len(text)),
	)
	return text, tokenUsage, nil
}

// GetModelInfo checks the readiness and availability of the configured model
func (g *GeminiProvider) GetModelInfo(ctx context.Context) *ModelInfo {
	modelInfo := &ModelInfo{Name: g.config.Model}

	checkCtx, cancel := context.WithTimeout(ctx, modelCheckTimeout)
	defer cancel()

	model, err := g.modelBreaker.Execute(func() (*genai.Model, error) {
		return g.getModel(checkCtx, g.config.Model, &genai.GetModelConfig{})
	})
	if err != nil {
		modelInfo.Error = fmt.Sprintf("Failed to get model info: %v", err)
		g.logger.Warn("Model availability check failed",
			"model", g.config.Model,
			"error", err.Error())
		return modelInfo
	}

	modelInfo.Available = true
	modelInfo.DisplayName = model.DisplayName
	modelInfo.Version = model.Version

	g.logger.Debug("Model availability check successful",
		"model", g.config.Model,
		"display_name", modelInfo.DisplayName,
		"version", modelInfo.Version)

	return modelInfo
}

// GetCircuitBreakerStats returns circuit breaker statistics
func (g *GeminiProvider) GetCircuitBreakerStats() map[string]any {
	return map[string]any{
		"ai_operations":    g.circuitBreaker.GetStats(),
		"model_operations": g.modelBreaker.GetStats(),
		"overall_healthy":  g.circuitBreaker.IsHealthy() && g.modelBreaker.IsHealthy(),
	}
}

// Close implements AIProvider. The Gemini client holds no connections of its own.
func (g *GeminiProvider) Close() error {
	return nil
}

// executeWithRetry executes an AI operation with retry logic and exponential backoff
func (g *GeminiProvider) executeWithRetry(ctx context.Context, operation string, fn func() (*genai.GenerateContentResponse, error)) (*genai.GenerateContentResponse, error) {
	var lastErr error
	maxRetries := *g.config.MaxRetries

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			g.logger.Warn("Retrying AI operation",
				"operation", operation,
				"attempt", attempt,
				"max_retries", maxRetries,
				"error", lastErr.Error())

			select {
			case <-time.After(g.backoff(attempt)):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		result, err := fn()
		if err == nil {
			if attempt > 0 {
				g.logger.Info("AI operation succeeded after retry",
					"operation", operation,
					"total_attempts", attempt+1)
			}
			return result, nil
		}

		lastErr = err
		if !isRetryableError(err) {
			g.logger.Debug("Error is not retryable, stopping retry attempts",
				"operation", operation,
				"error", err.Error())
			break
		}
	}

	g.logger.LogError(lastErr, "AI operation failed after all retry attempts",
		"operation", operation,
		"max_retries", maxRetries)

	return nil, fmt.Errorf("operation '%s' failed: %w", operation, lastErr)
}

// backoff returns the exponential delay for a retry attempt with up to 10%
// random jitter, capped at maxBackoff
func (g *GeminiProvider) backoff(attempt int) time.Duration {
	baseDelay := time.Duration(math.Pow(2, float64(attempt-1))) * g.baseDelay
	var jitter time.Duration
	if jitterMax := int64(float64(baseDelay) * 0.1); jitterMax > 0 {
		jitterBig, _ := rand.Int(rand.Reader, big.NewInt(jitterMax))
		jitter = time.Duration(jitterBig.Int64())
	}
	return min(baseDelay+jitter, maxBackoff)
}

// isRetryableError reports whether an error should trigger a retry:
// network failures and throttling or server-side HTTP statuses
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return retryableStatus(apiErr.Code)
	}

	var genaiErr genai.APIError
	if errors.As(err, &genaiErr) {
		return retryableStatus(genaiErr.Code)
	}

	return false
}

func retryableStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

// extractTokenUsage extracts token usage information from Gemini API response
func extractTokenUsage(result *genai.GenerateContentResponse) *TokenUsage {
	if result == nil || result.UsageMetadata == nil {
		return nil
	}

	usage := result.UsageMetadata
	return &TokenUsage{
		InputTokens:  int64(usage.PromptTokenCount),
		OutputTokens: int64(usage.CandidatesTokenCount),
		TotalTokens:  int64(usage.TotalTokenCount),
	}
}
