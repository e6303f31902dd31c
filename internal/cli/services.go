package cli

import (
	"context"
	"fmt"
	"time"

	"skillscan/internal/ai"
	"skillscan/internal/common"
	"skillscan/internal/config"
	"skillscan/internal/errors"
	"skillscan/internal/extractor"
	"skillscan/internal/formatters"
	"skillscan/internal/observability"
	"skillscan/internal/quiz"
	"skillscan/internal/resume"

	"github.com/spf13/cobra"
)

// startObservability creates the telemetry manager for a command. The
// returned function flushes and stops it.
func startObservability(cfg *config.Config, logger *errors.Logger) (*observability.Manager, func(), error) {
	om, err := observability.NewManager(observability.SettingsFromConfig(cfg, Version), logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize observability: %w", err)
	}

	stop := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := om.Shutdown(ctx); err != nil {
			logger.LogError(err, "Failed to shutdown observability")
		}
	}
	return om, stop, nil
}

// newParser builds the resume parser from the configured vocabulary.
// Diagnostic text files are written when diagnostics is true.
func newParser(cfg *config.Config, logger *errors.Logger, recorder resume.Recorder, diagnostics bool) (*resume.Parser, error) {
	vocab, err := cfg.LoadVocabulary()
	if err != nil {
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig,
			"Failed to load vocabulary", err).
			WithContext("file", cfg.Vocabulary.File)
	}

	extractorOpts := []extractor.Option{extractor.WithLogger(logger)}
	if diagnostics {
		extractorOpts = append(extractorOpts, extractor.WithDiagnostics())
	}

	opts := []resume.Option{
		resume.WithVocabulary(vocab.Skills),
		resume.WithKeywords(vocab.Keywords),
		resume.WithExtractor(extractor.New(extractorOpts...)),
		resume.WithLogger(logger),
	}
	if recorder != nil {
		opts = append(opts, resume.WithRecorder(recorder))
	}
	return resume.NewParser(opts...), nil
}

// newQuestionService creates the AI service used to generate quiz questions
func newQuestionService(ctx context.Context, cfg *config.Config, logger *errors.Logger, om *observability.Manager) (*ai.Service, error) {
	if err := cfg.ValidateAI(); err != nil {
		return nil, errors.NewConfigError(errors.ErrCodeMissingAPIKey,
			"Quiz generation is not configured", err)
	}

	questionsConfig := cfg.GetQuestionsConfig()
	return ai.NewService(ctx, &questionsConfig, cfg.Prompts, logger,
		ai.WithTracker(common.AITracker(om.Metrics())))
}

// newQuizBuilder wires a generator into a builder using the quiz settings
func newQuizBuilder(cfg *config.Config, generator quiz.Generator, logger *errors.Logger) *quiz.Builder {
	return quiz.NewBuilder(generator,
		quiz.WithTopSkills(cfg.Quiz.TopSkills),
		quiz.WithQuestionsPerSkill(cfg.Quiz.QuestionsPerSkill),
		quiz.WithLogger(logger))
}

// applyDefaultFormat fills in the configured output format and validates it
func applyDefaultFormat(cmdConfig *common.CommandConfig, cfg *config.Config) error {
	if cmdConfig.OutputFormat == "" {
		cmdConfig.OutputFormat = cfg.App.DefaultFormat
	}
	return common.ValidateOutputFormat(cmdConfig.OutputFormat, cfg.App.SupportedFormats)
}

// registerFormatCompletion adds shell completion for the --format flag
func registerFormatCompletion(cmd *cobra.Command) {
	_ = cmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg := getConfigFromContext(cmd.Context())
		if len(cfg.App.SupportedFormats) > 0 {
			return cfg.App.SupportedFormats, cobra.ShellCompDirectiveNoFileComp
		}
		return formatters.GlobalRegistry.GetSupportedFormats(), cobra.ShellCompDirectiveNoFileComp
	})
}
