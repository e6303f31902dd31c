package cli

import (
	"context"
	"fmt"

	"skillscan/internal/common"

	"github.com/spf13/cobra"
)

var quizCmd = &cobra.Command{
	Use:   "quiz [resume-file]",
	Short: "Generate a multiple-choice quiz for the top skills of a resume",
	Long: `Parse a resume and ask the configured AI model for multiple-choice
questions about the candidate's top skills. The number of skills and the
number of questions per skill come from the quiz section of the
configuration. Use --hide-answers to print the quiz without the correct
options.`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		return applyDefaultFormat(&quizConfig, cfg)
	},
	RunE: runQuiz,
}

var (
	quizConfig      common.CommandConfig
	quizHideAnswers bool
)

func init() {
	quizCmd.Flags().StringVarP(&quizConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	quizCmd.Flags().StringVar(&quizConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")
	quizCmd.Flags().BoolVar(&quizHideAnswers, "hide-answers", false, "Omit the correct option of every question")

	registerFormatCompletion(quizCmd)
}

func runQuiz(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	om, stop, err := startObservability(cfg, logger)
	if err != nil {
		return err
	}
	defer stop()

	parser, err := newParser(cfg, logger, om.Metrics(), cfg.Extraction.WriteDiagnostic)
	if err != nil {
		return err
	}

	aiService, err := newQuestionService(cmd.Context(), cfg, logger, om)
	if err != nil {
		return fmt.Errorf("failed to create AI service: %w", err)
	}
	defer func() {
		if err := aiService.Close(); err != nil {
			logger.LogError(err, "Failed to close AI service")
		}
	}()

	builder := newQuizBuilder(cfg, aiService, logger)

	quizOperation := func(ctx context.Context, paths []string) (any, error) {
		profile, err := parser.Parse(ctx, paths[0])
		if err != nil {
			return nil, err
		}

		logger.Info("Starting quiz generation",
			"name", profile.Name,
			"skills", len(profile.Skills),
			"output_format", quizConfig.OutputFormat)

		q, err := builder.Build(ctx, profile)
		om.Metrics().RecordQuizGenerated(ctx, len(q.Questions), err)
		if err != nil {
			return nil, err
		}

		if quizHideAnswers {
			return q.Public(), nil
		}
		return q, nil
	}

	if err := common.RunCommand(cmd.Context(), logger, quizConfig, args, quizOperation); err != nil {
		return fmt.Errorf("failed to generate quiz: %w", err)
	}
	logger.Info("Quiz generation completed successfully")
	return nil
}
