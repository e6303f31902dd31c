package cli

import (
	"skillscan/internal/quiz"
	"skillscan/internal/server"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start HTTP server for resume parsing and skill quizzes",
	Long: `Start an HTTP server that provides REST API endpoints for resume parsing
and skill quizzes.

Available endpoints:
- POST /parse: Parse an uploaded PDF or DOCX resume
- POST /quiz: Generate a quiz from an upload or a list of skills
- GET /quiz/{id}: Fetch a generated quiz without its answers
- POST /quiz/{id}/score: Score answers, add ?format=xlsx for a workbook
- GET /health: Health check endpoint
- GET /stats: Server statistics and rate limiting info

Quiz endpoints are disabled when no AI provider is configured.`,
	RunE: runServe,
}

var (
	servePort string
	serveHost string
)

func init() {
	serveCmd.Flags().StringVarP(&servePort, "port", "p", "", "Port to listen on (default from config)")
	serveCmd.Flags().StringVar(&serveHost, "host", "", "Host to bind to (default from config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := getConfigFromContext(ctx)
	logger := getLoggerFromContext(ctx)

	if servePort != "" {
		cfg.Server.Port = servePort
	}
	if serveHost != "" {
		cfg.Server.Host = serveHost
	}

	om, stop, err := startObservability(cfg, logger)
	if err != nil {
		return err
	}
	defer stop()
	om.StartPrometheus()

	parser, err := newParser(cfg, logger, om.Metrics(), cfg.Extraction.WriteDiagnostic)
	if err != nil {
		return err
	}

	store := quiz.NewStore(cfg.Quiz.TTL, logger)
	defer store.Close()

	deps := server.Dependencies{
		Parser:        parser,
		Store:         store,
		Observability: om,
	}

	aiService, err := newQuestionService(ctx, cfg, logger, om)
	if err != nil {
		logger.Warn("Quiz generation disabled", "reason", err.Error())
	} else {
		defer func() {
			if err := aiService.Close(); err != nil {
				logger.LogError(err, "Failed to close AI service")
			}
		}()
		deps.AI = aiService
		deps.Quizzes = newQuizBuilder(cfg, aiService, logger)
	}

	return server.NewServer(server.ConfigFromApp(cfg, Version), deps, logger).Start(ctx)
}
