package cli

import (
	"context"
	"fmt"

	"skillscan/internal/common"
	"skillscan/internal/errors"
	"skillscan/internal/export"
	"skillscan/internal/resume"
	"skillscan/internal/types"

	"github.com/spf13/cobra"
)

var parseCmd = &cobra.Command{
	Use:   "parse [resume-file]...",
	Short: "Extract the candidate name and skills from resumes",
	Long: `Extract the candidate name and the matched skills from one or more
PDF or DOCX resumes. A single file prints one profile; several files print
a list in argument order. Use --export to also write an Excel workbook
with one row per candidate and a skills matrix.`,
	Args: cobra.MinimumNArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		return applyDefaultFormat(&parseConfig, cfg)
	},
	RunE: runParse,
}

var (
	parseConfig       common.CommandConfig
	parseExportFile   string
	parseNoDiagnostic bool
)

func init() {
	parseCmd.Flags().StringVarP(&parseConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	parseCmd.Flags().StringVar(&parseConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")
	parseCmd.Flags().StringVar(&parseExportFile, "export", "", "Also write the profiles to an .xlsx workbook")
	parseCmd.Flags().BoolVar(&parseNoDiagnostic, "no-diagnostic", false, "Do not write the extracted text next to each input")

	registerFormatCompletion(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	om, stop, err := startObservability(cfg, logger)
	if err != nil {
		return err
	}
	defer stop()

	parser, err := newParser(cfg, logger, om.Metrics(), cfg.Extraction.WriteDiagnostic && !parseNoDiagnostic)
	if err != nil {
		return err
	}

	parseOperation := func(ctx context.Context, paths []string) (any, error) {
		profiles, err := parseFiles(ctx, parser, paths)
		if err != nil {
			return nil, err
		}

		if parseExportFile != "" {
			saved, err := export.ExportProfiles(profiles, parseExportFile)
			if err != nil {
				return nil, errors.NewIOError(errors.ErrCodeFileWrite,
					"Failed to export profiles", err).
					WithContext("file", parseExportFile)
			}
			logger.Info("Profiles exported", "file", saved, "profiles", len(profiles))
		}

		if len(profiles) == 1 {
			return profiles[0], nil
		}
		return profiles, nil
	}

	if err := common.RunCommand(cmd.Context(), logger, parseConfig, args, parseOperation); err != nil {
		return fmt.Errorf("failed to parse resume: %w", err)
	}
	logger.Info("Resume parsing completed successfully", "files", len(args))
	return nil
}

// parseFiles parses every path in order and stops at the first failure
func parseFiles(ctx context.Context, parser *resume.Parser, paths []string) ([]types.Profile, error) {
	profiles := make([]types.Profile, 0, len(paths))
	for _, path := range paths {
		profile, err := parser.Parse(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		profiles = append(profiles, profile)
	}
	return profiles, nil
}
