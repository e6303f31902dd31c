package cli

import (
	"context"
	"fmt"
	"time"

	"skillscan/internal/common"
	"skillscan/internal/resume"
	"skillscan/internal/watcher"

	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch [directory]",
	Short: "Parse resumes as they are dropped into a directory",
	Long: `Watch a directory and parse every PDF or DOCX file written to it.
Each profile is printed as soon as the file settles. The directory
defaults to watch.dir from the configuration. A failing file is logged
and the watch continues.`,
	Args: cobra.MaximumNArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		return applyDefaultFormat(&watchConfig, cfg)
	},
	RunE: runWatch,
}

var (
	watchConfig   common.CommandConfig
	watchExisting bool
	watchDebounce time.Duration
)

func init() {
	watchCmd.Flags().StringVar(&watchConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")
	watchCmd.Flags().BoolVar(&watchExisting, "existing", false, "Also parse files already in the directory")
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 0, "Quiet period before a changed file is parsed (default from config)")

	registerFormatCompletion(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	dir := cfg.Watch.Dir
	if len(args) == 1 {
		dir = args[0]
	}
	if dir == "" {
		return fmt.Errorf("no directory to watch: pass one or set watch.dir")
	}

	debounce := cfg.Watch.Debounce
	if watchDebounce > 0 {
		debounce = watchDebounce
	}

	om, stop, err := startObservability(cfg, logger)
	if err != nil {
		return err
	}
	defer stop()

	parser, err := newParser(cfg, logger, om.Metrics(), cfg.Extraction.WriteDiagnostic)
	if err != nil {
		return err
	}

	opts := []watcher.Option{
		watcher.WithDebounce(debounce),
		watcher.WithLogger(logger),
	}
	if watchExisting {
		opts = append(opts, watcher.WithExisting())
	}

	w, err := watcher.New(dir, parseHandler(parser, common.NewOutputHandler(logger), watchConfig), opts...)
	if err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	logger.Info("Watching for resumes", "dir", dir, "debounce", debounce.String())
	return w.Run(cmd.Context())
}

// parseHandler parses each settled file and writes its profile
func parseHandler(parser *resume.Parser, out *common.OutputHandler, cmdConfig common.CommandConfig) watcher.Handler {
	return func(ctx context.Context, path string) error {
		profile, err := parser.Parse(ctx, path)
		if err != nil {
			return err
		}
		return out.HandleOutput(profile, cmdConfig)
	}
}
