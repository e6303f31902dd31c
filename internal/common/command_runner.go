package common

import (
	"context"

	"skillscan/internal/errors"
)

// Operation produces a command result from validated input paths.
type Operation[Output any] func(ctx context.Context, paths []string) (Output, error)

// RunCommand encapsulates the common logic for file-based CLI commands:
// validate the inputs, run the operation, then format and write its result.
func RunCommand[Output any](
	ctx context.Context,
	logger *errors.Logger,
	cmdConfig CommandConfig,
	args []string,
	operation Operation[Output],
) error {
	fileProcessor := NewFileProcessor(logger)
	outputHandler := NewOutputHandler(logger)

	if err := fileProcessor.ValidateInputFiles(args...); err != nil {
		return err
	}
	if err := fileProcessor.ValidateOutputFile(cmdConfig.OutputFile); err != nil {
		return err
	}

	logger.Debug("Running command",
		"inputs", len(args),
		"format", cmdConfig.OutputFormat,
		"output", cmdConfig.OutputFile)

	result, err := operation(ctx, args)
	if err != nil {
		return err
	}

	return outputHandler.HandleOutput(result, cmdConfig)
}
