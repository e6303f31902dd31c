package common

import (
	"fmt"
	"os"
	"path/filepath"

	"skillscan/internal/errors"
	"skillscan/internal/extractor"
	"skillscan/internal/utils"
)

// FileProcessor handles common file operations
type FileProcessor struct {
	logger *errors.Logger
}

// NewFileProcessor creates a new file processor instance
func NewFileProcessor(logger *errors.Logger) *FileProcessor {
	return &FileProcessor{logger: logger}
}

// WriteFile writes content to a file, creating its directory
func (fp *FileProcessor) WriteFile(filename, content string) error {
	dir := filepath.Dir(filename)
	if dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return errors.NewIOError(errors.ErrCodeFileWrite,
				fmt.Sprintf("Cannot create directory: %s", dir), err)
		}
	}

	if err := os.WriteFile(filename, []byte(content), 0600); err != nil {
		return errors.NewIOError(errors.ErrCodeFileWrite,
			fmt.Sprintf("Cannot write file: %s", filename), err)
	}

	return nil
}

// ValidateInputFiles checks that every résumé exists, is readable and has a
// supported extension. Unsupported extensions return the extractor's
// *errors.UnsupportedFormatError unchanged.
func (fp *FileProcessor) ValidateInputFiles(filenames ...string) error {
	if len(filenames) == 0 {
		return errors.NewValidationError(errors.ErrCodeInvalidRequest,
			"At least one input file is required", nil)
	}

	for _, filename := range filenames {
		if err := utils.ValidateInputFile(filename); err != nil {
			return errors.NewValidationError(errors.ErrCodeFileNotFound,
				fmt.Sprintf("Invalid file %s", filename), err)
		}

		if _, err := extractor.FormatFromPath(filename); err != nil {
			return err
		}

		if size, err := utils.FileSize(filename); err == nil && size == 0 {
			fp.logger.Warn("Input file is empty", "filename", filename)
		}
	}

	return nil
}

// ValidateOutputFile validates output file path
func (fp *FileProcessor) ValidateOutputFile(filename string) error {
	if filename == "" {
		return nil // stdout is valid
	}

	if err := utils.ValidateOutputFile(filename); err != nil {
		return errors.NewValidationError(errors.ErrCodeFileWrite,
			fmt.Sprintf("Invalid output file: %s", filename), err)
	}

	return nil
}
