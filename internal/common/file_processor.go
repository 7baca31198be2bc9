package common

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"jobparser/internal/errors"
	"jobparser/internal/utils"
)

// StdinName selects standard input as the command input
const StdinName = "-"

// FileProcessor handles common file operations
type FileProcessor struct {
	logger      *errors.Logger
	maxFileSize int64
}

// NewFileProcessor creates a new file processor instance.
// maxFileSize of zero disables the size check.
func NewFileProcessor(logger *errors.Logger, maxFileSize int64) *FileProcessor {
	return &FileProcessor{logger: logger, maxFileSize: maxFileSize}
}

// ReadInput reads a job description from a file, or from stdin when name is empty or "-"
func (fp *FileProcessor) ReadInput(name string, stdin io.Reader) (string, error) {
	if name == "" || name == StdinName {
		if stdin == nil {
			stdin = os.Stdin
		}
		return fp.readLimited(stdin, "stdin")
	}

	if err := utils.ValidateInputFile(name); err != nil {
		return "", errors.NewValidationError(errors.ErrCodeInvalidInput,
			fmt.Sprintf("Invalid file %s", name), err)
	}
	if !utils.IsTextFile(name) && fp.logger != nil {
		fp.logger.Warn("File may not be a text file", "filename", name)
	}
	return fp.ReadFile(name)
}

// ReadFile reads content from a file with proper error handling
func (fp *FileProcessor) ReadFile(filename string) (string, error) {
	file, err := os.Open(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.NewIOError(errors.ErrCodeFileNotFound,
				fmt.Sprintf("File not found: %s", filename), err)
		}
		return "", errors.NewIOError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("Cannot read file: %s", filename), err)
	}
	defer func() {
		if err := file.Close(); err != nil && fp.logger != nil {
			fp.logger.Warn("Failed to close file", "filename", filename, "error", err)
		}
	}()

	return fp.readLimited(file, filename)
}

func (fp *FileProcessor) readLimited(r io.Reader, name string) (string, error) {
	if fp.maxFileSize > 0 {
		r = io.LimitReader(r, fp.maxFileSize+1)
	}
	content, err := io.ReadAll(r)
	if err != nil {
		return "", errors.NewIOError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("Failed to read content: %s", name), err)
	}
	if fp.maxFileSize > 0 && int64(len(content)) > fp.maxFileSize {
		return "", errors.NewValidationError(errors.ErrCodeInvalidInput,
			fmt.Sprintf("%s exceeds the %s input limit", name, utils.FormatFileSize(fp.maxFileSize)), nil)
	}
	return string(content), nil
}

// WriteFile writes content to a file with directory creation
func (fp *FileProcessor) WriteFile(filename string, content []byte) error {
	dir := filepath.Dir(filename)
	if dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return errors.NewIOError("DIRECTORY_CREATE_FAILED",
				fmt.Sprintf("Cannot create directory: %s", dir), err)
		}
	}

	if err := os.WriteFile(filename, content, 0600); err != nil {
		return errors.NewIOError("FILE_WRITE_FAILED",
			fmt.Sprintf("Cannot write file: %s", filename), err)
	}
	return nil
}

// ValidateOutputFile validates output file path
func (fp *FileProcessor) ValidateOutputFile(filename string) error {
	if filename == "" {
		return nil // stdout is valid
	}

	if err := utils.ValidateOutputFile(filename); err != nil {
		return errors.NewValidationError("INVALID_OUTPUT_FILE",
			fmt.Sprintf("Invalid output file: %s", filename), err)
	}
	return nil
}
