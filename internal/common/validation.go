package common

import (
	"fmt"
	"slices"
	"unicode/utf8"

	"jobparser/internal/errors"
)

// BinaryFormats cannot be written to a terminal and need an output file
var BinaryFormats = []string{"xlsx"}

// ValidateOutputFormat validates format against configured supported formats
func ValidateOutputFormat(format string, supportedFormats []string) error {
	if len(supportedFormats) == 0 {
		return nil // No restrictions configured
	}

	if slices.Contains(supportedFormats, format) {
		return nil
	}

	return fmt.Errorf("unsupported output format '%s'. Supported formats: %v",
		format, supportedFormats)
}

// ValidateOutputTarget rejects binary formats bound for stdout
func ValidateOutputTarget(format, outputFile string) error {
	if outputFile == "" && slices.Contains(BinaryFormats, format) {
		return fmt.Errorf("format '%s' is binary and requires an output file (-o)", format)
	}
	return nil
}

// ValidateText checks a job description before it reaches the engine.
// Empty text is allowed; the engine answers it with a record of defaults.
func ValidateText(text string, maxSize int64) error {
	if maxSize > 0 && int64(len(text)) > maxSize {
		return errors.NewValidationError(errors.ErrCodeInvalidInput,
			fmt.Sprintf("text is %d bytes, limit is %d", len(text), maxSize), nil)
	}
	if !utf8.ValidString(text) {
		return errors.NewValidationError(errors.ErrCodeInvalidInput, "text is not valid UTF-8", nil)
	}
	return nil
}
