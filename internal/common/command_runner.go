package common

import (
	"context"

	"jobparser/internal/errors"
)

// TextOperationFunc turns one job description into a result.
type TextOperationFunc[Output any] func(ctx context.Context, text string) (Output, error)

// RunTextCommand reads one input (file or stdin), runs op on it and writes the formatted result.
func RunTextCommand[Output any](
	ctx context.Context,
	logger *errors.Logger,
	cmdConfig CommandConfig,
	input string,
	op TextOperationFunc[Output],
) error {
	fileProcessor := NewFileProcessor(logger, cmdConfig.MaxFileSize)
	outputHandler := NewOutputHandler(logger)

	text, err := fileProcessor.ReadInput(input, cmdConfig.Stdin)
	if err != nil {
		return err
	}
	if err := ValidateText(text, cmdConfig.MaxFileSize); err != nil {
		return err
	}

	if logger != nil {
		logger.Debug("Processing job description", "input", inputName(input), "text_length", len(text))
	}

	result, err := op(ctx, text)
	if err != nil {
		return err
	}

	return outputHandler.HandleOutput(result, cmdConfig)
}

func inputName(input string) string {
	if input == "" || input == StdinName {
		return "stdin"
	}
	return input
}
