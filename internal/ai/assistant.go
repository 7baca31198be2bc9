// Package ai offers an optional language-model pass over job descriptions.
// The rule engine stays authoritative: any assistant failure, or a record
// that breaks the record invariants, falls back to rule extraction.
package ai

import (
	"context"
	"fmt"

	"jobparser/internal/config"
	"jobparser/internal/errors"
	"jobparser/internal/extract"
	"jobparser/internal/types"
)

// Assistant extracts a record with a language model.
type Assistant interface {
	Extract(ctx context.Context, text string) (types.Record, error)
	Close() error
}

// RuleParser is the deterministic extractor the fallback trusts.
type RuleParser interface {
	ParseContext(ctx context.Context, text string) (types.Record, error)
}

// NewAssistant creates the configured assistant, or nil when AI assist is disabled.
func NewAssistant(ctx context.Context, cfg config.AIConfig, logger *errors.Logger) (Assistant, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	logger.Debug("Initializing AI assistant",
		"provider", cfg.Provider,
		"model", cfg.Model,
		"temperature", cfg.Temperature,
		"timeout", cfg.Timeout,
		"max_retries", cfg.MaxRetries)

	switch cfg.Provider {
	case "gemini":
		assistant, err := NewGeminiAssistant(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		return assistant, nil
	default:
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig,
			fmt.Sprintf("Unsupported AI provider: %s", cfg.Provider), nil)
	}
}

// Fallback runs the assistant first and the rule engine when it fails.
type Fallback struct {
	assistant Assistant
	rules     RuleParser
	logger    *errors.Logger
}

// WithFallback pairs an assistant with the rule engine. A nil assistant
// means every call goes straight to the rules.
func WithFallback(assistant Assistant, rules RuleParser, logger *errors.Logger) *Fallback {
	return &Fallback{assistant: assistant, rules: rules, logger: logger}
}

// Extract returns the record and the source that produced it.
func (f *Fallback) Extract(ctx context.Context, text string) (types.Record, string, error) {
	if f.assistant != nil {
		rec, err := f.assistant.Extract(ctx, text)
		if err == nil {
			err = extract.Validate(rec)
		}
		if err == nil {
			return rec, types.SourceAI, nil
		}
		if ctx.Err() != nil {
			return types.Record{}, "", ctx.Err()
		}
		f.logger.LogError(err, "AI extraction failed, falling back to rules", "text_length", len(text))
	}

	rec, err := f.rules.ParseContext(ctx, text)
	if err != nil {
		return types.Record{}, "", err
	}
	return rec, types.SourceRules, nil
}
