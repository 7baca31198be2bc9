package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// loadPrompts replaces inline extraction prompts with file content when a file is configured.
// A file always wins over an inline prompt.
func (c *Config) loadPrompts() error {
	if err := c.validatePromptFiles(); err != nil {
		return err
	}

	prompts := &c.AI.Prompts
	if prompts.SystemFile != "" {
		content, err := loadPromptFromFile(prompts.SystemFile, "system")
		if err != nil {
			return err
		}
		prompts.System = content
	}
	if prompts.UserFile != "" {
		content, err := loadPromptFromFile(prompts.UserFile, "user")
		if err != nil {
			return err
		}
		prompts.User = content
	}

	if prompts.System != "" || prompts.User != "" {
		log.Printf("[CONFIG] Custom extraction prompts in use (system %d chars, user %d chars)",
			len(prompts.System), len(prompts.User))
	}
	return nil
}

// loadPromptFromFile loads a prompt from a file with proper error handling and logging
func loadPromptFromFile(filePath, promptType string) (string, error) {
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve absolute path for %s prompt file '%s': %w", promptType, filePath, err)
	}

	content, err := os.ReadFile(absPath)
	if err != nil {
		return "", fmt.Errorf("failed to read %s prompt file '%s': %w", promptType, absPath, err)
	}

	trimmed := strings.TrimSpace(string(content))
	if trimmed == "" {
		return "", fmt.Errorf("%s prompt file '%s' is empty", promptType, absPath)
	}

	log.Printf("[CONFIG] Successfully loaded %s prompt from file: %s (%d characters)", promptType, absPath, len(trimmed))
	return trimmed, nil
}

// validatePromptFiles validates that prompt files exist before loading
func (c *Config) validatePromptFiles() error {
	var validationErrors []string

	validateFile := func(filePath, promptType string) {
		if filePath == "" {
			return
		}
		absPath, err := filepath.Abs(filePath)
		if err != nil {
			validationErrors = append(validationErrors, fmt.Sprintf("invalid path for %s prompt: %s", promptType, filePath))
			return
		}
		if _, err := os.Stat(absPath); os.IsNotExist(err) {
			validationErrors = append(validationErrors, fmt.Sprintf("%s prompt file not found: %s", promptType, absPath))
		}
	}

	validateFile(c.AI.Prompts.SystemFile, "system")
	validateFile(c.AI.Prompts.UserFile, "user")

	if len(validationErrors) > 0 {
		return fmt.Errorf("prompt file validation failed:\n%s", strings.Join(validationErrors, "\n"))
	}
	return nil
}
