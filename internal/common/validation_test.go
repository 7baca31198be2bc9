package common

import (
	"strings"
	"testing"

	"jobparser/internal/errors"
)

func TestValidateOutputFormat(t *testing.T) {
	supported := []string{"json", "text", "markdown", "xlsx"}

	tests := []struct {
		name          string
		format        string
		supported     []string
		expectedError string
	}{
		{name: "json", format: "json", supported: supported},
		{name: "xlsx", format: "xlsx", supported: supported},
		{name: "unknown format", format: "xml", supported: supported,
			expectedError: "unsupported output format 'xml'. Supported formats: [json text markdown xlsx]"},
		{name: "case sensitive", format: "JSON", supported: supported,
			expectedError: "unsupported output format 'JSON'"},
		{name: "no restrictions", format: "anything", supported: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOutputFormat(tt.format, tt.supported)
			if tt.expectedError == "" {
				if err != nil {
					t.Errorf("Expected no error, got: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.expectedError) {
				t.Errorf("Expected error containing %q, got %v", tt.expectedError, err)
			}
		})
	}
}

func TestValidateOutputTarget(t *testing.T) {
	tests := []struct {
		format      string
		outputFile  string
		expectError bool
	}{
		{"json", "", false},
		{"markdown", "out.md", false},
		{"xlsx", "jobs.xlsx", false},
		{"xlsx", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.format+"->"+tt.outputFile, func(t *testing.T) {
			err := ValidateOutputTarget(tt.format, tt.outputFile)
			if (err != nil) != tt.expectError {
				t.Errorf("ValidateOutputTarget(%q, %q) error = %v, expectError %v", tt.format, tt.outputFile, err, tt.expectError)
			}
		})
	}
}

func TestValidateText(t *testing.T) {
	tests := []struct {
		name        string
		text        string
		maxSize     int64
		expectError bool
	}{
		{name: "empty is allowed", text: ""},
		{name: "within limit", text: "Senior Engineer", maxSize: 100},
		{name: "no limit", text: strings.Repeat("a", 5000)},
		{name: "over limit", text: strings.Repeat("a", 101), maxSize: 100, expectError: true},
		{name: "invalid utf8", text: "Engineer \xff\xfe", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateText(tt.text, tt.maxSize)
			if !tt.expectError {
				if err != nil {
					t.Errorf("Expected no error, got: %v", err)
				}
				return
			}
			if errors.TypeOf(err) != errors.ErrorTypeValidation {
				t.Errorf("Expected validation error, got %v", err)
			}
		})
	}
}

func BenchmarkValidateText(b *testing.B) {
	text := strings.Repeat("Build reliable payment systems. ", 200)
	for b.Loop() {
		_ = ValidateText(text, 1<<20)
	}
}
