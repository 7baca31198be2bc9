package formatters

import (
	"encoding/json"
	"fmt"
	"slices"

	"jobparser/internal/types"
)

// Formatter interface for different output formats
type Formatter interface {
	Format(data any) ([]byte, error)
	SupportedType() string
}

// Data types the registry dispatches on
const (
	typeAny             = "any"
	typeRecord          = "Record"
	typePublishResponse = "PublishResponse"
	typeSweepReport     = "SweepReport"
)

// FormatterRegistry manages all available formatters
type FormatterRegistry struct {
	formatters map[string]map[string]Formatter // format -> type -> formatter
}

// NewFormatterRegistry creates a new formatter registry with default formatters
func NewFormatterRegistry() *FormatterRegistry {
	registry := &FormatterRegistry{
		formatters: make(map[string]map[string]Formatter),
	}

	registry.RegisterFormatter("json", typeAny, &JSONFormatter{})
	registry.RegisterFormatter("text", typeRecord, &RecordTextFormatter{})
	registry.RegisterFormatter("markdown", typeRecord, &RecordMarkdownFormatter{})
	registry.RegisterFormatter("text", typePublishResponse, &PublishTextFormatter{})
	registry.RegisterFormatter("markdown", typePublishResponse, &PublishMarkdownFormatter{})
	registry.RegisterFormatter("text", typeSweepReport, &SweepTextFormatter{})
	registry.RegisterFormatter("markdown", typeSweepReport, &SweepTextFormatter{})
	registry.RegisterFormatter("xlsx", typeAny, &XLSXFormatter{})

	return registry
}

// RegisterFormatter registers a new formatter for a specific format and data type
func (fr *FormatterRegistry) RegisterFormatter(format, dataType string, formatter Formatter) {
	if fr.formatters[format] == nil {
		fr.formatters[format] = make(map[string]Formatter)
	}
	fr.formatters[format][dataType] = formatter
}

// Format formats data using the appropriate formatter
func (fr *FormatterRegistry) Format(data any, format string) ([]byte, error) {
	dataType := getDataType(data)

	if formatters, exists := fr.formatters[format]; exists {
		if formatter, exists := formatters[dataType]; exists {
			return formatter.Format(data)
		}
		if formatter, exists := formatters[typeAny]; exists {
			return formatter.Format(data)
		}
	}

	return nil, fmt.Errorf("no formatter found for format '%s' and type '%s'", format, dataType)
}

// GetSupportedFormats returns all supported formats, sorted
func (fr *FormatterRegistry) GetSupportedFormats() []string {
	formats := make([]string, 0, len(fr.formatters))
	for format := range fr.formatters {
		formats = append(formats, format)
	}
	slices.Sort(formats)
	return formats
}

func getDataType(data any) string {
	switch data.(type) {
	case types.Record, types.ParseResult:
		return typeRecord
	case types.PublishResponse:
		return typePublishResponse
	case types.SweepReport:
		return typeSweepReport
	default:
		return typeAny
	}
}

// recordOf unwraps the record from the types that carry one
func recordOf(data any) (types.Record, string, bool) {
	switch v := data.(type) {
	case types.Record:
		return v, "", true
	case types.ParseResult:
		return v.Record, v.Source, true
	default:
		return types.Record{}, "", false
	}
}

// JSONFormatter handles JSON formatting for any data type
type JSONFormatter struct{}

func (jf *JSONFormatter) Format(data any) ([]byte, error) {
	out, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(out, '\n'), nil
}

func (jf *JSONFormatter) SupportedType() string {
	return typeAny
}

// Global formatter registry
var GlobalRegistry = NewFormatterRegistry()
