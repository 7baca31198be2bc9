package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"google.golang.org/api/googleapi"
	"google.golang.org/genai"

	"jobparser/internal/common"
	"jobparser/internal/config"
	appErrors "jobparser/internal/errors"
	"jobparser/internal/types"
)

const modelCheckTimeout = 10 * time.Second

// models is the part of genai's Models service the assistant calls.
type models interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
	Get(ctx context.Context, model string, config *genai.GetModelConfig) (*genai.Model, error)
}

// GeminiAssistant extracts records with Google Gemini using a JSON response schema
type GeminiAssistant struct {
	models  models
	cfg     config.AIConfig
	retry   common.RetryPolicy
	breaker *common.CircuitBreaker[*genai.GenerateContentResponse]
	logger  *appErrors.Logger
}

var _ Assistant = (*GeminiAssistant)(nil)

// NewGeminiAssistant creates a Gemini client for cfg.Model
func NewGeminiAssistant(ctx context.Context, cfg config.AIConfig, logger *appErrors.Logger) (*GeminiAssistant, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		HTTPClient: &http.Client{Timeout: cfg.Timeout},
	})
	if err != nil {
		return nil, appErrors.NewAIError(appErrors.ErrCodeAIServiceFailed,
			"Failed to create Gemini client", err)
	}
	return newGeminiAssistant(client.Models, cfg, logger), nil
}

func newGeminiAssistant(m models, cfg config.AIConfig, logger *appErrors.Logger) *GeminiAssistant {
	return &GeminiAssistant{
		models: m,
		cfg:    cfg,
		retry: common.RetryPolicy{
			MaxRetries: cfg.MaxRetries,
			Retryable:  isRetryableError,
		},
		breaker: common.NewCircuitBreaker[*genai.GenerateContentResponse]("ai", cfg.CircuitBreaker, logger),
		logger:  logger,
	}
}

// Extract asks the model for a record matching recordSchema.
func (g *GeminiAssistant) Extract(ctx context.Context, text string) (types.Record, error) {
	var rec types.Record
	tracer := otel.Tracer("jobparser.ai.gemini")
	ctx, span := tracer.Start(ctx, "gemini.extract")
	defer span.End()

	span.SetAttributes(
		attribute.String("ai.provider", "gemini"),
		attribute.String("ai.model", g.cfg.Model),
		attribute.Float64("ai.temperature", float64(g.cfg.Temperature)),
		attribute.Int("input.text_length", len(text)),
	)

	systemPrompt, userPrompt := renderPrompts(g.cfg.Prompts.System, g.cfg.Prompts.User, text)
	genaiConfig := g.buildConfig()
	genaiConfig.SystemInstruction = genai.NewContentFromText(systemPrompt, genai.RoleUser)

	result, err := g.breaker.Execute(func() (*genai.GenerateContentResponse, error) {
		return common.Retry(ctx, g.logger, "gemini.extract", g.retry, func() (*genai.GenerateContentResponse, error) {
			return g.models.GenerateContent(ctx, g.cfg.Model, genai.Text(userPrompt), genaiConfig)
		})
	})
	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("success", false))
		if common.IsOpen(err) {
			return rec, appErrors.NewAIError(appErrors.ErrCodeCircuitBreakerOn, "AI circuit breaker is open", err)
		}
		return rec, appErrors.NewAIError(appErrors.ErrCodeAIServiceFailed, "Failed to generate content for extract", err)
	}

	if err := json.Unmarshal([]byte(result.Text()), &rec); err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("success", false))
		return types.Record{}, appErrors.NewAIError("AI_RESPONSE_PARSE_FAILED", "Failed to parse AI response for extract", err)
	}
	normalizeRecord(&rec)

	if usage := result.UsageMetadata; usage != nil {
		span.SetAttributes(
			attribute.Int64("ai.tokens.input", int64(usage.PromptTokenCount)),
			attribute.Int64("ai.tokens.output", int64(usage.CandidatesTokenCount)),
			attribute.Int64("ai.tokens.total", int64(usage.TotalTokenCount)),
		)
	}
	span.SetAttributes(
		attribute.Bool("success", true),
		attribute.Int("output.skills", len(rec.Skills)),
	)
	return rec, nil
}

// ModelInfo represents information about the AI model
type ModelInfo struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName,omitempty"`
	Version     string `json:"version,omitempty"`
	Available   bool   `json:"available"`
	Error       string `json:"error,omitempty"`
}

// ModelInfo checks that the configured model is reachable
func (g *GeminiAssistant) ModelInfo(ctx context.Context) *ModelInfo {
	info := &ModelInfo{Name: g.cfg.Model}

	checkCtx, cancel := context.WithTimeout(ctx, modelCheckTimeout)
	defer cancel()

	model, err := g.models.Get(checkCtx, g.cfg.Model, &genai.GetModelConfig{})
	if err != nil {
		info.Error = fmt.Sprintf("Failed to get model info: %v", err)
		g.logger.Warn("Model availability check failed",
			"model", g.cfg.Model,
			"error", err.Error())
		return info
	}

	info.Available = true
	info.DisplayName = model.DisplayName
	info.Version = model.Version
	return info
}

// Stats returns circuit breaker statistics
func (g *GeminiAssistant) Stats() map[string]any {
	return g.breaker.Stats()
}

// Close is a no-op; the genai client holds no resources between calls.
func (g *GeminiAssistant) Close() error {
	return nil
}

func (g *GeminiAssistant) buildConfig() *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   recordSchema(),
	}
	if g.cfg.Temperature > 0 {
		temperature := g.cfg.Temperature
		cfg.Temperature = &temperature
	}
	return cfg
}

func recordSchema() *genai.Schema {
	str := func() *genai.Schema { return &genai.Schema{Type: genai.TypeString} }
	list := func() *genai.Schema {
		return &genai.Schema{Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}}
	}

	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"jobTitle":        str(),
			"companyName":     str(),
			"jobLocation":     str(),
			"jobType":         list(),
			"experienceRange": str(),
			"skills":          list(),
			"salary": {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"min":      {Type: genai.TypeNumber},
					"max":      {Type: genai.TypeNumber},
					"currency": str(),
					"payRate":  {Type: genai.TypeString, Enum: []string{"per year", "per month", "per hour"}},
				},
				Required: []string{"min", "max", "currency", "payRate"},
			},
			"benefits":         list(),
			"educationLevel":   str(),
			"jobCategory":      str(),
			"priority":         {Type: genai.TypeString, Enum: []string{"Urgent", "High", "Medium", "Low"}},
			"clientName":       str(),
			"reportingManager": str(),
			"workAuth":         list(),
			"jobDescription":   str(),
			"responsibilities": list(),
			"requirements":     list(),
		},
		Required: []string{
			"jobTitle", "companyName", "jobLocation", "jobType", "experienceRange", "skills",
			"salary", "educationLevel", "jobCategory", "priority", "workAuth", "jobDescription",
		},
	}
}

// normalizeRecord trims model output so list fields are never null.
func normalizeRecord(rec *types.Record) {
	trimAll := func(items []string) []string {
		out := make([]string, 0, len(items))
		for _, it := range items {
			if it = strings.TrimSpace(it); it != "" {
				out = append(out, it)
			}
		}
		return out
	}

	rec.JobTitle = strings.TrimSpace(rec.JobTitle)
	rec.CompanyName = strings.TrimSpace(rec.CompanyName)
	rec.JobLocation = strings.TrimSpace(rec.JobLocation)
	rec.JobType = trimAll(rec.JobType)
	rec.Skills = trimAll(rec.Skills)
	rec.Benefits = trimAll(rec.Benefits)
	rec.WorkAuth = trimAll(rec.WorkAuth)
	rec.Responsibilities = trimAll(rec.Responsibilities)
	rec.Requirements = trimAll(rec.Requirements)
}

// isRetryableError determines if an error should trigger a retry
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return true
		}
	}

	return false
}
