package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/speakspace/speakspace-api/internal/config"
	"github.com/speakspace/speakspace-api/internal/domain"
	"github.com/speakspace/speakspace-api/internal/extract"
)

// systemInstruction frames the model as a task extraction engine that emits
// only the declared structure.
const systemInstruction = "You are an expert task extraction engine. " +
	"Analyze the user's voice transcript, identify all distinct action items, " +
	"and emit them only in the required JSON structure. Do not write any other text or explanation."

// extractionTemperature keeps the structured output stable across calls.
const extractionTemperature float32 = 0.1

// datetimeLayouts are the ISO-8601 shapes accepted from the model.
var datetimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// itemListSchema is the declared output schema: an array of action item
// objects with a required description, an optional ISO-8601 datetime, and a
// priority enum.
var itemListSchema = &genai.Schema{
	Type: genai.TypeArray,
	Items: &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"description": {
				Type:        genai.TypeString,
				Description: "The core task description/action item extracted from the transcript.",
			},
			"datetime": {
				Type:        genai.TypeString,
				Description: "The date and time in ISO 8601 format if explicitly mentioned. Omit if no time is specified.",
			},
			"priority": {
				Type:        genai.TypeString,
				Enum:        []string{"low", "medium", "high"},
				Description: "The urgency of the task. Default to 'medium'.",
			},
		},
		Required: []string{"description"},
	},
}

// StructuredExtractor implements extract.Extractor using a single
// schema-constrained Gemini call. Any failure — transport, blocked content,
// missing or schema-invalid result — surfaces as an error for the extraction
// chain to recover from; this strategy never regex-parses free text.
type StructuredExtractor struct {
	client *genai.Client
	config config.LLMConfig
	logger *slog.Logger
}

// NewStructuredExtractor creates the primary extraction strategy.
func NewStructuredExtractor(
	ctx context.Context,
	logger *slog.Logger,
	cfg config.LLMConfig,
) (*StructuredExtractor, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", extract.ErrInvalidConfig)
	}

	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", extract.ErrInvalidConfig)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v", extract.ErrInvalidConfig, err)
	}

	return &StructuredExtractor{
		client: client,
		config: cfg,
		logger: logger.With("component", "structured_extractor"),
	}, nil
}

// Extract issues the structured-output request and validates the result
// against the declared schema.
func (e *StructuredExtractor) Extract(ctx context.Context, transcript string) ([]domain.ActionItem, error) {
	if strings.TrimSpace(transcript) == "" {
		return nil, nil
	}

	raw, err := e.callWithRetry(ctx, transcript)
	if err != nil {
		return nil, err
	}

	items, err := parseItems(raw)
	if err != nil {
		e.logger.Warn("structured response failed schema validation",
			"error", err,
			"response_length", len(raw))
		return nil, err
	}

	e.logger.Info("structured extraction succeeded", "item_count", len(items))
	return items, nil
}

// callWithRetry makes the Gemini call with exponential backoff and jitter
// for transient errors. Permanent errors (blocked content, malformed
// response) return immediately.
func (e *StructuredExtractor) callWithRetry(ctx context.Context, transcript string) (string, error) {
	maxRetries := e.config.MaxRetries
	if maxRetries < 0 {
		maxRetries = 3
	}
	baseDelaySeconds := e.config.RetryDelaySeconds
	if baseDelaySeconds < 1 {
		baseDelaySeconds = 2
	}
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	prompt := fmt.Sprintf("Analyze the following transcript and extract all tasks: %q", transcript)

	for attempt := 0; ; attempt++ {
		raw, err := e.call(ctx, prompt)
		if err == nil {
			return raw, nil
		}

		e.logger.Error("Gemini API call failed",
			"attempt", attempt+1,
			"max_attempts", maxRetries+1,
			"error", err)

		if errors.Is(err, extract.ErrContentBlocked) || errors.Is(err, extract.ErrInvalidResponse) {
			return "", err
		}

		if attempt >= maxRetries {
			return "", fmt.Errorf("%w: exceeded maximum retry attempts (%d)",
				extract.ErrTransientFailure, maxRetries)
		}

		// delay = baseDelay * 2^attempt * (0.5 + rand(0, 0.5))
		backoffSeconds := float64(baseDelaySeconds) * math.Pow(2, float64(attempt))
		jitterFactor := 0.5 + rng.Float64()*0.5
		delay := time.Duration(backoffSeconds * jitterFactor * float64(time.Second))

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return "", fmt.Errorf("%w: %v", extract.ErrTransientFailure, ctx.Err())
		}
	}
}

// call performs a single schema-constrained request.
func (e *StructuredExtractor) call(ctx context.Context, prompt string) (string, error) {
	resp, err := e.client.Models.GenerateContent(ctx, e.config.ModelName, genai.Text(prompt),
		&genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(systemInstruction, genai.RoleUser),
			Temperature:       genai.Ptr(extractionTemperature),
			ResponseMIMEType:  "application/json",
			ResponseSchema:    itemListSchema,
		})
	if err != nil {
		return "", fmt.Errorf("%w: %v", extract.ErrTransientFailure, err)
	}

	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("%w: no content generated", extract.ErrInvalidResponse)
	}

	if resp.Candidates[0].FinishReason == genai.FinishReasonSafety {
		return "", fmt.Errorf("%w: finish reason safety", extract.ErrContentBlocked)
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: empty structured result", extract.ErrInvalidResponse)
	}

	return text, nil
}

// parseItems validates the raw JSON against the declared schema and converts
// it into domain action items.
func parseItems(raw string) ([]domain.ActionItem, error) {
	var schemas []itemSchema
	if err := json.Unmarshal([]byte(raw), &schemas); err != nil {
		return nil, fmt.Errorf("%w: failed to parse JSON response: %v", extract.ErrInvalidResponse, err)
	}

	items := make([]domain.ActionItem, 0, len(schemas))
	for i, schema := range schemas {
		if strings.TrimSpace(schema.Description) == "" {
			return nil, fmt.Errorf("%w: item %d missing description", extract.ErrInvalidResponse, i)
		}

		due, err := parseDatetime(schema.Datetime)
		if err != nil {
			return nil, fmt.Errorf("%w: item %d has malformed datetime %q", extract.ErrInvalidResponse, i, schema.Datetime)
		}

		priority, err := parsePriority(schema.Priority)
		if err != nil {
			return nil, fmt.Errorf("%w: item %d has invalid priority %q", extract.ErrInvalidResponse, i, schema.Priority)
		}

		item, err := domain.NewActionItem(strings.TrimSpace(schema.Description), due, priority)
		if err != nil {
			return nil, fmt.Errorf("%w: item %d: %v", extract.ErrInvalidResponse, i, err)
		}
		items = append(items, item)
	}

	return items, nil
}

// parseDatetime accepts the ISO-8601 layouts the schema allows; empty or
// JSON null means no due time.
func parseDatetime(value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" || strings.EqualFold(value, "null") {
		return nil, nil
	}

	for _, layout := range datetimeLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return &parsed, nil
		}
	}
	return nil, fmt.Errorf("unrecognized datetime %q", value)
}

// parsePriority maps the schema enum onto the domain type; empty defaults to
// medium.
func parsePriority(value string) (domain.Priority, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "":
		return domain.PriorityMedium, nil
	case "low":
		return domain.PriorityLow, nil
	case "medium":
		return domain.PriorityMedium, nil
	case "high":
		return domain.PriorityHigh, nil
	default:
		return "", fmt.Errorf("unknown priority %q", value)
	}
}

var _ extract.Extractor = (*StructuredExtractor)(nil)
