package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/reelfind/reelfind/internal/domain"
)

// extractorAttempts bounds retries on malformed JSON from the model.
const extractorAttempts = 3

const extractorSystemPrompt = `You are a named-entity recognizer. ` +
	`Extract entities from the user text and return ONLY a JSON object of the form ` +
	`{"entities":[{"label":"DATE|GPE|PERSON","text":"<exact span from the input>"}]}. ` +
	`Use label DATE for years and dates, GPE for countries/cities/states, PERSON for people. ` +
	`List entities in the order they appear in the text. ` +
	`Return {"entities":[]} when there are none. Do not add any other labels or commentary.`

// Extractor is a named-entity extractor backed by an OpenAI-compatible chat API.
type Extractor struct {
	client   *openai.Client
	model    string
	provider string
	logger   *zap.Logger
}

// ExtractorConfig holds the extraction provider settings.
type ExtractorConfig struct {
	APIKey   string
	BaseURL  string
	Model    string
	Provider string
	Logger   *zap.Logger
}

// NewExtractor creates a chat-based entity extractor.
func NewExtractor(cfg *ExtractorConfig) *Extractor {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	clientCfg.BaseURL = cfg.BaseURL

	return &Extractor{
		client:   openai.NewClientWithConfig(clientCfg),
		model:    cfg.Model,
		provider: cfg.Provider,
		logger:   cfg.Logger,
	}
}

// entityPayload mirrors the JSON structure requested from the model.
type entityPayload struct {
	Entities []struct {
		Label string `json:"label"`
		Text  string `json:"text"`
	} `json:"entities"`
}

// ExtractEntities implements domain.EntityExtractor. Entities come back in
// document order; malformed model output is retried a bounded number of times.
func (e *Extractor) ExtractEntities(ctx context.Context, text string) ([]domain.Entity, error) {
	req := openai.ChatCompletionRequest{
		Model:       e.model,
		Temperature: 0,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: extractorSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
	}

	var lastErr error
	for attempt := 0; attempt < extractorAttempts; attempt++ {
		resp, err := e.client.CreateChatCompletion(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("extraction request failed: %w: %w", err, domain.ErrExtractionProviderError)
		}
		if len(resp.Choices) == 0 {
			return nil, nil
		}

		payload, err := parseEntityPayload(resp.Choices[0].Message.Content)
		if err != nil {
			lastErr = err
			e.logger.Warn("Failed to parse extractor response",
				zap.Int("attempt", attempt+1),
				zap.Error(err),
			)
			continue
		}

		entities := make([]domain.Entity, 0, len(payload.Entities))
		for _, ent := range payload.Entities {
			if ent.Text == "" {
				continue
			}
			entities = append(entities, domain.Entity{
				Label: domain.EntityLabel(strings.ToUpper(ent.Label)),
				Text:  ent.Text,
			})
		}
		return entities, nil
	}

	return nil, fmt.Errorf("malformed extractor output after %d attempts: %w: %w",
		extractorAttempts, lastErr, domain.ErrExtractionProviderError)
}

// parseEntityPayload strips markdown fences some models wrap around JSON and unmarshals.
func parseEntityPayload(content string) (entityPayload, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	var payload entityPayload
	if err := json.Unmarshal([]byte(content), &payload); err != nil {
		return entityPayload{}, fmt.Errorf("unmarshal entities: %w", err)
	}
	return payload, nil
}
