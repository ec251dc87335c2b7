package enrich

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/sony/gobreaker"
)

var (
	// ErrService indicates a transport, timeout or rate-limit failure from
	// the enrichment service. These are never retried here; the caller
	// decides what a failed word means for the batch.
	ErrService = errors.New("enrichment service error")
	// ErrParse indicates the service responded, but not with a well-formed
	// record for the declared word type.
	ErrParse = errors.New("enrichment response invalid")
)

const requestTimeout = 60 * time.Second

// Client asks an OpenAI chat model to enrich a single vocabulary word.
type Client struct {
	apiKey  string
	client  *openai.Client
	model   string
	breaker *gobreaker.CircuitBreaker
}

// NewClient creates a new enrichment client.
func NewClient(apiKey string) *Client {
	return &Client{
		apiKey: apiKey,
		client: openai.NewClient(apiKey),
		model:  openai.GPT4oMini,
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name: "enrichment",
		}),
	}
}

// SetModel overrides the chat model used for enrichment.
func (c *Client) SetModel(model string) {
	if model != "" {
		c.model = model
	}
}

// Enrich analyzes one raw word and returns its structured record with
// exampleCount example sentence pairs. The input may be German or English,
// with or without spelling mistakes; the service is instructed to always
// return its best guess at a valid German word.
func (c *Client) Enrich(ctx context.Context, word string, exampleCount int) (*Record, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("%w: OpenAI API key not configured", ErrService)
	}

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are a helpful German language assistant. You respond only in valid JSON without any additional formatting. Provide accurate grammatical information and natural example sentences.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: buildPrompt(word, exampleCount),
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		MaxTokens:   1500,
		Temperature: 0.7,
	}

	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.client.CreateChatCompletion(ctx, req)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrService, err)
	}

	resp := result.(openai.ChatCompletionResponse)
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return nil, fmt.Errorf("%w: empty completion", ErrService)
	}

	return parseRecord(resp.Choices[0].Message.Content)
}

// buildPrompt mirrors the card-analysis instructions: language detection,
// spelling correction, translation, word type, type-specific grammar and
// B1-level examples, with a hard requirement to always output a valid word.
func buildPrompt(word string, exampleCount int) string {
	return fmt.Sprintf(`Analyze the input '%s' and provide:
1. Detect if this is German or English (even if misspelled)
2. Correct any spelling mistakes and provide the proper German word/phrase
3. English translation
4. Word type (noun, verb, adjective, etc.)
5. Grammar information:
   - If noun: definite article (der/die/das) and plural form
   - If verb: present tense (ich/du/er forms), past tense (ich form), and perfect tense (ich form)
   - If adjective: basic forms and any irregular declensions
6. %d B1-level example sentences in German with English translations. Illustrate the various forms, meaning/usage and plural as best you can in simple examples.

IMPORTANT: Always output a valid, commonly used German word/phrase. If the input is unclear, make your best guess at what the user intended.

Return as JSON with this structure:
{
  "german": "corrected German word/phrase",
  "english": "English translation",
  "word_type": "noun|verb|adjective|etc",
  "grammar": {
    "article": "der|die|das (for nouns only)",
    "plural": "plural form (for nouns only)",
    "present": "ich forme, du formst, er formt (for verbs only)",
    "past": "ich formte (for verbs only)",
    "perfect": "ich habe geformt (for verbs only)",
    "adjective_forms": "basic forms like 'schön, schöner, am schönsten' (for adjectives only)"
  },
  "sentences": [{"example": "German text", "translation": "English text"}]
}`, word, exampleCount)
}

// parseRecord decodes and validates the service response.
func parseRecord(content string) (*Record, error) {
	var rec Record
	if err := json.Unmarshal([]byte(stripCodeFence(content)), &rec); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	rec.WordType = NormalizeWordType(rec.WordType)

	if err := rec.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	return &rec, nil
}

// stripCodeFence removes a markdown code fence some models wrap around JSON
// despite the JSON-only instruction.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
