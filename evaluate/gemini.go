// CLAUDE:SUMMARY Gemini transport for evaluation prompts via the Google GenAI SDK.
package evaluate

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"google.golang.org/genai"
)

type geminiEvaluator struct {
	apiKey      string
	model       string
	temperature float32
	maxTokens   int
	logger      *slog.Logger

	once    sync.Once
	client  *genai.Client
	initErr error
}

func newGeminiEvaluator(cfg Config) *geminiEvaluator {
	return &geminiEvaluator{
		apiKey:      cfg.APIKey,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		logger:      cfg.Logger,
	}
}

func (e *geminiEvaluator) Model() string { return e.model }

func (e *geminiEvaluator) init(ctx context.Context) error {
	e.once.Do(func() {
		e.client, e.initErr = genai.NewClient(ctx, &genai.ClientConfig{
			APIKey: e.apiKey,
		})
	})
	return e.initErr
}

func (e *geminiEvaluator) Evaluate(ctx context.Context, prompt string) (*Response, error) {
	if err := e.init(ctx); err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	cfg := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(e.temperature),
		MaxOutputTokens: int32(e.maxTokens),
	}
	contents := []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}

	resp, err := e.client.Models.GenerateContent(ctx, e.model, contents, cfg)
	if err != nil {
		return nil, fmt.Errorf("generate content: %w", err)
	}

	out := &Response{
		Text:  resp.Text(),
		Model: e.model,
	}
	if resp.UsageMetadata != nil {
		out.InputTokens = int(resp.UsageMetadata.PromptTokenCount)
		out.OutputTokens = int(resp.UsageMetadata.CandidatesTokenCount)
	}

	e.logger.Debug("gemini response received",
		"model", e.model,
		"input_tokens", out.InputTokens,
		"output_tokens", out.OutputTokens)

	return out, nil
}
