// CLAUDE:SUMMARY Transport-agnostic evaluation client: interface, config with defaults, provider factory.
// Package evaluate sends filled audit prompts to an external model and
// returns raw text responses with token accounting. It decouples the audit
// pipeline from the model transport: OpenAI-compatible chat endpoints,
// Gemini, or a no-op client for offline runs.
//
// Usage:
//
//	ev, err := evaluate.New(evaluate.Config{
//	    Provider: "openai",
//	    Endpoint: "http://localhost:8000",
//	    Model:    "qwen2.5-32b-instruct",
//	})
//	resp, err := ev.Evaluate(ctx, prompt)
package evaluate

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Response is one raw model reply.
type Response struct {
	// Text is the model output, unparsed. Report normalization happens
	// downstream.
	Text string
	// Model is the model that produced the reply.
	Model string
	// Token counts as reported by the provider, 0 when unavailable.
	InputTokens  int
	OutputTokens int
}

// Evaluator sends one prompt and returns one response.
type Evaluator interface {
	Evaluate(ctx context.Context, prompt string) (*Response, error)

	// Model returns the configured model name.
	Model() string
}

// Config configures the evaluation client.
type Config struct {
	// Provider selects the transport: "openai" for any OpenAI-compatible
	// chat-completions endpoint, "gemini" for the Google GenAI API. Empty
	// returns a no-op evaluator that produces empty replies.
	Provider string `json:"provider" yaml:"provider"`

	// Endpoint is the base URL for OpenAI-compatible providers
	// (e.g. "http://localhost:8000"). Ignored by gemini.
	Endpoint string `json:"endpoint" yaml:"endpoint"`

	// APIKey authenticates the request. Optional for local endpoints.
	APIKey string `json:"api_key" yaml:"api_key"`

	// Model is the model name sent in the request.
	Model string `json:"model" yaml:"model"`

	// Temperature for sampling. Default: 0.1, low for stable structured
	// output.
	Temperature float32 `json:"temperature" yaml:"temperature"`

	// MaxTokens per response. Default: 8192.
	MaxTokens int `json:"max_tokens" yaml:"max_tokens"`

	// Timeout per request. Default: 120s.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// Logger for debug/error messages. Defaults to slog.Default().
	Logger *slog.Logger `json:"-" yaml:"-"`
}

func (c *Config) defaults() {
	if c.Temperature <= 0 {
		c.Temperature = 0.1
	}
	if c.MaxTokens <= 0 {
		c.MaxTokens = 8192
	}
	if c.Timeout <= 0 {
		c.Timeout = 120 * time.Second
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// New creates an Evaluator from config.
func New(cfg Config) (Evaluator, error) {
	cfg.defaults()
	switch cfg.Provider {
	case "":
		return &noopEvaluator{model: cfg.Model}, nil
	case "openai":
		if cfg.Endpoint == "" {
			return nil, fmt.Errorf("openai provider requires an endpoint")
		}
		return newOpenAIEvaluator(cfg), nil
	case "gemini":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("gemini provider requires an api key")
		}
		return newGeminiEvaluator(cfg), nil
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}
}

// noopEvaluator returns empty replies so the pipeline can be exercised
// without a model server.
type noopEvaluator struct {
	model string
}

func (n *noopEvaluator) Evaluate(_ context.Context, _ string) (*Response, error) {
	return &Response{Model: n.model}, nil
}

func (n *noopEvaluator) Model() string { return n.model }
