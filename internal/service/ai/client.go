// Package ai adapts the remote generation service. Each call is stateless:
// only the composed prompt for the current submission is sent, never prior
// turns. The persisted transcript is deliberately not model input.
package ai

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"

	"github.com/ErikSvetich/treeline-assistant/internal/config"
)

// GenerationError wraps any transport, auth, or remote-side failure from the
// generation service. Callers render it in place of assistant content and do
// not retry.
type GenerationError struct {
	Err error
}

func (e *GenerationError) Error() string {
	return "ai: generation failed: " + e.Err.Error()
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// ComposePrompt builds the single text payload sent to the model. The labeled
// System/User blocks, and their order, are part of the request contract.
func ComposePrompt(systemPrompt, userText string) string {
	return fmt.Sprintf("System: %s\n\nUser: %s", systemPrompt, userText)
}

// Client is a stateless adapter over the Gemini API.
type Client struct {
	client      *genai.Client
	model       string
	temperature *float32
	maxTokens   int32
}

// NewClient creates a Gemini client from the AI configuration.
func NewClient(ctx context.Context, cfg config.AIConfig) (*Client, error) {
	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("ai: create client: %w", err)
	}

	var temperature *float32
	if cfg.Temperature != nil {
		val := float32(*cfg.Temperature)
		temperature = &val
	}

	var maxTokens int32
	if cfg.MaxTokens != nil {
		maxTokens = int32(*cfg.MaxTokens)
	}

	return &Client{
		client:      gc,
		model:       cfg.Model,
		temperature: temperature,
		maxTokens:   maxTokens,
	}, nil
}

// Generate sends one composed prompt and returns the generated text. No
// history, no retry; any failure surfaces as a *GenerationError.
func (c *Client) Generate(ctx context.Context, systemPrompt, userText string) (string, error) {
	res, err := c.client.Models.GenerateContent(
		ctx,
		c.model,
		genai.Text(ComposePrompt(systemPrompt, userText)),
		c.generateConfig(),
	)
	if err != nil {
		return "", &GenerationError{Err: err}
	}

	// Safety-filtered requests come back with no candidates rather than an error.
	if len(res.Candidates) == 0 || res.Candidates[0].Content == nil || len(res.Candidates[0].Content.Parts) == 0 {
		return "", &GenerationError{Err: errors.New("empty response from model")}
	}

	text := ""
	for _, part := range res.Candidates[0].Content.Parts {
		text += part.Text
	}
	if text == "" {
		return "", &GenerationError{Err: errors.New("response contained no text")}
	}
	return text, nil
}

func (c *Client) generateConfig() *genai.GenerateContentConfig {
	if c.temperature == nil && c.maxTokens == 0 {
		return nil
	}

	cfg := &genai.GenerateContentConfig{Temperature: c.temperature}
	if c.maxTokens > 0 {
		cfg.MaxOutputTokens = c.maxTokens
	}
	return cfg
}
