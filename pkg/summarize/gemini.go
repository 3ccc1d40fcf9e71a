package summarize

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"

	"github.com/avolkov/minutedigest/models"
)

// Generator produces model output for a single prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Gemini is a Generator backed by the Gemini API.
type Gemini struct {
	client      *genai.Client
	model       string
	temperature float32
	maxTokens   int32
}

// NewGemini builds a Gemini generator from the resolved configuration. A
// missing API key is a configuration error, not a per-document failure.
func NewGemini(ctx context.Context, cfg models.GeminiConfig) (*Gemini, error) {
	key := cfg.ResolveAPIKey()
	if key == "" {
		return nil, errors.New("gemini: no API key configured and GOOGLE_API_KEY is unset")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  key,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}
	return &Gemini{
		client:      client,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxOutputTokens,
	}, nil
}

func (g *Gemini) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model,
		[]*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)},
		&genai.GenerateContentConfig{
			Temperature:     genai.Ptr(g.temperature),
			MaxOutputTokens: g.maxTokens,
		})
	if err != nil {
		return "", fmt.Errorf("gemini: generate: %w", err)
	}
	text := resp.Text()
	if text == "" {
		return "", errors.New("gemini: model returned an empty response")
	}
	return text, nil
}
