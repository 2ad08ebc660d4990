package compose

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"
)

const (
	DefaultModel  = "gemini-2.5-flash"
	geminiTimeout = 2 * time.Minute
)

// Gemini composes posts with Google's Gemini API.
type Gemini struct {
	apiKey string
	model  string
}

// NewGemini returns nil when apiKey is empty.
func NewGemini(apiKey, model string) *Gemini {
	if strings.TrimSpace(apiKey) == "" {
		return nil
	}
	if model == "" {
		model = DefaultModel
	}
	return &Gemini{apiKey: apiKey, model: model}
}

func (g *Gemini) Model() string { return g.model }

func (g *Gemini) Compose(ctx context.Context, r Research) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, geminiTimeout)
	defer cancel()

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  g.apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return "", fmt.Errorf("gemini client: %w", err)
	}
	resp, err := client.Models.GenerateContent(ctx, g.model, genai.Text(Prompt(r)), nil)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", errors.New("gemini returned an empty post")
	}
	return text, nil
}
