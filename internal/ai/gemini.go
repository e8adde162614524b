package ai

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// GeminiDrafter generates drafts using Google's Gemini API.
type GeminiDrafter struct {
	client *genai.Client
	model  string
}

// NewGeminiDrafter creates a Gemini-backed drafter.
func NewGeminiDrafter(ctx context.Context, apiKey, model string) (*GeminiDrafter, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return &GeminiDrafter{client: client, model: model}, nil
}

func (d *GeminiDrafter) Draft(ctx context.Context, req DraftRequest) (string, error) {
	if err := validateRequest(req); err != nil {
		return "", err
	}

	contents := []*genai.Content{
		genai.NewContentFromText(BuildPrompt(req), genai.RoleUser),
	}

	result, err := d.client.Models.GenerateContent(ctx, d.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("gemini generate failed: %w", err)
	}

	text := result.Text()
	if text == "" {
		return "", fmt.Errorf("gemini returned no text")
	}
	return text, nil
}

func (d *GeminiDrafter) Name() string {
	return fmt.Sprintf("gemini:%s", d.model)
}
