// internal/extract/gemini.go
package extract

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// GeminiExtractor backs every capability with a single-shot Gemini
// completion. One model, one attempt per call, no conversation state.
type GeminiExtractor struct {
	client *genai.Client
	model  string
}

// NewGeminiExtractor creates an extractor bound to the given model.
func NewGeminiExtractor(ctx context.Context, apiKey, model string) (*GeminiExtractor, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if model == "" {
		model = "gemini-2.5-pro"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &GeminiExtractor{client: client, model: model}, nil
}

// Transform runs one completion under the capability's fixed instruction.
func (g *GeminiExtractor) Transform(ctx context.Context, cap Capability, input string) (string, error) {
	instr, err := Instruction(cap)
	if err != nil {
		return "", err
	}

	contents := []*genai.Content{
		genai.NewContentFromText(input, genai.RoleUser),
	}

	// Low temperature: extraction wants consistency, not creativity.
	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(instr, genai.RoleUser),
		Temperature:       genai.Ptr[float32](0.1),
	})
	if err != nil {
		return "", fmt.Errorf("gemini completion failed: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("gemini returned an empty completion")
	}
	return text, nil
}
