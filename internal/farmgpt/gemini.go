package farmgpt

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// Generator produces an answer to a question given a system prompt and the
// user's recent conversation history.
type Generator interface {
	Generate(ctx context.Context, systemPrompt, question string, history []Exchange) (string, error)
}

// GeminiGenerator answers questions through Google's Gemini API.
type GeminiGenerator struct {
	client      *genai.Client
	model       string
	temperature float32
}

// NewGeminiGenerator constructs a generator against the Gemini API.
func NewGeminiGenerator(ctx context.Context, apiKey, model string) (*GeminiGenerator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("farmgpt: API key is required")
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("farmgpt: create client: %w", err)
	}
	return &GeminiGenerator{client: client, model: model, temperature: 0.4}, nil
}

// Generate sends the history and question as a chat turn sequence.
func (g *GeminiGenerator) Generate(ctx context.Context, systemPrompt, question string, history []Exchange) (string, error) {
	var contents []*genai.Content
	for _, ex := range history {
		contents = append(contents,
			genai.NewContentFromText(ex.Question, genai.RoleUser),
			genai.NewContentFromText(ex.Answer, genai.RoleModel),
		)
	}
	contents = append(contents, genai.NewContentFromText(question, genai.RoleUser))

	result, err := g.client.Models.GenerateContent(ctx, g.model, contents, &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
		Temperature:       genai.Ptr(g.temperature),
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(result.Text()), nil
}

var _ Generator = (*GeminiGenerator)(nil)
