package research

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// Generator produces a research analysis document for a company URL.
type Generator interface {
	Generate(ctx context.Context, companyURL string) (string, error)
}

// OpenAIGenerator builds the three-part analysis with the OpenAI Chat
// Completions API.
type OpenAIGenerator struct {
	client *openai.Client
	model  string
}

// NewOpenAIGenerator creates a generator using the given API key and model.
func NewOpenAIGenerator(apiKey, model string) *OpenAIGenerator {
	return &OpenAIGenerator{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

const analysisSystemPrompt = `You are a business strategy analyst. Given a company website URL, produce a written pre-interview research analysis with exactly this structure:

PART 1: Strategic Foundation
PART 2: Strategy & Positioning
PART 3: Execution & Operations

Within each part, write blocks formatted as **Artifact N: Title** followed by a short paragraph, numbering artifacts 1 through 23 continuously across the parts. Cover mission, vision, products, business model, values, market sizing (TAM, SAM, SOM and market research sources), target customers, competitors, industry trends, value proposition, differentiation, pain points, positioning, brand, growth channels, partnerships, expansion, sales, marketing, team, operations, revenue, funding, risks and metrics. Where public information is thin, say so plainly rather than inventing specifics.`

func (g *OpenAIGenerator) Generate(ctx context.Context, companyURL string) (string, error) {
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: analysisSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: fmt.Sprintf("Company website: %s", companyURL)},
		},
		MaxTokens:   4096,
		Temperature: 0.3,
	})
	if err != nil {
		return "", fmt.Errorf("generating analysis: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("generating analysis: empty response")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
