// Package gemini is a Provider backed by Google's Gemini API.
package gemini

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/barekit/orbitai/pkg/llm"
)

const (
	DefaultModel       = "gemini-2.0-flash-exp"
	DefaultTemperature = 0.7
	DefaultMaxTokens   = 1000
)

type Provider struct {
	client      *genai.Client
	model       string
	temperature float32
	maxTokens   int32
}

// New creates a Gemini provider. An empty model uses DefaultModel.
func New(ctx context.Context, apiKey, model string) (*Provider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if model == "" {
		model = DefaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &Provider{
		client:      client,
		model:       model,
		temperature: DefaultTemperature,
		maxTokens:   DefaultMaxTokens,
	}, nil
}

// Model returns the model in use.
func (p *Provider) Model() string { return p.model }

// Chat sends the conversation as a single flattened prompt.
func (p *Provider) Chat(ctx context.Context, messages []llm.Message) (*llm.Message, error) {
	contents := genai.Text(Flatten(messages))

	resp, err := p.client.Models.GenerateContent(ctx, p.model, contents, &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(p.temperature),
		MaxOutputTokens: p.maxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("GenAI generate failed: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return nil, llm.ErrEmptyResponse
	}
	return &llm.Message{Role: llm.RoleAssistant, Content: text}, nil
}

// Flatten renders messages as one role-tagged transcript ending with an open assistant turn.
func Flatten(messages []llm.Message) string {
	parts := make([]string, 0, len(messages)+1)
	for _, m := range messages {
		var tag string
		switch m.Role {
		case llm.RoleSystem:
			tag = "[System]"
		case llm.RoleAssistant:
			tag = "[Assistant]"
		default:
			tag = "[User]"
		}
		parts = append(parts, tag+": "+m.Content)
	}
	parts = append(parts, "[Assistant]:")
	return strings.Join(parts, "\n\n")
}
