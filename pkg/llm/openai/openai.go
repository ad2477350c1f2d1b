package openai

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/barekit/orbitai/pkg/llm"
)

const (
	// GroqBaseURL is Groq's OpenAI-compatible endpoint.
	GroqBaseURL = "https://api.groq.com/openai/v1"
	// GroqModel is the default model when talking to Groq.
	GroqModel = "moonshotai/kimi-k2-instruct-0905"

	DefaultTemperature = 0.7
	DefaultMaxTokens   = 800
)

type Provider struct {
	client      *openai.Client
	model       string
	temperature float64
	maxTokens   int64
}

func New(opts ...option.RequestOption) *Provider {
	client := openai.NewClient(opts...)
	return &Provider{
		client:      &client,
		model:       openai.ChatModelGPT4o, // Default to GPT-4o
		temperature: DefaultTemperature,
		maxTokens:   DefaultMaxTokens,
	}
}

// NewGroq returns a provider pointed at Groq. An empty baseURL uses GroqBaseURL.
func NewGroq(apiKey, baseURL, model string) *Provider {
	if baseURL == "" {
		baseURL = GroqBaseURL
	}
	p := New(option.WithAPIKey(apiKey), option.WithBaseURL(baseURL))
	p.model = GroqModel
	if model != "" {
		p.model = model
	}
	return p
}

// SetModel sets the model to use.
func (p *Provider) SetModel(model string) {
	p.model = model
}

// SetSampling sets temperature and the reply token cap.
func (p *Provider) SetSampling(temperature float64, maxTokens int64) {
	p.temperature = temperature
	p.maxTokens = maxTokens
}

// Model returns the model in use.
func (p *Provider) Model() string { return p.model }

func (p *Provider) Chat(ctx context.Context, messages []llm.Message) (*llm.Message, error) {
	openaiMessages, err := buildMessages(messages)
	if err != nil {
		return nil, err
	}

	params := openai.ChatCompletionNewParams{
		Messages:    openaiMessages,
		Model:       p.model,
		Temperature: openai.Float(p.temperature),
		MaxTokens:   openai.Int(p.maxTokens),
	}

	completion, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat completion: %w", err)
	}
	if len(completion.Choices) == 0 {
		return nil, llm.ErrEmptyResponse
	}

	return &llm.Message{
		Role:    llm.RoleAssistant,
		Content: completion.Choices[0].Message.Content,
	}, nil
}

func buildMessages(messages []llm.Message) ([]openai.ChatCompletionMessageParamUnion, error) {
	openaiMessages := make([]openai.ChatCompletionMessageParamUnion, len(messages))
	for i, msg := range messages {
		switch msg.Role {
		case llm.RoleSystem:
			openaiMessages[i] = openai.SystemMessage(msg.Content)
		case llm.RoleUser:
			openaiMessages[i] = openai.UserMessage(msg.Content)
		case llm.RoleAssistant:
			openaiMessages[i] = openai.AssistantMessage(msg.Content)
		default:
			return nil, fmt.Errorf("unknown role: %s", msg.Role)
		}
	}
	return openaiMessages, nil
}
