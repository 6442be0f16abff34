package grok

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"edu-rag-be/pkg/llm"
)

const (
	defaultBaseURL = "https://api.x.ai/v1"
	defaultModel   = "grok-4-fast-reasoning"
)

// GrokProvider talks to the xAI API, which is OpenAI-compatible, through the
// go-openai client.
type GrokProvider struct {
	client *openai.Client
	model  string
}

var _ llm.LLMProvider = &GrokProvider{}

func NewGrokProvider(apiKey, baseURL, model string) *GrokProvider {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if model == "" {
		model = defaultModel
	}

	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = baseURL

	return &GrokProvider{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

func (p *GrokProvider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	options := &llm.Options{
		Temperature: 0.7,
	}
	for _, opt := range opts {
		opt(options)
	}

	messages := make([]openai.ChatCompletionMessage, len(history))
	for i, msg := range history {
		role := msg.Role
		if role == "model" {
			role = "assistant"
		}
		messages[i] = openai.ChatCompletionMessage{
			Role:    role,
			Content: msg.Content,
		}
	}

	model := p.model
	if options.Model != "" {
		model = options.Model
	}

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       model,
		Messages:    messages,
		Temperature: float32(options.Temperature),
		MaxTokens:   options.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("grok request failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty choices from grok api")
	}

	return resp.Choices[0].Message.Content, nil
}

func (p *GrokProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return p.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, opts...)
}
