package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	goopenai "github.com/sashabaranov/go-openai"

	"cv-review/internal/llm"
)

const defaultModel = "gpt-4o-mini"

type chatAPI interface {
	CreateChatCompletion(ctx context.Context, request goopenai.ChatCompletionRequest) (goopenai.ChatCompletionResponse, error)
}

// Client implements llm.Client using OpenAI-compatible Chat Completions.
type Client struct {
	api   chatAPI
	model string
}

// NewClient constructs a client. baseURL may point at any OpenAI-compatible endpoint.
func NewClient(apiKey, baseURL, model string) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required")
	}
	cfg := goopenai.DefaultConfig(strings.TrimSpace(apiKey))
	if trimmed := strings.TrimSpace(baseURL); trimmed != "" {
		cfg.BaseURL = trimmed
	}
	if strings.TrimSpace(model) == "" {
		model = defaultModel
	}
	return &Client{
		api:   goopenai.NewClientWithConfig(cfg),
		model: strings.TrimSpace(model),
	}, nil
}

// Generate sends the prompt as a single user message.
func (c *Client) Generate(ctx context.Context, prompt string) (*llm.Response, error) {
	req := goopenai.ChatCompletionRequest{
		Model: c.model,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleUser, Content: prompt},
		},
	}
	if !isReasoningModel(c.model) {
		req.Temperature = 0.2
	}

	resp, err := c.api.CreateChatCompletion(ctx, req)
	if err != nil {
		var apiErr *goopenai.APIError
		if errors.As(err, &apiErr) {
			return nil, fmt.Errorf("openai http status %d: %s: %w", apiErr.HTTPStatusCode, apiErr.Message, err)
		}
		return nil, fmt.Errorf("openai chat completion model=%s: %w", c.model, err)
	}

	out := &llm.Response{Model: resp.Model}
	if out.Model == "" {
		out.Model = c.model
	}
	for _, choice := range resp.Choices {
		out.Candidates = append(out.Candidates, llm.Candidate{
			FinishReason: string(choice.FinishReason),
			Content: &llm.Content{
				Role:  choice.Message.Role,
				Parts: []llm.Part{{Text: choice.Message.Content}},
			},
		})
	}
	return out, nil
}

// isReasoningModel reports models that reject a custom temperature.
func isReasoningModel(model string) bool {
	m := strings.ToLower(strings.TrimSpace(model))
	return strings.HasPrefix(m, "gpt-5") || strings.HasPrefix(m, "o1") || strings.HasPrefix(m, "o3") || strings.HasPrefix(m, "o4")
}

var _ llm.Client = (*Client)(nil)
