package gemini

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"cv-review/internal/llm"
)

const defaultModel = "gemini-2.0-flash"

type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Client implements llm.Client using the Gemini API.
type Client struct {
	models generator
	model  string
}

// NewClient constructs a Gemini client. An empty model selects gemini-2.0-flash.
func NewClient(ctx context.Context, apiKey, model string) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required")
	}
	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return newWithGenerator(gc.Models, model), nil
}

func newWithGenerator(g generator, model string) *Client {
	if strings.TrimSpace(model) == "" {
		model = defaultModel
	}
	return &Client{models: g, model: strings.TrimSpace(model)}
}

// Generate sends the prompt as a single user turn.
func (c *Client) Generate(ctx context.Context, prompt string) (*llm.Response, error) {
	resp, err := c.models.GenerateContent(ctx, c.model, genai.Text(prompt), nil)
	if err != nil {
		return nil, fmt.Errorf("gemini generate model=%s: %w", c.model, err)
	}
	return toResponse(c.model, resp), nil
}

func toResponse(model string, resp *genai.GenerateContentResponse) *llm.Response {
	out := &llm.Response{Model: model}
	if resp == nil {
		return out
	}
	if resp.ModelVersion != "" {
		out.Model = resp.ModelVersion
	}
	for _, cand := range resp.Candidates {
		if cand == nil {
			continue
		}
		mapped := llm.Candidate{FinishReason: string(cand.FinishReason)}
		if cand.Content != nil {
			content := &llm.Content{Role: cand.Content.Role}
			for _, part := range cand.Content.Parts {
				if part == nil || part.Thought {
					continue
				}
				content.Parts = append(content.Parts, llm.Part{Text: part.Text})
			}
			mapped.Content = content
		}
		out.Candidates = append(out.Candidates, mapped)
	}
	return out
}

var _ llm.Client = (*Client)(nil)
