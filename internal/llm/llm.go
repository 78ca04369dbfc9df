package llm

import (
	"context"
	"errors"
	"strings"
	"time"
)

// Client abstracts generative-language providers. Generate sends one prompt and
// returns the provider response mapped onto the candidates/content/parts shape.
type Client interface {
	Generate(ctx context.Context, prompt string) (*Response, error)
}

// Response is a provider-neutral generation result.
type Response struct {
	Model      string
	Candidates []Candidate
}

// Candidate is one generated alternative.
type Candidate struct {
	Content      *Content
	FinishReason string
}

// Content holds the parts of a candidate.
type Content struct {
	Role  string
	Parts []Part
}

// Part is a single text fragment.
type Part struct {
	Text string
}

// Text joins the text parts of the first candidate with newlines. It returns ""
// when the response carries no usable text.
func (r *Response) Text() string {
	if r == nil || len(r.Candidates) == 0 {
		return ""
	}
	content := r.Candidates[0].Content
	if content == nil || len(content.Parts) == 0 {
		return ""
	}
	texts := make([]string, 0, len(content.Parts))
	for _, part := range content.Parts {
		if part.Text == "" {
			continue
		}
		texts = append(texts, part.Text)
	}
	return strings.Join(texts, "\n")
}

// TextResponse builds a single-candidate response, used by adapters and tests.
func TextResponse(model string, parts ...string) *Response {
	content := &Content{Role: "model"}
	for _, p := range parts {
		content.Parts = append(content.Parts, Part{Text: p})
	}
	return &Response{
		Model:      model,
		Candidates: []Candidate{{Content: content, FinishReason: "STOP"}},
	}
}

// ErrNotImplemented is returned by the placeholder client.
var ErrNotImplemented = errors.New("LLM not implemented")

// PlaceholderClient is used when no provider is configured.
type PlaceholderClient struct{}

// Generate returns ErrNotImplemented.
func (PlaceholderClient) Generate(ctx context.Context, prompt string) (*Response, error) {
	_ = ctx
	_ = prompt
	return nil, ErrNotImplemented
}

type timeoutClient struct {
	base    Client
	timeout time.Duration
}

// WithTimeout bounds every Generate call by d. A non-positive d returns base
// unchanged, leaving the call unbounded.
func WithTimeout(base Client, d time.Duration) Client {
	if base == nil || d <= 0 {
		return base
	}
	return timeoutClient{base: base, timeout: d}
}

func (c timeoutClient) Generate(ctx context.Context, prompt string) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	return c.base.Generate(ctx, prompt)
}
