package reviews

import (
	"context"
	"errors"
	"sync"

	"cv-review/internal/extract"
	"cv-review/internal/llm"
)

const scenarioA = "Overall Rating (out of 10): 8\nStrengths:\nClear writing\nWeaknesses:\nToo short\nSuggestions:\nAdd metrics"

type fakeExtractor struct {
	text extract.Text
	err  error
}

func (f fakeExtractor) Extract(ctx context.Context, data []byte) (extract.Text, error) {
	if f.err != nil {
		return extract.Text{}, f.err
	}
	return f.text, nil
}

type fakeLLM struct {
	mu      sync.Mutex
	resp    *llm.Response
	err     error
	calls   int
	prompts []string
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string) (*llm.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

type mapCache struct {
	mu     sync.Mutex
	data   map[string]string
	getErr error
}

func newMapCache() *mapCache { return &mapCache{data: map[string]string{}} }

func (c *mapCache) Get(ctx context.Context, key string) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return "", false, c.getErr
	}
	v, ok := c.data[key]
	return v, ok, nil
}

func (c *mapCache) Set(ctx context.Context, key, response string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = response
	return nil
}

func (c *mapCache) Close() error { return nil }

var errNetwork = errors.New("dial tcp: connection refused")

func cvText() extract.Text {
	return extract.Text{Content: "Jane Doe\nEngineer\n", Pages: 2}
}
