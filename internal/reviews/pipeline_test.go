package reviews

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"cv-review/internal/extract"
	"cv-review/internal/llm"
	"cv-review/internal/prompt"
	"cv-review/internal/render"
	"cv-review/internal/review"
)

func TestPipelineRendersScenarioA(t *testing.T) {
	client := &fakeLLM{resp: llm.TextResponse("gemini-2.0-flash", scenarioA)}
	p := &Pipeline{Extractor: fakeExtractor{text: cvText()}, LLM: client}

	out := p.Run(context.Background(), "rev-1", []byte("%PDF"))
	if out.State != StateRendered {
		t.Fatalf("state = %s, err = %v", out.State, out.Err)
	}
	if out.Err != nil || out.Kind != KindNone {
		t.Fatalf("unexpected failure: %v %s", out.Err, out.Kind)
	}
	if out.Model != "gemini-2.0-flash" || out.Text.Pages != 2 {
		t.Fatalf("outcome = %+v", out)
	}
	if want := prompt.Build("Jane Doe\nEngineer\n"); client.prompts[0] != want {
		t.Fatalf("prompt mismatch:\n%s", client.prompts[0])
	}
	if out.PromptHash != prompt.Hash(client.prompts[0]) {
		t.Fatalf("prompt hash mismatch")
	}
	if out.View.IsError() || len(out.View.Panels) != 4 {
		t.Fatalf("view = %+v", out.View)
	}
	if got := out.View.Panels[1].Items; !reflect.DeepEqual(got, []string{"Clear writing"}) {
		t.Fatalf("strengths = %v", got)
	}
}

func TestPipelineScenarioBUsesPlaceholders(t *testing.T) {
	client := &fakeLLM{resp: llm.TextResponse("m", prompt.NotCVReply)}
	p := &Pipeline{Extractor: fakeExtractor{text: cvText()}, LLM: client}

	out := p.Run(context.Background(), "rev-b", []byte("%PDF"))
	if out.State != StateRendered {
		t.Fatalf("state = %s", out.State)
	}
	if *out.Sections != review.Placeholders() {
		t.Fatalf("sections = %+v", *out.Sections)
	}
}

func TestPipelineScenarioCAnalysisFailure(t *testing.T) {
	client := &fakeLLM{err: errNetwork}
	p := &Pipeline{Extractor: fakeExtractor{text: cvText()}, LLM: client}

	out := p.Run(context.Background(), "rev-c", []byte("%PDF"))
	if out.State != StateError || out.Kind != KindAnalysis {
		t.Fatalf("state = %s kind = %s", out.State, out.Kind)
	}
	if !errors.Is(out.Err, errNetwork) {
		t.Fatalf("err = %v, want wrapped network error", out.Err)
	}
	if out.Sections != nil {
		t.Fatalf("sections should not be built on failure")
	}
	if out.View.Error != "Error: Failed to analyze CV. Please try again." || len(out.View.Panels) != 0 {
		t.Fatalf("view = %+v", out.View)
	}
	html, err := render.HTML(out.View)
	if err != nil {
		t.Fatalf("HTML: %v", err)
	}
	if strings.Contains(html, "<script") {
		t.Fatalf("error fragment carries toggle script")
	}
}

func TestPipelineExtractionFailureSkipsAnalysis(t *testing.T) {
	client := &fakeLLM{resp: llm.TextResponse("m", scenarioA)}
	p := &Pipeline{Extractor: fakeExtractor{err: extract.ErrDecode}, LLM: client}

	out := p.Run(context.Background(), "rev-x", []byte("garbage"))
	if out.State != StateError || out.Kind != KindExtraction {
		t.Fatalf("state = %s kind = %s", out.State, out.Kind)
	}
	if !errors.Is(out.Err, extract.ErrDecode) {
		t.Fatalf("err = %v", out.Err)
	}
	if client.calls != 0 {
		t.Fatalf("analysis should not run after extraction failure, calls = %d", client.calls)
	}
	if out.View.Error != KindExtraction.Message() {
		t.Fatalf("view error = %q", out.View.Error)
	}
}

func TestPipelineEmptyResponseIsInvalid(t *testing.T) {
	cases := map[string]*llm.Response{
		"nil response":  nil,
		"no candidates": {Model: "m"},
		"blank text":    llm.TextResponse("m", "  \n "),
	}
	for name, resp := range cases {
		t.Run(name, func(t *testing.T) {
			p := &Pipeline{Extractor: fakeExtractor{text: cvText()}, LLM: &fakeLLM{resp: resp}}
			out := p.Run(context.Background(), "rev", []byte("%PDF"))
			if out.State != StateError || out.Kind != KindInvalidResponse {
				t.Fatalf("state = %s kind = %s", out.State, out.Kind)
			}
			if !errors.Is(out.Err, ErrEmptyResponse) {
				t.Fatalf("err = %v", out.Err)
			}
			if out.View.Error != "Error: Invalid response from API" {
				t.Fatalf("view error = %q", out.View.Error)
			}
		})
	}
}

func TestPipelineCacheHitSkipsAnalysis(t *testing.T) {
	c := newMapCache()
	client := &fakeLLM{resp: llm.TextResponse("m", scenarioA)}
	p := &Pipeline{Extractor: fakeExtractor{text: cvText()}, LLM: client, Cache: c}

	first := p.Run(context.Background(), "rev-1", []byte("%PDF"))
	if first.State != StateRendered || first.CacheHit {
		t.Fatalf("first run = %s hit=%v", first.State, first.CacheHit)
	}
	if c.data[first.PromptHash] != scenarioA {
		t.Fatalf("response not cached under prompt hash")
	}

	second := p.Run(context.Background(), "rev-2", []byte("%PDF"))
	if second.State != StateRendered || !second.CacheHit {
		t.Fatalf("second run = %s hit=%v", second.State, second.CacheHit)
	}
	if client.calls != 1 {
		t.Fatalf("expected one analysis call, got %d", client.calls)
	}
	if *second.Sections != *first.Sections {
		t.Fatalf("cached sections differ")
	}
}

func TestPipelineCacheErrorFallsThrough(t *testing.T) {
	c := newMapCache()
	c.getErr = errors.New("redis down")
	client := &fakeLLM{resp: llm.TextResponse("m", scenarioA)}
	p := &Pipeline{Extractor: fakeExtractor{text: cvText()}, LLM: client, Cache: c}

	out := p.Run(context.Background(), "rev", []byte("%PDF"))
	if out.State != StateRendered || client.calls != 1 {
		t.Fatalf("state = %s calls = %d", out.State, client.calls)
	}
}

func TestPipelineWithoutClient(t *testing.T) {
	p := &Pipeline{Extractor: fakeExtractor{text: cvText()}}
	out := p.Run(context.Background(), "rev", []byte("%PDF"))
	if out.Kind != KindAnalysis || !errors.Is(out.Err, llm.ErrNotImplemented) {
		t.Fatalf("kind = %s err = %v", out.Kind, out.Err)
	}
}

func TestPipelineNonPDFContentIsRejected(t *testing.T) {
	client := &fakeLLM{resp: llm.TextResponse("m", scenarioA)}
	p := &Pipeline{Extractor: extract.PDFExtractor{}, LLM: client}

	out := p.Run(context.Background(), "rev", []byte("plain text renamed to cv.pdf"))
	if out.State != StateError || out.Kind != KindNotPDF {
		t.Fatalf("state = %s kind = %s", out.State, out.Kind)
	}
	if !errors.Is(out.Err, extract.ErrNotPDF) {
		t.Fatalf("err = %v", out.Err)
	}
	if out.View.Error != "Please drop a PDF file" {
		t.Fatalf("view = %+v", out.View)
	}
	if client.calls != 0 {
		t.Fatalf("analysis ran for rejected content")
	}
}
