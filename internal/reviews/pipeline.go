package reviews

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cv-review/internal/cache"
	"cv-review/internal/extract"
	"cv-review/internal/llm"
	"cv-review/internal/prompt"
	"cv-review/internal/render"
	"cv-review/internal/review"
	"cv-review/internal/shared/metrics"
	"cv-review/internal/shared/telemetry"
)

// Extractor turns an uploaded document into page-ordered text.
type Extractor interface {
	Extract(ctx context.Context, data []byte) (extract.Text, error)
}

// Pipeline runs extraction, prompting, analysis, parsing and rendering for one
// file on the calling goroutine.
type Pipeline struct {
	Extractor Extractor
	LLM       llm.Client
	// Cache is optional; a nil cache always misses.
	Cache cache.ResponseCache
}

// Outcome is the result of one run. Kind and Err are set only when State is
// StateError.
type Outcome struct {
	State      State
	Text       extract.Text
	PromptHash string
	Model      string
	Response   string
	CacheHit   bool
	Sections   *review.Sections
	View       render.View
	Kind       ErrorKind
	Err        error
}

// run tracks the lifecycle of a single review.
type run struct {
	reviewID string
	state    State
}

// advance moves the run to next. A transition the lifecycle does not allow is
// logged and leaves the state unchanged.
func (r *run) advance(next State) {
	if !r.state.CanTransition(next) {
		telemetry.Error("review.invalid_transition", map[string]any{
			"review_id": r.reviewID,
			"error":     TransitionError{From: r.state, To: next}.Error(),
		})
		return
	}
	telemetry.Info("review.status", map[string]any{
		"review_id":         r.reviewID,
		"status_transition": fmt.Sprintf("%s->%s", r.state, next),
	})
	r.state = next
}

// Run processes data for the review identified by reviewID. The review must already
// be in StateFileSelected.
func (p *Pipeline) Run(ctx context.Context, reviewID string, data []byte) Outcome {
	r := &run{reviewID: reviewID, state: StateFileSelected}
	out := Outcome{}

	fail := func(kind ErrorKind, err error) Outcome {
		r.advance(StateError)
		telemetry.Error("review.failed", map[string]any{
			"review_id": reviewID,
			"kind":      string(kind),
			"error":     err.Error(),
		})
		out.State = r.state
		out.Kind = kind
		out.Err = err
		out.View = render.ErrorView(kind.Message())
		return out
	}

	r.advance(StateExtracting)
	text, err := p.Extractor.Extract(ctx, data)
	if err != nil {
		kind := KindExtraction
		if errors.Is(err, extract.ErrNotPDF) {
			kind = KindNotPDF
		}
		return fail(kind, fmt.Errorf("extract: %w", err))
	}
	out.Text = text

	r.advance(StatePrompting)
	built := prompt.Build(text.Content)
	out.PromptHash = prompt.Hash(built)

	r.advance(StateAwaitingAnalysis)
	response, model, hit, err := p.analyze(ctx, reviewID, built, out.PromptHash)
	if err != nil {
		return fail(KindAnalysis, fmt.Errorf("analyze: %w", err))
	}
	out.Model = model
	out.CacheHit = hit
	if strings.TrimSpace(response) == "" {
		return fail(KindInvalidResponse, ErrEmptyResponse)
	}
	out.Response = response

	sections := review.Parse(&response)
	out.Sections = &sections
	out.View = render.Build(out.Sections)
	r.advance(StateRendered)
	out.State = r.state
	return out
}

func (p *Pipeline) analyze(ctx context.Context, reviewID, built, hash string) (text, model string, hit bool, err error) {
	if p.Cache != nil {
		cached, ok, cerr := p.Cache.Get(ctx, hash)
		if cerr != nil {
			telemetry.Error("review.cache_get_failed", map[string]any{"review_id": reviewID, "error": cerr.Error()})
		} else if ok && strings.TrimSpace(cached) != "" {
			metrics.IncCacheHit()
			return cached, "", true, nil
		}
	}

	if p.LLM == nil {
		return "", "", false, llm.ErrNotImplemented
	}
	resp, err := p.LLM.Generate(ctx, built)
	if err != nil {
		return "", "", false, err
	}
	text = resp.Text()
	if resp != nil {
		model = resp.Model
	}

	if p.Cache != nil && strings.TrimSpace(text) != "" {
		if serr := p.Cache.Set(ctx, hash, text); serr != nil {
			telemetry.Error("review.cache_set_failed", map[string]any{"review_id": reviewID, "error": serr.Error()})
		}
	}
	return text, model, false, nil
}
