package reviews

import (
	"context"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"cv-review/internal/extract"
	"cv-review/internal/shared/metrics"
	"cv-review/internal/shared/storage/object"
	"cv-review/internal/shared/telemetry"
)

// Upload is one submitted file.
type Upload struct {
	FileName    string
	ContentType string
	Data        []byte
}

// Service runs the review pipeline and records its outcome.
type Service struct {
	Repo     Repo
	Store    object.ObjectStore
	Pipeline *Pipeline
	Provider string
	Now      func() time.Time
}

// Submit accepts a PDF, runs the pipeline synchronously and returns the stored
// review. The upload must be offered as a PDF by name or media type and sniff as
// one by content; otherwise ErrNotPDF is returned. A pipeline failure is not an error: the review comes back in StateError
// with its kind and notice set.
func (s *Service) Submit(ctx context.Context, up Upload) (Review, error) {
	if strings.TrimSpace(up.FileName) == "" || len(up.Data) == 0 {
		return Review{}, ErrFileRequired
	}
	if !AcceptsUpload(up.FileName, up.ContentType) || !extract.IsPDF(up.Data) {
		metrics.IncReviewFailed(string(KindNotPDF))
		telemetry.Info("review.rejected", map[string]any{
			"file_name":    up.FileName,
			"content_type": up.ContentType,
			"kind":         string(KindNotPDF),
		})
		return Review{}, ErrNotPDF
	}

	now := s.now()
	rev := Review{
		ID:        uuid.NewString(),
		FileName:  up.FileName,
		SizeBytes: int64(len(up.Data)),
		State:     StateIdle,
		Provider:  s.Provider,
		CreatedAt: now,
	}
	telemetry.Info("review.status", map[string]any{
		"review_id":         rev.ID,
		"status_transition": string(StateIdle) + "->" + string(StateFileSelected),
	})
	rev.State = StateFileSelected
	metrics.IncReviewStarted()

	if s.Store != nil {
		key, err := object.UploadKey(rev.ID, up.FileName, now)
		if err == nil {
			err = s.Store.Put(ctx, key, "application/pdf", up.Data)
		}
		if err != nil {
			telemetry.Error("review.store_failed", map[string]any{"review_id": rev.ID, "error": err.Error()})
		} else {
			rev.StorageKey = key
		}
	}

	if err := s.Repo.Create(ctx, rev); err != nil {
		return Review{}, err
	}

	out := s.Pipeline.Run(ctx, rev.ID, up.Data)
	completed := s.now()
	rev.State = out.State
	rev.PageCount = out.Text.Pages
	rev.PromptHash = out.PromptHash
	rev.Model = out.Model
	rev.ResponseText = out.Response
	rev.CacheHit = out.CacheHit
	rev.Sections = out.Sections
	rev.CompletedAt = &completed
	if out.State == StateError {
		rev.ErrorKind = out.Kind
		rev.ErrorMessage = out.Kind.Message()
		metrics.IncReviewFailed(string(out.Kind))
	} else {
		metrics.IncReviewRendered()
	}
	metrics.ObserveReviewDurationMs(float64(completed.Sub(now).Microseconds()) / 1000.0)

	if err := s.Repo.Update(ctx, rev); err != nil {
		return rev, err
	}
	return rev, nil
}

// Get returns a stored review.
func (s *Service) Get(ctx context.Context, id string) (Review, error) {
	if strings.TrimSpace(id) == "" {
		return Review{}, ErrNotFound
	}
	return s.Repo.GetByID(ctx, id)
}

// OpenUpload returns the stored review together with a reader over its original
// file. The caller closes the reader.
func (s *Service) OpenUpload(ctx context.Context, id string) (Review, io.ReadCloser, error) {
	rev, err := s.Get(ctx, id)
	if err != nil {
		return Review{}, nil, err
	}
	if s.Store == nil || rev.StorageKey == "" {
		return rev, nil, ErrNoUpload
	}
	rc, err := s.Store.Open(ctx, rev.StorageKey)
	if err != nil {
		return rev, nil, fmt.Errorf("open upload %s: %w", rev.StorageKey, err)
	}
	return rev, rc, nil
}

// List returns stored reviews newest first.
func (s *Service) List(ctx context.Context, limit, offset int) ([]Review, error) {
	return s.Repo.List(ctx, limit, offset)
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// AcceptsUpload reports whether a file is offered as a PDF, by extension or by
// declared media type.
func AcceptsUpload(fileName, contentType string) bool {
	if strings.EqualFold(filepath.Ext(fileName), ".pdf") {
		return true
	}
	if contentType == "" {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "application/pdf"
}
